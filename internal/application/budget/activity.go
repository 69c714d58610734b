package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/budget"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
)

// SyncActivity recalcula la actividad de una categoría común en un mes a
// partir de los agregados de transacciones y propaga el cambio de disponible
// a los meses futuros. Los colaboradores la invocan cuando las transacciones
// del mes cambiaron.
//
// Las categorías de pago de tarjeta no se sincronizan por aquí: su actividad
// la produce el financiamiento de pagos, no sus transacciones directas.
func (uc *LedgerUseCase) SyncActivity(ctx context.Context, categoryID string, month entity.Month) error {
	category, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("resolver categoría: %w", err)
	}
	if category == nil {
		return fmt.Errorf("categoría %s: %w", categoryID, domain.ErrNotFound)
	}
	if category.IsPaymentCategory() {
		return fmt.Errorf("categoría de pago %s: %w", categoryID, domain.ErrInvalidInput)
	}

	err = uc.txRunner.RunSerialized(ctx, categoryID, func(
		rows repository.BudgetRowRepository,
		sums repository.TransactionSumsRepository,
	) error {
		sum, err := sums.CategoryMonthActivity(ctx, categoryID, month)
		if err != nil {
			return fmt.Errorf("sumar transacciones: %w", err)
		}
		activity := sum.Net()

		existing, err := rows.GetRow(ctx, categoryID, month)
		if err != nil {
			return err
		}
		prev, err := rows.GetLatestRowBefore(ctx, categoryID, month)
		if err != nil {
			return err
		}
		carryforward := budget.Carryforward(prev, false)
		now := time.Now()

		if existing == nil {
			if activity.IsZero() {
				return nil
			}
			row := &entity.BudgetRow{
				CategoryID: categoryID,
				Month:      month,
				Assigned:   money.Zero(),
				Activity:   activity,
				Available:  budget.Available(carryforward, money.Zero(), activity),
				UpdatedAt:  now,
			}
			if err := rows.Insert(ctx, row); err != nil {
				return fmt.Errorf("insertar fila: %w", err)
			}
			return propagateDelta(ctx, rows, categoryID, month, activity, now)
		}

		newAvailable := budget.Available(carryforward, existing.Assigned, activity)
		delta := newAvailable.Sub(existing.Available)
		row := *existing
		row.Activity = activity
		row.Available = newAvailable
		row.UpdatedAt = now

		if row.IsGhost() {
			if err := rows.Delete(ctx, categoryID, month); err != nil {
				return fmt.Errorf("eliminar fila degenerada: %w", err)
			}
		} else if err := rows.Update(ctx, &row); err != nil {
			return fmt.Errorf("actualizar fila: %w", err)
		}

		if !delta.IsZero() {
			return propagateDelta(ctx, rows, categoryID, month, delta, now)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sincronizar actividad: %w", err)
	}
	return nil
}

// CleanupGhosts elimina las filas degeneradas que hayan llegado a persistir.
// Una fila así es un defecto, no un estado tolerable: el barrido usa la
// misma ruta de eliminación que las escrituras y devuelve cuántas corrigió.
func (uc *LedgerUseCase) CleanupGhosts(ctx context.Context) (int, error) {
	var ghosts []*entity.BudgetRow
	err := uc.txRunner.RunSnapshot(ctx, func(
		rows repository.BudgetRowRepository,
		_ repository.TransactionSumsRepository,
		_ repository.CategoryRepository,
		_ repository.AccountRepository,
	) error {
		var err error
		ghosts, err = rows.ListGhostRows(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("listar filas degeneradas: %w", err)
	}

	corrected := 0
	for _, ghost := range ghosts {
		deleted := false
		err := uc.txRunner.RunSerialized(ctx, ghost.CategoryID, func(
			rows repository.BudgetRowRepository,
			_ repository.TransactionSumsRepository,
		) error {
			// Confirmar bajo el candado: otra edición pudo haberla
			// revivido o eliminado ya.
			current, err := rows.GetRow(ctx, ghost.CategoryID, ghost.Month)
			if err != nil {
				return err
			}
			if current == nil || !current.IsGhost() {
				return nil
			}
			if err := rows.Delete(ctx, ghost.CategoryID, ghost.Month); err != nil {
				return err
			}
			deleted = true
			return nil
		})
		if err != nil {
			return corrected, fmt.Errorf("corregir fila degenerada %s/%s: %w", ghost.CategoryID, ghost.Month, err)
		}
		if deleted {
			corrected++
			uc.log.Warn().
				Err(domain.ErrGhostRow).
				Str("category_id", ghost.CategoryID).
				Str("month", ghost.Month.String()).
				Msg("fila degenerada corregida")
		}
	}
	return corrected, nil
}
