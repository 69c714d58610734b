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
	"github.com/camilopiedra92/YNAB-Clone-sub001/pkg/logger"
)

// LedgerUseCase es el motor de propagación: el único dueño de las escrituras
// sobre el libro disperso (categoría, mes). Aplica ediciones de asignación,
// sincroniza actividad observada y mantiene el invariante de que ninguna
// fila degenerada persista, propagando cada delta a los meses futuros dentro
// de la misma transacción.
type LedgerUseCase struct {
	txRunner     TxRunner
	categoryRepo repository.CategoryRepository
	log          *logger.Logger
}

// NewLedgerUseCase construye el caso de uso. log puede ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	categoryRepo repository.CategoryRepository,
	log *logger.Logger,
) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner:     txRunner,
		categoryRepo: categoryRepo,
		log:          log,
	}
}

// ValidateAssignment valida un monto propuesto sin escribir nada, para que
// el colaborador pueda mostrar el resultado antes de confirmar.
func (uc *LedgerUseCase) ValidateAssignment(proposed float64) money.Validation {
	return money.ValidateAssignable(proposed)
}

// UpdateAssignment fija el asignado de una categoría en un mes y propaga el
// delta resultante al disponible de todos sus meses futuros con fila, en una
// sola transacción serializada por categoría.
//
// Un monto no finito no es un error del llamador: se registra y se devuelve
// la validación con Valid=false, sin tocar el libro. Una categoría
// inexistente sí es error (domain.ErrNotFound).
func (uc *LedgerUseCase) UpdateAssignment(ctx context.Context, categoryID string, month entity.Month, newAssigned float64) (money.Validation, error) {
	v := money.ValidateAssignable(newAssigned)
	if !v.Valid {
		uc.log.Warn().
			Str("category_id", categoryID).
			Str("month", month.String()).
			Float64("proposed", newAssigned).
			Msg("asignación rechazada: monto no finito")
		return v, nil
	}
	if v.Clamped {
		uc.log.Info().
			Str("category_id", categoryID).
			Str("month", month.String()).
			Float64("proposed", newAssigned).
			Int64("clamped", v.Value.Raw()).
			Msg("asignación recortada al tope de magnitud")
	}

	category, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return v, fmt.Errorf("resolver categoría: %w", err)
	}
	if category == nil {
		return v, fmt.Errorf("categoría %s: %w", categoryID, domain.ErrNotFound)
	}
	isPayment := category.IsPaymentCategory()

	err = uc.txRunner.RunSerialized(ctx, categoryID, func(
		rows repository.BudgetRowRepository,
		_ repository.TransactionSumsRepository,
	) error {
		existing, err := rows.GetRow(ctx, categoryID, month)
		if err != nil {
			return err
		}
		prev, err := rows.GetLatestRowBefore(ctx, categoryID, month)
		if err != nil {
			return err
		}
		carryforward := budget.Carryforward(prev, isPayment)

		plan := budget.PlanAssignment(existing, carryforward, v.Value)
		if plan.Action == budget.AssignmentSkip {
			return nil
		}

		now := time.Now()
		switch plan.Action {
		case budget.AssignmentCreate:
			row := &entity.BudgetRow{
				CategoryID: categoryID,
				Month:      month,
				Assigned:   plan.NewAssigned,
				Activity:   money.Zero(),
				Available:  plan.NewAvailable,
				UpdatedAt:  now,
			}
			if err := rows.Insert(ctx, row); err != nil {
				return fmt.Errorf("insertar fila: %w", err)
			}
		case budget.AssignmentUpdate:
			row := *existing
			row.Assigned = plan.NewAssigned
			row.Available = plan.NewAvailable
			row.UpdatedAt = now
			if err := rows.Update(ctx, &row); err != nil {
				return fmt.Errorf("actualizar fila: %w", err)
			}
		}

		if plan.ShouldDelete {
			// La decisión se tomó con la actividad implícita en la fila
			// leída; confirmar contra la fila realmente escrita antes de
			// eliminar.
			written, err := rows.GetRow(ctx, categoryID, month)
			if err != nil {
				return err
			}
			if written != nil && written.IsGhost() {
				if err := rows.Delete(ctx, categoryID, month); err != nil {
					return fmt.Errorf("eliminar fila degenerada: %w", err)
				}
			}
		}

		if !plan.Delta.IsZero() {
			if err := propagateDelta(ctx, rows, categoryID, month, plan.Delta, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return v, fmt.Errorf("aplicar asignación: %w", err)
	}
	return v, nil
}

// propagateDelta suma delta al disponible de toda fila de la categoría con
// mes estrictamente posterior al indicado, sin tocar asignado ni actividad.
// Las filas que degeneren a cero se eliminan dentro de la misma transacción.
func propagateDelta(
	ctx context.Context,
	rows repository.BudgetRowRepository,
	categoryID string,
	after entity.Month,
	delta money.Milliunits,
	now time.Time,
) error {
	future, err := rows.ListRowsAfter(ctx, categoryID, after)
	if err != nil {
		return fmt.Errorf("listar meses futuros: %w", err)
	}
	for _, row := range future {
		row.Available = row.Available.Add(delta)
		row.UpdatedAt = now
		if row.IsGhost() {
			if err := rows.Delete(ctx, row.CategoryID, row.Month); err != nil {
				return fmt.Errorf("eliminar fila degenerada %s/%s: %w", row.CategoryID, row.Month, err)
			}
			continue
		}
		if err := rows.Update(ctx, row); err != nil {
			return fmt.Errorf("propagar delta a %s/%s: %w", row.CategoryID, row.Month, err)
		}
	}
	return nil
}
