package budget

import (
	"context"
	"fmt"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/budget"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
)

// RowsForMonth devuelve la vista por categoría de un mes sobre una sola
// instantánea: las filas almacenadas tal cual, y para cada categoría sin
// fila el disponible arrastrado desde su mes anterior más cercano. El
// arrastre se resuelve con una sola lectura por lote, no caminando el libro
// fila por fila, con semántica idéntica a la regla de arrastre puntual.
//
// Las categorías de grupos de ingreso no son sobres y se omiten.
func (uc *LedgerUseCase) RowsForMonth(ctx context.Context, month entity.Month) ([]budget.CategoryMonthView, error) {
	var views []budget.CategoryMonthView
	ghostSeen := false

	err := uc.txRunner.RunSnapshot(ctx, func(
		rows repository.BudgetRowRepository,
		sums repository.TransactionSumsRepository,
		categories repository.CategoryRepository,
		_ repository.AccountRepository,
	) error {
		cats, err := categories.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("listar categorías: %w", err)
		}
		groups, err := categories.ListGroups(ctx)
		if err != nil {
			return fmt.Errorf("listar grupos: %w", err)
		}
		stored, err := rows.ListRowsForMonth(ctx, month)
		if err != nil {
			return fmt.Errorf("listar filas del mes: %w", err)
		}
		prior, err := rows.ListLatestRowsBefore(ctx, month)
		if err != nil {
			return fmt.Errorf("resolver arrastres: %w", err)
		}
		cash, err := sums.CashSpendingForMonth(ctx, month)
		if err != nil {
			return fmt.Errorf("sumar gasto en efectivo: %w", err)
		}

		income := make(map[string]bool, len(groups))
		for _, g := range groups {
			income[g.ID] = g.IsIncome
		}

		byCategory := make(map[string]*entity.BudgetRow, len(stored))
		for _, row := range stored {
			if row.IsGhost() {
				ghostSeen = true
				continue
			}
			byCategory[row.CategoryID] = row
		}

		views = make([]budget.CategoryMonthView, 0, len(cats))
		for _, cat := range cats {
			if income[cat.GroupID] {
				continue
			}
			isPayment := cat.IsPaymentCategory()

			view := budget.CategoryMonthView{CategoryID: cat.ID, Month: month}
			if row, ok := byCategory[cat.ID]; ok {
				view.Assigned = row.Assigned
				view.Activity = row.Activity
				view.Available = row.Available
			} else {
				view.Available = budget.Carryforward(prior[cat.ID], isPayment)
			}

			spent := cash[cat.ID]
			view.Overspending = budget.ClassifyOverspending(
				view.Available,
				budget.CashSpending(spent.Outflow, spent.Inflow),
				isPayment,
			)
			views = append(views, view)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vista del mes %s: %w", month, err)
	}

	if ghostSeen {
		// Una fila degenerada almacenada es un defecto: corregirlo con la
		// misma ruta de limpieza de las escrituras, sin fallar la lectura.
		uc.log.Error().Err(domain.ErrGhostRow).Str("month", month.String()).Msg("fila degenerada observada en lectura")
		if _, err := uc.CleanupGhosts(ctx); err != nil {
			uc.log.Error().Err(err).Msg("barrido de filas degeneradas falló")
		}
	}
	return views, nil
}
