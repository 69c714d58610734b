package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/budget"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
)

// ReadyToAssignUseCase calcula el dinero no asignado del presupuesto y su
// descomposición explicable. Todas las lecturas de un cálculo ocurren sobre
// una sola instantánea.
type ReadyToAssignUseCase struct {
	txRunner TxRunner
}

// NewReadyToAssignUseCase construye el caso de uso.
func NewReadyToAssignUseCase(txRunner TxRunner) *ReadyToAssignUseCase {
	return &ReadyToAssignUseCase{txRunner: txRunner}
}

// Compute devuelve el dinero listo para asignar del mes visto. Para meses
// estrictamente anteriores al mes calendario actual el resultado es cero:
// el pasado ya no tiene dinero asignable.
func (uc *ReadyToAssignUseCase) Compute(ctx context.Context, viewedMonth entity.Month) (money.Milliunits, error) {
	if viewedMonth.Before(entity.CurrentMonth()) {
		return money.Zero(), nil
	}

	var rta money.Milliunits
	err := uc.txRunner.RunSnapshot(ctx, func(
		rows repository.BudgetRowRepository,
		sums repository.TransactionSumsRepository,
		categories repository.CategoryRepository,
		accounts repository.AccountRepository,
	) error {
		in, err := gatherRTAInputs(ctx, viewedMonth, rows, sums, categories, accounts)
		if err != nil {
			return err
		}
		rta = budget.ReadyToAssign(in)
		return nil
	})
	if err != nil {
		return money.Zero(), fmt.Errorf("calcular listo para asignar: %w", err)
	}
	return rta, nil
}

// Breakdown devuelve la descomposición en seis campos del dinero listo para
// asignar del mes visto. El sobrante del mes anterior se despeja del total,
// así que recombinar los campos reproduce el total exacto.
func (uc *ReadyToAssignUseCase) Breakdown(ctx context.Context, viewedMonth entity.Month) (budget.Breakdown, error) {
	clamped := viewedMonth.Before(entity.CurrentMonth())

	var bd budget.Breakdown
	err := uc.txRunner.RunSnapshot(ctx, func(
		rows repository.BudgetRowRepository,
		sums repository.TransactionSumsRepository,
		categories repository.CategoryRepository,
		accounts repository.AccountRepository,
	) error {
		in, err := gatherRTAInputs(ctx, viewedMonth, rows, sums, categories, accounts)
		if err != nil {
			return err
		}
		rta := money.Zero()
		if !clamped {
			rta = budget.ReadyToAssign(in)
		}

		inflow, err := sums.IncomeInMonth(ctx, viewedMonth)
		if err != nil {
			return fmt.Errorf("sumar ingresos del mes: %w", err)
		}

		viewedRows, err := rows.ListRowsForMonth(ctx, viewedMonth)
		if err != nil {
			return fmt.Errorf("listar filas del mes: %w", err)
		}
		assignedThisMonth := money.Zero()
		for _, row := range viewedRows {
			assignedThisMonth = assignedThisMonth.Add(row.Assigned)
		}

		payment, err := paymentCategoryIDs(ctx, categories)
		if err != nil {
			return err
		}
		_, prevCashOver, err := overspendingForMonth(ctx, viewedMonth.Prev(), rows, sums, payment)
		if err != nil {
			return err
		}

		bd = budget.SolveBreakdown(rta, inflow, in.PositiveCreditBalances, assignedThisMonth, prevCashOver)
		return nil
	})
	if err != nil {
		return budget.Breakdown{}, fmt.Errorf("descomponer listo para asignar: %w", err)
	}
	return bd, nil
}

// gatherRTAInputs recolecta los agregados de la fórmula dentro de la
// instantánea del llamador.
func gatherRTAInputs(
	ctx context.Context,
	viewedMonth entity.Month,
	rows repository.BudgetRowRepository,
	sums repository.TransactionSumsRepository,
	categories repository.CategoryRepository,
	accounts repository.AccountRepository,
) (budget.RTAInputs, error) {
	var in budget.RTAInputs

	accts, err := accounts.ListAll(ctx)
	if err != nil {
		return in, fmt.Errorf("listar cuentas: %w", err)
	}
	balances, err := sums.AccountBalances(ctx, time.Now())
	if err != nil {
		return in, fmt.Errorf("sumar saldos: %w", err)
	}
	for _, acct := range accts {
		balance := balances[acct.ID]
		if acct.IsCredit() {
			in.PositiveCreditBalances = in.PositiveCreditBalances.Add(money.Max(money.Zero(), balance))
		} else {
			in.CashOnHand = in.CashOnHand.Add(balance)
		}
	}

	latest, ok, err := rows.LatestMonthWithRows(ctx, viewedMonth)
	if err != nil {
		return in, fmt.Errorf("resolver último mes con filas: %w", err)
	}
	if !ok {
		return in, nil
	}
	in.HasLedgerMonth = true

	latestRows, err := rows.ListRowsForMonth(ctx, latest)
	if err != nil {
		return in, fmt.Errorf("listar filas del último mes: %w", err)
	}
	for _, row := range latestRows {
		in.AvailableLatestMonth = in.AvailableLatestMonth.Add(row.Available)
	}

	payment, err := paymentCategoryIDs(ctx, categories)
	if err != nil {
		return in, err
	}
	total, cash, err := overspendingForMonth(ctx, latest, rows, sums, payment)
	if err != nil {
		return in, err
	}
	in.TotalOverspending = total
	in.CashOverspending = cash

	in.AssignedAfterLatest, err = rows.SumAssignedInRange(ctx, latest, viewedMonth)
	if err != nil {
		return in, fmt.Errorf("sumar asignado posterior: %w", err)
	}
	return in, nil
}

// overspendingForMonth devuelve el sobregasto total del mes (Σ|available| de
// toda categoría con disponible negativo) y su porción atribuida a efectivo
// (solo categorías comunes, acotada por déficit).
func overspendingForMonth(
	ctx context.Context,
	month entity.Month,
	rows repository.BudgetRowRepository,
	sums repository.TransactionSumsRepository,
	paymentCategories map[string]bool,
) (total, cash money.Milliunits, err error) {
	monthRows, err := rows.ListRowsForMonth(ctx, month)
	if err != nil {
		return money.Zero(), money.Zero(), fmt.Errorf("listar filas de %s: %w", month, err)
	}
	cashSums, err := sums.CashSpendingForMonth(ctx, month)
	if err != nil {
		return money.Zero(), money.Zero(), fmt.Errorf("sumar gasto en efectivo de %s: %w", month, err)
	}

	var entries []budget.CashOverspendingEntry
	for _, row := range monthRows {
		if !row.Available.IsNegative() {
			continue
		}
		total = total.Add(row.Available.Abs())
		if paymentCategories[row.CategoryID] {
			continue
		}
		spent := cashSums[row.CategoryID]
		entries = append(entries, budget.CashOverspendingEntry{
			Available:    row.Available,
			CashSpending: budget.CashSpending(spent.Outflow, spent.Inflow),
		})
	}
	return total, budget.CashOverspendingTotal(entries), nil
}

func paymentCategoryIDs(ctx context.Context, categories repository.CategoryRepository) (map[string]bool, error) {
	cats, err := categories.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar categorías: %w", err)
	}
	payment := make(map[string]bool)
	for _, cat := range cats {
		if cat.IsPaymentCategory() {
			payment[cat.ID] = true
		}
	}
	return payment, nil
}
