package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
)

var _ repository.TransactionSumsRepository = (*TransactionSumsRepo)(nil)

// TransactionSumsRepo implementación de TransactionSumsRepository sobre
// PostgreSQL (usable con pool o tx). Las transacciones guardan montos
// NUMERIC en unidades de moneda; los agregados se convierten a miliunidades
// al salir y las fechas futuras se excluyen en el propio SQL.
type TransactionSumsRepo struct {
	q Querier
}

// NewTransactionSumsRepository construye el adaptador de agregados. Pasar pool o tx (Querier).
func NewTransactionSumsRepository(q Querier) *TransactionSumsRepo {
	return &TransactionSumsRepo{q: q}
}

func sumPair(inflow, outflow decimal.Decimal) (repository.ActivitySum, error) {
	in, err := money.FromDecimal(inflow)
	if err != nil {
		return repository.ActivitySum{}, fmt.Errorf("convertir entradas: %w", err)
	}
	out, err := money.FromDecimal(outflow)
	if err != nil {
		return repository.ActivitySum{}, fmt.Errorf("convertir salidas: %w", err)
	}
	return repository.ActivitySum{Inflow: in, Outflow: out}, nil
}

// CategoryMonthActivity suma entradas y salidas de la categoría en el mes,
// sobre todas las cuentas.
func (r *TransactionSumsRepo) CategoryMonthActivity(ctx context.Context, categoryID string, month entity.Month) (repository.ActivitySum, error) {
	query := `
		SELECT COALESCE(SUM(inflow), 0), COALESCE(SUM(outflow), 0)
		FROM transactions
		WHERE category_id = $1 AND date >= $2 AND date < $3 AND date <= CURRENT_DATE`
	var inflow, outflow decimal.Decimal
	err := r.q.QueryRow(ctx, query, categoryID, month.FirstDay(), month.Next().FirstDay()).Scan(&inflow, &outflow)
	if err != nil {
		return repository.ActivitySum{}, fmt.Errorf("category month activity: %w", err)
	}
	return sumPair(inflow, outflow)
}

// CashSpendingForMonth suma, por categoría, las transacciones categorizadas
// del mes sobre cuentas que no son de crédito.
func (r *TransactionSumsRepo) CashSpendingForMonth(ctx context.Context, month entity.Month) (map[string]repository.ActivitySum, error) {
	query := `
		SELECT t.category_id, SUM(t.inflow), SUM(t.outflow)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.category_id IS NOT NULL
		  AND a.type <> $1
		  AND t.date >= $2 AND t.date < $3 AND t.date <= CURRENT_DATE
		GROUP BY t.category_id`
	rows, err := r.q.Query(ctx, query, string(entity.AccountTypeCredit), month.FirstDay(), month.Next().FirstDay())
	if err != nil {
		return nil, fmt.Errorf("cash spending for month: %w", err)
	}
	defer rows.Close()
	out := make(map[string]repository.ActivitySum)
	for rows.Next() {
		var categoryID string
		var inflow, outflow decimal.Decimal
		if err := rows.Scan(&categoryID, &inflow, &outflow); err != nil {
			return nil, fmt.Errorf("scan cash spending: %w", err)
		}
		sum, err := sumPair(inflow, outflow)
		if err != nil {
			return nil, err
		}
		out[categoryID] = sum
	}
	return out, rows.Err()
}

// CardCategorySpending suma, por categoría, las transacciones categorizadas
// del mes en la cuenta (tarjeta) indicada.
func (r *TransactionSumsRepo) CardCategorySpending(ctx context.Context, accountID string, month entity.Month) (map[string]repository.ActivitySum, error) {
	query := `
		SELECT category_id, SUM(inflow), SUM(outflow)
		FROM transactions
		WHERE account_id = $1 AND category_id IS NOT NULL
		  AND date >= $2 AND date < $3 AND date <= CURRENT_DATE
		GROUP BY category_id`
	rows, err := r.q.Query(ctx, query, accountID, month.FirstDay(), month.Next().FirstDay())
	if err != nil {
		return nil, fmt.Errorf("card category spending: %w", err)
	}
	defer rows.Close()
	out := make(map[string]repository.ActivitySum)
	for rows.Next() {
		var categoryID string
		var inflow, outflow decimal.Decimal
		if err := rows.Scan(&categoryID, &inflow, &outflow); err != nil {
			return nil, fmt.Errorf("scan card spending: %w", err)
		}
		sum, err := sumPair(inflow, outflow)
		if err != nil {
			return nil, err
		}
		out[categoryID] = sum
	}
	return out, rows.Err()
}

// CardPayments suma las entradas sin categoría del mes en la cuenta indicada:
// dinero transferido para pagar la tarjeta.
func (r *TransactionSumsRepo) CardPayments(ctx context.Context, accountID string, month entity.Month) (money.Milliunits, error) {
	query := `
		SELECT COALESCE(SUM(inflow), 0)
		FROM transactions
		WHERE account_id = $1 AND category_id IS NULL
		  AND date >= $2 AND date < $3 AND date <= CURRENT_DATE`
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, query, accountID, month.FirstDay(), month.Next().FirstDay()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("card payments: %w", err)
	}
	payments, err := money.FromDecimal(total)
	if err != nil {
		return 0, fmt.Errorf("convertir pagos: %w", err)
	}
	return payments, nil
}

// AccountBalances devuelve el saldo neto por cuenta (Σ entradas - salidas)
// con fecha hasta asOf inclusive. Cuentas sin transacciones no aparecen.
func (r *TransactionSumsRepo) AccountBalances(ctx context.Context, asOf time.Time) (map[string]money.Milliunits, error) {
	query := `
		SELECT account_id, SUM(inflow) - SUM(outflow)
		FROM transactions
		WHERE date <= $1
		GROUP BY account_id`
	rows, err := r.q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("account balances: %w", err)
	}
	defer rows.Close()
	out := make(map[string]money.Milliunits)
	for rows.Next() {
		var accountID string
		var balance decimal.Decimal
		if err := rows.Scan(&accountID, &balance); err != nil {
			return nil, fmt.Errorf("scan account balance: %w", err)
		}
		net, err := money.FromDecimal(balance)
		if err != nil {
			return nil, fmt.Errorf("convertir saldo: %w", err)
		}
		out[accountID] = net
	}
	return out, rows.Err()
}

// IncomeInMonth suma el neto del mes de las transacciones en categorías de
// grupos de ingreso.
func (r *TransactionSumsRepo) IncomeInMonth(ctx context.Context, month entity.Month) (money.Milliunits, error) {
	query := `
		SELECT COALESCE(SUM(t.inflow - t.outflow), 0)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		JOIN category_groups g ON g.id = c.group_id
		WHERE g.is_income
		  AND t.date >= $1 AND t.date < $2 AND t.date <= CURRENT_DATE`
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, query, month.FirstDay(), month.Next().FirstDay()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("income in month: %w", err)
	}
	income, err := money.FromDecimal(total)
	if err != nil {
		return 0, fmt.Errorf("convertir ingreso: %w", err)
	}
	return income, nil
}
