package repository

import (
	"context"
	"time"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
)

// ActivitySum agregado de entradas y salidas, ya convertido a miliunidades.
type ActivitySum struct {
	Inflow  money.Milliunits
	Outflow money.Milliunits
}

// Net devuelve entradas menos salidas, el signo con el que la actividad
// entra al disponible de una categoría.
func (s ActivitySum) Net() money.Milliunits {
	return s.Inflow.Sub(s.Outflow)
}

// NetSpending devuelve salidas menos entradas, el signo del gasto.
func (s ActivitySum) NetSpending() money.Milliunits {
	return s.Outflow.Sub(s.Inflow)
}

// TransactionSumsRepository define el puerto de agregados de transacciones.
// Las transacciones pertenecen a los colaboradores externos; el motor solo
// consume sumas, siempre sobre fechas no futuras.
type TransactionSumsRepository interface {
	// CategoryMonthActivity suma entradas y salidas de la categoría en el
	// mes, sobre todas las cuentas.
	CategoryMonthActivity(ctx context.Context, categoryID string, month entity.Month) (ActivitySum, error)

	// CashSpendingForMonth suma, por categoría, las transacciones
	// categorizadas del mes sobre cuentas que no son de crédito.
	CashSpendingForMonth(ctx context.Context, month entity.Month) (map[string]ActivitySum, error)

	// CardCategorySpending suma, por categoría, las transacciones
	// categorizadas del mes en la cuenta (tarjeta) indicada.
	CardCategorySpending(ctx context.Context, accountID string, month entity.Month) (map[string]ActivitySum, error)

	// CardPayments suma las entradas sin categoría del mes en la cuenta
	// indicada: dinero transferido para pagar la tarjeta.
	CardPayments(ctx context.Context, accountID string, month entity.Month) (money.Milliunits, error)

	// AccountBalances devuelve el saldo neto por cuenta (Σ entradas -
	// salidas) con fecha hasta asOf inclusive.
	AccountBalances(ctx context.Context, asOf time.Time) (map[string]money.Milliunits, error)

	// IncomeInMonth suma el neto del mes de las transacciones en categorías
	// de grupos de ingreso.
	IncomeInMonth(ctx context.Context, month entity.Month) (money.Milliunits, error)
}
