package budget

import (
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
)

// OverspendingType clasifica el déficit de una categoría en un mes. La
// distinción importa porque el sobregasto en efectivo es dinero que ya salió
// del presupuesto, mientras que el sobregasto a crédito es deuda nueva.
type OverspendingType string

const (
	OverspendingNone   OverspendingType = ""
	OverspendingCash   OverspendingType = "cash"
	OverspendingCredit OverspendingType = "credit"
)

// ClassifyOverspending etiqueta una categoría según su disponible del mes.
// cashSpending es el gasto neto en cuentas que no son de crédito.
//
//   - disponible ≥ 0: sin sobregasto
//   - categoría de pago de tarjeta: siempre crédito
//   - hubo gasto neto en efectivo: efectivo
//   - en cualquier otro caso: crédito
func ClassifyOverspending(available, cashSpending money.Milliunits, isPaymentCategory bool) OverspendingType {
	if !available.IsNegative() {
		return OverspendingNone
	}
	if isPaymentCategory {
		return OverspendingCredit
	}
	if cashSpending.IsPositive() {
		return OverspendingCash
	}
	return OverspendingCredit
}

// CashSpending calcula el gasto neto en efectivo de una categoría:
// salidas menos entradas sobre cuentas que no son de crédito, acotado en
// cero por abajo. Un mes con más reembolsos que gastos no cuenta como gasto.
func CashSpending(outflow, inflow money.Milliunits) money.Milliunits {
	return money.Max(money.Zero(), outflow.Sub(inflow))
}

// CashOverspendingEntry es el par (disponible, gasto en efectivo) de una
// categoría común, insumo del total de sobregasto en efectivo.
type CashOverspendingEntry struct {
	Available    money.Milliunits
	CashSpending money.Milliunits
}

// CashOverspendingTotal suma la porción del sobregasto atribuible a
// efectivo: por categoría sobregastada, el menor entre la magnitud del
// déficit y su gasto neto en efectivo. Las categorías sin déficit no aportan.
func CashOverspendingTotal(entries []CashOverspendingEntry) money.Milliunits {
	total := money.Zero()
	for _, e := range entries {
		if !e.Available.IsNegative() {
			continue
		}
		total = total.Add(money.Min(e.Available.Abs(), e.CashSpending))
	}
	return total
}
