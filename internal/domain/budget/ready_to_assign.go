package budget

import (
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
)

// RTAInputs reúne los agregados que alimentan el cálculo del dinero listo
// para asignar. Quien los recolecta debe hacerlo sobre una sola instantánea
// consistente del libro y de los saldos.
type RTAInputs struct {
	// CashOnHand es la suma de saldos de cuentas que no son de crédito.
	CashOnHand money.Milliunits
	// PositiveCreditBalances suma, por cuenta de crédito, max(0, saldo):
	// la deuda de tarjeta nunca resta, solo los saldos a favor suman.
	PositiveCreditBalances money.Milliunits
	// HasLedgerMonth indica si existe algún mes con filas ≤ al mes visto.
	HasLedgerMonth bool
	// AvailableLatestMonth es Σ(available) sobre el último mes con filas.
	AvailableLatestMonth money.Milliunits
	// AssignedAfterLatest es Σ(assigned) en meses estrictamente posteriores
	// al último mes con filas y hasta el mes visto inclusive.
	AssignedAfterLatest money.Milliunits
	// TotalOverspending es Σ|available| de las categorías sobregastadas del
	// último mes con filas, incluidas las de pago de tarjeta.
	TotalOverspending money.Milliunits
	// CashOverspending es la porción de ese sobregasto atribuida a efectivo.
	CashOverspending money.Milliunits
}

// ReadyToAssign aplica la fórmula del dinero listo para asignar sobre
// agregados ya recolectados. Restar el sobregasto total menos su porción en
// efectivo aísla el sobregasto financiado a crédito, que es deuda nueva y no
// dinero asignable.
func ReadyToAssign(in RTAInputs) money.Milliunits {
	base := in.CashOnHand.Add(in.PositiveCreditBalances)
	if !in.HasLedgerMonth {
		return base
	}
	return base.
		Sub(in.AvailableLatestMonth).
		Sub(in.AssignedAfterLatest).
		Sub(in.TotalOverspending.Sub(in.CashOverspending))
}

// Breakdown descompone el dinero listo para asignar en los componentes que
// un lector puede verificar mes a mes. Recombinado reproduce el total exacto.
type Breakdown struct {
	ReadyToAssign                 money.Milliunits
	LeftoverFromPreviousMonth     money.Milliunits
	InflowThisMonth               money.Milliunits
	PositiveCreditBalances        money.Milliunits
	AssignedThisMonth             money.Milliunits
	CashOverspendingPreviousMonth money.Milliunits
}

// SolveBreakdown despeja el sobrante del mes anterior algebraicamente a
// partir del total ya calculado. No es un cálculo independiente: la
// identidad leftover + inflow + positiveCredit - assigned - cashOverspending
// == RTA se cumple exacta por construcción.
func SolveBreakdown(rta, inflow, positiveCredit, assigned, cashOverspendingPrev money.Milliunits) Breakdown {
	leftover := rta.
		Sub(inflow).
		Sub(positiveCredit).
		Add(assigned).
		Add(cashOverspendingPrev)
	return Breakdown{
		ReadyToAssign:                 rta,
		LeftoverFromPreviousMonth:     leftover,
		InflowThisMonth:               inflow,
		PositiveCreditBalances:        positiveCredit,
		AssignedThisMonth:             assigned,
		CashOverspendingPreviousMonth: cashOverspendingPrev,
	}
}
