package budget

import (
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
)

// CardSpending describe el gasto neto de una categoría común en una tarjeta
// durante un mes, junto con el disponible de esa categoría una vez
// contabilizado ese gasto.
type CardSpending struct {
	CategoryID  string
	NetSpending money.Milliunits // salidas menos entradas en la tarjeta
	Available   money.Milliunits // disponible de la categoría tras el gasto
}

// FundedAmount calcula cuánto de un gasto a crédito genera reserva hacia la
// categoría de pago de la tarjeta. El gasto que la categoría no podía cubrir
// no genera reserva: pagar deuda que nunca estuvo presupuestada es decisión
// del usuario, no del motor. Los reembolsos (gasto neto negativo) pasan sin
// recorte.
func FundedAmount(netSpending, available money.Milliunits) money.Milliunits {
	if netSpending.IsNegative() {
		return netSpending
	}
	return money.Min(money.Max(money.Zero(), netSpending.Add(available)), netSpending)
}

// PaymentActivity calcula la actividad del mes de una categoría de pago:
// el total reservado por los gastos de las demás categorías, menos los pagos
// hechos a la tarjeta (que consumen la reserva).
func PaymentActivity(spending []CardSpending, cardPayments money.Milliunits) money.Milliunits {
	totalFunded := money.Zero()
	for _, s := range spending {
		totalFunded = totalFunded.Add(FundedAmount(s.NetSpending, s.Available))
	}
	return totalFunded.Sub(cardPayments)
}
