package budget

import (
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
)

// Carryforward decide cuánto del disponible anterior rueda hacia un mes
// posterior. prev es la fila más reciente de la categoría con mes anterior
// al consultado, o nil si no existe ninguna.
//
// Reglas:
//   - sin fila anterior: cero
//   - disponible positivo o cero: rueda completo
//   - disponible negativo en categoría común: cero, el sobregasto se
//     perdona al cambiar de mes
//   - disponible negativo en categoría de pago de tarjeta: rueda completo,
//     la deuda no se perdona
func Carryforward(prev *entity.BudgetRow, isPaymentCategory bool) money.Milliunits {
	if prev == nil {
		return money.Zero()
	}
	if prev.Available.IsNegative() && !isPaymentCategory {
		return money.Zero()
	}
	return prev.Available
}

// Available deriva el disponible acumulado de una fila a partir de sus tres
// componentes. Es la única fórmula que produce ese campo.
func Available(carryforward, assigned, activity money.Milliunits) money.Milliunits {
	return carryforward.Add(assigned).Add(activity)
}
