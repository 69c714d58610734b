package entity

import (
	"time"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
)

// BudgetRow es una fila del libro disperso (categoría, mes). Solo existe si
// alguna vez hubo una asignación o actividad distinta de cero: la ausencia de
// fila significa "todo en cero, disponible = arrastre del mes anterior".
type BudgetRow struct {
	CategoryID string
	Month      Month
	Assigned   money.Milliunits // asignado por el usuario en el mes
	Activity   money.Milliunits // entradas menos salidas del mes
	Available  money.Milliunits // acumulado: arrastre + asignado + actividad
	UpdatedAt  time.Time
}

// IsGhost reporta si la fila es degenerada (los tres montos en cero).
// Una fila así nunca debe persistirse: se elimina en lugar de escribirse.
func (r *BudgetRow) IsGhost() bool {
	return r.Assigned.IsZero() && r.Activity.IsZero() && r.Available.IsZero()
}
