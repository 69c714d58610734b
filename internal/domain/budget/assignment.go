package budget

import (
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
)

// AssignmentAction es la acción que el motor debe ejecutar tras planear una
// edición de asignación.
type AssignmentAction int

const (
	// AssignmentSkip indica que no hay nada que escribir: no existe fila y
	// el monto propuesto es cero, así que crearla produciría una fila
	// degenerada.
	AssignmentSkip AssignmentAction = iota
	// AssignmentCreate indica que debe insertarse una fila nueva.
	AssignmentCreate
	// AssignmentUpdate indica que debe reescribirse la fila existente.
	AssignmentUpdate
)

// AssignmentPlan es el resultado puro de planear una edición de asignación.
// El cálculo no toca almacenamiento: recibe la fila actual (o nil), el
// arrastre del mes anterior y el monto nuevo ya validado, y devuelve qué
// escribir y qué delta propagar a los meses futuros.
type AssignmentPlan struct {
	Action       AssignmentAction
	Delta        money.Milliunits // cambio neto del asignado, a sumar al disponible futuro
	NewAssigned  money.Milliunits
	NewAvailable money.Milliunits
	// ShouldDelete indica que, según la actividad implícita en la fila
	// leída, la fila quedará degenerada tras la escritura. El ejecutor debe
	// confirmarlo releyendo la fila escrita antes de eliminarla.
	ShouldDelete bool
}

// PlanAssignment calcula el plan para fijar el asignado de una categoría en
// un mes. existing es la fila actual de (categoría, mes) o nil.
func PlanAssignment(existing *entity.BudgetRow, carryforward, newAssigned money.Milliunits) AssignmentPlan {
	if existing == nil {
		if newAssigned.IsZero() {
			return AssignmentPlan{Action: AssignmentSkip}
		}
		return AssignmentPlan{
			Action:       AssignmentCreate,
			Delta:        newAssigned,
			NewAssigned:  newAssigned,
			NewAvailable: Available(carryforward, newAssigned, money.Zero()),
		}
	}

	delta := newAssigned.Sub(existing.Assigned)
	newAvailable := existing.Available.Add(delta)
	impliedActivity := existing.Available.Sub(existing.Assigned).Sub(carryforward)
	return AssignmentPlan{
		Action:       AssignmentUpdate,
		Delta:        delta,
		NewAssigned:  newAssigned,
		NewAvailable: newAvailable,
		ShouldDelete: newAssigned.IsZero() && impliedActivity.IsZero() && newAvailable.IsZero(),
	}
}
