package money

import "math"

// Validation es el resultado de validar un monto propuesto por un colaborador
// externo. Valid=false significa que el motor debe tratarlo como no-op en
// lugar de fallar; Clamped=true significa que el monto fue aceptado pero
// recortado al tope de magnitud, con el signo preservado.
type Validation struct {
	Valid   bool
	Clamped bool
	Value   Milliunits
}

// ValidateAssignable valida un monto de asignación propuesto, en
// miliunidades como float64. Los valores no finitos se rechazan; los finitos
// con magnitud mayor a MaxAssignable se recortan al tope.
func ValidateAssignable(f float64) Validation {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Validation{}
	}
	v := math.Round(f)
	if math.Abs(v) > float64(MaxAssignable) {
		clamped := MaxAssignable
		if v < 0 {
			clamped = -clamped
		}
		return Validation{Valid: true, Clamped: true, Value: clamped}
	}
	return Validation{Valid: true, Value: Milliunits(v)}
}
