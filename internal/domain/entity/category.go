package entity

import "time"

// CategoryGroup agrupa categorías en orden de presentación. El indicador
// IsIncome marca los grupos cuyas transacciones alimentan el dinero listo
// para asignar en lugar de gastarse desde un sobre.
type CategoryGroup struct {
	ID        string
	Name      string
	IsIncome  bool
	Position  int
	CreatedAt time.Time
}

// Category representa un sobre presupuestario. Es dato de referencia para el
// motor: se lee para validar referencias y clasificar, nunca se modifica aquí.
type Category struct {
	ID              string
	GroupID         string
	Name            string
	LinkedAccountID string // vacío salvo en categorías de pago de tarjeta
	Position        int
	CreatedAt       time.Time
}

// IsPaymentCategory reporta si la categoría es la categoría de pago de una
// tarjeta de crédito. Estas categorías arrastran deuda (disponible negativo)
// entre meses y su actividad la calcula el financiamiento de pagos, no las
// transacciones directas.
func (c *Category) IsPaymentCategory() bool {
	return c.LinkedAccountID != ""
}
