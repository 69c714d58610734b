package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
)

func rowWithAvailable(available int64) *entity.BudgetRow {
	return &entity.BudgetRow{
		CategoryID: "cat-1",
		Month:      entity.NewMonth(2025, 1),
		Available:  money.Milliunits(available),
	}
}

func TestCarryforward(t *testing.T) {
	tests := []struct {
		name      string
		prev      *entity.BudgetRow
		isPayment bool
		want      int64
	}{
		{"sin fila anterior", nil, false, 0},
		{"sin fila anterior en pago de tarjeta", nil, true, 0},
		{"disponible cero", rowWithAvailable(0), false, 0},
		{"superávit rueda completo", rowWithAvailable(500), false, 500},
		{"superávit en pago de tarjeta", rowWithAvailable(500), true, 500},
		{"sobregasto común se perdona", rowWithAvailable(-500), false, 0},
		{"deuda de tarjeta no se perdona", rowWithAvailable(-500), true, -500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Carryforward(tt.prev, tt.isPayment)
			assert.Equal(t, tt.want, got.Raw())
		})
	}
}

func TestAvailable_Formula(t *testing.T) {
	got := Available(money.Milliunits(300), money.Milliunits(500), money.Milliunits(-200))
	assert.Equal(t, int64(600), got.Raw())

	// Los tres componentes en cero producen cero, el estado de una fila
	// que no debe existir.
	assert.True(t, Available(money.Zero(), money.Zero(), money.Zero()).IsZero())
}
