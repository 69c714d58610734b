package budget

import (
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
)

// CategoryMonthView es la fila de salida por categoría y mes que consumen
// los colaboradores externos. Para categorías sin fila almacenada, Available
// trae el arrastre derivado y los demás montos quedan en cero.
type CategoryMonthView struct {
	CategoryID   string
	Month        entity.Month
	Assigned     money.Milliunits
	Activity     money.Milliunits
	Available    money.Milliunits
	Overspending OverspendingType
}
