package repository

import (
	"context"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
)

// BudgetRowRepository define el puerto de persistencia del libro disperso
// (categoría, mes). El motor de propagación es el único dueño de las
// escrituras; todo lo demás son lecturas puntuales o por lote.
//
// El contrato esencial son GetRow y GetLatestRowBefore: cualquier motor de
// almacenamiento que los satisfaga sirve. Los métodos por lote son las
// mismas operaciones vectorizadas para no repetir la caminata hacia atrás
// fila por fila.
type BudgetRowRepository interface {
	// GetRow devuelve la fila (categoría, mes) o nil si no existe.
	GetRow(ctx context.Context, categoryID string, month entity.Month) (*entity.BudgetRow, error)

	// GetLatestRowBefore devuelve la fila más reciente de la categoría con
	// mes estrictamente anterior al indicado, o nil si no hay ninguna.
	GetLatestRowBefore(ctx context.Context, categoryID string, month entity.Month) (*entity.BudgetRow, error)

	// ListRowsForMonth devuelve las filas existentes del mes, ordenadas por
	// categoría.
	ListRowsForMonth(ctx context.Context, month entity.Month) ([]*entity.BudgetRow, error)

	// ListLatestRowsBefore devuelve, por categoría, su fila más reciente con
	// mes estrictamente anterior al indicado. Equivale a GetLatestRowBefore
	// invocado una vez por categoría.
	ListLatestRowsBefore(ctx context.Context, month entity.Month) (map[string]*entity.BudgetRow, error)

	// ListRowsAfter devuelve las filas de la categoría con mes estrictamente
	// posterior al indicado, en orden cronológico.
	ListRowsAfter(ctx context.Context, categoryID string, month entity.Month) ([]*entity.BudgetRow, error)

	// LatestMonthWithRows devuelve el mes más reciente ≤ al indicado con al
	// menos una fila; ok=false si el libro está vacío hasta ese mes.
	LatestMonthWithRows(ctx context.Context, month entity.Month) (entity.Month, bool, error)

	// SumAssignedInRange suma el asignado de todas las filas con mes
	// estrictamente posterior a after y menor o igual a through.
	SumAssignedInRange(ctx context.Context, after, through entity.Month) (money.Milliunits, error)

	Insert(ctx context.Context, row *entity.BudgetRow) error
	Update(ctx context.Context, row *entity.BudgetRow) error
	Delete(ctx context.Context, categoryID string, month entity.Month) error

	// ListGhostRows devuelve filas degeneradas que violan el invariante de
	// no-persistencia, para el barrido correctivo.
	ListGhostRows(ctx context.Context) ([]*entity.BudgetRow, error)
}
