package budget

import (
	"context"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
)

// TxRunner ejecuta funciones contra repositorios atados a una transacción,
// con las garantías de aislamiento que el motor exige.
//
// RunSerialized abre una transacción de lectura-escritura serializada por
// categoría: dos ediciones concurrentes sobre la misma categoría nunca se
// intercalan, porque la propagación de deltas es un read-modify-write
// multifilas y dos ediciones intercaladas corromperían el disponible futuro.
// Ediciones sobre categorías distintas pueden correr en paralelo.
//
// RunSnapshot abre una instantánea consistente de solo lectura: las vistas y
// el cálculo de dinero listo para asignar hacen varias lecturas internas y
// no deben ver estados intermedios de una escritura en curso.
type TxRunner interface {
	RunSerialized(ctx context.Context, categoryID string, fn func(
		rows repository.BudgetRowRepository,
		sums repository.TransactionSumsRepository,
	) error) error

	RunSnapshot(ctx context.Context, fn func(
		rows repository.BudgetRowRepository,
		sums repository.TransactionSumsRepository,
		categories repository.CategoryRepository,
		accounts repository.AccountRepository,
	) error) error
}
