package repository

import (
	"context"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
)

// AccountRepository define el puerto de lectura de cuentas. Igual que las
// categorías, son datos de referencia de colaboradores externos.
type AccountRepository interface {
	// GetByID devuelve la cuenta o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Account, error)

	ListAll(ctx context.Context) ([]*entity.Account, error)

	// ListByType devuelve las cuentas de un tipo; el motor la usa para
	// enumerar las cuentas de crédito.
	ListByType(ctx context.Context, accountType entity.AccountType) ([]*entity.Account, error)

	Insert(ctx context.Context, account *entity.Account) error
}
