package repository

import (
	"context"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
)

// CategoryRepository define el puerto de lectura de categorías y grupos.
// Para el motor son datos de referencia: los colaboradores externos los
// crean; aquí solo se insertan desde la semilla y las pruebas.
type CategoryRepository interface {
	// GetByID devuelve la categoría o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Category, error)

	// ListAll devuelve todas las categorías ordenadas por grupo y posición.
	ListAll(ctx context.Context) ([]*entity.Category, error)

	// ListGroups devuelve todos los grupos ordenados por posición.
	ListGroups(ctx context.Context) ([]*entity.CategoryGroup, error)

	// GetPaymentCategory devuelve la categoría de pago vinculada a la
	// cuenta, o nil si la cuenta no tiene una.
	GetPaymentCategory(ctx context.Context, accountID string) (*entity.Category, error)

	Insert(ctx context.Context, category *entity.Category) error
	InsertGroup(ctx context.Context, group *entity.CategoryGroup) error
}
