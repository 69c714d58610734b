package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL
// (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, group_id, name, COALESCE(linked_account_id, ''), position, created_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.GroupID, &c.Name, &c.LinkedAccountID, &c.Position, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID obtiene la categoría o nil si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories WHERE id = $1`
	c, err := scanCategory(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// ListAll lista todas las categorías ordenadas por grupo y posición.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]*entity.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories c
		ORDER BY (SELECT g.position FROM category_groups g WHERE g.id = c.group_id), position, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListGroups lista todos los grupos ordenados por posición.
func (r *CategoryRepo) ListGroups(ctx context.Context) ([]*entity.CategoryGroup, error) {
	query := `
		SELECT id, name, is_income, position, created_at
		FROM category_groups ORDER BY position, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list category groups: %w", err)
	}
	defer rows.Close()
	var list []*entity.CategoryGroup
	for rows.Next() {
		var g entity.CategoryGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.IsIncome, &g.Position, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category group: %w", err)
		}
		list = append(list, &g)
	}
	return list, rows.Err()
}

// GetPaymentCategory obtiene la categoría de pago vinculada a la cuenta, o
// nil si la cuenta no tiene una.
func (r *CategoryRepo) GetPaymentCategory(ctx context.Context, accountID string) (*entity.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories WHERE linked_account_id = $1`
	c, err := scanCategory(r.q.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment category: %w", err)
	}
	return c, nil
}

// Insert crea la categoría. Un linked_account_id vacío se guarda como NULL.
func (r *CategoryRepo) Insert(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categories (id, group_id, name, linked_account_id, position, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)`
	_, err := r.q.Exec(ctx, query,
		category.ID, category.GroupID, category.Name,
		category.LinkedAccountID, category.Position, category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("categoría %s: %w", category.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// InsertGroup crea el grupo de categorías.
func (r *CategoryRepo) InsertGroup(ctx context.Context, group *entity.CategoryGroup) error {
	query := `
		INSERT INTO category_groups (id, name, is_income, position, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		group.ID, group.Name, group.IsIncome, group.Position, group.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("grupo %s: %w", group.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert category group: %w", err)
	}
	return nil
}
