package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
)

var _ repository.BudgetRowRepository = (*BudgetRowRepo)(nil)

// BudgetRowRepo implementación de BudgetRowRepository sobre PostgreSQL
// (usable con pool o tx). El mes se persiste como DATE fijado al día primero.
type BudgetRowRepo struct {
	q Querier
}

// NewBudgetRowRepository construye el adaptador de filas. Pasar pool o tx (Querier).
func NewBudgetRowRepository(q Querier) *BudgetRowRepo {
	return &BudgetRowRepo{q: q}
}

const budgetRowColumns = `category_id, month, assigned, activity, available, updated_at`

func scanBudgetRow(row pgx.Row) (*entity.BudgetRow, error) {
	var r entity.BudgetRow
	var month time.Time
	var assigned, activity, available int64
	if err := row.Scan(&r.CategoryID, &month, &assigned, &activity, &available, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Month = entity.MonthOf(month)
	r.Assigned = money.Milliunits(assigned)
	r.Activity = money.Milliunits(activity)
	r.Available = money.Milliunits(available)
	return &r, nil
}

// GetRow obtiene la fila (categoría, mes) o nil si no existe.
func (r *BudgetRowRepo) GetRow(ctx context.Context, categoryID string, month entity.Month) (*entity.BudgetRow, error) {
	query := `
		SELECT ` + budgetRowColumns + `
		FROM budget_rows WHERE category_id = $1 AND month = $2`
	row, err := scanBudgetRow(r.q.QueryRow(ctx, query, categoryID, month.FirstDay()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get budget row: %w", err)
	}
	return row, nil
}

// GetLatestRowBefore obtiene la fila más reciente de la categoría con mes
// estrictamente anterior al indicado, o nil si no hay ninguna.
func (r *BudgetRowRepo) GetLatestRowBefore(ctx context.Context, categoryID string, month entity.Month) (*entity.BudgetRow, error) {
	query := `
		SELECT ` + budgetRowColumns + `
		FROM budget_rows WHERE category_id = $1 AND month < $2
		ORDER BY month DESC LIMIT 1`
	row, err := scanBudgetRow(r.q.QueryRow(ctx, query, categoryID, month.FirstDay()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest row before: %w", err)
	}
	return row, nil
}

// ListRowsForMonth lista las filas existentes del mes, ordenadas por categoría.
func (r *BudgetRowRepo) ListRowsForMonth(ctx context.Context, month entity.Month) ([]*entity.BudgetRow, error) {
	query := `
		SELECT ` + budgetRowColumns + `
		FROM budget_rows WHERE month = $1 ORDER BY category_id`
	rows, err := r.q.Query(ctx, query, month.FirstDay())
	if err != nil {
		return nil, fmt.Errorf("list rows for month: %w", err)
	}
	defer rows.Close()
	var list []*entity.BudgetRow
	for rows.Next() {
		row, err := scanBudgetRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// ListLatestRowsBefore devuelve, por categoría, su fila más reciente con mes
// estrictamente anterior al indicado (DISTINCT ON).
func (r *BudgetRowRepo) ListLatestRowsBefore(ctx context.Context, month entity.Month) (map[string]*entity.BudgetRow, error) {
	query := `
		SELECT DISTINCT ON (category_id) ` + budgetRowColumns + `
		FROM budget_rows WHERE month < $1
		ORDER BY category_id, month DESC`
	rows, err := r.q.Query(ctx, query, month.FirstDay())
	if err != nil {
		return nil, fmt.Errorf("list latest rows before: %w", err)
	}
	defer rows.Close()
	out := make(map[string]*entity.BudgetRow)
	for rows.Next() {
		row, err := scanBudgetRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget row: %w", err)
		}
		out[row.CategoryID] = row
	}
	return out, rows.Err()
}

// ListRowsAfter lista las filas de la categoría con mes estrictamente
// posterior al indicado, en orden cronológico.
func (r *BudgetRowRepo) ListRowsAfter(ctx context.Context, categoryID string, month entity.Month) ([]*entity.BudgetRow, error) {
	query := `
		SELECT ` + budgetRowColumns + `
		FROM budget_rows WHERE category_id = $1 AND month > $2
		ORDER BY month`
	rows, err := r.q.Query(ctx, query, categoryID, month.FirstDay())
	if err != nil {
		return nil, fmt.Errorf("list rows after: %w", err)
	}
	defer rows.Close()
	var list []*entity.BudgetRow
	for rows.Next() {
		row, err := scanBudgetRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// LatestMonthWithRows devuelve el mes más reciente ≤ al indicado con al menos
// una fila; ok=false si no hay filas hasta ese mes.
func (r *BudgetRowRepo) LatestMonthWithRows(ctx context.Context, month entity.Month) (entity.Month, bool, error) {
	query := `SELECT max(month) FROM budget_rows WHERE month <= $1`
	var latest *time.Time
	if err := r.q.QueryRow(ctx, query, month.FirstDay()).Scan(&latest); err != nil {
		return entity.Month{}, false, fmt.Errorf("latest month with rows: %w", err)
	}
	if latest == nil {
		return entity.Month{}, false, nil
	}
	return entity.MonthOf(*latest), true, nil
}

// SumAssignedInRange suma el asignado de las filas con after < mes <= through.
func (r *BudgetRowRepo) SumAssignedInRange(ctx context.Context, after, through entity.Month) (money.Milliunits, error) {
	query := `
		SELECT COALESCE(SUM(assigned), 0)::BIGINT
		FROM budget_rows WHERE month > $1 AND month <= $2`
	var total int64
	if err := r.q.QueryRow(ctx, query, after.FirstDay(), through.FirstDay()).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum assigned in range: %w", err)
	}
	return money.Milliunits(total), nil
}

// Insert crea la fila; devuelve ErrDuplicate si ya existe (categoría, mes).
func (r *BudgetRowRepo) Insert(ctx context.Context, row *entity.BudgetRow) error {
	query := `
		INSERT INTO budget_rows (category_id, month, assigned, activity, available, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		row.CategoryID, row.Month.FirstDay(),
		row.Assigned.Raw(), row.Activity.Raw(), row.Available.Raw(), row.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("fila %s/%s: %w", row.CategoryID, row.Month, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert budget row: %w", err)
	}
	return nil
}

// Update reescribe los tres montos de la fila; ErrNotFound si no existe.
func (r *BudgetRowRepo) Update(ctx context.Context, row *entity.BudgetRow) error {
	query := `
		UPDATE budget_rows
		SET assigned = $3, activity = $4, available = $5, updated_at = $6
		WHERE category_id = $1 AND month = $2`
	tag, err := r.q.Exec(ctx, query,
		row.CategoryID, row.Month.FirstDay(),
		row.Assigned.Raw(), row.Activity.Raw(), row.Available.Raw(), row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update budget row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fila %s/%s: %w", row.CategoryID, row.Month, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina la fila (categoría, mes). Es idempotente.
func (r *BudgetRowRepo) Delete(ctx context.Context, categoryID string, month entity.Month) error {
	query := `DELETE FROM budget_rows WHERE category_id = $1 AND month = $2`
	if _, err := r.q.Exec(ctx, query, categoryID, month.FirstDay()); err != nil {
		return fmt.Errorf("delete budget row: %w", err)
	}
	return nil
}

// ListGhostRows lista filas con los tres montos en cero, para el barrido
// correctivo.
func (r *BudgetRowRepo) ListGhostRows(ctx context.Context) ([]*entity.BudgetRow, error) {
	query := `
		SELECT ` + budgetRowColumns + `
		FROM budget_rows
		WHERE assigned = 0 AND activity = 0 AND available = 0
		ORDER BY category_id, month`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ghost rows: %w", err)
	}
	defer rows.Close()
	var list []*entity.BudgetRow
	for rows.Next() {
		row, err := scanBudgetRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
