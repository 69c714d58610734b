package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
)

// rowRepo implementa el puerto de filas sobre el mapa del Store. Con
// lock=false asume que el llamador ya sostiene el candado (dentro de una
// transacción).
type rowRepo struct {
	store *Store
	lock  bool
}

var _ repository.BudgetRowRepository = (*rowRepo)(nil)

func (r *rowRepo) rlock() func() {
	if !r.lock {
		return func() {}
	}
	r.store.mu.RLock()
	return r.store.mu.RUnlock
}

func (r *rowRepo) wlock() func() {
	if !r.lock {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *rowRepo) GetRow(ctx context.Context, categoryID string, month entity.Month) (*entity.BudgetRow, error) {
	defer r.rlock()()
	row, ok := r.store.rows[rowKey{categoryID, month}]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *rowRepo) GetLatestRowBefore(ctx context.Context, categoryID string, month entity.Month) (*entity.BudgetRow, error) {
	defer r.rlock()()
	var latest *entity.BudgetRow
	for key, row := range r.store.rows {
		if key.categoryID != categoryID || !key.month.Before(month) {
			continue
		}
		if latest == nil || key.month.After(latest.Month) {
			row := row
			latest = &row
		}
	}
	return latest, nil
}

func (r *rowRepo) ListRowsForMonth(ctx context.Context, month entity.Month) ([]*entity.BudgetRow, error) {
	defer r.rlock()()
	var out []*entity.BudgetRow
	for key, row := range r.store.rows {
		if key.month != month {
			continue
		}
		row := row
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

func (r *rowRepo) ListLatestRowsBefore(ctx context.Context, month entity.Month) (map[string]*entity.BudgetRow, error) {
	defer r.rlock()()
	out := make(map[string]*entity.BudgetRow)
	for key, row := range r.store.rows {
		if !key.month.Before(month) {
			continue
		}
		if latest, ok := out[key.categoryID]; ok && latest.Month.After(key.month) {
			continue
		}
		row := row
		out[key.categoryID] = &row
	}
	return out, nil
}

func (r *rowRepo) ListRowsAfter(ctx context.Context, categoryID string, month entity.Month) ([]*entity.BudgetRow, error) {
	defer r.rlock()()
	var out []*entity.BudgetRow
	for key, row := range r.store.rows {
		if key.categoryID != categoryID || !key.month.After(month) {
			continue
		}
		row := row
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

func (r *rowRepo) LatestMonthWithRows(ctx context.Context, month entity.Month) (entity.Month, bool, error) {
	defer r.rlock()()
	var latest entity.Month
	found := false
	for key := range r.store.rows {
		if key.month.After(month) {
			continue
		}
		if !found || key.month.After(latest) {
			latest = key.month
			found = true
		}
	}
	return latest, found, nil
}

func (r *rowRepo) SumAssignedInRange(ctx context.Context, after, through entity.Month) (money.Milliunits, error) {
	defer r.rlock()()
	total := money.Zero()
	for key, row := range r.store.rows {
		if key.month.After(after) && !key.month.After(through) {
			total = total.Add(row.Assigned)
		}
	}
	return total, nil
}

func (r *rowRepo) Insert(ctx context.Context, row *entity.BudgetRow) error {
	defer r.wlock()()
	key := rowKey{row.CategoryID, row.Month}
	if _, exists := r.store.rows[key]; exists {
		return fmt.Errorf("fila %s/%s: %w", row.CategoryID, row.Month, domain.ErrDuplicate)
	}
	r.store.rows[key] = *row
	return nil
}

func (r *rowRepo) Update(ctx context.Context, row *entity.BudgetRow) error {
	defer r.wlock()()
	key := rowKey{row.CategoryID, row.Month}
	if _, exists := r.store.rows[key]; !exists {
		return fmt.Errorf("fila %s/%s: %w", row.CategoryID, row.Month, domain.ErrNotFound)
	}
	r.store.rows[key] = *row
	return nil
}

func (r *rowRepo) Delete(ctx context.Context, categoryID string, month entity.Month) error {
	defer r.wlock()()
	delete(r.store.rows, rowKey{categoryID, month})
	return nil
}

func (r *rowRepo) ListGhostRows(ctx context.Context) ([]*entity.BudgetRow, error) {
	defer r.rlock()()
	var out []*entity.BudgetRow
	for _, row := range r.store.rows {
		if row.IsGhost() {
			row := row
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CategoryID != out[j].CategoryID {
			return out[i].CategoryID < out[j].CategoryID
		}
		return out[i].Month.Before(out[j].Month)
	})
	return out, nil
}
