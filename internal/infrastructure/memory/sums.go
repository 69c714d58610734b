package memory

import (
	"context"
	"time"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
)

// sumRepo implementa el puerto de agregados recorriendo las transacciones
// crudas, con el mismo filtro de fechas no futuras que las sumas SQL.
type sumRepo struct {
	store *Store
	lock  bool
}

var _ repository.TransactionSumsRepository = (*sumRepo)(nil)

func (r *sumRepo) rlock() func() {
	if !r.lock {
		return func() {}
	}
	r.store.mu.RLock()
	return r.store.mu.RUnlock
}

func (r *sumRepo) CategoryMonthActivity(ctx context.Context, categoryID string, month entity.Month) (repository.ActivitySum, error) {
	defer r.rlock()()
	now := time.Now()
	var sum repository.ActivitySum
	for _, txn := range r.store.transactions {
		if txn.CategoryID != categoryID || txn.Date.After(now) || entity.MonthOf(txn.Date) != month {
			continue
		}
		sum.Inflow = sum.Inflow.Add(txn.Inflow)
		sum.Outflow = sum.Outflow.Add(txn.Outflow)
	}
	return sum, nil
}

func (r *sumRepo) CashSpendingForMonth(ctx context.Context, month entity.Month) (map[string]repository.ActivitySum, error) {
	defer r.rlock()()
	now := time.Now()
	out := make(map[string]repository.ActivitySum)
	for _, txn := range r.store.transactions {
		if txn.CategoryID == "" || txn.Date.After(now) || entity.MonthOf(txn.Date) != month {
			continue
		}
		account, ok := r.store.accounts[txn.AccountID]
		if !ok || account.IsCredit() {
			continue
		}
		sum := out[txn.CategoryID]
		sum.Inflow = sum.Inflow.Add(txn.Inflow)
		sum.Outflow = sum.Outflow.Add(txn.Outflow)
		out[txn.CategoryID] = sum
	}
	return out, nil
}

func (r *sumRepo) CardCategorySpending(ctx context.Context, accountID string, month entity.Month) (map[string]repository.ActivitySum, error) {
	defer r.rlock()()
	now := time.Now()
	out := make(map[string]repository.ActivitySum)
	for _, txn := range r.store.transactions {
		if txn.AccountID != accountID || txn.CategoryID == "" || txn.Date.After(now) || entity.MonthOf(txn.Date) != month {
			continue
		}
		sum := out[txn.CategoryID]
		sum.Inflow = sum.Inflow.Add(txn.Inflow)
		sum.Outflow = sum.Outflow.Add(txn.Outflow)
		out[txn.CategoryID] = sum
	}
	return out, nil
}

func (r *sumRepo) CardPayments(ctx context.Context, accountID string, month entity.Month) (money.Milliunits, error) {
	defer r.rlock()()
	now := time.Now()
	total := money.Zero()
	for _, txn := range r.store.transactions {
		if txn.AccountID != accountID || txn.CategoryID != "" || txn.Date.After(now) || entity.MonthOf(txn.Date) != month {
			continue
		}
		total = total.Add(txn.Inflow)
	}
	return total, nil
}

func (r *sumRepo) AccountBalances(ctx context.Context, asOf time.Time) (map[string]money.Milliunits, error) {
	defer r.rlock()()
	out := make(map[string]money.Milliunits)
	for _, txn := range r.store.transactions {
		if txn.Date.After(asOf) {
			continue
		}
		out[txn.AccountID] = out[txn.AccountID].Add(txn.Inflow).Sub(txn.Outflow)
	}
	return out, nil
}

func (r *sumRepo) IncomeInMonth(ctx context.Context, month entity.Month) (money.Milliunits, error) {
	defer r.rlock()()
	now := time.Now()
	total := money.Zero()
	for _, txn := range r.store.transactions {
		if txn.CategoryID == "" || txn.Date.After(now) || entity.MonthOf(txn.Date) != month {
			continue
		}
		category, ok := r.store.categories[txn.CategoryID]
		if !ok {
			continue
		}
		group, ok := r.store.groups[category.GroupID]
		if !ok || !group.IsIncome {
			continue
		}
		total = total.Add(txn.Inflow).Sub(txn.Outflow)
	}
	return total, nil
}
