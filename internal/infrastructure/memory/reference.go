package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
)

// categoryRepo implementa el puerto de categorías sobre los mapas del Store.
type categoryRepo struct {
	store *Store
	lock  bool
}

var _ repository.CategoryRepository = (*categoryRepo)(nil)

func (r *categoryRepo) rlock() func() {
	if !r.lock {
		return func() {}
	}
	r.store.mu.RLock()
	return r.store.mu.RUnlock
}

func (r *categoryRepo) wlock() func() {
	if !r.lock {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	defer r.rlock()()
	cat, ok := r.store.categories[id]
	if !ok {
		return nil, nil
	}
	return &cat, nil
}

func (r *categoryRepo) ListAll(ctx context.Context) ([]*entity.Category, error) {
	defer r.rlock()()
	out := make([]*entity.Category, 0, len(r.store.categories))
	for _, cat := range r.store.categories {
		cat := cat
		out = append(out, &cat)
	}
	sort.Slice(out, func(i, j int) bool {
		gi := r.store.groups[out[i].GroupID].Position
		gj := r.store.groups[out[j].GroupID].Position
		if gi != gj {
			return gi < gj
		}
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *categoryRepo) ListGroups(ctx context.Context) ([]*entity.CategoryGroup, error) {
	defer r.rlock()()
	out := make([]*entity.CategoryGroup, 0, len(r.store.groups))
	for _, group := range r.store.groups {
		group := group
		out = append(out, &group)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *categoryRepo) GetPaymentCategory(ctx context.Context, accountID string) (*entity.Category, error) {
	defer r.rlock()()
	for _, cat := range r.store.categories {
		if cat.LinkedAccountID == accountID {
			cat := cat
			return &cat, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) Insert(ctx context.Context, category *entity.Category) error {
	defer r.wlock()()
	if _, exists := r.store.categories[category.ID]; exists {
		return fmt.Errorf("categoría %s: %w", category.ID, domain.ErrDuplicate)
	}
	r.store.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) InsertGroup(ctx context.Context, group *entity.CategoryGroup) error {
	defer r.wlock()()
	if _, exists := r.store.groups[group.ID]; exists {
		return fmt.Errorf("grupo %s: %w", group.ID, domain.ErrDuplicate)
	}
	r.store.groups[group.ID] = *group
	return nil
}

// accountRepo implementa el puerto de cuentas sobre el mapa del Store.
type accountRepo struct {
	store *Store
	lock  bool
}

var _ repository.AccountRepository = (*accountRepo)(nil)

func (r *accountRepo) rlock() func() {
	if !r.lock {
		return func() {}
	}
	r.store.mu.RLock()
	return r.store.mu.RUnlock
}

func (r *accountRepo) wlock() func() {
	if !r.lock {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	defer r.rlock()()
	account, ok := r.store.accounts[id]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (r *accountRepo) ListAll(ctx context.Context) ([]*entity.Account, error) {
	defer r.rlock()()
	out := make([]*entity.Account, 0, len(r.store.accounts))
	for _, account := range r.store.accounts {
		account := account
		out = append(out, &account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *accountRepo) ListByType(ctx context.Context, accountType entity.AccountType) ([]*entity.Account, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, account := range all {
		if account.Type == accountType {
			out = append(out, account)
		}
	}
	return out, nil
}

func (r *accountRepo) Insert(ctx context.Context, account *entity.Account) error {
	defer r.wlock()()
	if !account.Type.Valid() {
		return fmt.Errorf("tipo de cuenta %q: %w", account.Type, domain.ErrInvalidInput)
	}
	if _, exists := r.store.accounts[account.ID]; exists {
		return fmt.Errorf("cuenta %s: %w", account.ID, domain.ErrDuplicate)
	}
	r.store.accounts[account.ID] = *account
	return nil
}
