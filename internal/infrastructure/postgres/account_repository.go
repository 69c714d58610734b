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

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación de AccountRepository sobre PostgreSQL
// (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador de cuentas. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	var accountType string
	if err := row.Scan(&a.ID, &a.Name, &accountType, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Type = entity.AccountType(accountType)
	return &a, nil
}

// GetByID obtiene la cuenta o nil si no existe.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	query := `
		SELECT id, name, type, created_at
		FROM accounts WHERE id = $1`
	a, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// ListAll lista todas las cuentas ordenadas por nombre.
func (r *AccountRepo) ListAll(ctx context.Context) ([]*entity.Account, error) {
	query := `
		SELECT id, name, type, created_at
		FROM accounts ORDER BY name, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// ListByType lista las cuentas de un tipo, ordenadas por nombre.
func (r *AccountRepo) ListByType(ctx context.Context, accountType entity.AccountType) ([]*entity.Account, error) {
	query := `
		SELECT id, name, type, created_at
		FROM accounts WHERE type = $1 ORDER BY name, id`
	rows, err := r.q.Query(ctx, query, string(accountType))
	if err != nil {
		return nil, fmt.Errorf("list accounts by type: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Insert crea la cuenta; valida el tipo antes de escribir.
func (r *AccountRepo) Insert(ctx context.Context, account *entity.Account) error {
	if !account.Type.Valid() {
		return fmt.Errorf("tipo de cuenta %q: %w", account.Type, domain.ErrInvalidInput)
	}
	query := `
		INSERT INTO accounts (id, name, type, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query,
		account.ID, account.Name, string(account.Type), account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("cuenta %s: %w", account.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}
