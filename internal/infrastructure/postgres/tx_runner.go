package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/application/budget"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
)

// Ensure TxRunner implements budget.TxRunner.
var _ budget.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSerialized inicia una transacción de lectura-escritura, toma un advisory
// lock por categoría y ejecuta fn con repos atados a la tx. El lock se libera
// solo en Commit o Rollback, así dos ediciones sobre la misma categoría nunca
// intercalan sus lecturas y escrituras; categorías distintas corren en paralelo.
func (r *TxRunner) RunSerialized(ctx context.Context, categoryID string, fn func(
	rows repository.BudgetRowRepository,
	sums repository.TransactionSumsRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, categoryID); err != nil {
		return fmt.Errorf("advisory lock de categoría: %w", err)
	}

	rowRepo := NewBudgetRowRepository(tx)
	sumRepo := NewTransactionSumsRepository(tx)

	if err := fn(rowRepo, sumRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSnapshot inicia una transacción REPEATABLE READ de solo lectura y ejecuta
// fn con repos atados a ella: todas las lecturas de fn ven la misma foto de la
// base, sin estados intermedios de escrituras concurrentes.
func (r *TxRunner) RunSnapshot(ctx context.Context, fn func(
	rows repository.BudgetRowRepository,
	sums repository.TransactionSumsRepository,
	categories repository.CategoryRepository,
	accounts repository.AccountRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rowRepo := NewBudgetRowRepository(tx)
	sumRepo := NewTransactionSumsRepository(tx)
	catRepo := NewCategoryRepository(tx)
	acctRepo := NewAccountRepository(tx)

	if err := fn(rowRepo, sumRepo, catRepo, acctRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}
