package memory

import (
	"context"
	"sync"
	"time"

	appbudget "github.com/camilopiedra92/YNAB-Clone-sub001/internal/application/budget"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
)

// Store es el almacenamiento en memoria: implementa todos los puertos de
// persistencia y el ejecutor de transacciones del motor. Sirve para pruebas
// y para correr el motor sin base de datos.
//
// Un solo candado serializa las escrituras, un superconjunto válido de la
// serialización por categoría que el motor exige. Las filas se guardan por
// valor; las lecturas devuelven copias.
type Store struct {
	mu           sync.RWMutex
	rows         map[rowKey]entity.BudgetRow
	categories   map[string]entity.Category
	groups       map[string]entity.CategoryGroup
	accounts     map[string]entity.Account
	transactions []transaction
}

type rowKey struct {
	categoryID string
	month      entity.Month
}

// transaction es un registro crudo; los agregados se calculan al leer, igual
// que las sumas SQL del almacenamiento real. CategoryID vacío significa sin
// categoría (en tarjetas, un pago).
type transaction struct {
	AccountID  string
	CategoryID string
	Date       time.Time
	Inflow     money.Milliunits
	Outflow    money.Milliunits
}

var _ appbudget.TxRunner = (*Store)(nil)

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		rows:       make(map[rowKey]entity.BudgetRow),
		categories: make(map[string]entity.Category),
		groups:     make(map[string]entity.CategoryGroup),
		accounts:   make(map[string]entity.Account),
	}
}

// Rows devuelve el puerto de filas con candado propio, para uso fuera de
// transacción.
func (s *Store) Rows() repository.BudgetRowRepository {
	return &rowRepo{store: s, lock: true}
}

// Categories devuelve el puerto de categorías con candado propio.
func (s *Store) Categories() repository.CategoryRepository {
	return &categoryRepo{store: s, lock: true}
}

// Accounts devuelve el puerto de cuentas con candado propio.
func (s *Store) Accounts() repository.AccountRepository {
	return &accountRepo{store: s, lock: true}
}

// Sums devuelve el puerto de agregados con candado propio.
func (s *Store) Sums() repository.TransactionSumsRepository {
	return &sumRepo{store: s, lock: true}
}

// AddTransaction registra una transacción cruda. categoryID vacío marca una
// transacción sin categoría.
func (s *Store) AddTransaction(accountID, categoryID string, date time.Time, inflow, outflow money.Milliunits) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, transaction{
		AccountID:  accountID,
		CategoryID: categoryID,
		Date:       date,
		Inflow:     inflow,
		Outflow:    outflow,
	})
}

// RunSerialized toma el candado de escritura y ejecuta fn contra puertos sin
// candado propio. Si fn falla, las filas vuelven al estado previo: la
// propagación parcial de un delta nunca es observable.
func (s *Store) RunSerialized(ctx context.Context, categoryID string, fn func(
	rows repository.BudgetRowRepository,
	sums repository.TransactionSumsRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := make(map[rowKey]entity.BudgetRow, len(s.rows))
	for k, v := range s.rows {
		backup[k] = v
	}

	err := fn(&rowRepo{store: s}, &sumRepo{store: s})
	if err != nil {
		s.rows = backup
		return err
	}
	return nil
}

// RunSnapshot toma el candado de lectura: fn ve un estado congelado.
func (s *Store) RunSnapshot(ctx context.Context, fn func(
	rows repository.BudgetRowRepository,
	sums repository.TransactionSumsRepository,
	categories repository.CategoryRepository,
	accounts repository.AccountRepository,
) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(
		&rowRepo{store: s},
		&sumRepo{store: s},
		&categoryRepo{store: s},
		&accountRepo{store: s},
	)
}
