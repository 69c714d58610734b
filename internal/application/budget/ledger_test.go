package budget_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbudget "github.com/camilopiedra92/YNAB-Clone-sub001/internal/application/budget"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/budget"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/infrastructure/memory"
)

// fixture arma un almacenamiento en memoria con datos de referencia mínimos:
// un grupo de ingresos con su categoría, un grupo de gastos con dos
// categorías, una cuenta corriente, una tarjeta y su categoría de pago.
type fixture struct {
	store   *memory.Store
	ledger  *appbudget.LedgerUseCase
	funding *appbudget.PaymentFundingUseCase
	rta     *appbudget.ReadyToAssignUseCase
}

const (
	grpIngresos = "grp-ingresos"
	grpGastos   = "grp-gastos"
	grpTarjetas = "grp-tarjetas"

	catSalario      = "cat-salario"
	catMercado      = "cat-mercado"
	catRestaurantes = "cat-restaurantes"
	catPagoVisa     = "cat-pago-visa"

	acctCorriente = "acct-corriente"
	acctVisa      = "acct-visa"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	groups := []*entity.CategoryGroup{
		{ID: grpIngresos, Name: "Ingresos", IsIncome: true, Position: 0},
		{ID: grpGastos, Name: "Gastos", Position: 1},
		{ID: grpTarjetas, Name: "Tarjetas", Position: 2},
	}
	for _, g := range groups {
		require.NoError(t, store.Categories().InsertGroup(ctx, g))
	}

	categories := []*entity.Category{
		{ID: catSalario, GroupID: grpIngresos, Name: "Salario", Position: 0},
		{ID: catMercado, GroupID: grpGastos, Name: "Mercado", Position: 0},
		{ID: catRestaurantes, GroupID: grpGastos, Name: "Restaurantes", Position: 1},
		{ID: catPagoVisa, GroupID: grpTarjetas, Name: "Pago Visa", LinkedAccountID: acctVisa, Position: 0},
	}
	for _, c := range categories {
		require.NoError(t, store.Categories().Insert(ctx, c))
	}

	accounts := []*entity.Account{
		{ID: acctCorriente, Name: "Cuenta corriente", Type: entity.AccountTypeChecking},
		{ID: acctVisa, Name: "Visa", Type: entity.AccountTypeCredit},
	}
	for _, a := range accounts {
		require.NoError(t, store.Accounts().Insert(ctx, a))
	}

	return &fixture{
		store:   store,
		ledger:  appbudget.NewLedgerUseCase(store, store.Categories(), nil),
		funding: appbudget.NewPaymentFundingUseCase(store, store.Categories(), store.Accounts(), nil),
		rta:     appbudget.NewReadyToAssignUseCase(store),
	}
}

func (f *fixture) mustRow(t *testing.T, categoryID string, month entity.Month) *entity.BudgetRow {
	t.Helper()
	row, err := f.store.Rows().GetRow(context.Background(), categoryID, month)
	require.NoError(t, err)
	require.NotNil(t, row, "se esperaba fila para %s/%s", categoryID, month)
	return row
}

func (f *fixture) noRow(t *testing.T, categoryID string, month entity.Month) {
	t.Helper()
	row, err := f.store.Rows().GetRow(context.Background(), categoryID, month)
	require.NoError(t, err)
	require.Nil(t, row, "no debía existir fila para %s/%s", categoryID, month)
}

// ─────────────────────────────────────────────────────────────
// Ediciones de asignación y propagación
// ─────────────────────────────────────────────────────────────

func TestUpdateAssignment_CreaFila(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.January)

	v, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, 500)
	require.NoError(t, err)
	require.True(t, v.Valid)
	assert.False(t, v.Clamped)

	row := f.mustRow(t, catMercado, m1)
	assert.Equal(t, int64(500), row.Assigned.Raw())
	assert.True(t, row.Activity.IsZero())
	assert.Equal(t, int64(500), row.Available.Raw())
}

func TestUpdateAssignment_EscenarioCompleto(t *testing.T) {
	// Asignar en M1; asignar en M2 arrastrando; reasignar M1 propaga el
	// delta; volver M1 a cero elimina la fila y el arrastre recalculado de
	// M2 salta el mes eliminado y coincide con su propia fila.
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.January)
	m2 := entity.NewMonth(2025, time.February)

	_, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), f.mustRow(t, catMercado, m1).Available.Raw())

	_, err = f.ledger.UpdateAssignment(ctx, catMercado, m2, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(700), f.mustRow(t, catMercado, m2).Available.Raw(), "arrastre 500 + asignado 200")

	_, err = f.ledger.UpdateAssignment(ctx, catMercado, m1, 800)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), f.mustRow(t, catMercado, m2).Available.Raw(), "delta +300 propagado")

	_, err = f.ledger.UpdateAssignment(ctx, catMercado, m1, 0)
	require.NoError(t, err)
	f.noRow(t, catMercado, m1)

	// La fila de M2 absorbió el delta -800 y su arrastre recalculado (ya
	// sin mes anterior) implica el mismo disponible almacenado.
	row2 := f.mustRow(t, catMercado, m2)
	assert.Equal(t, int64(200), row2.Available.Raw())

	prev, err := f.store.Rows().GetLatestRowBefore(ctx, catMercado, m2)
	require.NoError(t, err)
	require.Nil(t, prev)
	implied := budget.Available(budget.Carryforward(prev, false), row2.Assigned, row2.Activity)
	assert.Equal(t, row2.Available, implied)
}

func TestUpdateAssignment_NoFinitoEsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.January)

	for _, proposed := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		v, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, proposed)
		require.NoError(t, err, "el rechazo no es un error del llamador")
		assert.False(t, v.Valid)
	}
	f.noRow(t, catMercado, m1)
}

func TestUpdateAssignment_RecortaMagnitud(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.January)

	v, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, 1e18)
	require.NoError(t, err)
	require.True(t, v.Valid)
	require.True(t, v.Clamped)
	assert.Equal(t, money.MaxAssignable, v.Value)

	row := f.mustRow(t, catMercado, m1)
	assert.Equal(t, money.MaxAssignable, row.Assigned)
}

func TestUpdateAssignment_CategoriaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.UpdateAssignment(context.Background(), "cat-fantasma", entity.NewMonth(2025, time.January), 100)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateAssignment_PrevencionDeFantasmas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.January)

	// Asignar cero sin fila previa no crea nada.
	_, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, 0)
	require.NoError(t, err)
	f.noRow(t, catMercado, m1)

	// Cualquier secuencia que termine en cero sin actividad tampoco deja fila.
	for _, amount := range []float64{300, 1200, 50, 0} {
		_, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, amount)
		require.NoError(t, err)
	}
	f.noRow(t, catMercado, m1)

	ghosts, err := f.store.Rows().ListGhostRows(ctx)
	require.NoError(t, err)
	assert.Empty(t, ghosts)
}

func TestUpdateAssignment_DeltaEliminaFilaFuturaDegenerada(t *testing.T) {
	// Una fila futura que queda en ceros por efecto del delta propagado
	// debe desaparecer en la misma transacción.
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.January)
	m2 := entity.NewMonth(2025, time.February)

	_, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, 500)
	require.NoError(t, err)
	// M2 sin asignación propia: fila solo con arrastre no existe; forzar
	// una con asignado 0 no es posible por la puerta normal, así que se
	// materializa asignando y devolviendo a cero con arrastre presente.
	_, err = f.ledger.UpdateAssignment(ctx, catMercado, m2, 100)
	require.NoError(t, err)
	_, err = f.ledger.UpdateAssignment(ctx, catMercado, m2, 0)
	require.NoError(t, err)

	// La fila de M2 sobrevive con asignado 0 y disponible 500 (arrastre).
	row2 := f.mustRow(t, catMercado, m2)
	assert.True(t, row2.Assigned.IsZero())
	assert.Equal(t, int64(500), row2.Available.Raw())

	// Quitar la asignación de M1 deja a M2 en ceros absolutos: debe
	// eliminarse como parte de la propagación.
	_, err = f.ledger.UpdateAssignment(ctx, catMercado, m1, 0)
	require.NoError(t, err)
	f.noRow(t, catMercado, m1)
	f.noRow(t, catMercado, m2)
}

func TestUpdateAssignment_ValidacionPrevia(t *testing.T) {
	f := newFixture(t)

	v := f.ledger.ValidateAssignment(math.Inf(1))
	assert.False(t, v.Valid)

	v = f.ledger.ValidateAssignment(2500.7)
	require.True(t, v.Valid)
	assert.Equal(t, int64(2501), v.Value.Raw())
}

// ─────────────────────────────────────────────────────────────
// Sincronización de actividad
// ─────────────────────────────────────────────────────────────

func TestSyncActivity_CreaFilaConGasto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.March)

	f.store.AddTransaction(acctCorriente, catMercado, m1.FirstDay(), money.Zero(), money.Milliunits(80000))

	require.NoError(t, f.ledger.SyncActivity(ctx, catMercado, m1))

	row := f.mustRow(t, catMercado, m1)
	assert.True(t, row.Assigned.IsZero())
	assert.Equal(t, int64(-80000), row.Activity.Raw())
	assert.Equal(t, int64(-80000), row.Available.Raw())
}

func TestSyncActivity_ActividadNetaCeroEliminaFila(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.March)

	f.store.AddTransaction(acctCorriente, catMercado, m1.FirstDay(), money.Zero(), money.Milliunits(80000))
	require.NoError(t, f.ledger.SyncActivity(ctx, catMercado, m1))
	f.mustRow(t, catMercado, m1)

	// Un reembolso por el mismo monto deja la actividad neta en cero; sin
	// asignación ni arrastre la fila degenera y se elimina.
	f.store.AddTransaction(acctCorriente, catMercado, m1.FirstDay().AddDate(0, 0, 5), money.Milliunits(80000), money.Zero())
	require.NoError(t, f.ledger.SyncActivity(ctx, catMercado, m1))
	f.noRow(t, catMercado, m1)
}

func TestSyncActivity_PropagaDeltaAFuturos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.March)
	m2 := entity.NewMonth(2025, time.April)

	_, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, 100000)
	require.NoError(t, err)
	_, err = f.ledger.UpdateAssignment(ctx, catMercado, m2, 50000)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), f.mustRow(t, catMercado, m2).Available.Raw())

	// Gasto de 30000 en M1: su disponible cae y el futuro lo refleja.
	f.store.AddTransaction(acctCorriente, catMercado, m1.FirstDay(), money.Zero(), money.Milliunits(30000))
	require.NoError(t, f.ledger.SyncActivity(ctx, catMercado, m1))

	assert.Equal(t, int64(70000), f.mustRow(t, catMercado, m1).Available.Raw())
	assert.Equal(t, int64(120000), f.mustRow(t, catMercado, m2).Available.Raw())
}

func TestSyncActivity_SobregastoComunNoRueda(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.March)
	m2 := entity.NewMonth(2025, time.April)

	// Gasto sin asignación: disponible negativo en M1.
	f.store.AddTransaction(acctCorriente, catMercado, m1.FirstDay(), money.Zero(), money.Milliunits(40000))
	require.NoError(t, f.ledger.SyncActivity(ctx, catMercado, m1))
	assert.Equal(t, int64(-40000), f.mustRow(t, catMercado, m1).Available.Raw())

	// Al asignar en M2 el arrastre del déficit común es cero.
	_, err := f.ledger.UpdateAssignment(ctx, catMercado, m2, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), f.mustRow(t, catMercado, m2).Available.Raw())
}

func TestSyncActivity_RechazaCategoriaDePago(t *testing.T) {
	f := newFixture(t)
	err := f.ledger.SyncActivity(context.Background(), catPagoVisa, entity.NewMonth(2025, time.March))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSyncActivity_CategoriaInexistente(t *testing.T) {
	f := newFixture(t)
	err := f.ledger.SyncActivity(context.Background(), "cat-fantasma", entity.NewMonth(2025, time.March))
	require.ErrorIs(t, err, domain.ErrNotFound)
}
