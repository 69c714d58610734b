package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/budget"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
)

func viewByCategory(views []budget.CategoryMonthView) map[string]budget.CategoryMonthView {
	out := make(map[string]budget.CategoryMonthView, len(views))
	for _, v := range views {
		out[v.CategoryID] = v
	}
	return out
}

func TestRowsForMonth_ArrastreParaCategoriasSinFila(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.May)
	m3 := entity.NewMonth(2025, time.July)

	// Mercado tiene fila solo en mayo; restaurantes nunca ha tenido.
	_, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, 120000)
	require.NoError(t, err)

	views, err := f.ledger.RowsForMonth(ctx, m3)
	require.NoError(t, err)
	byCat := viewByCategory(views)

	mercado := byCat[catMercado]
	assert.True(t, mercado.Assigned.IsZero(), "sin fila en julio no hay asignado")
	assert.True(t, mercado.Activity.IsZero())
	assert.Equal(t, int64(120000), mercado.Available.Raw(), "disponible arrastrado desde mayo")

	restaurantes := byCat[catRestaurantes]
	assert.True(t, restaurantes.Available.IsZero())
	assert.Equal(t, budget.OverspendingNone, restaurantes.Overspending)
}

func TestRowsForMonth_ArrastreBatchEquivaleAlPuntual(t *testing.T) {
	// La resolución por lote del arrastre debe coincidir con aplicar la
	// regla puntual contra la fila anterior más cercana de cada categoría.
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.UpdateAssignment(ctx, catMercado, entity.NewMonth(2025, time.January), 500)
	require.NoError(t, err)
	_, err = f.ledger.UpdateAssignment(ctx, catMercado, entity.NewMonth(2025, time.March), 200)
	require.NoError(t, err)
	_, err = f.ledger.UpdateAssignment(ctx, catRestaurantes, entity.NewMonth(2025, time.February), 900)
	require.NoError(t, err)

	viewed := entity.NewMonth(2025, time.June)
	views, err := f.ledger.RowsForMonth(ctx, viewed)
	require.NoError(t, err)
	byCat := viewByCategory(views)

	for _, categoryID := range []string{catMercado, catRestaurantes} {
		prev, err := f.store.Rows().GetLatestRowBefore(ctx, categoryID, viewed)
		require.NoError(t, err)
		want := budget.Carryforward(prev, false)
		assert.Equal(t, want, byCat[categoryID].Available, "categoría %s", categoryID)
	}
}

func TestRowsForMonth_Clasificacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.May)

	// Mercado: gasto en efectivo sin asignación → sobregasto en efectivo.
	f.store.AddTransaction(acctCorriente, catMercado, m1.FirstDay(), money.Zero(), money.Milliunits(50000))
	require.NoError(t, f.ledger.SyncActivity(ctx, catMercado, m1))

	// Restaurantes: gasto solo con tarjeta → sobregasto a crédito.
	f.store.AddTransaction(acctVisa, catRestaurantes, m1.FirstDay(), money.Zero(), money.Milliunits(30000))
	require.NoError(t, f.ledger.SyncActivity(ctx, catRestaurantes, m1))

	views, err := f.ledger.RowsForMonth(ctx, m1)
	require.NoError(t, err)
	byCat := viewByCategory(views)

	assert.Equal(t, budget.OverspendingCash, byCat[catMercado].Overspending)
	assert.Equal(t, budget.OverspendingCredit, byCat[catRestaurantes].Overspending)
}

func TestRowsForMonth_CategoriaDePagoEnDeficit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.May)
	m2 := entity.NewMonth(2025, time.June)

	// Pagar la tarjeta sin reserva deja la categoría de pago en negativo.
	f.store.AddTransaction(acctVisa, "", m1.FirstDay(), money.Milliunits(80000), money.Zero())
	require.NoError(t, f.funding.RecalculateAccount(ctx, acctVisa, m1))

	views, err := f.ledger.RowsForMonth(ctx, m1)
	require.NoError(t, err)
	byCat := viewByCategory(views)
	require.Equal(t, int64(-80000), byCat[catPagoVisa].Available.Raw())
	assert.Equal(t, budget.OverspendingCredit, byCat[catPagoVisa].Overspending)

	// La deuda de la categoría de pago sí rueda al mes siguiente.
	views, err = f.ledger.RowsForMonth(ctx, m2)
	require.NoError(t, err)
	byCat = viewByCategory(views)
	assert.Equal(t, int64(-80000), byCat[catPagoVisa].Available.Raw())
}

func TestRowsForMonth_ExcluyeGruposDeIngreso(t *testing.T) {
	f := newFixture(t)
	views, err := f.ledger.RowsForMonth(context.Background(), entity.NewMonth(2025, time.May))
	require.NoError(t, err)

	for _, v := range views {
		assert.NotEqual(t, catSalario, v.CategoryID, "las categorías de ingreso no son sobres")
	}
	assert.Len(t, views, 3)
}

func TestCleanupGhosts_CorrigeFilasInyectadas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.May)

	// Inyectar una fila degenerada por debajo del motor.
	ghost := &entity.BudgetRow{CategoryID: catMercado, Month: m1, UpdatedAt: time.Now()}
	require.NoError(t, f.store.Rows().Insert(ctx, ghost))

	corrected, err := f.ledger.CleanupGhosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, corrected)
	f.noRow(t, catMercado, m1)

	// Sin fantasmas, el barrido no hace nada.
	corrected, err = f.ledger.CleanupGhosts(ctx)
	require.NoError(t, err)
	assert.Zero(t, corrected)
}

func TestRowsForMonth_DisparaBarridoAnteFantasma(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.May)

	ghost := &entity.BudgetRow{CategoryID: catMercado, Month: m1, UpdatedAt: time.Now()}
	require.NoError(t, f.store.Rows().Insert(ctx, ghost))

	// La lectura no falla: omite la fila y dispara la corrección.
	views, err := f.ledger.RowsForMonth(ctx, m1)
	require.NoError(t, err)
	byCat := viewByCategory(views)
	assert.True(t, byCat[catMercado].Available.IsZero())

	f.noRow(t, catMercado, m1)
}
