package budget_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
)

func TestFunding_GastoCubiertoReservaCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.May)

	// Mercado presupuestado con 100; gasto de 60 en la tarjeta.
	_, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, 100000)
	require.NoError(t, err)
	f.store.AddTransaction(acctVisa, catMercado, m1.FirstDay(), money.Zero(), money.Milliunits(60000))
	require.NoError(t, f.ledger.SyncActivity(ctx, catMercado, m1))

	require.NoError(t, f.funding.RecalculateAccount(ctx, acctVisa, m1))

	row := f.mustRow(t, catPagoVisa, m1)
	assert.Equal(t, int64(60000), row.Activity.Raw(), "todo el gasto estaba cubierto")
	assert.Equal(t, int64(60000), row.Available.Raw())
}

func TestFunding_SobregastoNoGeneraReserva(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.May)

	// Mercado presupuestado con 100 pero gasto de 120: tras el gasto el
	// disponible queda en -20 y solo se reservan los 100 cubiertos.
	_, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, 100000)
	require.NoError(t, err)
	f.store.AddTransaction(acctVisa, catMercado, m1.FirstDay(), money.Zero(), money.Milliunits(120000))
	require.NoError(t, f.ledger.SyncActivity(ctx, catMercado, m1))
	require.Equal(t, int64(-20000), f.mustRow(t, catMercado, m1).Available.Raw())

	require.NoError(t, f.funding.RecalculateAccount(ctx, acctVisa, m1))

	row := f.mustRow(t, catPagoVisa, m1)
	assert.Equal(t, int64(100000), row.Activity.Raw(), "min(max(0, 120+(-20)), 120)")
}

func TestFunding_PagosConsumenReserva(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.May)

	_, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, 100000)
	require.NoError(t, err)
	f.store.AddTransaction(acctVisa, catMercado, m1.FirstDay(), money.Zero(), money.Milliunits(60000))
	require.NoError(t, f.ledger.SyncActivity(ctx, catMercado, m1))

	// Pago de 40 a la tarjeta: entrada sin categoría.
	f.store.AddTransaction(acctVisa, "", m1.FirstDay().AddDate(0, 0, 10), money.Milliunits(40000), money.Zero())

	require.NoError(t, f.funding.RecalculateAccount(ctx, acctVisa, m1))

	row := f.mustRow(t, catPagoVisa, m1)
	assert.Equal(t, int64(20000), row.Activity.Raw(), "reserva 60 menos pago 40")
	assert.Equal(t, int64(20000), row.Available.Raw())
}

func TestFunding_RecalculoEsIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.May)

	_, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, 100000)
	require.NoError(t, err)
	f.store.AddTransaction(acctVisa, catMercado, m1.FirstDay(), money.Zero(), money.Milliunits(60000))
	require.NoError(t, f.ledger.SyncActivity(ctx, catMercado, m1))

	require.NoError(t, f.funding.RecalculateAccount(ctx, acctVisa, m1))
	first := f.mustRow(t, catPagoVisa, m1)

	require.NoError(t, f.funding.RecalculateAccount(ctx, acctVisa, m1))
	second := f.mustRow(t, catPagoVisa, m1)

	assert.Equal(t, first.Activity, second.Activity)
	assert.Equal(t, first.Available, second.Available)
}

func TestFunding_DeudaRuedaYSePagaElMesSiguiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.May)
	m2 := entity.NewMonth(2025, time.June)

	// Pago sin reserva en mayo: deuda de la categoría de pago.
	f.store.AddTransaction(acctVisa, "", m1.FirstDay(), money.Milliunits(50000), money.Zero())
	require.NoError(t, f.funding.RecalculateAccount(ctx, acctVisa, m1))
	require.Equal(t, int64(-50000), f.mustRow(t, catPagoVisa, m1).Available.Raw())

	// En junio se asigna directamente a la categoría de pago para cubrirla.
	_, err := f.ledger.UpdateAssignment(ctx, catPagoVisa, m2, 50000)
	require.NoError(t, err)

	row := f.mustRow(t, catPagoVisa, m2)
	assert.Equal(t, int64(0), row.Available.Raw(), "arrastre -50 + asignado 50")
}

func TestFunding_ReembolsoPasaSinRecorte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.May)

	// Reembolso neto en la tarjeta para una categoría sin presupuesto.
	f.store.AddTransaction(acctVisa, catRestaurantes, m1.FirstDay(), money.Milliunits(25000), money.Zero())
	require.NoError(t, f.ledger.SyncActivity(ctx, catRestaurantes, m1))

	require.NoError(t, f.funding.RecalculateAccount(ctx, acctVisa, m1))

	row := f.mustRow(t, catPagoVisa, m1)
	assert.Equal(t, int64(-25000), row.Activity.Raw(), "el reembolso revierte reserva")
}

func TestFunding_CuentaNoCredito(t *testing.T) {
	f := newFixture(t)
	err := f.funding.RecalculateAccount(context.Background(), acctCorriente, entity.NewMonth(2025, time.May))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFunding_CuentaInexistente(t *testing.T) {
	f := newFixture(t)
	err := f.funding.RecalculateAccount(context.Background(), "acct-fantasma", entity.NewMonth(2025, time.May))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFunding_TarjetaSinCategoriaDePago(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Accounts().Insert(ctx, &entity.Account{
		ID:   "acct-master",
		Name: "Mastercard",
		Type: entity.AccountTypeCredit,
	}))

	err := f.funding.RecalculateAccount(ctx, "acct-master", entity.NewMonth(2025, time.May))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFunding_RecalculateAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m1 := entity.NewMonth(2025, time.May)

	// Segunda tarjeta con su propia categoría de pago.
	require.NoError(t, f.store.Accounts().Insert(ctx, &entity.Account{
		ID:   "acct-master",
		Name: "Mastercard",
		Type: entity.AccountTypeCredit,
	}))
	require.NoError(t, f.store.Categories().Insert(ctx, &entity.Category{
		ID:              "cat-pago-master",
		GroupID:         grpTarjetas,
		Name:            "Pago Mastercard",
		LinkedAccountID: "acct-master",
		Position:        1,
	}))

	_, err := f.ledger.UpdateAssignment(ctx, catMercado, m1, 100000)
	require.NoError(t, err)
	f.store.AddTransaction(acctVisa, catMercado, m1.FirstDay(), money.Zero(), money.Milliunits(30000))
	require.NoError(t, f.ledger.SyncActivity(ctx, catMercado, m1))
	f.store.AddTransaction("acct-master", "", m1.FirstDay(), money.Milliunits(10000), money.Zero())

	require.NoError(t, f.funding.RecalculateAll(ctx, m1))

	assert.Equal(t, int64(30000), f.mustRow(t, catPagoVisa, m1).Activity.Raw())
	assert.Equal(t, int64(-10000), f.mustRow(t, "cat-pago-master", m1).Activity.Raw())
}
