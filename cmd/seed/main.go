// seed prepara una base de datos de demostración y ejercita el ciclo
// completo del motor: migraciones, datos de referencia, transacciones de
// ejemplo, asignaciones, sincronización de actividad, financiamiento de
// pagos de tarjeta y lectura de la vista mensual con su dinero listo para
// asignar.
//
// Uso: go run ./cmd/seed
// Es idempotente: si los datos de referencia ya existen, solo re-ejecuta el
// ciclo del motor sobre ellos.
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	appbudget "github.com/camilopiedra92/YNAB-Clone-sub001/internal/application/budget"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/infrastructure/postgres"
	"github.com/camilopiedra92/YNAB-Clone-sub001/pkg/config"
	"github.com/camilopiedra92/YNAB-Clone-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando seed")

	if err := postgres.RunMigrations(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	categoryRepo := postgres.NewCategoryRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := appbudget.NewLedgerUseCase(txRunner, categoryRepo, log)
	fundingUC := appbudget.NewPaymentFundingUseCase(txRunner, categoryRepo, accountRepo, log)
	rtaUC := appbudget.NewReadyToAssignUseCase(txRunner)

	month := entity.CurrentMonth()

	ids, seeded, err := seedReferenceData(ctx, pool, categoryRepo, accountRepo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("sembrar datos de referencia")
	}
	if seeded {
		if err := seedTransactions(ctx, pool, ids, month); err != nil {
			log.Fatal().Err(err).Msg("sembrar transacciones")
		}
		log.Info().Msg("transacciones de ejemplo insertadas")
	}

	// Asignaciones del mes: entran por el mismo camino validado que usaría
	// cualquier colaborador externo.
	assignments := []struct {
		categoryID string
		amount     float64
	}{
		{ids.catMercado, 600},
		{ids.catRestaurantes, 150},
	}
	for _, a := range assignments {
		v, err := ledgerUC.UpdateAssignment(ctx, a.categoryID, month, a.amount)
		if err != nil {
			log.Fatal().Err(err).Str("categoria", a.categoryID).Msg("asignar")
		}
		if !v.Valid {
			log.Warn().Str("categoria", a.categoryID).Msg("asignación rechazada")
		}
	}

	// Sincronizar actividad de las categorías con movimientos.
	for _, categoryID := range []string{ids.catMercado, ids.catRestaurantes} {
		if err := ledgerUC.SyncActivity(ctx, categoryID, month); err != nil {
			log.Fatal().Err(err).Str("categoria", categoryID).Msg("sincronizar actividad")
		}
	}

	// Recalcular el financiamiento de pagos de todas las tarjetas.
	if err := fundingUC.RecalculateAll(ctx, month); err != nil {
		log.Fatal().Err(err).Msg("recalcular pagos de tarjeta")
	}

	// Vista del mes y dinero listo para asignar.
	views, err := ledgerUC.RowsForMonth(ctx, month)
	if err != nil {
		log.Fatal().Err(err).Msg("vista mensual")
	}
	for _, v := range views {
		log.Info().
			Str("categoria", v.CategoryID).
			Str("asignado", v.Assigned.Decimal().StringFixed(2)).
			Str("actividad", v.Activity.Decimal().StringFixed(2)).
			Str("disponible", v.Available.Decimal().StringFixed(2)).
			Str("sobregasto", string(v.Overspending)).
			Msg("fila del mes")
	}

	rta, err := rtaUC.Compute(ctx, month)
	if err != nil {
		log.Fatal().Err(err).Msg("calcular dinero listo para asignar")
	}
	breakdown, err := rtaUC.Breakdown(ctx, month)
	if err != nil {
		log.Fatal().Err(err).Msg("desglosar dinero listo para asignar")
	}
	log.Info().
		Str("mes", month.String()).
		Str("listo_para_asignar", rta.Decimal().StringFixed(2)).
		Str("sobrante_mes_anterior", breakdown.LeftoverFromPreviousMonth.Decimal().StringFixed(2)).
		Str("ingresos_del_mes", breakdown.InflowThisMonth.Decimal().StringFixed(2)).
		Str("saldos_credito_a_favor", breakdown.PositiveCreditBalances.Decimal().StringFixed(2)).
		Str("asignado_del_mes", breakdown.AssignedThisMonth.Decimal().StringFixed(2)).
		Str("sobregasto_efectivo_anterior", breakdown.CashOverspendingPreviousMonth.Decimal().StringFixed(2)).
		Msg("resumen del presupuesto")

	log.Info().Msg("seed completado")
}

// seedIDs referencias creadas (o recuperadas) por la semilla.
type seedIDs struct {
	acctCorriente   string
	acctVisa        string
	catSalario      string
	catMercado      string
	catRestaurantes string
	catPagoVisa     string
}

// seedReferenceData crea grupos, cuentas y categorías si no existen.
// Devuelve seeded=false cuando la base ya tenía datos de referencia; en ese
// caso los IDs se recuperan de lo existente.
func seedReferenceData(
	ctx context.Context,
	pool *pgxpool.Pool,
	categoryRepo *postgres.CategoryRepo,
	accountRepo *postgres.AccountRepo,
	log *logger.Logger,
) (seedIDs, bool, error) {
	groups, err := categoryRepo.ListGroups(ctx)
	if err != nil {
		return seedIDs{}, false, err
	}
	if len(groups) > 0 {
		log.Info().Msg("datos de referencia ya existen, no se vuelven a sembrar")
		return recoverSeedIDs(ctx, categoryRepo, accountRepo)
	}

	now := time.Now()
	ids := seedIDs{
		acctCorriente:   uuid.NewString(),
		acctVisa:        uuid.NewString(),
		catSalario:      uuid.NewString(),
		catMercado:      uuid.NewString(),
		catRestaurantes: uuid.NewString(),
		catPagoVisa:     uuid.NewString(),
	}
	grpIngresos := uuid.NewString()
	grpGastos := uuid.NewString()
	grpTarjetas := uuid.NewString()

	for _, g := range []*entity.CategoryGroup{
		{ID: grpIngresos, Name: "Ingresos", IsIncome: true, Position: 0, CreatedAt: now},
		{ID: grpGastos, Name: "Gastos", IsIncome: false, Position: 1, CreatedAt: now},
		{ID: grpTarjetas, Name: "Tarjetas", IsIncome: false, Position: 2, CreatedAt: now},
	} {
		if err := categoryRepo.InsertGroup(ctx, g); err != nil {
			return seedIDs{}, false, err
		}
	}

	for _, a := range []*entity.Account{
		{ID: ids.acctCorriente, Name: "Cuenta Corriente", Type: entity.AccountTypeChecking, CreatedAt: now},
		{ID: ids.acctVisa, Name: "Visa", Type: entity.AccountTypeCredit, CreatedAt: now},
	} {
		if err := accountRepo.Insert(ctx, a); err != nil {
			return seedIDs{}, false, err
		}
	}

	for _, c := range []*entity.Category{
		{ID: ids.catSalario, GroupID: grpIngresos, Name: "Salario", Position: 0, CreatedAt: now},
		{ID: ids.catMercado, GroupID: grpGastos, Name: "Mercado", Position: 0, CreatedAt: now},
		{ID: ids.catRestaurantes, GroupID: grpGastos, Name: "Restaurantes", Position: 1, CreatedAt: now},
		{ID: ids.catPagoVisa, GroupID: grpTarjetas, Name: "Pago de Visa", LinkedAccountID: ids.acctVisa, Position: 0, CreatedAt: now},
	} {
		if err := categoryRepo.Insert(ctx, c); err != nil {
			return seedIDs{}, false, err
		}
	}

	log.Info().Msg("datos de referencia sembrados")
	return ids, true, nil
}

// recoverSeedIDs reconstruye los IDs de la semilla a partir de los nombres.
func recoverSeedIDs(
	ctx context.Context,
	categoryRepo *postgres.CategoryRepo,
	accountRepo *postgres.AccountRepo,
) (seedIDs, bool, error) {
	var ids seedIDs
	accounts, err := accountRepo.ListAll(ctx)
	if err != nil {
		return seedIDs{}, false, err
	}
	for _, a := range accounts {
		switch a.Name {
		case "Cuenta Corriente":
			ids.acctCorriente = a.ID
		case "Visa":
			ids.acctVisa = a.ID
		}
	}
	categories, err := categoryRepo.ListAll(ctx)
	if err != nil {
		return seedIDs{}, false, err
	}
	for _, c := range categories {
		switch c.Name {
		case "Salario":
			ids.catSalario = c.ID
		case "Mercado":
			ids.catMercado = c.ID
		case "Restaurantes":
			ids.catRestaurantes = c.ID
		case "Pago de Visa":
			ids.catPagoVisa = c.ID
		}
	}
	return ids, false, nil
}

// seedTransactions inserta movimientos de ejemplo del mes actual. Las
// transacciones pertenecen a los colaboradores externos, así que entran por
// SQL directo y no por el motor.
func seedTransactions(ctx context.Context, pool *pgxpool.Pool, ids seedIDs, month entity.Month) error {
	day := month.FirstDay()
	type txn struct {
		accountID  string
		categoryID string // vacío = sin categoría
		inflow     float64
		outflow    float64
		memo       string
	}
	txns := []txn{
		{accountID: ids.acctCorriente, categoryID: ids.catSalario, inflow: 2500, memo: "Salario del mes"},
		{accountID: ids.acctCorriente, categoryID: ids.catMercado, outflow: 180.50, memo: "Mercado semanal"},
		{accountID: ids.acctCorriente, categoryID: ids.catMercado, outflow: 95.25, memo: "Mercado semanal"},
		{accountID: ids.acctVisa, categoryID: ids.catRestaurantes, outflow: 120, memo: "Cena"},
		// Pago de la tarjeta: sale de la corriente y entra a la Visa, ambos
		// lados sin categoría.
		{accountID: ids.acctCorriente, outflow: 100, memo: "Pago Visa"},
		{accountID: ids.acctVisa, inflow: 100, memo: "Pago Visa"},
	}

	query := `
		INSERT INTO transactions (id, account_id, category_id, date, inflow, outflow, memo)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)`
	for _, t := range txns {
		_, err := pool.Exec(ctx, query,
			uuid.NewString(), t.accountID, t.categoryID, day, t.inflow, t.outflow, t.memo)
		if err != nil {
			return err
		}
	}
	return nil
}
