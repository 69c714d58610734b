package budget

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/budget"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/entity"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/money"
	"github.com/camilopiedra92/YNAB-Clone-sub001/internal/domain/repository"
	"github.com/camilopiedra92/YNAB-Clone-sub001/pkg/logger"
)

// PaymentFundingUseCase recalcula la categoría de pago de cada tarjeta: el
// gasto a crédito que las categorías podían cubrir se reserva como actividad
// positiva de la categoría de pago, y los pagos a la tarjeta la consumen.
type PaymentFundingUseCase struct {
	txRunner     TxRunner
	categoryRepo repository.CategoryRepository
	accountRepo  repository.AccountRepository
	log          *logger.Logger
}

// NewPaymentFundingUseCase construye el caso de uso. log puede ser nil.
func NewPaymentFundingUseCase(
	txRunner TxRunner,
	categoryRepo repository.CategoryRepository,
	accountRepo repository.AccountRepository,
	log *logger.Logger,
) *PaymentFundingUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentFundingUseCase{
		txRunner:     txRunner,
		categoryRepo: categoryRepo,
		accountRepo:  accountRepo,
		log:          log,
	}
}

// RecalculateAccount recalcula actividad y disponible de la categoría de
// pago de una cuenta de crédito para un mes y propaga el cambio a los meses
// futuros. Asume que la actividad de las categorías del gasto ya fue
// sincronizada: el disponible que se lee es el posterior al gasto.
func (uc *PaymentFundingUseCase) RecalculateAccount(ctx context.Context, accountID string, month entity.Month) error {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("resolver cuenta: %w", err)
	}
	if account == nil {
		return fmt.Errorf("cuenta %s: %w", accountID, domain.ErrNotFound)
	}
	if !account.IsCredit() {
		return fmt.Errorf("cuenta %s no es de crédito: %w", accountID, domain.ErrInvalidInput)
	}

	paymentCat, err := uc.categoryRepo.GetPaymentCategory(ctx, accountID)
	if err != nil {
		return fmt.Errorf("resolver categoría de pago: %w", err)
	}
	if paymentCat == nil {
		return fmt.Errorf("cuenta %s sin categoría de pago: %w", accountID, domain.ErrNotFound)
	}
	payment, err := paymentCategoryIDs(ctx, uc.categoryRepo)
	if err != nil {
		return err
	}

	err = uc.txRunner.RunSerialized(ctx, paymentCat.ID, func(
		rows repository.BudgetRowRepository,
		sums repository.TransactionSumsRepository,
	) error {
		spend, err := sums.CardCategorySpending(ctx, accountID, month)
		if err != nil {
			return fmt.Errorf("sumar gasto de la tarjeta: %w", err)
		}
		payments, err := sums.CardPayments(ctx, accountID, month)
		if err != nil {
			return fmt.Errorf("sumar pagos a la tarjeta: %w", err)
		}

		var entries []budget.CardSpending
		for categoryID, sum := range spend {
			if payment[categoryID] {
				continue
			}
			available, err := currentAvailable(ctx, rows, categoryID, month)
			if err != nil {
				return err
			}
			entries = append(entries, budget.CardSpending{
				CategoryID:  categoryID,
				NetSpending: sum.NetSpending(),
				Available:   available,
			})
		}
		activity := budget.PaymentActivity(entries, payments)

		existing, err := rows.GetRow(ctx, paymentCat.ID, month)
		if err != nil {
			return err
		}
		prev, err := rows.GetLatestRowBefore(ctx, paymentCat.ID, month)
		if err != nil {
			return err
		}
		carryforward := budget.Carryforward(prev, true)
		now := time.Now()

		if existing == nil {
			if activity.IsZero() {
				return nil
			}
			row := &entity.BudgetRow{
				CategoryID: paymentCat.ID,
				Month:      month,
				Assigned:   money.Zero(),
				Activity:   activity,
				Available:  budget.Available(carryforward, money.Zero(), activity),
				UpdatedAt:  now,
			}
			if err := rows.Insert(ctx, row); err != nil {
				return fmt.Errorf("insertar fila de pago: %w", err)
			}
			return propagateDelta(ctx, rows, paymentCat.ID, month, activity, now)
		}

		newAvailable := budget.Available(carryforward, existing.Assigned, activity)
		delta := newAvailable.Sub(existing.Available)
		row := *existing
		row.Activity = activity
		row.Available = newAvailable
		row.UpdatedAt = now

		if row.IsGhost() {
			if err := rows.Delete(ctx, paymentCat.ID, month); err != nil {
				return fmt.Errorf("eliminar fila de pago degenerada: %w", err)
			}
		} else if err := rows.Update(ctx, &row); err != nil {
			return fmt.Errorf("actualizar fila de pago: %w", err)
		}

		if !delta.IsZero() {
			return propagateDelta(ctx, rows, paymentCat.ID, month, delta, now)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("financiamiento de pagos cuenta %s: %w", accountID, err)
	}

	uc.log.Debug().
		Str("account_id", accountID).
		Str("month", month.String()).
		Msg("financiamiento de pagos recalculado")
	return nil
}

// RecalculateAll recalcula el financiamiento de todas las cuentas de crédito
// para un mes. Cada cuenta corre en su propia transacción serializada, así
// que pueden ir en paralelo.
func (uc *PaymentFundingUseCase) RecalculateAll(ctx context.Context, month entity.Month) error {
	accounts, err := uc.accountRepo.ListByType(ctx, entity.AccountTypeCredit)
	if err != nil {
		return fmt.Errorf("listar cuentas de crédito: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, account := range accounts {
		account := account
		g.Go(func() error {
			return uc.RecalculateAccount(ctx, account.ID, month)
		})
	}
	return g.Wait()
}

// currentAvailable devuelve el disponible actual de una categoría común en
// un mes: su fila si existe, o el arrastre desde la anterior si no.
func currentAvailable(
	ctx context.Context,
	rows repository.BudgetRowRepository,
	categoryID string,
	month entity.Month,
) (money.Milliunits, error) {
	row, err := rows.GetRow(ctx, categoryID, month)
	if err != nil {
		return money.Zero(), err
	}
	if row != nil {
		return row.Available, nil
	}
	prev, err := rows.GetLatestRowBefore(ctx, categoryID, month)
	if err != nil {
		return money.Zero(), err
	}
	return budget.Carryforward(prev, false), nil
}
