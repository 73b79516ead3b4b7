package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/adapter"
	"telegram-panel-store/internal/domain/ports/repository"
	"telegram-panel-store/internal/infra/metrics"
)

// Rental polling schedule. Lower start and ceiling than the payment poller:
// OTPs either arrive within a few minutes or not at all.
const (
	rentalPollInitial  = 5 * time.Second
	rentalPollBase     = 10 * time.Second
	rentalPollStep     = 3
	rentalPollCap      = 30 * time.Second
	rentalPollErrBase  = 15 * time.Second
	rentalPollErrStep  = 3
	rentalPollErrCap   = 45 * time.Second
	rentalMaxPollCount = 30
)

// Compile-time check
var _ RentalUseCase = (*rentalUC)(nil)

// RentalUseCase rents virtual numbers for OTP retrieval, paying from the
// internal balance instead of the payment gateway. Payment precedes
// delivery: the debit happens at purchase time.
type RentalUseCase interface {
	Services(ctx context.Context) ([]adapter.RentalService, error)
	Purchase(ctx context.Context, userID, chatID int64, serviceCode, serviceName string, price int64) (*model.RentalOrder, error)
	Status(ctx context.Context, userID int64, orderID string) (*model.RentalOrder, *adapter.RentalState, error)
	// History lists the user's past rentals, newest first.
	History(ctx context.Context, userID int64) ([]*model.RentalOrder, error)
	// Cancel aborts a rental; the debit is refunded only when the order was
	// still pending. Vendor-side failures never auto-refund.
	Cancel(ctx context.Context, userID int64, orderID string) error
}

type rentalUC struct {
	rentals  repository.RentalRepository
	gateway  adapter.RentalGateway
	balances BalanceUseCase
	notifier adapter.Notifier
	tm       repository.TransactionManager
	clock    Clock
	country  string
	operator string
	log      *zerolog.Logger

	pollWG sync.WaitGroup
}

func NewRentalUseCase(
	rentals repository.RentalRepository,
	gateway adapter.RentalGateway,
	balances BalanceUseCase,
	notifier adapter.Notifier,
	tm repository.TransactionManager,
	clock Clock,
	country, operator string,
	logger *zerolog.Logger,
) *rentalUC {
	l := logger.With().Str("component", "RentalUC").Logger()
	return &rentalUC{
		rentals:  rentals,
		gateway:  gateway,
		balances: balances,
		notifier: notifier,
		tm:       tm,
		clock:    clock,
		country:  country,
		operator: operator,
		log:      &l,
	}
}

func (u *rentalUC) Services(ctx context.Context) ([]adapter.RentalService, error) {
	services, err := u.gateway.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	return services, nil
}

func (u *rentalUC) Purchase(ctx context.Context, userID, chatID int64, serviceCode, serviceName string, price int64) (*model.RentalOrder, error) {
	if price <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	// Sufficiency check before any gateway call.
	balance, err := u.balances.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < price {
		return nil, domain.ErrInsufficientBalance
	}

	id, target, err := u.orderWithRetry(ctx, serviceCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	remaining, err := u.balances.Debit(ctx, userID, price)
	if err != nil {
		// The debit lost a race with another spend. Release the vendor
		// order and surface the rejection.
		if cErr := u.gateway.Cancel(ctx, id); cErr != nil {
			u.log.Warn().Err(cErr).Str("rental", id).Msg("vendor cancel after debit failure")
		}
		return nil, err
	}

	r, err := model.NewRentalOrder(id, userID, chatID, serviceCode, serviceName, price, target, remaining, u.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := u.rentals.Save(ctx, nil, r); err != nil {
		u.log.Error().Err(err).Str("rental", id).Msg("rental persist failed")
	}

	if err := u.notifier.RentalStarted(ctx, r); err != nil {
		u.log.Warn().Err(err).Str("rental", id).Msg("rental ack delivery failed")
	}
	u.log.Info().Int64("user", userID).Str("rental", id).Str("service", serviceCode).Int64("price", price).Msg("rental purchased")

	u.startPoller(ctx, r)
	return r, nil
}

// orderWithRetry places the vendor order, retrying exactly once with the
// wildcard operator when the configured one is rejected.
func (u *rentalUC) orderWithRetry(ctx context.Context, serviceCode string) (string, string, error) {
	id, target, err := u.gateway.Order(ctx, serviceCode, u.operator, u.country)
	if err == nil || strings.EqualFold(u.operator, "any") {
		return id, target, err
	}
	u.log.Warn().Err(err).Str("operator", u.operator).Msg("vendor rejected operator, retrying with any")
	return u.gateway.Order(ctx, serviceCode, "any", u.country)
}

func (u *rentalUC) startPoller(ctx context.Context, r *model.RentalOrder) {
	p := newRentalPoller(u, r, u.clock)
	u.pollWG.Add(1)
	go func() {
		defer u.pollWG.Done()
		if err := p.Run(ctx); err != nil && ctx.Err() == nil {
			u.log.Error().Err(err).Str("rental", r.ID).Msg("rental poller stopped")
		}
	}()
}

// Wait blocks until all pollers have exited. Used on shutdown and in tests.
func (u *rentalUC) Wait() { u.pollWG.Wait() }

func (u *rentalUC) Status(ctx context.Context, userID int64, orderID string) (*model.RentalOrder, *adapter.RentalState, error) {
	r, err := u.rentals.FindByIDAndUser(ctx, nil, orderID, userID)
	if err != nil {
		return nil, nil, err
	}
	state, err := u.gateway.Status(ctx, orderID)
	if err != nil {
		return r, nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	return r, state, nil
}

func (u *rentalUC) History(ctx context.Context, userID int64) ([]*model.RentalOrder, error) {
	return u.rentals.ListByUser(ctx, nil, userID)
}

func (u *rentalUC) Cancel(ctx context.Context, userID int64, orderID string) error {
	r, err := u.rentals.FindByIDAndUser(ctx, nil, orderID, userID)
	if err != nil {
		return err
	}
	if r.Status != model.RentalStatusPending {
		return domain.ErrOrderNotPending
	}
	// Best effort; the refund proceeds regardless.
	if err := u.gateway.Cancel(ctx, orderID); err != nil {
		u.log.Warn().Err(err).Str("rental", orderID).Msg("vendor cancel failed")
	}

	// Status flip, refund credit and refund snapshot commit together: a
	// cancelled order must never lose its refund halfway through.
	now := u.clock.Now()
	var remaining int64
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.rentals.UpdateStatus(ctx, tx, orderID, model.RentalStatusCancelled, "cancelled by user", &now); err != nil {
			return err
		}
		next, err := u.balances.CreditTx(ctx, tx, userID, r.Debited)
		if err != nil {
			return err
		}
		remaining = next
		return u.rentals.RecordRefund(ctx, tx, orderID, r.Debited, remaining)
	})
	if err != nil {
		u.log.Error().Err(err).Str("rental", orderID).Int64("amount", r.Debited).Msg("cancel refund failed")
		return err
	}
	r.Status = model.RentalStatusCancelled
	r.Refunded = r.Debited
	r.Remaining = remaining
	metrics.IncRentalTerminal("cancelled")
	if err := u.notifier.RentalCancelled(ctx, r); err != nil {
		u.log.Warn().Err(err).Str("rental", orderID).Msg("cancel notification failed")
	}
	u.log.Info().Str("rental", orderID).Int64("refund", r.Debited).Msg("rental cancelled and refunded")
	return nil
}

// handleVendorTerminal records a terminal vendor status reported by the
// poller. The repository update is conditional on the order still being
// pending, which keeps a stale poll from overwriting a user cancellation.
func (u *rentalUC) handleVendorTerminal(ctx context.Context, r *model.RentalOrder, state *adapter.RentalState) {
	now := u.clock.Now()
	switch state.Status {
	case adapter.VendorRentalSuccess:
		if err := u.rentals.UpdateStatus(ctx, nil, r.ID, model.RentalStatusSuccess, state.Note, &now); err != nil {
			if !errors.Is(err, domain.ErrOrderNotPending) {
				u.log.Error().Err(err).Str("rental", r.ID).Msg("rental success persist failed")
			}
			return
		}
		r.Status = model.RentalStatusSuccess
		r.Note = state.Note
		r.CompletedAt = &now
		metrics.IncRentalTerminal("success")
		if err := u.notifier.NotifyRentalCompleted(ctx, r); err != nil {
			u.log.Warn().Err(err).Str("rental", r.ID).Msg("channel notification failed")
		}
		if err := u.notifier.RentalOTP(ctx, r, state.Note); err != nil {
			u.log.Warn().Err(err).Str("rental", r.ID).Msg("otp delivery failed")
		}
		u.log.Info().Str("rental", r.ID).Msg("otp received")
	case adapter.VendorRentalCancel, adapter.VendorRentalError:
		// No automatic refund here: only an explicit user cancellation
		// returns the debit.
		if err := u.rentals.UpdateStatus(ctx, nil, r.ID, model.RentalStatusFailed, state.Note, &now); err != nil {
			if !errors.Is(err, domain.ErrOrderNotPending) {
				u.log.Error().Err(err).Str("rental", r.ID).Msg("rental failure persist failed")
			}
			return
		}
		r.Status = model.RentalStatusFailed
		metrics.IncRentalTerminal("failed")
		if err := u.notifier.RentalFailed(ctx, r, state.Note); err != nil {
			u.log.Warn().Err(err).Str("rental", r.ID).Msg("failure notification failed")
		}
		u.log.Info().Str("rental", r.ID).Str("note", state.Note).Msg("rental failed")
	}
}
