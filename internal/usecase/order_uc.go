package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/adapter"
	"telegram-panel-store/internal/domain/ports/repository"
	"telegram-panel-store/internal/infra/metrics"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

// OrderUseCase is the order lifecycle coordinator: it turns a purchase
// request into a paid, fulfilled order, guaranteeing at most one in-flight
// order per user and at most one terminal transition per order.
type OrderUseCase interface {
	// Create obtains an invoice from the payment gateway, registers the
	// pending order and starts its polling loop.
	Create(ctx context.Context, userID, chatID int64, kind model.OrderKind, price int64, payload model.OrderPayload) (*model.PendingOrder, error)
	// Cancel is the user-initiated abort of a pending order.
	Cancel(ctx context.Context, userID int64, paymentID string) error
	// Resume performs an on-demand status check (inline "check payment"
	// button) and drives the usual terminal handling when the gateway
	// already reports a terminal state.
	Resume(ctx context.Context, userID int64, paymentID string) (adapter.DepositStatus, error)
	// ExpireStale resolves pending orders whose expiry passed without a
	// terminal poll (e.g. the poller hit its budget). Returns how many
	// orders were expired.
	ExpireStale(ctx context.Context) int
	// Pending returns the user's active order, if any.
	Pending(userID int64) (*model.PendingOrder, bool)
	// History lists the user's completed orders, newest first.
	History(ctx context.Context, userID int64) ([]*model.Order, error)
}

type orderUC struct {
	registry  *PendingRegistry
	orders    repository.OrderRepository
	gateway   adapter.PaymentGateway
	fulfiller FulfillUseCase
	notifier  adapter.Notifier
	clock     Clock
	log       *zerolog.Logger

	pollWG sync.WaitGroup
}

func NewOrderUseCase(
	registry *PendingRegistry,
	orders repository.OrderRepository,
	gateway adapter.PaymentGateway,
	fulfiller FulfillUseCase,
	notifier adapter.Notifier,
	clock Clock,
	logger *zerolog.Logger,
) *orderUC {
	l := logger.With().Str("component", "OrderUC").Logger()
	return &orderUC{
		registry:  registry,
		orders:    orders,
		gateway:   gateway,
		fulfiller: fulfiller,
		notifier:  notifier,
		clock:     clock,
		log:       &l,
	}
}

func (u *orderUC) Create(ctx context.Context, userID, chatID int64, kind model.OrderKind, price int64, payload model.OrderPayload) (*model.PendingOrder, error) {
	po, err := model.NewPendingOrder(userID, chatID, kind, price, payload, u.clock.Now())
	if err != nil {
		return nil, err
	}
	po.ReferenceID = uuid.NewString()

	// Reserve the slot before the gateway round trip so two rapid purchase
	// commands cannot both obtain invoices.
	if err := u.registry.Register(po); err != nil {
		return nil, err
	}

	inv, err := u.gateway.CreateDeposit(ctx, po.ReferenceID, po.Total)
	if err != nil {
		u.registry.Remove(userID)
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	po.PaymentID = inv.ID

	ref, err := u.notifier.SendInvoice(ctx, po, inv)
	if err != nil {
		// The invoice exists at the gateway; keep the order alive and let
		// the user resume via the status button.
		u.log.Error().Err(err).Int64("user", userID).Msg("invoice message delivery failed")
	}
	po.InvoiceMsg = ref

	metrics.IncOrderCreated(string(kind))
	u.log.Info().
		Int64("user", userID).
		Str("kind", string(kind)).
		Int64("total", po.Total).
		Str("payment_id", po.PaymentID).
		Msg("order created")

	u.startPoller(ctx, po)
	return po, nil
}

// startPoller launches the order's polling state machine. Pollers are
// long-lived and strictly sequential per order, so each gets its own
// goroutine rather than a slot in the shared worker pool.
func (u *orderUC) startPoller(ctx context.Context, po *model.PendingOrder) {
	p := newOrderPoller(u, po, u.clock)
	u.pollWG.Add(1)
	go func() {
		defer u.pollWG.Done()
		if err := p.Run(ctx); err != nil && ctx.Err() == nil {
			u.log.Error().Err(err).Str("payment_id", po.PaymentID).Msg("order poller stopped")
		}
	}()
}

// Wait blocks until all pollers have exited. Used on shutdown and in tests.
func (u *orderUC) Wait() { u.pollWG.Wait() }

func (u *orderUC) Pending(userID int64) (*model.PendingOrder, bool) {
	return u.registry.Find(userID)
}

func (u *orderUC) History(ctx context.Context, userID int64) ([]*model.Order, error) {
	return u.orders.ListByUser(ctx, nil, userID)
}

func (u *orderUC) Cancel(ctx context.Context, userID int64, paymentID string) error {
	po, ok := u.registry.Claim(userID, paymentID)
	if !ok {
		return domain.ErrNotFound
	}
	// Best effort; the terminal transition proceeds regardless.
	if err := u.gateway.CancelDeposit(ctx, po.PaymentID); err != nil {
		u.log.Warn().Err(err).Str("payment_id", po.PaymentID).Msg("gateway cancel failed")
	}
	if po.InvoiceMsg.MessageID != 0 {
		_ = u.notifier.DeleteMessage(ctx, po.InvoiceMsg)
	}
	u.finishFailed(ctx, po, "cancelled by user", "cancelled")
	return nil
}

func (u *orderUC) Resume(ctx context.Context, userID int64, paymentID string) (adapter.DepositStatus, error) {
	po, ok := u.registry.FindByPayment(userID, paymentID)
	if !ok {
		return "", domain.ErrNotFound
	}
	status, err := u.gateway.DepositStatus(ctx, po.PaymentID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	switch status {
	case adapter.DepositStatusSuccess:
		u.handleSucceeded(ctx, po)
	case adapter.DepositStatusFailed, adapter.DepositStatusCancel:
		u.handleFailed(ctx, po, "payment failed or cancelled")
	}
	return status, nil
}

func (u *orderUC) ExpireStale(ctx context.Context) int {
	n := 0
	for _, po := range u.registry.Stale(u.clock.Now()) {
		u.handleExpired(ctx, po, "payment window elapsed")
		n++
	}
	return n
}

// handleSucceeded drives the one-time success path: acknowledge, persist,
// notify the channel, fulfill, mark processed, free the slot. The claim is
// what makes it run at most once.
func (u *orderUC) handleSucceeded(ctx context.Context, po *model.PendingOrder) {
	po, ok := u.registry.Claim(po.UserID, po.PaymentID)
	if !ok {
		return
	}
	now := u.clock.Now()
	o := model.CompleteOrder(po, now)

	if err := u.notifier.OrderSucceeded(ctx, o); err != nil {
		u.log.Warn().Err(err).Str("order", o.ID).Msg("success ack delivery failed")
	}

	saved := true
	if err := u.orders.Save(ctx, nil, o); err != nil {
		saved = false
		u.log.Error().Err(err).Str("order", o.ID).Msg("completed order persist failed")
	}
	if err := u.notifier.NotifyOrderCompleted(ctx, o); err != nil {
		u.log.Warn().Err(err).Str("order", o.ID).Msg("channel notification failed")
	}

	// The payment is real; a fulfillment failure becomes an operator alert,
	// never a rollback of the completed order.
	if err := u.fulfiller.Fulfill(ctx, o); err != nil {
		metrics.IncFulfillment(string(o.Kind), false)
		u.log.Error().Err(err).Str("order", o.ID).Str("kind", string(o.Kind)).Msg("fulfillment failed")
		_ = u.notifier.FulfillmentFailed(ctx, o, err)
	} else {
		metrics.IncFulfillment(string(o.Kind), true)
		if saved {
			if err := u.orders.MarkProcessed(ctx, nil, o.ID, u.clock.Now()); err != nil {
				u.log.Error().Err(err).Str("order", o.ID).Msg("mark processed failed")
			}
		}
	}

	metrics.IncOrderTerminal(string(o.Kind), "succeeded")
	u.registry.Remove(po.UserID)
	u.log.Info().Str("order", o.ID).Str("kind", string(o.Kind)).Int64("total", o.Total).Msg("order succeeded")
}

func (u *orderUC) handleFailed(ctx context.Context, po *model.PendingOrder, reason string) {
	po, ok := u.registry.Claim(po.UserID, po.PaymentID)
	if !ok {
		return
	}
	u.finishFailed(ctx, po, reason, "failed")
}

// finishFailed completes a failed/cancelled transition for an already
// claimed order.
func (u *orderUC) finishFailed(ctx context.Context, po *model.PendingOrder, reason, outcome string) {
	if err := u.notifier.OrderFailed(ctx, po, reason); err != nil {
		u.log.Warn().Err(err).Str("payment_id", po.PaymentID).Msg("failure notification failed")
	}
	metrics.IncOrderTerminal(string(po.Kind), outcome)
	u.registry.Remove(po.UserID)
	u.log.Info().Int64("user", po.UserID).Str("kind", string(po.Kind)).Str("reason", reason).Msg("order " + outcome)
}

func (u *orderUC) handleExpired(ctx context.Context, po *model.PendingOrder, reason string) {
	po, ok := u.registry.Claim(po.UserID, po.PaymentID)
	if !ok {
		return
	}
	if err := u.notifier.OrderExpired(ctx, po, reason); err != nil {
		u.log.Warn().Err(err).Str("payment_id", po.PaymentID).Msg("expiry notification failed")
	}
	metrics.IncOrderTerminal(string(po.Kind), "expired")
	u.registry.Remove(po.UserID)
	u.log.Info().Int64("user", po.UserID).Str("kind", string(po.Kind)).Msg("order expired")
}
