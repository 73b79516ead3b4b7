package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/adapter"
	"telegram-panel-store/internal/infra/metrics"
)

// Payment polling schedule. Polls for one order are strictly sequential:
// the next delay is computed only after the previous status call returned.
const (
	orderPollInitial  = 4 * time.Second
	orderPollBase     = 5 * time.Second
	orderPollStep     = 6
	orderPollCap      = 30 * time.Second
	orderPollErrBase  = 10 * time.Second
	orderPollErrStep  = 3
	orderPollErrCap   = 60 * time.Second
	orderMaxPollCount = 60
)

// orderPoller is the per-order payment polling state machine:
// Created -> Polling -> {Succeeded, Failed, Expired}. Terminal transitions
// are arbitrated by the registry claim, so a tick that loses the claim
// (e.g. against a concurrent user cancel) becomes a no-op.
type orderPoller struct {
	uc    *orderUC
	order *model.PendingOrder
	clock Clock
	log   *zerolog.Logger

	count       int
	instantDone bool
}

func newOrderPoller(uc *orderUC, order *model.PendingOrder, clock Clock) *orderPoller {
	l := uc.log.With().Str("payment_id", order.PaymentID).Int64("user", order.UserID).Logger()
	return &orderPoller{uc: uc, order: order, clock: clock, log: &l}
}

// Run drives tick until a terminal transition, the poll budget, or context
// cancellation. The delay between ticks comes from the previous tick.
func (p *orderPoller) Run(ctx context.Context) error {
	delay := orderPollInitial
	for {
		if err := p.clock.Sleep(ctx, delay); err != nil {
			return err
		}
		next, done := p.tick(ctx)
		if done {
			return nil
		}
		delay = next
	}
}

// tick performs one poll. It returns the delay before the next poll and
// whether the loop is finished.
func (p *orderPoller) tick(ctx context.Context) (time.Duration, bool) {
	// Stale-callback guard: stop when the order was already resolved by
	// another path (cancel, resume, sweeper).
	if _, ok := p.uc.registry.FindByPayment(p.order.UserID, p.order.PaymentID); !ok {
		return 0, true
	}

	if p.count >= orderMaxPollCount {
		// Out of budget with no terminal status. Leave the order for the
		// sweeper / operator rather than guessing an outcome.
		p.log.Warn().Int("polls", p.count).Msg("poll budget exhausted, order unresolved")
		return 0, true
	}
	p.count++

	if p.order.Expired(p.clock.Now()) {
		p.uc.handleExpired(ctx, p.order, "payment window elapsed")
		return 0, true
	}

	status, err := p.uc.gateway.DepositStatus(ctx, p.order.PaymentID)
	if err != nil {
		metrics.IncPaymentPoll(false)
		p.log.Warn().Err(err).Int("poll", p.count).Msg("status poll failed")
		return backoffDelay(orderPollErrBase, p.count, orderPollErrStep, orderPollErrCap), false
	}
	metrics.IncPaymentPoll(true)

	if status == adapter.DepositStatusProcessing && !p.instantDone {
		// One instant-settle attempt per order; failures only mean we keep
		// polling.
		p.instantDone = true
		if err := p.uc.gateway.InstantSettle(ctx, p.order.PaymentID); err != nil {
			p.log.Warn().Err(err).Msg("instant settle failed")
		} else {
			metrics.IncInstantSettle()
			p.log.Debug().Msg("instant settle requested")
		}
	}

	switch status {
	case adapter.DepositStatusSuccess:
		p.uc.handleSucceeded(ctx, p.order)
		return 0, true
	case adapter.DepositStatusFailed, adapter.DepositStatusCancel:
		p.uc.handleFailed(ctx, p.order, "payment failed or cancelled")
		return 0, true
	}

	return backoffDelay(orderPollBase, p.count, orderPollStep, orderPollCap), false
}
