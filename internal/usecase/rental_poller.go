package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/adapter"
	"telegram-panel-store/internal/infra/metrics"
)

// rentalPoller mirrors the payment poller against the number-rental vendor:
// pending -> {success, failed}. The conditional repository update is the
// terminal arbiter, so a poll that observes a vendor status after a user
// cancel changes nothing.
type rentalPoller struct {
	uc     *rentalUC
	rental *model.RentalOrder
	clock  Clock
	log    *zerolog.Logger

	count int
}

func newRentalPoller(uc *rentalUC, rental *model.RentalOrder, clock Clock) *rentalPoller {
	l := uc.log.With().Str("rental", rental.ID).Int64("user", rental.UserID).Logger()
	return &rentalPoller{uc: uc, rental: rental, clock: clock, log: &l}
}

func (p *rentalPoller) Run(ctx context.Context) error {
	delay := rentalPollInitial
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

func (p *rentalPoller) tick(ctx context.Context) (time.Duration, bool) {
	if p.count >= rentalMaxPollCount {
		p.log.Warn().Int("polls", p.count).Msg("poll budget exhausted, rental unresolved")
		return 0, true
	}
	p.count++

	// Stale-callback guard: a user cancel resolves the order in the store.
	current, err := p.uc.rentals.FindByID(ctx, nil, p.rental.ID)
	if err == nil && current.Status.Terminal() {
		return 0, true
	}

	state, err := p.uc.gateway.Status(ctx, p.rental.ID)
	if err != nil {
		metrics.IncRentalPoll(false)
		p.log.Warn().Err(err).Int("poll", p.count).Msg("rental status poll failed")
		return backoffDelay(rentalPollErrBase, p.count, rentalPollErrStep, rentalPollErrCap), false
	}
	metrics.IncRentalPoll(true)

	if state.Status != "" && state.Status != adapter.VendorRentalPending {
		p.uc.handleVendorTerminal(ctx, p.rental, state)
		return 0, true
	}
	return backoffDelay(rentalPollBase, p.count, rentalPollStep, rentalPollCap), false
}
