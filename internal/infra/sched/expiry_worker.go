package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-panel-store/internal/usecase"
)

// ExpiryWorker periodically resolves pending orders whose payment window
// passed without a terminal poll (poller budget exhausted, process restart).
type ExpiryWorker struct {
	interval time.Duration
	orderUC  usecase.OrderUseCase
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, orderUC usecase.OrderUseCase, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		orderUC:  orderUC,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			if n := w.orderUC.ExpireStale(ctx); n > 0 {
				w.log.Info().Int("count", n).Msg("stale pending orders expired")
			}
		}
	}
}
