package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/ports/adapter"
	"telegram-panel-store/internal/domain/ports/repository"
	"telegram-panel-store/internal/infra/worker"
)

// Compile-time check
var _ BroadcastUseCase = (*broadcastUC)(nil)

// BroadcastUseCase fans a message out to every active user. Blocked-bot
// delivery failures mark the user inactive so later broadcasts skip them.
type BroadcastUseCase interface {
	Broadcast(ctx context.Context, message string) (int, error)
}

type broadcastUC struct {
	users    repository.UserRepository
	userUC   UserUseCase
	notifier adapter.Notifier
	pool     *worker.Pool
	log      *zerolog.Logger
}

func NewBroadcastUseCase(
	users repository.UserRepository,
	userUC UserUseCase,
	notifier adapter.Notifier,
	pool *worker.Pool,
	logger *zerolog.Logger,
) *broadcastUC {
	l := logger.With().Str("component", "BroadcastUC").Logger()
	return &broadcastUC{users: users, userUC: userUC, notifier: notifier, pool: pool, log: &l}
}

func (u *broadcastUC) Broadcast(ctx context.Context, message string) (int, error) {
	recipients, err := u.users.ListActive(ctx, nil)
	if err != nil {
		return 0, err
	}

	// Throttle to respect Telegram's API limits (approx. 30 messages/sec).
	throttle := time.NewTicker(time.Second / 25)
	go func() {
		defer throttle.Stop()
		u.log.Info().Int("recipients", len(recipients)).Msg("broadcast started")
		for _, user := range recipients {
			select {
			case <-ctx.Done():
				return
			case <-throttle.C:
			}
			if err := u.pool.Submit(u.sendTask(user.TelegramID, message)); err != nil {
				u.log.Warn().Err(err).Int64("tg_id", user.TelegramID).Msg("broadcast task submit failed")
			}
		}
		u.log.Info().Msg("broadcast queued")
	}()

	return len(recipients), nil
}

func (u *broadcastUC) sendTask(tgID int64, message string) worker.Task {
	return func(ctx context.Context) error {
		err := u.notifier.SendText(ctx, tgID, message)
		if errors.Is(err, domain.ErrDeliveryBlocked) {
			if mErr := u.userUC.MarkBlocked(ctx, tgID); mErr != nil {
				u.log.Error().Err(mErr).Int64("tg_id", tgID).Msg("mark blocked failed")
			}
			return nil
		}
		return err
	}
}
