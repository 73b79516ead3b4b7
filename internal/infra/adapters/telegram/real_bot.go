package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-panel-store/internal/config"
	"telegram-panel-store/internal/domain/ports/adapter"
	"telegram-panel-store/internal/domain/ports/repository"
	red "telegram-panel-store/internal/infra/redis"
	"telegram-panel-store/internal/usecase"
)

// UseCases groups everything the bot adapter dispatches into.
type UseCases struct {
	User      usecase.UserUseCase
	Order     usecase.OrderUseCase
	Rental    usecase.RentalUseCase
	Balance   usecase.BalanceUseCase
	Pricing   usecase.PricingUseCase
	Warranty  usecase.WarrantyUseCase
	Stats     usecase.StatsUseCase
	Broadcast usecase.BroadcastUseCase
	Scripts   repository.ScriptRepository
	Provision adapter.ProvisioningGateway
}

// RealBotAdapter polls updates via tgbotapi and fans them out to a fixed
// set of workers. It doubles as the adapter.Notifier implementation.
type RealBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	uc          UseCases
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	channel       string
	owners        map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
}

// NewRealBotAdapter connects to the Bot API. The adapter is usable as a
// Notifier right away; Bind must be called with the use cases before
// StartPolling since the coordinators themselves need the Notifier first.
func NewRealBotAdapter(cfg *config.BotConfig, rateLimiter *red.RateLimiter, logger *zerolog.Logger) (*RealBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}
	owners := map[int64]struct{}{}
	for _, id := range cfg.OwnerIDs {
		owners[id] = struct{}{}
	}

	l := logger.With().Str("component", "TelegramBot").Logger()
	return &RealBotAdapter{
		bot:           bot,
		cfg:           cfg,
		rateLimiter:   rateLimiter,
		log:           &l,
		channel:       cfg.Channel,
		owners:        owners,
		updateWorkers: workers,
	}, nil
}

func (r *RealBotAdapter) Bind(uc UseCases) { r.uc = uc }

func (r *RealBotAdapter) isOwner(id int64) bool {
	_, ok := r.owners[id]
	return ok
}

func (r *RealBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}
	if update.Message == nil {
		return nil
	}
	tgUser := update.Message.From
	if tgUser == nil {
		return nil
	}
	chatID := update.Message.Chat.ID
	userID := tgUser.ID

	// Upsert the user on every contact; broadcast reach depends on it.
	if _, err := r.uc.User.Touch(ctx, userID, tgUser.UserName, tgUser.LanguageCode); err != nil {
		r.log.Warn().Err(err).Int64("user", userID).Msg("user touch failed")
	}

	fields := strings.Fields(update.Message.Text)
	command := "message"
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		command = strings.TrimSuffix(fields[0], "@"+r.bot.Self.UserName)
		if i := strings.Index(command, "@"); i > 0 {
			command = command[:i]
		}
	}

	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(userID, command), 20, time.Minute)
		if err != nil {
			r.log.Warn().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			return r.SendText(ctx, chatID, "⏳ Terlalu banyak permintaan. Coba lagi nanti.")
		}
	}

	if command == "message" {
		return nil
	}
	return r.routeCommand(ctx, chatID, userID, command, fields[1:])
}

func (r *RealBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop the telegram spinner when we return.
	defer func() { _, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, "")) }()

	var chatID int64
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	} else {
		chatID = query.From.ID
	}
	if chatID == 0 {
		return nil
	}

	data := strings.TrimSpace(query.Data)
	if r.rateLimiter != nil {
		if allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(chatID, "cb"), 30, time.Minute); err == nil && !allowed {
			return r.SendText(ctx, chatID, "⏳ Terlalu banyak permintaan. Coba lagi nanti.")
		}
	}

	return r.routeCallback(ctx, chatID, query.From.ID, data)
}
