package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/repository"
)

// Compile-time check
var _ PricingUseCase = (*pricingUC)(nil)

// PricingUseCase layers owner-set overrides over the built-in defaults.
// The merged table is cached in memory and invalidated on every override.
type PricingUseCase interface {
	Table(ctx context.Context) (*model.PricingTable, error)
	PanelPrice(ctx context.Context, plan string) (int64, error)
	SetPanelPrice(ctx context.Context, plan string, price int64) error
	SetFlatPrice(ctx context.Context, key string, price int64) error
}

// Flat price keys accepted by SetFlatPrice.
const (
	PriceKeyAdp      = "adp"
	PriceKeyReseller = "reseller"
	PriceKeyUserbot  = "userbot"
	PriceKeyRental   = "rental"
)

type pricingUC struct {
	pricing repository.PricingRepository
	log     *zerolog.Logger

	mu     sync.Mutex
	cached *model.PricingTable
}

func NewPricingUseCase(pricing repository.PricingRepository, logger *zerolog.Logger) *pricingUC {
	l := logger.With().Str("component", "PricingUC").Logger()
	return &pricingUC{pricing: pricing, log: &l}
}

func (u *pricingUC) Table(ctx context.Context) (*model.PricingTable, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.cached != nil {
		return u.cached, nil
	}

	table := model.DefaultPricing()
	overrides, err := u.pricing.Load(ctx, nil)
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		for plan, price := range overrides.Panel {
			table.Panel[plan] = price
		}
		if overrides.Adp > 0 {
			table.Adp = overrides.Adp
		}
		if overrides.Reseller > 0 {
			table.Reseller = overrides.Reseller
		}
		if overrides.Userbot > 0 {
			table.Userbot = overrides.Userbot
		}
		if overrides.Rental > 0 {
			table.Rental = overrides.Rental
		}
	}
	u.cached = table
	return table, nil
}

func (u *pricingUC) PanelPrice(ctx context.Context, plan string) (int64, error) {
	table, err := u.Table(ctx)
	if err != nil {
		return 0, err
	}
	price, ok := table.Panel[plan]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return price, nil
}

func (u *pricingUC) SetPanelPrice(ctx context.Context, plan string, price int64) error {
	if price <= 0 {
		return domain.ErrInvalidArgument
	}
	if _, ok := model.PanelPlans[plan]; !ok {
		return domain.ErrNotFound
	}
	if err := u.pricing.SetPanelPrice(ctx, nil, plan, price); err != nil {
		return err
	}
	u.invalidate()
	u.log.Info().Str("plan", plan).Int64("price", price).Msg("panel price updated")
	return nil
}

func (u *pricingUC) SetFlatPrice(ctx context.Context, key string, price int64) error {
	if price <= 0 {
		return domain.ErrInvalidArgument
	}
	switch key {
	case PriceKeyAdp, PriceKeyReseller, PriceKeyUserbot, PriceKeyRental:
	default:
		return domain.ErrNotFound
	}
	if err := u.pricing.SetFlatPrice(ctx, nil, key, price); err != nil {
		return err
	}
	u.invalidate()
	u.log.Info().Str("key", key).Int64("price", price).Msg("flat price updated")
	return nil
}

func (u *pricingUC) invalidate() {
	u.mu.Lock()
	u.cached = nil
	u.mu.Unlock()
}
