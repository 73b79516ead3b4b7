package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/repository"
)

// Compile-time check
var _ WarrantyUseCase = (*warrantyUC)(nil)

// WarrantyUseCase handles replacement-warranty claims on completed orders.
// A claim is created by the buyer and decided exactly once by an owner.
type WarrantyUseCase interface {
	Claim(ctx context.Context, userID, chatID int64, orderID string) (*model.WarrantyClaim, error)
	Decide(ctx context.Context, claimID string, approve bool, ownerID int64) (*model.WarrantyClaim, *model.Order, error)
	ListPending(ctx context.Context) ([]*model.WarrantyClaim, error)
}

type warrantyUC struct {
	claims repository.WarrantyClaimRepository
	orders repository.OrderRepository
	clock  Clock
	log    *zerolog.Logger
}

func NewWarrantyUseCase(claims repository.WarrantyClaimRepository, orders repository.OrderRepository, clock Clock, logger *zerolog.Logger) *warrantyUC {
	l := logger.With().Str("component", "WarrantyUC").Logger()
	return &warrantyUC{claims: claims, orders: orders, clock: clock, log: &l}
}

func (u *warrantyUC) Claim(ctx context.Context, userID, chatID int64, orderID string) (*model.WarrantyClaim, error) {
	o, err := u.orders.FindByID(ctx, nil, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if err := o.Warranty.Claimable(u.clock.Now()); err != nil {
		return nil, err
	}

	claim, err := model.NewWarrantyClaim(orderID, userID, chatID, u.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := u.claims.Save(ctx, nil, claim); err != nil {
		return nil, err
	}
	u.log.Info().Str("claim", claim.ID).Str("order", orderID).Int64("user", userID).Msg("warranty claim filed")
	return claim, nil
}

func (u *warrantyUC) Decide(ctx context.Context, claimID string, approve bool, ownerID int64) (*model.WarrantyClaim, *model.Order, error) {
	claim, err := u.claims.FindByID(ctx, nil, claimID)
	if err != nil {
		return nil, nil, err
	}
	if err := claim.Decide(approve, ownerID, u.clock.Now()); err != nil {
		return nil, nil, err
	}
	if err := u.claims.Save(ctx, nil, claim); err != nil {
		return nil, nil, err
	}

	o, err := u.orders.FindByID(ctx, nil, claim.OrderID)
	if err != nil {
		return claim, nil, err
	}
	if approve {
		o.Warranty.Claimed = true
		o.Warranty.ClaimCount++
		if err := u.orders.UpdateWarranty(ctx, nil, o.ID, o.Warranty); err != nil {
			return claim, o, err
		}
	}
	u.log.Info().Str("claim", claimID).Bool("approved", approve).Int64("owner", ownerID).Msg("warranty claim decided")
	return claim, o, nil
}

func (u *warrantyUC) ListPending(ctx context.Context) ([]*model.WarrantyClaim, error) {
	return u.claims.ListPending(ctx, nil)
}
