package repository

import (
	"context"

	"telegram-panel-store/internal/domain/model"
)

type WarrantyClaimRepository interface {
	Save(ctx context.Context, tx Tx, c *model.WarrantyClaim) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.WarrantyClaim, error)
	ListPending(ctx context.Context, tx Tx) ([]*model.WarrantyClaim, error)
}
