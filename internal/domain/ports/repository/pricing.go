package repository

import (
	"context"

	"telegram-panel-store/internal/domain/model"
)

// PricingRepository stores owner-set price overrides. Load returns only the
// persisted overrides; layering over defaults is the use case's job.
type PricingRepository interface {
	Load(ctx context.Context, tx Tx) (*model.PricingTable, error)
	SetPanelPrice(ctx context.Context, tx Tx, plan string, price int64) error
	SetFlatPrice(ctx context.Context, tx Tx, key string, price int64) error
}
