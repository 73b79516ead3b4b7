package repository

import (
	"context"
	"time"

	"telegram-panel-store/internal/domain/model"
)

type OrderRepository interface {
	Save(ctx context.Context, tx Tx, o *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	ListByUser(ctx context.Context, tx Tx, userID int64) ([]*model.Order, error)
	MarkProcessed(ctx context.Context, tx Tx, id string, at time.Time) error
	UpdateWarranty(ctx context.Context, tx Tx, id string, w model.Warranty) error
	CountCompleted(ctx context.Context, tx Tx) (int, error)
	SumRevenue(ctx context.Context, tx Tx) (int64, error)
}
