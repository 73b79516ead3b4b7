package repository

import (
	"context"
	"time"

	"telegram-panel-store/internal/domain/model"
)

type RentalRepository interface {
	Save(ctx context.Context, tx Tx, r *model.RentalOrder) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.RentalOrder, error)
	FindByIDAndUser(ctx context.Context, tx Tx, id string, userID int64) (*model.RentalOrder, error)
	// UpdateStatus transitions an order out of pending. It returns
	// domain.ErrOrderNotPending when the order already reached a terminal
	// state, which arbitrates races between the poller and a user cancel.
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.RentalStatus, note string, completedAt *time.Time) error
	RecordRefund(ctx context.Context, tx Tx, id string, refunded, remaining int64) error
	ListByUser(ctx context.Context, tx Tx, userID int64) ([]*model.RentalOrder, error)
}
