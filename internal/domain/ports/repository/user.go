package repository

import (
	"context"

	"telegram-panel-store/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, user *model.User) error
	FindByTelegramID(ctx context.Context, tx Tx, telegramID int64) (*model.User, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.User, error)
	SetActive(ctx context.Context, tx Tx, telegramID int64, active bool) error
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
