package repository

import (
	"context"

	"telegram-panel-store/internal/domain/model"
)

type ScriptRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Script) error
	FindByName(ctx context.Context, tx Tx, name string) (*model.Script, error)
	List(ctx context.Context, tx Tx) ([]*model.Script, error)
	Delete(ctx context.Context, tx Tx, name string) error
}
