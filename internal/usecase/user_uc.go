package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/repository"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

type UserUseCase interface {
	// Touch upserts the user on contact and refreshes last-active.
	Touch(ctx context.Context, tgID int64, username, lang string) (*model.User, error)
	MarkBlocked(ctx context.Context, tgID int64) error
}

type userUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, logger *zerolog.Logger) *userUC {
	l := logger.With().Str("component", "UserUC").Logger()
	return &userUC{users: users, log: &l}
}

func (u *userUC) Touch(ctx context.Context, tgID int64, username, lang string) (*model.User, error) {
	existing, err := u.users.FindByTelegramID(ctx, nil, tgID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		user, nErr := model.NewUser(tgID, username, lang)
		if nErr != nil {
			return nil, nErr
		}
		if sErr := u.users.Save(ctx, nil, user); sErr != nil {
			return nil, sErr
		}
		u.log.Info().Int64("tg_id", tgID).Str("username", username).Msg("new user registered")
		return user, nil
	}

	existing.Username = username
	existing.LanguageCode = lang
	existing.Active = true
	existing.Touch()
	if err := u.users.Save(ctx, nil, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (u *userUC) MarkBlocked(ctx context.Context, tgID int64) error {
	u.log.Info().Int64("tg_id", tgID).Msg("marking user inactive after blocked delivery")
	return u.users.SetActive(ctx, nil, tgID, false)
}
