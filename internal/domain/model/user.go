package model

import (
	"time"

	"telegram-panel-store/internal/domain"
)

// User is a domain entity representing a Telegram user of the store.
// A user is created on first contact and touched on every subsequent one.
type User struct {
	TelegramID   int64
	Username     string
	LanguageCode string
	RegisteredAt time.Time
	LastActiveAt time.Time
	// Active is cleared once message delivery fails with a blocked-bot
	// signal; broadcasts skip inactive users.
	Active bool
}

func NewUser(tgID int64, username, lang string) (*User, error) {
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		TelegramID:   tgID,
		Username:     username,
		LanguageCode: lang,
		RegisteredAt: now,
		LastActiveAt: now,
		Active:       true,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.TelegramID == 0 }
func (u *User) Touch()       { u.LastActiveAt = time.Now() }
