package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/adapter"
	"telegram-panel-store/internal/domain/ports/repository"
)

// Compile-time check
var _ FulfillUseCase = (*fulfillUC)(nil)

// FulfillUseCase delivers the purchased good for a paid order. The order
// coordinator guarantees it is invoked at most once per order.
type FulfillUseCase interface {
	Fulfill(ctx context.Context, o *model.Order) error
}

// FulfillLinks holds the static invite links delivered for the link-based
// goods.
type FulfillLinks struct {
	Reseller string
	Userbot  string
}

type fulfillUC struct {
	panel    adapter.ProvisioningGateway
	scripts  repository.ScriptRepository
	balances BalanceUseCase
	notifier adapter.Notifier
	links    FulfillLinks
	log      *zerolog.Logger
}

func NewFulfillUseCase(
	panel adapter.ProvisioningGateway,
	scripts repository.ScriptRepository,
	balances BalanceUseCase,
	notifier adapter.Notifier,
	links FulfillLinks,
	logger *zerolog.Logger,
) *fulfillUC {
	l := logger.With().Str("component", "FulfillUC").Logger()
	return &fulfillUC{
		panel:    panel,
		scripts:  scripts,
		balances: balances,
		notifier: notifier,
		links:    links,
		log:      &l,
	}
}

func (u *fulfillUC) Fulfill(ctx context.Context, o *model.Order) error {
	switch o.Kind {
	case model.OrderKindPanel:
		return u.fulfillPanel(ctx, o)
	case model.OrderKindAdmin:
		return u.fulfillAdmin(ctx, o)
	case model.OrderKindReseller:
		return u.fulfillLink(ctx, o, u.links.Reseller)
	case model.OrderKindUserbot:
		return u.fulfillLink(ctx, o, u.links.Userbot)
	case model.OrderKindScript:
		return u.fulfillScript(ctx, o)
	case model.OrderKindDeposit:
		return u.fulfillDeposit(ctx, o)
	}
	return domain.ErrInvalidArgument
}

func (u *fulfillUC) fulfillPanel(ctx context.Context, o *model.Order) error {
	username := strings.ToLower(o.Payload.Username)
	display := capitalize(username)

	creds, err := u.panel.CreateUser(ctx, username, display, false)
	if err != nil {
		return fmt.Errorf("%w: create user: %v", domain.ErrProvisioningFailed, err)
	}
	spec := model.ResourceSpec{RAM: o.Payload.RAM, Disk: o.Payload.Disk, CPU: o.Payload.CPU}
	server, err := u.panel.CreateServer(ctx, creds.UserID, display+" Server", spec)
	if err != nil {
		return fmt.Errorf("%w: create server: %v", domain.ErrProvisioningFailed, err)
	}
	u.log.Info().Str("order", o.ID).Str("username", username).Int64("server", server.ID).Msg("panel provisioned")
	return u.notifier.PanelCredentials(ctx, o.ChatID, creds, server, spec)
}

func (u *fulfillUC) fulfillAdmin(ctx context.Context, o *model.Order) error {
	username := strings.ToLower(o.Payload.Username)
	creds, err := u.panel.CreateUser(ctx, username, capitalize(username), true)
	if err != nil {
		return fmt.Errorf("%w: create admin: %v", domain.ErrProvisioningFailed, err)
	}
	u.log.Info().Str("order", o.ID).Str("username", username).Msg("admin account provisioned")
	return u.notifier.AdminCredentials(ctx, o.ChatID, creds)
}

func (u *fulfillUC) fulfillLink(ctx context.Context, o *model.Order, link string) error {
	if link == "" {
		return fmt.Errorf("%w: invite link for %s", domain.ErrConfigMissing, o.Kind)
	}
	return u.notifier.InviteLink(ctx, o.ChatID, o.Kind, link)
}

func (u *fulfillUC) fulfillScript(ctx context.Context, o *model.Order) error {
	s, err := u.scripts.FindByName(ctx, nil, o.Payload.ScriptName)
	if err != nil {
		return fmt.Errorf("%w: script %q", domain.ErrNotFound, o.Payload.ScriptName)
	}
	fileID, err := u.notifier.SendScript(ctx, o.ChatID, s)
	if err != nil {
		return err
	}
	// Cache the Telegram file id from the first upload so later buyers get
	// the stored copy instead of a fresh upload.
	if fileID != "" && fileID != s.FileID {
		s.FileID = fileID
		if err := u.scripts.Save(ctx, nil, s); err != nil {
			u.log.Warn().Err(err).Str("script", s.Name).Msg("file id cache persist failed")
		}
	}
	return nil
}

// fulfillDeposit credits the deposited principal; the surcharge is the
// invoice fingerprint, not the user's money.
func (u *fulfillUC) fulfillDeposit(ctx context.Context, o *model.Order) error {
	balance, err := u.balances.Credit(ctx, o.UserID, o.Price)
	if err != nil {
		return fmt.Errorf("credit deposit: %w", err)
	}
	return u.notifier.DepositCredited(ctx, o.ChatID, o.Price, balance)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
