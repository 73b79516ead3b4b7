package adapter

import (
	"context"

	"telegram-panel-store/internal/domain/model"
)

// Notifier is the outbound chat port used by the coordinators. Rendering
// (markdown, keyboards, QR images) is the implementation's concern; the
// core hands over domain objects only.
type Notifier interface {
	// SendText delivers plain text to a chat. A blocked-bot delivery
	// failure is reported as domain.ErrDeliveryBlocked.
	SendText(ctx context.Context, chatID int64, text string) error
	DeleteMessage(ctx context.Context, ref model.MessageRef) error

	// Order lifecycle.
	SendInvoice(ctx context.Context, o *model.PendingOrder, inv *Invoice) (model.MessageRef, error)
	OrderSucceeded(ctx context.Context, o *model.Order) error
	OrderFailed(ctx context.Context, o *model.PendingOrder, reason string) error
	OrderExpired(ctx context.Context, o *model.PendingOrder, reason string) error
	FulfillmentFailed(ctx context.Context, o *model.Order, cause error) error

	// Fulfillment results.
	PanelCredentials(ctx context.Context, chatID int64, creds *PanelCredentials, server *PanelServer, spec model.ResourceSpec) error
	AdminCredentials(ctx context.Context, chatID int64, creds *PanelCredentials) error
	InviteLink(ctx context.Context, chatID int64, kind model.OrderKind, link string) error
	// SendScript delivers the script file and returns the Telegram file id
	// of the uploaded document, so callers can cache it for later sends.
	SendScript(ctx context.Context, chatID int64, s *model.Script) (string, error)
	DepositCredited(ctx context.Context, chatID int64, amount, balance int64) error

	// Rentals.
	RentalStarted(ctx context.Context, r *model.RentalOrder) error
	RentalOTP(ctx context.Context, r *model.RentalOrder, code string) error
	RentalFailed(ctx context.Context, r *model.RentalOrder, note string) error
	RentalCancelled(ctx context.Context, r *model.RentalOrder) error

	// Operational channel.
	NotifyChannel(ctx context.Context, text string) error
	NotifyOrderCompleted(ctx context.Context, o *model.Order) error
	NotifyRentalCompleted(ctx context.Context, r *model.RentalOrder) error
}
