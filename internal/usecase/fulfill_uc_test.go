//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/adapter"
	"telegram-panel-store/internal/usecase"
)

type fulfillFixture struct {
	uc       usecase.FulfillUseCase
	panel    *MockProvisionGateway
	scripts  *MockScriptRepo
	balances *MockBalanceRepo
	notifier *MockNotifier
}

func newFulfillFixture(links usecase.FulfillLinks) *fulfillFixture {
	f := &fulfillFixture{
		panel:    &MockProvisionGateway{},
		scripts:  NewMockScriptRepo(),
		balances: NewMockBalanceRepo(),
		notifier: &MockNotifier{},
	}
	balanceUC := usecase.NewBalanceUseCase(f.balances, &noopLocker{}, newTestLogger())
	f.uc = usecase.NewFulfillUseCase(f.panel, f.scripts, balanceUC, f.notifier, links, newTestLogger())
	return f
}

func paidOrder(kind model.OrderKind, payload model.OrderPayload) *model.Order {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	po, _ := model.NewPendingOrder(10, 10, kind, 3000, payload, now)
	po.PaymentID = "trx-9"
	return model.CompleteOrder(po, now)
}

func TestFulfillUC(t *testing.T) {
	links := usecase.FulfillLinks{Reseller: "https://t.me/+reseller", Userbot: "https://t.me/+userbot"}

	t.Run("should provision a panel account with its sized server", func(t *testing.T) {
		// Arrange
		f := newFulfillFixture(links)
		o := paidOrder(model.OrderKindPanel, model.OrderPayload{Username: "Andi", Plan: "3gb", RAM: 3000, Disk: 2000, CPU: 80})

		// Act
		if err := f.uc.Fulfill(context.Background(), o); err != nil {
			t.Fatalf("Fulfill: %v", err)
		}

		// Assert
		if len(f.panel.CreatedUsers) != 1 || f.panel.CreatedUsers[0] != "andi" {
			t.Fatalf("created users = %v, want lowercased andi", f.panel.CreatedUsers)
		}
		if f.panel.AdminFlags[0] {
			t.Fatal("panel buyer must not get an admin account")
		}
		if len(f.panel.CreatedServers) != 1 || f.panel.CreatedServers[0] != "Andi Server" {
			t.Fatalf("created servers = %v, want [Andi Server]", f.panel.CreatedServers)
		}
		if calls := f.notifier.Snapshot(); calls.PanelCreds != 1 {
			t.Fatalf("credential messages = %d, want 1", calls.PanelCreds)
		}
	})

	t.Run("should provision an admin account without a server", func(t *testing.T) {
		f := newFulfillFixture(links)
		o := paidOrder(model.OrderKindAdmin, model.OrderPayload{Username: "budi"})

		if err := f.uc.Fulfill(context.Background(), o); err != nil {
			t.Fatalf("Fulfill: %v", err)
		}

		if len(f.panel.AdminFlags) != 1 || !f.panel.AdminFlags[0] {
			t.Fatalf("admin flags = %v, want [true]", f.panel.AdminFlags)
		}
		if len(f.panel.CreatedServers) != 0 {
			t.Fatal("admin orders must not create servers")
		}
		if calls := f.notifier.Snapshot(); calls.AdminCreds != 1 {
			t.Fatalf("credential messages = %d, want 1", calls.AdminCreds)
		}
	})

	t.Run("should wrap panel API failures as provisioning errors", func(t *testing.T) {
		f := newFulfillFixture(links)
		f.panel.CreateUserFunc = func(ctx context.Context, username, displayName string, admin bool) (*adapter.PanelCredentials, error) {
			return nil, errors.New("409 username taken")
		}
		o := paidOrder(model.OrderKindPanel, model.OrderPayload{Username: "andi", Plan: "1gb"})

		err := f.uc.Fulfill(context.Background(), o)

		if !errors.Is(err, domain.ErrProvisioningFailed) {
			t.Fatalf("expected ErrProvisioningFailed, got %v", err)
		}
	})

	t.Run("should deliver the invite link for link goods", func(t *testing.T) {
		f := newFulfillFixture(links)
		for _, kind := range []model.OrderKind{model.OrderKindReseller, model.OrderKindUserbot} {
			if err := f.uc.Fulfill(context.Background(), paidOrder(kind, model.OrderPayload{})); err != nil {
				t.Fatalf("Fulfill(%s): %v", kind, err)
			}
		}
		if calls := f.notifier.Snapshot(); calls.InviteLink != 2 {
			t.Fatalf("invite links = %d, want 2", calls.InviteLink)
		}
	})

	t.Run("should fail loudly when an invite link is not configured", func(t *testing.T) {
		f := newFulfillFixture(usecase.FulfillLinks{})

		err := f.uc.Fulfill(context.Background(), paidOrder(model.OrderKindReseller, model.OrderPayload{}))

		if !errors.Is(err, domain.ErrConfigMissing) {
			t.Fatalf("expected ErrConfigMissing, got %v", err)
		}
	})

	t.Run("should send the purchased script", func(t *testing.T) {
		f := newFulfillFixture(links)
		_ = f.scripts.Save(context.Background(), nil, &model.Script{Name: "bot", SourceURL: "https://example.com/bot.zip", Price: 2000})

		if err := f.uc.Fulfill(context.Background(), paidOrder(model.OrderKindScript, model.OrderPayload{ScriptName: "bot"})); err != nil {
			t.Fatalf("Fulfill: %v", err)
		}
		if calls := f.notifier.Snapshot(); calls.SendScript != 1 {
			t.Fatalf("script sends = %d, want 1", calls.SendScript)
		}
	})

	t.Run("should cache the uploaded file id after the first script send", func(t *testing.T) {
		// Arrange: no cached file id yet; the send uploads the source URL.
		f := newFulfillFixture(links)
		f.notifier.ScriptFileID = "doc-abc123"
		_ = f.scripts.Save(context.Background(), nil, &model.Script{Name: "bot", SourceURL: "https://example.com/bot.zip", Price: 2000})

		// Act
		if err := f.uc.Fulfill(context.Background(), paidOrder(model.OrderKindScript, model.OrderPayload{ScriptName: "bot"})); err != nil {
			t.Fatalf("Fulfill: %v", err)
		}

		// Assert: later sends reuse the stored id instead of re-uploading.
		stored, err := f.scripts.FindByName(context.Background(), nil, "bot")
		if err != nil {
			t.Fatalf("FindByName: %v", err)
		}
		if stored.FileID != "doc-abc123" {
			t.Fatalf("file id = %q, want the upload cached", stored.FileID)
		}
	})

	t.Run("should report a missing script", func(t *testing.T) {
		f := newFulfillFixture(links)

		err := f.uc.Fulfill(context.Background(), paidOrder(model.OrderKindScript, model.OrderPayload{ScriptName: "ghost"}))

		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("should credit the deposit principal, not the invoice total", func(t *testing.T) {
		// Arrange: the surcharge on top of the principal is never credited.
		f := newFulfillFixture(links)
		o := paidOrder(model.OrderKindDeposit, model.OrderPayload{Amount: 3000})

		// Act
		if err := f.uc.Fulfill(context.Background(), o); err != nil {
			t.Fatalf("Fulfill: %v", err)
		}

		// Assert
		if b, _ := f.balances.Get(context.Background(), nil, o.UserID); b != o.Price {
			t.Fatalf("balance = %d, want principal %d without surcharge", b, o.Price)
		}
		if calls := f.notifier.Snapshot(); calls.DepositCredited != 1 {
			t.Fatalf("deposit messages = %d, want 1", calls.DepositCredited)
		}
	})
}
