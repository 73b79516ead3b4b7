package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/ports/adapter"
)

// Callback tokens are "action:arg". The arg is the gateway/vendor order id
// or the warranty claim id.
func (r *RealBotAdapter) routeCallback(ctx context.Context, chatID, userID int64, data string) error {
	action, arg := data, ""
	if i := strings.Index(data, ":"); i > 0 {
		action, arg = data[:i], data[i+1:]
	}

	switch action {
	case "deposit_check":
		return r.cbDepositCheck(ctx, chatID, userID, arg)
	case "deposit_cancel":
		return r.cbDepositCancel(ctx, chatID, userID, arg)
	case "nokos_status":
		return r.cmdStatusNokos(ctx, chatID, userID, []string{arg})
	case "nokos_cancel":
		return r.cmdCancelNokos(ctx, chatID, userID, []string{arg})
	case "warranty_approve":
		return r.cbWarrantyDecide(ctx, chatID, userID, arg, true)
	case "warranty_reject":
		return r.cbWarrantyDecide(ctx, chatID, userID, arg, false)
	default:
		return errors.New("unknown callback data: " + action)
	}
}

func (r *RealBotAdapter) cbDepositCheck(ctx context.Context, chatID, userID int64, paymentID string) error {
	status, err := r.uc.Order.Resume(ctx, userID, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return r.SendText(ctx, chatID, "ℹ️ Invoice sudah tidak aktif.")
		}
		return r.SendText(ctx, chatID, "❌ Gagal mengecek pembayaran. Coba lagi sebentar lagi.")
	}
	switch status {
	case adapter.DepositStatusSuccess, adapter.DepositStatusFailed, adapter.DepositStatusCancel:
		// Terminal handling (including the user-facing message) already ran.
		return nil
	case adapter.DepositStatusProcessing:
		return r.SendText(ctx, chatID, "⏳ Pembayaran sedang diproses. Tunggu sebentar.")
	default:
		return r.SendText(ctx, chatID, "⏳ Pembayaran belum terdeteksi. Scan QRIS lalu cek lagi.")
	}
}

func (r *RealBotAdapter) cbDepositCancel(ctx context.Context, chatID, userID int64, paymentID string) error {
	err := r.uc.Order.Cancel(ctx, userID, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return r.SendText(ctx, chatID, "ℹ️ Invoice sudah tidak aktif.")
		}
		return r.SendText(ctx, chatID, "❌ Gagal membatalkan invoice.")
	}
	return nil
}

func (r *RealBotAdapter) cbWarrantyDecide(ctx context.Context, chatID, ownerID int64, claimID string, approve bool) error {
	if !r.isOwner(ownerID) {
		return r.SendText(ctx, chatID, "⛔ Keputusan klaim khusus owner.")
	}
	claim, order, err := r.uc.Warranty.Decide(ctx, claimID, approve, ownerID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrClaimAlreadyDecided):
		return r.SendText(ctx, chatID, "⚠️ Klaim ini sudah diputuskan.")
	case errors.Is(err, domain.ErrNotFound):
		return r.SendText(ctx, chatID, "❌ Klaim tidak ditemukan.")
	default:
		return r.SendText(ctx, chatID, "❌ Gagal memproses klaim.")
	}

	if approve {
		if err := r.SendText(ctx, claim.ChatID, fmt.Sprintf("🛡 Klaim garansimu untuk order <code>%s</code> <b>disetujui</b>. Owner akan memproses penggantian.", order.ID)); err != nil && !errors.Is(err, domain.ErrDeliveryBlocked) {
			r.log.Warn().Err(err).Msg("claim approval notice failed")
		}
		return r.SendText(ctx, chatID, "✅ Klaim "+claimID+" disetujui.")
	}
	if err := r.SendText(ctx, claim.ChatID, fmt.Sprintf("🛡 Klaim garansimu untuk order <code>%s</code> <b>ditolak</b>.", order.ID)); err != nil && !errors.Is(err, domain.ErrDeliveryBlocked) {
		r.log.Warn().Err(err).Msg("claim rejection notice failed")
	}
	return r.SendText(ctx, chatID, "✅ Klaim "+claimID+" ditolak.")
}

// sendClaimDecision renders one pending claim with approve/reject buttons.
func (r *RealBotAdapter) sendClaimDecision(ctx context.Context, chatID int64, claimID, orderID string, userID int64) error {
	text := strings.Join([]string{
		"🛡 <b>KLAIM GARANSI</b>",
		"",
		fmt.Sprintf("🆔 Klaim: <code>%s</code>", claimID),
		fmt.Sprintf("🧾 Order: <code>%s</code>", orderID),
		fmt.Sprintf("👤 User: %d", userID),
	}, "\n")
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Setujui", "warranty_approve:"+claimID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Tolak", "warranty_reject:"+claimID),
		),
	)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	_, err := r.bot.Send(msg)
	return err
}
