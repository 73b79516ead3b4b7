package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*RealBotAdapter)(nil)

// SendText delivers plain text. A blocked or deactivated recipient maps to
// domain.ErrDeliveryBlocked so callers can mark the user inactive.
func (r *RealBotAdapter) SendText(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := r.bot.Send(msg); err != nil {
		if isBlockedErr(err) {
			return domain.ErrDeliveryBlocked
		}
		return err
	}
	return nil
}

func isBlockedErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "blocked") || strings.Contains(s, "deactivated")
}

func (r *RealBotAdapter) DeleteMessage(ctx context.Context, ref model.MessageRef) error {
	if ref.MessageID == 0 {
		return nil
	}
	_, err := r.bot.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID))
	return err
}

// SendInvoice renders the QR invoice with check/cancel buttons and returns
// the message reference so the invoice can be deleted on cancel.
func (r *RealBotAdapter) SendInvoice(ctx context.Context, o *model.PendingOrder, inv *adapter.Invoice) (model.MessageRef, error) {
	caption := strings.Join([]string{
		"🧾 <b>INVOICE PEMBAYARAN</b>",
		"",
		fmt.Sprintf("📦 Order: <b>%s</b>", orderTitle(o.Kind)),
		fmt.Sprintf("💵 Harga: %s", fmtRupiah(o.Price)),
		fmt.Sprintf("🔢 Kode unik: %s", fmtRupiah(o.Surcharge)),
		fmt.Sprintf("💰 Total bayar: <b>%s</b>", fmtRupiah(o.Total)),
		"",
		"Scan QRIS di atas, lalu tekan tombol cek pembayaran.",
		fmt.Sprintf("⏰ Berlaku sampai %s", o.ExpiresAt.Format("15:04:05")),
	}, "\n")

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Cek Pembayaran", "deposit_check:"+inv.ID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Batalkan", "deposit_cancel:"+inv.ID),
		),
	)

	if inv.QRImageURL != "" {
		photo := tgbotapi.NewPhoto(o.ChatID, tgbotapi.FileURL(inv.QRImageURL))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeHTML
		photo.ReplyMarkup = keyboard
		sent, err := r.bot.Send(photo)
		if err == nil {
			return model.MessageRef{ChatID: sent.Chat.ID, MessageID: sent.MessageID}, nil
		}
		// fall through to the text invoice when the image upload fails
	}

	text := caption
	if inv.QRString != "" {
		text += "\n\n<code>" + inv.QRString + "</code>"
	}
	msg := tgbotapi.NewMessage(o.ChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	sent, err := r.bot.Send(msg)
	if err != nil {
		return model.MessageRef{}, err
	}
	return model.MessageRef{ChatID: sent.Chat.ID, MessageID: sent.MessageID}, nil
}

func (r *RealBotAdapter) OrderSucceeded(ctx context.Context, o *model.Order) error {
	text := strings.Join([]string{
		"✅ <b>PEMBAYARAN DITERIMA</b>",
		"",
		fmt.Sprintf("📦 Order: <b>%s</b>", orderTitle(o.Kind)),
		fmt.Sprintf("💰 Total: %s", fmtRupiah(o.Total)),
		fmt.Sprintf("🆔 Order ID: <code>%s</code>", o.ID),
		"",
		"Pesananmu sedang diproses...",
	}, "\n")
	return r.SendText(ctx, o.ChatID, text)
}

func (r *RealBotAdapter) OrderFailed(ctx context.Context, o *model.PendingOrder, reason string) error {
	text := fmt.Sprintf("❌ <b>PEMBAYARAN GAGAL</b>\n\n📦 Order: %s\n📝 %s", orderTitle(o.Kind), reason)
	return r.SendText(ctx, o.ChatID, text)
}

func (r *RealBotAdapter) OrderExpired(ctx context.Context, o *model.PendingOrder, reason string) error {
	text := fmt.Sprintf("⏰ <b>INVOICE KEDALUWARSA</b>\n\n📦 Order: %s\n📝 %s\n\nSilakan order ulang.", orderTitle(o.Kind), reason)
	return r.SendText(ctx, o.ChatID, text)
}

func (r *RealBotAdapter) FulfillmentFailed(ctx context.Context, o *model.Order, cause error) error {
	text := strings.Join([]string{
		"⚠️ <b>PESANAN TERTUNDA</b>",
		"",
		"Pembayaranmu sudah diterima tapi pembuatan pesanan gagal.",
		fmt.Sprintf("🆔 Order ID: <code>%s</code>", o.ID),
		"",
		"Hubungi owner dengan menyertakan Order ID di atas.",
	}, "\n")
	if err := r.SendText(ctx, o.ChatID, text); err != nil {
		return err
	}
	return r.NotifyChannel(ctx, fmt.Sprintf("⚠️ Fulfillment gagal untuk order %s (%s): %v", o.ID, o.Kind, cause))
}

func (r *RealBotAdapter) PanelCredentials(ctx context.Context, chatID int64, creds *adapter.PanelCredentials, server *adapter.PanelServer, spec model.ResourceSpec) error {
	text := strings.Join([]string{
		"🎉 <b>PANEL BERHASIL DIBUAT</b>",
		"",
		fmt.Sprintf("🌐 Panel: %s", creds.Domain),
		fmt.Sprintf("👤 Username: <code>%s</code>", creds.Username),
		fmt.Sprintf("🔑 Password: <code>%s</code>", creds.Password),
		fmt.Sprintf("📧 Email: %s", creds.Email),
		"",
		fmt.Sprintf("🖥 Server: %s", server.Name),
		fmt.Sprintf("💾 RAM: %s", fmtResource(spec.RAM, "MB")),
		fmt.Sprintf("📀 Disk: %s", fmtResource(spec.Disk, "MB")),
		fmt.Sprintf("⚙️ CPU: %s", fmtResource(spec.CPU, "%")),
		"",
		"Simpan kredensial ini baik-baik!",
	}, "\n")
	return r.SendText(ctx, chatID, text)
}

func (r *RealBotAdapter) AdminCredentials(ctx context.Context, chatID int64, creds *adapter.PanelCredentials) error {
	text := strings.Join([]string{
		"🎉 <b>ADMIN PANEL BERHASIL DIBUAT</b>",
		"",
		fmt.Sprintf("🌐 Panel: %s", creds.Domain),
		fmt.Sprintf("👤 Username: <code>%s</code>", creds.Username),
		fmt.Sprintf("🔑 Password: <code>%s</code>", creds.Password),
		"",
		"Akses full admin panel aktif.",
	}, "\n")
	return r.SendText(ctx, chatID, text)
}

func (r *RealBotAdapter) InviteLink(ctx context.Context, chatID int64, kind model.OrderKind, link string) error {
	text := fmt.Sprintf("🎉 <b>PEMBELIAN %s BERHASIL</b>\n\n🔗 Link akses: %s", strings.ToUpper(orderTitle(kind)), link)
	return r.SendText(ctx, chatID, text)
}

// SendScript delivers the script file, preferring the cached Telegram file
// id, then the local copy, then the source URL. The returned file id lets
// the caller cache the first upload and skip re-uploading on later sends.
func (r *RealBotAdapter) SendScript(ctx context.Context, chatID int64, s *model.Script) (string, error) {
	caption := fmt.Sprintf("📜 %s\n%s", s.Name, s.Description)

	var file tgbotapi.RequestFileData
	switch {
	case s.FileID != "":
		file = tgbotapi.FileID(s.FileID)
	case s.LocalPath != "":
		file = tgbotapi.FilePath(s.LocalPath)
	case s.SourceURL != "":
		file = tgbotapi.FileURL(s.SourceURL)
	default:
		return "", domain.ErrConfigMissing
	}

	doc := tgbotapi.NewDocument(chatID, file)
	doc.Caption = caption
	sent, err := r.bot.Send(doc)
	if err != nil {
		if isBlockedErr(err) {
			return "", domain.ErrDeliveryBlocked
		}
		return "", err
	}
	if sent.Document != nil {
		return sent.Document.FileID, nil
	}
	return "", nil
}

func (r *RealBotAdapter) DepositCredited(ctx context.Context, chatID int64, amount, balance int64) error {
	text := strings.Join([]string{
		"💰 <b>DEPOSIT BERHASIL</b>",
		"",
		fmt.Sprintf("💵 Nominal: %s", fmtRupiah(amount)),
		fmt.Sprintf("💳 Saldo sekarang: %s", fmtRupiah(balance)),
		"",
		"Terima kasih telah melakukan deposit! 🎉",
	}, "\n")
	return r.SendText(ctx, chatID, text)
}

func (r *RealBotAdapter) RentalStarted(ctx context.Context, ro *model.RentalOrder) error {
	text := strings.Join([]string{
		"📱 <b>NOMOR BERHASIL DIPESAN</b>",
		"",
		fmt.Sprintf("🛒 Layanan: %s", ro.ServiceName),
		fmt.Sprintf("📞 Nomor: <code>%s</code>", ro.Target),
		fmt.Sprintf("💰 Harga: %s", fmtRupiah(ro.Price)),
		fmt.Sprintf("🆔 Order ID: <code>%s</code>", ro.ID),
		"",
		"⏳ Menunggu OTP masuk...",
	}, "\n")
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Cek Status", "nokos_status:"+ro.ID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Batalkan", "nokos_cancel:"+ro.ID),
		),
	)
	msg := tgbotapi.NewMessage(ro.ChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealBotAdapter) RentalOTP(ctx context.Context, ro *model.RentalOrder, code string) error {
	text := strings.Join([]string{
		"✅ <b>OTP DITERIMA</b>",
		"",
		fmt.Sprintf("📱 Layanan: %s", ro.ServiceName),
		fmt.Sprintf("🎯 Nomor: <code>%s</code>", ro.Target),
		fmt.Sprintf("📝 OTP: <code>%s</code>", code),
		fmt.Sprintf("🆔 Order ID: <code>%s</code>", ro.ID),
	}, "\n")
	return r.SendText(ctx, ro.ChatID, text)
}

func (r *RealBotAdapter) RentalFailed(ctx context.Context, ro *model.RentalOrder, note string) error {
	text := strings.Join([]string{
		"❌ <b>ORDER NOMOR GAGAL</b>",
		"",
		fmt.Sprintf("🆔 Order ID: <code>%s</code>", ro.ID),
		fmt.Sprintf("📝 %s", note),
		"",
		"Hubungi owner untuk pengecekan lebih lanjut.",
	}, "\n")
	return r.SendText(ctx, ro.ChatID, text)
}

func (r *RealBotAdapter) RentalCancelled(ctx context.Context, ro *model.RentalOrder) error {
	text := strings.Join([]string{
		"↩️ <b>ORDER NOMOR DIBATALKAN</b>",
		"",
		fmt.Sprintf("🆔 Order ID: <code>%s</code>", ro.ID),
		fmt.Sprintf("💰 Refund: %s", fmtRupiah(ro.Refunded)),
		fmt.Sprintf("💳 Saldo sekarang: %s", fmtRupiah(ro.Remaining)),
	}, "\n")
	return r.SendText(ctx, ro.ChatID, text)
}

// NotifyChannel posts to the operational channel; silently a no-op when no
// channel is configured.
func (r *RealBotAdapter) NotifyChannel(ctx context.Context, text string) error {
	if r.channel == "" {
		return nil
	}
	var msg tgbotapi.MessageConfig
	if strings.HasPrefix(r.channel, "@") {
		msg = tgbotapi.NewMessageToChannel(r.channel, text)
	} else {
		id, err := strconv.ParseInt(r.channel, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid channel %q: %w", r.channel, err)
		}
		msg = tgbotapi.NewMessage(id, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealBotAdapter) NotifyOrderCompleted(ctx context.Context, o *model.Order) error {
	text := strings.Join([]string{
		"🛒 <b>ORDER BARU</b>",
		"",
		fmt.Sprintf("📦 Produk: %s", orderTitle(o.Kind)),
		fmt.Sprintf("👤 User: %d", o.UserID),
		fmt.Sprintf("💵 Nominal: %s", fmtRupiah(o.Total)),
		fmt.Sprintf("🆔 Trx ID: <code>%s</code>", o.PaymentID),
		fmt.Sprintf("🧾 Order ID: <code>%s</code>", o.ID),
	}, "\n")
	return r.NotifyChannel(ctx, text)
}

func (r *RealBotAdapter) NotifyRentalCompleted(ctx context.Context, ro *model.RentalOrder) error {
	text := strings.Join([]string{
		"📱 <b>NOKOS SELESAI</b>",
		"",
		fmt.Sprintf("🛒 Layanan: %s", ro.ServiceName),
		fmt.Sprintf("👤 User: %d", ro.UserID),
		fmt.Sprintf("💰 Harga: %s", fmtRupiah(ro.Price)),
		fmt.Sprintf("📞 Nomor: <code>%s</code>", ro.Target),
		fmt.Sprintf("🆔 Order ID: <code>%s</code>", ro.ID),
	}, "\n")
	return r.NotifyChannel(ctx, text)
}

func orderTitle(kind model.OrderKind) string {
	switch kind {
	case model.OrderKindPanel:
		return "Panel Hosting"
	case model.OrderKindAdmin:
		return "Admin Panel"
	case model.OrderKindReseller:
		return "Reseller Panel"
	case model.OrderKindUserbot:
		return "Userbot / PT"
	case model.OrderKindScript:
		return "Script"
	case model.OrderKindDeposit:
		return "Deposit Saldo"
	default:
		return string(kind)
	}
}

// fmtRupiah renders "Rp 10.000" with dot thousands separators.
func fmtRupiah(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	n := len(s)
	if n > 3 {
		var b strings.Builder
		pre := n % 3
		if pre == 0 {
			pre = 3
		}
		b.WriteString(s[:pre])
		for i := pre; i < n; i += 3 {
			b.WriteString(".")
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-Rp " + s
	}
	return "Rp " + s
}

func fmtResource(v int, unit string) string {
	if v == 0 {
		return "Unlimited"
	}
	if unit == "%" {
		return strconv.Itoa(v) + "%"
	}
	return strconv.Itoa(v) + " " + unit
}
