package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/usecase"
)

func (r *RealBotAdapter) routeCommand(ctx context.Context, chatID, userID int64, command string, args []string) error {
	switch command {
	case "/start":
		return r.cmdStart(ctx, chatID)
	case "/buypanel":
		return r.cmdBuyPanel(ctx, chatID, userID, args)
	case "/buyadp":
		return r.cmdBuyAdmin(ctx, chatID, userID, args)
	case "/buyresellerpanel":
		return r.cmdBuyFlat(ctx, chatID, userID, model.OrderKindReseller)
	case "/buyuserbot":
		return r.cmdBuyFlat(ctx, chatID, userID, model.OrderKindUserbot)
	case "/buysc":
		return r.cmdBuyScript(ctx, chatID, userID, args)
	case "/deposit":
		return r.cmdDeposit(ctx, chatID, userID, args)
	case "/buynokos":
		return r.cmdBuyNokos(ctx, chatID, userID, args)
	case "/statusnokos":
		return r.cmdStatusNokos(ctx, chatID, userID, args)
	case "/cancelnokos":
		return r.cmdCancelNokos(ctx, chatID, userID, args)
	case "/claim":
		return r.cmdClaim(ctx, chatID, userID, args)
	case "/saldo":
		return r.cmdSaldo(ctx, chatID, userID)
	case "/listharga":
		return r.cmdListHarga(ctx, chatID)
	case "/batal":
		return r.cmdCancelOrder(ctx, chatID, userID)
	case "/myorders":
		return r.cmdMyOrders(ctx, chatID, userID)
	case "/historynokos":
		return r.cmdHistoryNokos(ctx, chatID, userID)

	// Owner-only surface.
	case "/stats":
		return r.ownerOnly(ctx, chatID, userID, r.cmdStats)
	case "/setharga":
		return r.ownerOnlyArgs(ctx, chatID, userID, args, r.cmdSetHarga)
	case "/addsc":
		return r.ownerOnlyArgs(ctx, chatID, userID, args, r.cmdAddScript)
	case "/delsc":
		return r.ownerOnlyArgs(ctx, chatID, userID, args, r.cmdDelScript)
	case "/broadcast":
		return r.ownerOnlyArgs(ctx, chatID, userID, args, r.cmdBroadcast)
	case "/addsaldo":
		return r.ownerOnlyArgs(ctx, chatID, userID, args, r.cmdAddSaldo)
	case "/setsaldo":
		return r.ownerOnlyArgs(ctx, chatID, userID, args, r.cmdSetSaldo)
	case "/claims":
		return r.ownerOnly(ctx, chatID, userID, r.cmdListClaims)
	case "/panelusers":
		return r.ownerOnly(ctx, chatID, userID, r.cmdPanelUsers)
	case "/panelservers":
		return r.ownerOnly(ctx, chatID, userID, r.cmdPanelServers)
	case "/deluser":
		return r.ownerOnlyArgs(ctx, chatID, userID, args, r.cmdDelPanelUser)
	case "/delserver":
		return r.ownerOnlyArgs(ctx, chatID, userID, args, r.cmdDelPanelServer)

	default:
		return r.SendText(ctx, chatID, "❓ Perintah tidak dikenal. Gunakan /start untuk melihat menu.")
	}
}

func (r *RealBotAdapter) ownerOnly(ctx context.Context, chatID, userID int64, fn func(ctx context.Context, chatID int64) error) error {
	if !r.isOwner(userID) {
		return r.SendText(ctx, chatID, "⛔ Perintah ini khusus owner.")
	}
	return fn(ctx, chatID)
}

func (r *RealBotAdapter) ownerOnlyArgs(ctx context.Context, chatID, userID int64, args []string, fn func(ctx context.Context, chatID int64, args []string) error) error {
	if !r.isOwner(userID) {
		return r.SendText(ctx, chatID, "⛔ Perintah ini khusus owner.")
	}
	return fn(ctx, chatID, args)
}

func (r *RealBotAdapter) cmdStart(ctx context.Context, chatID int64) error {
	text := strings.Join([]string{
		"👋 Selamat datang di <b>" + r.cfg.Name + "</b>!",
		"",
		"🛒 <b>Produk:</b>",
		"/buypanel &lt;username&gt; &lt;paket&gt; — panel hosting",
		"/buyadp &lt;username&gt; — admin panel",
		"/buyresellerpanel — akses reseller",
		"/buyuserbot — userbot / PT",
		"/buysc [nama] — script",
		"/buynokos [layanan] — nomor OTP (bayar saldo)",
		"",
		"💳 <b>Saldo:</b>",
		"/deposit &lt;nominal&gt; — top up saldo",
		"/saldo — cek saldo",
		"",
		"📋 <b>Lainnya:</b>",
		"/listharga — daftar harga",
		"/myorders — riwayat pembelian",
		"/statusnokos &lt;id&gt; — status order nomor",
		"/historynokos — riwayat order nomor",
		"/claim &lt;orderId&gt; — klaim garansi",
		"/batal — batalkan invoice aktif",
	}, "\n")
	return r.SendText(ctx, chatID, text)
}

// startOrder funnels every paid-goods command through the coordinator and
// translates its sentinel errors into user-facing messages.
func (r *RealBotAdapter) startOrder(ctx context.Context, chatID, userID int64, kind model.OrderKind, price int64, payload model.OrderPayload) error {
	_, err := r.uc.Order.Create(ctx, userID, chatID, kind, price, payload)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDuplicateActiveOrder):
		return r.SendText(ctx, chatID, "⚠️ Kamu masih punya invoice aktif. Selesaikan atau /batal dulu.")
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return r.SendText(ctx, chatID, "❌ Gagal membuat invoice pembayaran. Coba lagi sebentar lagi.")
	default:
		r.log.Error().Err(err).Int64("user", userID).Str("kind", string(kind)).Msg("order create failed")
		return r.SendText(ctx, chatID, "❌ Terjadi kesalahan. Coba lagi nanti.")
	}
}

func (r *RealBotAdapter) cmdBuyPanel(ctx context.Context, chatID, userID int64, args []string) error {
	if len(args) < 2 {
		return r.SendText(ctx, chatID,
			"📋 Format: /buypanel &lt;username&gt; &lt;paket&gt;\n\nContoh: /buypanel budi 3gb\nPaket: "+strings.Join(model.PanelPlanOrder, ", "))
	}
	username := strings.ToLower(args[0])
	plan := strings.ToLower(args[1])
	spec, ok := model.PanelPlans[plan]
	if !ok {
		return r.SendText(ctx, chatID, "❌ Paket tidak dikenal: "+plan+"\nPaket: "+strings.Join(model.PanelPlanOrder, ", "))
	}
	price, err := r.uc.Pricing.PanelPrice(ctx, plan)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal membaca harga. Coba lagi nanti.")
	}
	payload := model.OrderPayload{Username: username, Plan: plan, RAM: spec.RAM, Disk: spec.Disk, CPU: spec.CPU}
	return r.startOrder(ctx, chatID, userID, model.OrderKindPanel, price, payload)
}

func (r *RealBotAdapter) cmdBuyAdmin(ctx context.Context, chatID, userID int64, args []string) error {
	if len(args) < 1 {
		return r.SendText(ctx, chatID, "📋 Format: /buyadp &lt;username&gt;\n\nContoh: /buyadp budi")
	}
	table, err := r.uc.Pricing.Table(ctx)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal membaca harga. Coba lagi nanti.")
	}
	payload := model.OrderPayload{Username: strings.ToLower(args[0])}
	return r.startOrder(ctx, chatID, userID, model.OrderKindAdmin, table.Adp, payload)
}

func (r *RealBotAdapter) cmdBuyFlat(ctx context.Context, chatID, userID int64, kind model.OrderKind) error {
	table, err := r.uc.Pricing.Table(ctx)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal membaca harga. Coba lagi nanti.")
	}
	price := table.Reseller
	if kind == model.OrderKindUserbot {
		price = table.Userbot
	}
	return r.startOrder(ctx, chatID, userID, kind, price, model.OrderPayload{})
}

func (r *RealBotAdapter) cmdBuyScript(ctx context.Context, chatID, userID int64, args []string) error {
	if len(args) == 0 {
		scripts, err := r.uc.Scripts.List(ctx, nil)
		if err != nil || len(scripts) == 0 {
			return r.SendText(ctx, chatID, "📜 Belum ada script yang dijual.")
		}
		lines := []string{"📜 <b>DAFTAR SCRIPT</b>", ""}
		for _, s := range scripts {
			lines = append(lines, fmt.Sprintf("• <b>%s</b> — %s\n  %s", s.Name, fmtRupiah(s.Price), s.Description))
		}
		lines = append(lines, "", "Beli dengan /buysc &lt;nama&gt;")
		return r.SendText(ctx, chatID, strings.Join(lines, "\n"))
	}

	name := strings.ToLower(strings.Join(args, " "))
	script, err := r.uc.Scripts.FindByName(ctx, nil, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return r.SendText(ctx, chatID, "❌ Script tidak ditemukan: "+name+"\nLihat daftar dengan /buysc")
		}
		return r.SendText(ctx, chatID, "❌ Terjadi kesalahan. Coba lagi nanti.")
	}
	payload := model.OrderPayload{ScriptName: script.Name}
	return r.startOrder(ctx, chatID, userID, model.OrderKindScript, script.Price, payload)
}

func (r *RealBotAdapter) cmdDeposit(ctx context.Context, chatID, userID int64, args []string) error {
	if len(args) < 1 {
		return r.SendText(ctx, chatID, "💰 Format: /deposit &lt;nominal&gt;\n\nContoh: /deposit 10000\nMinimal Rp 1.000")
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || amount < 1000 {
		return r.SendText(ctx, chatID, "❌ Nominal tidak valid. Minimal Rp 1.000.")
	}
	payload := model.OrderPayload{Amount: amount}
	return r.startOrder(ctx, chatID, userID, model.OrderKindDeposit, amount, payload)
}

func (r *RealBotAdapter) cmdCancelOrder(ctx context.Context, chatID, userID int64) error {
	po, ok := r.uc.Order.Pending(userID)
	if !ok {
		return r.SendText(ctx, chatID, "ℹ️ Tidak ada invoice aktif.")
	}
	if err := r.uc.Order.Cancel(ctx, userID, po.PaymentID); err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal membatalkan invoice.")
	}
	return nil
}

func (r *RealBotAdapter) cmdMyOrders(ctx context.Context, chatID, userID int64) error {
	orders, err := r.uc.Order.History(ctx, userID)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal mengambil riwayat pembelian.")
	}
	if len(orders) == 0 {
		return r.SendText(ctx, chatID, "🛒 Belum ada pembelian. Lihat produk dengan /start.")
	}
	lines := []string{"🛒 <b>RIWAYAT PEMBELIAN</b>", ""}
	max := len(orders)
	if max > 15 {
		max = 15
	}
	for _, o := range orders[:max] {
		lines = append(lines, fmt.Sprintf("• %s — %s (%s)\n  🆔 <code>%s</code>",
			orderTitle(o.Kind), fmtRupiah(o.Price), o.CompletedAt.Format("02 Jan 2006"), o.ID))
	}
	if len(orders) > max {
		lines = append(lines, "", fmt.Sprintf("… dan %d pembelian lain.", len(orders)-max))
	}
	return r.SendText(ctx, chatID, strings.Join(lines, "\n"))
}

func (r *RealBotAdapter) cmdHistoryNokos(ctx context.Context, chatID, userID int64) error {
	rentals, err := r.uc.Rental.History(ctx, userID)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal mengambil riwayat nokos.")
	}
	if len(rentals) == 0 {
		return r.SendText(ctx, chatID, "📱 Belum ada order nomor. Mulai dengan /buynokos.")
	}
	lines := []string{"📱 <b>RIWAYAT NOKOS</b>", ""}
	max := len(rentals)
	if max > 15 {
		max = 15
	}
	for _, ro := range rentals[:max] {
		lines = append(lines, fmt.Sprintf("• %s — <code>%s</code>\n  %s, %s\n  🆔 <code>%s</code>",
			ro.ServiceName, ro.Target, ro.Status, ro.CreatedAt.Format("02 Jan 2006"), ro.ID))
	}
	if len(rentals) > max {
		lines = append(lines, "", fmt.Sprintf("… dan %d order lain.", len(rentals)-max))
	}
	return r.SendText(ctx, chatID, strings.Join(lines, "\n"))
}

func (r *RealBotAdapter) cmdBuyNokos(ctx context.Context, chatID, userID int64, args []string) error {
	services, err := r.uc.Rental.Services(ctx)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal mengambil layanan nomor. Coba lagi nanti.")
	}
	if len(args) == 0 {
		if len(services) == 0 {
			return r.SendText(ctx, chatID, "📱 Tidak ada layanan nomor tersedia.")
		}
		table, err := r.uc.Pricing.Table(ctx)
		if err != nil {
			return r.SendText(ctx, chatID, "❌ Gagal membaca harga. Coba lagi nanti.")
		}
		lines := []string{"📱 <b>LAYANAN NOKOS</b>", "", fmt.Sprintf("💰 Harga per nomor: %s", fmtRupiah(table.Rental)), ""}
		max := len(services)
		if max > 30 {
			max = 30
		}
		for _, s := range services[:max] {
			lines = append(lines, fmt.Sprintf("• %s (<code>%s</code>)", s.Name, s.Code))
		}
		lines = append(lines, "", "Order dengan /buynokos &lt;layanan&gt;")
		return r.SendText(ctx, chatID, strings.Join(lines, "\n"))
	}

	query := strings.ToLower(strings.Join(args, " "))
	var match *struct {
		code, name string
	}
	for _, s := range services {
		if strings.EqualFold(s.Code, query) || strings.Contains(strings.ToLower(s.Name), query) {
			match = &struct{ code, name string }{s.Code, s.Name}
			break
		}
	}
	if match == nil {
		return r.SendText(ctx, chatID, "❌ Layanan tidak ditemukan: "+query)
	}

	table, err := r.uc.Pricing.Table(ctx)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal membaca harga. Coba lagi nanti.")
	}
	_, err = r.uc.Rental.Purchase(ctx, userID, chatID, match.code, match.name, table.Rental)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrInsufficientBalance):
		return r.SendText(ctx, chatID, fmt.Sprintf("❌ Saldo tidak cukup. Harga %s — top up dengan /deposit.", fmtRupiah(table.Rental)))
	default:
		r.log.Error().Err(err).Int64("user", userID).Msg("rental purchase failed")
		return r.SendText(ctx, chatID, "❌ Gagal memesan nomor. Saldo tidak terpotong bila order gagal dibuat.")
	}
}

func (r *RealBotAdapter) cmdStatusNokos(ctx context.Context, chatID, userID int64, args []string) error {
	if len(args) < 1 {
		return r.SendText(ctx, chatID, "📊 Format: /statusnokos &lt;order_id&gt;")
	}
	ro, state, err := r.uc.Rental.Status(ctx, userID, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return r.SendText(ctx, chatID, "❌ Order tidak ditemukan.")
		}
		return r.SendText(ctx, chatID, "❌ Gagal cek status. Coba lagi nanti.")
	}
	lines := []string{
		"📊 <b>STATUS ORDER NOKOS</b>",
		"",
		fmt.Sprintf("🆔 Order ID: <code>%s</code>", ro.ID),
		fmt.Sprintf("📱 Layanan: %s", ro.ServiceName),
		fmt.Sprintf("📞 Nomor: <code>%s</code>", ro.Target),
		fmt.Sprintf("📊 Status: %s", ro.Status),
	}
	if state != nil && state.Note != "" {
		lines = append(lines, fmt.Sprintf("📝 Keterangan: %s", state.Note))
	}
	return r.SendText(ctx, chatID, strings.Join(lines, "\n"))
}

func (r *RealBotAdapter) cmdCancelNokos(ctx context.Context, chatID, userID int64, args []string) error {
	if len(args) < 1 {
		return r.SendText(ctx, chatID, "↩️ Format: /cancelnokos &lt;order_id&gt;")
	}
	err := r.uc.Rental.Cancel(ctx, userID, args[0])
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return r.SendText(ctx, chatID, "❌ Order tidak ditemukan.")
	case errors.Is(err, domain.ErrOrderNotPending):
		return r.SendText(ctx, chatID, "⚠️ Order sudah selesai dan tidak bisa dibatalkan.")
	default:
		return r.SendText(ctx, chatID, "❌ Gagal membatalkan order.")
	}
}

func (r *RealBotAdapter) cmdClaim(ctx context.Context, chatID, userID int64, args []string) error {
	if len(args) < 1 {
		return r.SendText(ctx, chatID, "🛡 Format: /claim &lt;order_id&gt;\n\nOrder ID ada di pesan sukses pembelian.")
	}
	claim, err := r.uc.Warranty.Claim(ctx, userID, chatID, args[0])
	switch {
	case err == nil:
		if err := r.SendText(ctx, chatID, "🛡 Klaim garansi diterima dan menunggu persetujuan owner.\n🆔 Klaim: <code>"+claim.ID+"</code>"); err != nil {
			return err
		}
		return r.NotifyChannel(ctx, fmt.Sprintf("🛡 Klaim garansi baru %s untuk order %s dari user %d. Putuskan dengan /claims.", claim.ID, claim.OrderID, userID))
	case errors.Is(err, domain.ErrNotFound):
		return r.SendText(ctx, chatID, "❌ Order tidak ditemukan atau bukan milikmu.")
	case errors.Is(err, domain.ErrWarrantyNotEligible):
		return r.SendText(ctx, chatID, "❌ Jenis order ini tidak bergaransi.")
	case errors.Is(err, domain.ErrWarrantyExpired):
		return r.SendText(ctx, chatID, "❌ Masa garansi sudah habis.")
	case errors.Is(err, domain.ErrWarrantyExhausted):
		return r.SendText(ctx, chatID, "❌ Garansi untuk order ini sudah pernah diklaim.")
	default:
		return r.SendText(ctx, chatID, "❌ Gagal membuat klaim. Coba lagi nanti.")
	}
}

func (r *RealBotAdapter) cmdSaldo(ctx context.Context, chatID, userID int64) error {
	balance, err := r.uc.Balance.Get(ctx, userID)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal membaca saldo.")
	}
	return r.SendText(ctx, chatID, fmt.Sprintf("💳 Saldo kamu: <b>%s</b>\n\nTop up dengan /deposit &lt;nominal&gt;", fmtRupiah(balance)))
}

func (r *RealBotAdapter) cmdListHarga(ctx context.Context, chatID int64) error {
	table, err := r.uc.Pricing.Table(ctx)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal membaca harga.")
	}
	lines := []string{"💰 <b>DAFTAR HARGA</b>", "", "🖥 <b>Panel Hosting:</b>"}
	for _, plan := range model.PanelPlanOrder {
		price, ok := table.Panel[plan]
		if !ok {
			continue
		}
		spec := model.PanelPlans[plan]
		lines = append(lines, fmt.Sprintf("• %s (%s RAM) — %s", plan, fmtResource(spec.RAM, "MB"), fmtRupiah(price)))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("🛠 Admin Panel — %s", fmtRupiah(table.Adp)),
		fmt.Sprintf("🤝 Reseller Panel — %s", fmtRupiah(table.Reseller)),
		fmt.Sprintf("🏷 Userbot / PT — %s", fmtRupiah(table.Userbot)),
		fmt.Sprintf("📱 Nokos per nomor — %s", fmtRupiah(table.Rental)),
	)
	return r.SendText(ctx, chatID, strings.Join(lines, "\n"))
}

func (r *RealBotAdapter) cmdStats(ctx context.Context, chatID int64) error {
	stats, err := r.uc.Stats.Collect(ctx)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal mengambil statistik.")
	}
	text := strings.Join([]string{
		"📊 <b>STATISTIK TOKO</b>",
		"",
		fmt.Sprintf("👥 Total user: %d", stats.Users),
		fmt.Sprintf("🛒 Order selesai: %d", stats.Orders),
		fmt.Sprintf("💰 Omzet: %s", fmtRupiah(stats.Revenue)),
		fmt.Sprintf("⏳ Invoice aktif: %d", stats.PendingOrders),
	}, "\n")
	return r.SendText(ctx, chatID, text)
}

func (r *RealBotAdapter) cmdSetHarga(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 2 {
		return r.SendText(ctx, chatID,
			"⚙️ Format: /setharga &lt;kunci&gt; &lt;harga&gt;\n\nKunci: paket panel ("+strings.Join(model.PanelPlanOrder, ", ")+"), adp, reseller, userbot, rental")
	}
	key := strings.ToLower(args[0])
	price, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || price <= 0 {
		return r.SendText(ctx, chatID, "❌ Harga tidak valid.")
	}

	if _, ok := model.PanelPlans[key]; ok {
		err = r.uc.Pricing.SetPanelPrice(ctx, key, price)
	} else {
		switch key {
		case usecase.PriceKeyAdp, usecase.PriceKeyReseller, usecase.PriceKeyUserbot, usecase.PriceKeyRental:
			err = r.uc.Pricing.SetFlatPrice(ctx, key, price)
		default:
			return r.SendText(ctx, chatID, "❌ Kunci harga tidak dikenal: "+key)
		}
	}
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal menyimpan harga.")
	}
	return r.SendText(ctx, chatID, fmt.Sprintf("✅ Harga %s diset ke %s.", key, fmtRupiah(price)))
}

func (r *RealBotAdapter) cmdAddScript(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 3 {
		return r.SendText(ctx, chatID, "⚙️ Format: /addsc &lt;nama&gt; &lt;harga&gt; &lt;url&gt; [deskripsi]")
	}
	price, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || price <= 0 {
		return r.SendText(ctx, chatID, "❌ Harga tidak valid.")
	}
	s := &model.Script{
		Name:        strings.ToLower(args[0]),
		Price:       price,
		SourceURL:   args[2],
		Description: strings.Join(args[3:], " "),
		AddedAt:     time.Now(),
	}
	if err := r.uc.Scripts.Save(ctx, nil, s); err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal menyimpan script.")
	}
	return r.SendText(ctx, chatID, fmt.Sprintf("✅ Script %s (%s) ditambahkan.", s.Name, fmtRupiah(s.Price)))
}

func (r *RealBotAdapter) cmdDelScript(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 1 {
		return r.SendText(ctx, chatID, "⚙️ Format: /delsc &lt;nama&gt;")
	}
	name := strings.ToLower(args[0])
	if err := r.uc.Scripts.Delete(ctx, nil, name); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return r.SendText(ctx, chatID, "❌ Script tidak ditemukan: "+name)
		}
		return r.SendText(ctx, chatID, "❌ Gagal menghapus script.")
	}
	return r.SendText(ctx, chatID, "✅ Script "+name+" dihapus.")
}

func (r *RealBotAdapter) cmdBroadcast(ctx context.Context, chatID int64, args []string) error {
	if len(args) == 0 {
		return r.SendText(ctx, chatID, "⚙️ Format: /broadcast &lt;pesan&gt;")
	}
	message := strings.Join(args, " ")
	sent, err := r.uc.Broadcast.Broadcast(ctx, message)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Broadcast gagal dijalankan.")
	}
	return r.SendText(ctx, chatID, fmt.Sprintf("📣 Broadcast dikirim ke antrian untuk %d user.", sent))
}

func (r *RealBotAdapter) cmdAddSaldo(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 2 {
		return r.SendText(ctx, chatID, "⚙️ Format: /addsaldo &lt;user_id&gt; &lt;delta&gt;")
	}
	targetID, err1 := strconv.ParseInt(args[0], 10, 64)
	delta, err2 := strconv.ParseInt(args[1], 10, 64)
	if err1 != nil || err2 != nil || targetID <= 0 {
		return r.SendText(ctx, chatID, "❌ Argumen tidak valid.")
	}
	balance, err := r.uc.Balance.Credit(ctx, targetID, delta)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal mengubah saldo.")
	}
	return r.SendText(ctx, chatID, fmt.Sprintf("✅ Saldo user %d sekarang %s.", targetID, fmtRupiah(balance)))
}

func (r *RealBotAdapter) cmdSetSaldo(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 2 {
		return r.SendText(ctx, chatID, "⚙️ Format: /setsaldo &lt;user_id&gt; &lt;nominal&gt;")
	}
	targetID, err1 := strconv.ParseInt(args[0], 10, 64)
	amount, err2 := strconv.ParseInt(args[1], 10, 64)
	if err1 != nil || err2 != nil || targetID <= 0 || amount < 0 {
		return r.SendText(ctx, chatID, "❌ Argumen tidak valid.")
	}
	if err := r.uc.Balance.Set(ctx, targetID, amount); err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal mengubah saldo.")
	}
	return r.SendText(ctx, chatID, fmt.Sprintf("✅ Saldo user %d diset ke %s.", targetID, fmtRupiah(amount)))
}

func (r *RealBotAdapter) cmdListClaims(ctx context.Context, chatID int64) error {
	claims, err := r.uc.Warranty.ListPending(ctx)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal mengambil daftar klaim.")
	}
	if len(claims) == 0 {
		return r.SendText(ctx, chatID, "🛡 Tidak ada klaim garansi tertunda.")
	}
	for _, c := range claims {
		if err := r.sendClaimDecision(ctx, chatID, c.ID, c.OrderID, c.UserID); err != nil {
			return err
		}
	}
	return nil
}

func (r *RealBotAdapter) cmdPanelUsers(ctx context.Context, chatID int64) error {
	users, err := r.uc.Provision.ListUsers(ctx)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal mengambil user panel.")
	}
	if len(users) == 0 {
		return r.SendText(ctx, chatID, "✅ Tidak ada user panel.")
	}
	lines := []string{"👥 <b>USER PANEL</b>", ""}
	for _, u := range users {
		tag := ""
		if u.Admin {
			tag = " (admin)"
		}
		lines = append(lines, fmt.Sprintf("• #%d %s%s — %s", u.ID, u.Username, tag, u.Email))
	}
	return r.SendText(ctx, chatID, strings.Join(lines, "\n"))
}

func (r *RealBotAdapter) cmdPanelServers(ctx context.Context, chatID int64) error {
	servers, err := r.uc.Provision.ListServers(ctx)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal mengambil server panel.")
	}
	if len(servers) == 0 {
		return r.SendText(ctx, chatID, "✅ Tidak ada server panel.")
	}
	lines := []string{"🖥 <b>SERVER PANEL</b>", ""}
	for _, s := range servers {
		lines = append(lines, fmt.Sprintf("• #%d %s", s.ID, s.Name))
	}
	return r.SendText(ctx, chatID, strings.Join(lines, "\n"))
}

func (r *RealBotAdapter) cmdDelPanelUser(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 1 {
		return r.SendText(ctx, chatID, "⚙️ Format: /deluser &lt;id&gt;")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ ID tidak valid.")
	}
	if err := r.uc.Provision.DeleteUser(ctx, id); err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal menghapus user panel.")
	}
	return r.SendText(ctx, chatID, fmt.Sprintf("✅ User panel #%d dihapus.", id))
}

func (r *RealBotAdapter) cmdDelPanelServer(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 1 {
		return r.SendText(ctx, chatID, "⚙️ Format: /delserver &lt;id&gt;")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return r.SendText(ctx, chatID, "❌ ID tidak valid.")
	}
	if err := r.uc.Provision.DeleteServer(ctx, id); err != nil {
		return r.SendText(ctx, chatID, "❌ Gagal menghapus server panel.")
	}
	return r.SendText(ctx, chatID, fmt.Sprintf("✅ Server panel #%d dihapus.", id))
}
