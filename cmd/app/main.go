// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"telegram-panel-store/internal/config"
	payAdapter "telegram-panel-store/internal/infra/adapters/payment"
	provAdapter "telegram-panel-store/internal/infra/adapters/provision"
	rentAdapter "telegram-panel-store/internal/infra/adapters/rental"
	tele "telegram-panel-store/internal/infra/adapters/telegram"
	pg "telegram-panel-store/internal/infra/db/postgres"
	"telegram-panel-store/internal/infra/logging"
	"telegram-panel-store/internal/infra/metrics"
	red "telegram-panel-store/internal/infra/redis"
	"telegram-panel-store/internal/infra/sched"
	"telegram-panel-store/internal/infra/web"
	"telegram-panel-store/internal/infra/worker"
	"telegram-panel-store/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed validation)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	logger.Info().Bool("dev", cfg.Runtime.Dev).Msg("starting store bot")

	// ---- Metrics ----
	reg := prometheus.NewRegistry()
	metrics.Register(reg)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	orderRepo := pg.NewOrderRepo(pool)
	rentalRepo := pg.NewRentalRepo(pool)
	balanceRepo := pg.NewBalanceRepo(pool)
	pricingRepo := pg.NewPricingRepo(pool)
	warrantyRepo := pg.NewWarrantyRepo(pool)
	scriptRepo := pg.NewScriptRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Vendor gateways ----
	payGW, err := payAdapter.NewQRISGateway(cfg.Payment.BaseURL, cfg.Payment.APIKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("payment gateway")
	}
	panelGW, err := provAdapter.NewPanelGateway(provAdapter.Options{
		BaseURL:    cfg.Panel.BaseURL,
		APIKey:     cfg.Panel.APIKey,
		Domain:     cfg.Panel.Domain,
		EggID:      cfg.Panel.EggID,
		NestID:     cfg.Panel.NestID,
		LocationID: cfg.Panel.LocationID,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("panel gateway")
	}
	rentalGW, err := rentAdapter.NewOTPGateway(cfg.Rental.BaseURL, cfg.Rental.APIKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("rental gateway")
	}

	// ---- Telegram (Notifier first, update routing bound below) ----
	botAdapter, err := tele.NewRealBotAdapter(&cfg.Bot, rateLimiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}

	// ---- Use cases ----
	clock := usecase.NewClock()
	registry := usecase.NewPendingRegistry()

	userUC := usecase.NewUserUseCase(userRepo, logger)
	balanceUC := usecase.NewBalanceUseCase(balanceRepo, locker, logger)
	pricingUC := usecase.NewPricingUseCase(pricingRepo, logger)
	fulfillUC := usecase.NewFulfillUseCase(panelGW, scriptRepo, balanceUC, botAdapter,
		usecase.FulfillLinks{Reseller: cfg.Links.Reseller, Userbot: cfg.Links.Userbot}, logger)
	orderUC := usecase.NewOrderUseCase(registry, orderRepo, payGW, fulfillUC, botAdapter, clock, logger)
	rentalUC := usecase.NewRentalUseCase(rentalRepo, rentalGW, balanceUC, botAdapter, txManager, clock,
		cfg.Rental.Country, cfg.Rental.Operator, logger)
	warrantyUC := usecase.NewWarrantyUseCase(warrantyRepo, orderRepo, clock, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, orderRepo, registry)

	broadcastPool := worker.NewPool(4, logger)
	broadcastPool.Start(ctx)
	defer broadcastPool.Stop()
	broadcastUC := usecase.NewBroadcastUseCase(userRepo, userUC, botAdapter, broadcastPool, logger)

	botAdapter.Bind(tele.UseCases{
		User:      userUC,
		Order:     orderUC,
		Rental:    rentalUC,
		Balance:   balanceUC,
		Pricing:   pricingUC,
		Warranty:  warrantyUC,
		Stats:     statsUC,
		Broadcast: broadcastUC,
		Scripts:   scriptRepo,
		Provision: panelGW,
	})

	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Ops server ----
	opsServer := web.NewServer(&cfg.Web, statsUC, reg, logger)
	go func() {
		if err := opsServer.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("ops server error")
		}
	}()

	// ---- Stale order sweeper ----
	sweeper := sched.NewExpiryWorker(time.Minute, orderUC, logger)
	go func() { _ = sweeper.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	botAdapter.StopPolling()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = opsServer.Shutdown(shutdownCtx)
	orderUC.Wait()
	rentalUC.Wait()
}
