package main

import (
	"context"
	"fmt"

	"marketplace-settlement/config"
	"marketplace-settlement/internal/adapter/gateway"
	"marketplace-settlement/internal/adapter/ratesource"
	pgStorage "marketplace-settlement/internal/adapter/storage/postgres"
	redisStorage "marketplace-settlement/internal/adapter/storage/redis"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/internal/service"
	"marketplace-settlement/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// app is the fully wired object graph shared by every command.
type app struct {
	pool *pgxpool.Pool
	rdb  *goredis.Client

	ledger     *service.LedgerServiceImpl
	splitter   *service.OrderSplitSagaImpl
	events     *service.PaymentEventHandlerImpl
	activator  *service.WalletActivationService
	refresher  *service.RateRefreshJob
	sigSvc     *service.HMACSignatureService
	rateLimits *redisStorage.RateLimitStore
	health     []ports.HealthChecker
}

func buildApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	log.Info().Msg("PostgreSQL connected")

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to Redis: %w", err)
	}
	log.Info().Msg("Redis connected")

	// Repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	accountRepo := pgStorage.NewWalletAccountRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	rateRepo := pgStorage.NewExchangeRateRepo(pool)
	webhookRepo := pgStorage.NewWebhookRepo(pool)
	progressRepo := pgStorage.NewSplitProgressRepo(pool)
	orderRepo := pgStorage.NewOrderRepo(pool)
	catalogRepo := pgStorage.NewCatalogRepo(pool)
	vendorRepo := pgStorage.NewVendorRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Outbound clients
	rateSource := ratesource.New(cfg.Rates, nil, logger.Component(log, "ratesource"))
	paymentGateway := gateway.New(cfg.Gateway, nil, logger.Component(log, "gateway"))

	// Services
	ledger := service.NewLedgerService(
		walletRepo,
		accountRepo,
		ledgerRepo,
		transactor,
		service.NewAccountNumberGenerator(cfg.Ledger.AccountNumberPrefix),
		cfg.Ledger.AccountNumberAttempts,
		logger.Component(log, "ledger"),
	)
	payments := service.NewPaymentProcessor(ledger, walletRepo, accountRepo, logger.Component(log, "payments"))

	splitter := service.NewOrderSplitSaga(service.OrderSplitDeps{
		Orders:       orderRepo,
		Catalog:      catalogRepo,
		Vendors:      vendorRepo,
		Progress:     progressRepo,
		Rates:        rateRepo,
		Gateway:      paymentGateway,
		Payments:     payments,
		Locker:       redisStorage.NewSplitLocker(rdb),
		BaseCurrency: cfg.Rates.BaseCurrency,
	}, logger.Component(log, "split_saga"))

	webhooks := service.NewWebhookLedger(webhookRepo, redisStorage.NewWebhookSeenCache(rdb), cfg.Webhook.SeenTTL, logger.Component(log, "webhooks"))
	events := service.NewPaymentEventHandler(webhooks, payments, logger.Component(log, "payment_events"))
	activator := service.NewWalletActivationService(vendorRepo, ledger, logger.Component(log, "activation"))

	averager := service.NewRateAveragingService(
		rateSource,
		redisStorage.NewRateTableCache(rdb),
		rateRepo,
		transactor,
		service.RateAveragingConfig{
			Symbols:      cfg.Rates.Symbols,
			FetchTimeout: cfg.Rates.FetchTimeout,
			Concurrency:  cfg.Rates.Concurrency,
			CacheTTL:     cfg.Rates.CacheTTL,
		},
		logger.Component(log, "rate_averaging"),
	)
	propagator := service.NewPriceConversionEngine(catalogRepo, logger.Component(log, "price_conversion"))
	refresher := service.NewRateRefreshJob(averager, propagator, cfg.Rates.BaseCurrency, cfg.Rates.LookbackDays, logger.Component(log, "rate_refresh"))

	return &app{
		pool:       pool,
		rdb:        rdb,
		ledger:     ledger,
		splitter:   splitter,
		events:     events,
		activator:  activator,
		refresher:  refresher,
		sigSvc:     service.NewHMACSignatureService(),
		rateLimits: redisStorage.NewRateLimitStore(rdb),
		health:     []ports.HealthChecker{pgStorage.NewHealthCheck(pool), redisStorage.NewHealthCheck(rdb)},
	}, nil
}

func (a *app) Close() {
	_ = a.rdb.Close()
	a.pool.Close()
}
