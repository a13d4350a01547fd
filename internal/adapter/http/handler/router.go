package handler

import (
	"marketplace-settlement/internal/adapter/http/middleware"
	redisStore "marketplace-settlement/internal/adapter/storage/redis"
	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Events     ports.PaymentEventHandler
	Splitter   ports.OrderSplitter
	SplitTasks *service.TaskTracker[*domain.SplitResult]
	Ledger     ports.WalletLedger
	Activator  ports.WalletActivator
	Refresher  ports.RateRefresher // nil = refresh endpoint disabled

	SigSvc          ports.SignatureService
	WebhookSecret   string // empty = signature check disabled
	SignatureHeader string

	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	WebhookLimit   middleware.RateLimitRule

	HealthCheckers []ports.HealthChecker
	OpenAPISpec    []byte
	Mode           string // gin mode, default release
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec(deps.OpenAPISpec))
	}

	v1 := r.Group("/api/v1")

	// --- Payment provider webhooks ---
	webhookChain := []gin.HandlerFunc{}
	if deps.RateLimitStore != nil && deps.WebhookLimit.Enabled() {
		webhookChain = append(webhookChain, middleware.RateLimiter(deps.RateLimitStore, "webhooks", deps.WebhookLimit, deps.Logger))
	}
	if deps.WebhookSecret != "" {
		webhookChain = append(webhookChain, middleware.WebhookSignature(deps.SigSvc, deps.SignatureHeader, deps.WebhookSecret, deps.Logger))
	} else {
		deps.Logger.Warn().Msg("webhook secret not configured, signature check disabled")
	}
	webhookHandler := NewWebhookHandler(deps.Events)
	webhooks := v1.Group("/webhooks", webhookChain...)
	{
		webhooks.POST("/payments", webhookHandler.ReceivePayment)
	}

	// --- Orders ---
	orderHandler := NewOrderHandler(deps.Splitter, deps.SplitTasks, deps.Logger)
	v1.POST("/events/order-placed", orderHandler.OrderPlaced)
	orders := v1.Group("/orders")
	{
		orders.GET("/:id/split", orderHandler.SplitStatus)
		orders.GET("/:id/children", orderHandler.Children)
	}

	// --- Wallets ---
	walletHandler := NewWalletHandler(deps.Ledger, deps.Activator)
	v1.GET("/wallets/:user_id", walletHandler.GetSummary)
	v1.POST("/vendors/wallet/activate", middleware.CallerIdentity(), walletHandler.ActivateVendor)

	// --- Rates ---
	if deps.Refresher != nil {
		rateHandler := NewRateHandler(deps.Refresher)
		v1.POST("/rates/refresh", rateHandler.Refresh)
	}

	return r
}
