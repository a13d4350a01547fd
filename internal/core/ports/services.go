package ports

import (
	"context"
	"time"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- External collaborators ---

// PaymentGateway captures payment for an order.
type PaymentGateway interface {
	// Capture settles the order's payment with provider and returns the settled
	// amount in minor units.
	Capture(ctx context.Context, order *domain.Order, provider string) (int64, error)
}

// RateSource serves historical daily exchange rates.
type RateSource interface {
	Historical(ctx context.Context, day time.Time, base string, symbols []string) (domain.RateTable, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload []byte) string
	Verify(secretKey string, payload []byte, signature string) bool
}

// --- Caches and locks (Redis) ---

// RateTableCache caches daily rate tables.
type RateTableCache interface {
	Get(ctx context.Context, key string) (domain.RateTable, error) // nil on miss
	Set(ctx context.Context, key string, table domain.RateTable, ttl time.Duration) error
}

// WebhookSeenCache is the fast-path duplicate check in front of the webhook ledger.
type WebhookSeenCache interface {
	Seen(ctx context.Context, webhookID string) (bool, error)
	MarkSeen(ctx context.Context, webhookID string, ttl time.Duration) error
}

// SplitLocker guards a parent order against concurrent split runs.
type SplitLocker interface {
	// Acquire returns true if the lock was taken, false if another run holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// --- Service Ports (Business Logic) ---

// WalletLedger owns wallets, per-currency accounts and the transaction ledger.
type WalletLedger interface {
	GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetOrCreateAccount(ctx context.Context, walletID uuid.UUID, currency string) (*domain.WalletAccount, error)
	AppendAccountNumber(ctx context.Context, accountID uuid.UUID) (*domain.WalletAccount, error)
	Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error)
	Debit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error)
	RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*domain.LedgerTransaction, error)
	Summary(ctx context.Context, userID uuid.UUID) (*WalletSummary, error)
}

// RecordTransactionRequest holds validated input for a ledger mutation.
type RecordTransactionRequest struct {
	AccountID     uuid.UUID
	TransactionID string // empty = generated
	Amount        decimal.Decimal
	Currency      string
	Type          domain.TransactionType
	Metadata      map[string]string
}

// WalletSummary is a wallet together with its accounts.
type WalletSummary struct {
	Wallet   *domain.Wallet         `json:"wallet"`
	Accounts []domain.WalletAccount `json:"accounts"`
}

// PaymentProcessor authorizes and records wallet payments.
type PaymentProcessor interface {
	Authorize(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency string) (bool, error)
	RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*domain.LedgerTransaction, error)
	// Settle resolves the user's account in currency and records the entry against it.
	Settle(ctx context.Context, req SettleRequest) (*domain.LedgerTransaction, error)
}

// SettleRequest is a ledger mutation addressed by user and currency.
type SettleRequest struct {
	UserID        uuid.UUID
	TransactionID string
	Amount        decimal.Decimal
	Currency      string
	Type          domain.TransactionType
	Metadata      map[string]string
}

// OrderSplitter splits multi-vendor orders.
type OrderSplitter interface {
	Split(ctx context.Context, parentOrderID uuid.UUID) (*domain.SplitResult, error)
	Children(ctx context.Context, parentOrderID uuid.UUID) ([]domain.Order, error)
	// Progress returns the persisted per-vendor markers of a parent's split.
	Progress(ctx context.Context, parentOrderID uuid.UUID) ([]domain.SplitProgress, error)
}

// RateAverager computes averaged exchange rates over a window.
type RateAverager interface {
	ComputeAverages(ctx context.Context, base string, start, end time.Time) (domain.RateTable, error)
}

// PricePropagator rewrites catalog prices from a rate table.
type PricePropagator interface {
	Propagate(ctx context.Context, rates domain.RateTable) (*PropagationReport, error)
}

// PropagationReport counts what a propagation run touched.
type PropagationReport struct {
	ProductsSkipped int `json:"products_skipped"`
	VariantsSkipped int `json:"variants_skipped"`
	VariantsUpdated int `json:"variants_updated"`
	PricesWritten   int `json:"prices_written"`
}

// WebhookLedger records externally delivered payment events exactly once.
type WebhookLedger interface {
	Record(ctx context.Context, webhookID string, payload []byte) (domain.RecordOutcome, error)
	MarkProcessed(ctx context.Context, webhookID string) error
	Get(ctx context.Context, webhookID string) (*domain.PaymentWebhook, error)
}

// PaymentEventHandler applies webhook-delivered payment events to the ledger.
type PaymentEventHandler interface {
	Handle(ctx context.Context, payload []byte) (domain.RecordOutcome, error)
}

// WalletActivator provisions a vendor's payout account.
type WalletActivator interface {
	ActivateVendorWallet(ctx context.Context, caller domain.Caller) (*domain.WalletAccount, error)
}

// RateRefresher runs the averaging and price propagation pipeline.
type RateRefresher interface {
	Refresh(ctx context.Context, start, end time.Time) (*RefreshReport, error)
}

// RefreshReport is the outcome of one refresh run.
type RefreshReport struct {
	Rates       domain.RateTable   `json:"rates"`
	Propagation *PropagationReport `json:"propagation"`
}
