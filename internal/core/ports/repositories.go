package ports

import (
	"context"
	"errors"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallets.
type WalletRepository interface {
	// CreateIfAbsent inserts w unless the user already owns a wallet.
	// Returns false when the unique constraint on user_id suppressed the insert.
	CreateIfAbsent(ctx context.Context, w *domain.Wallet) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	// RecomputeTotal rebuilds total_balance from the wallet's accounts.
	RecomputeTotal(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) error
}

// WalletAccountRepository defines persistence operations for wallet accounts.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type WalletAccountRepository interface {
	// CreateIfAbsent inserts a unless (wallet_id, currency) already exists.
	CreateIfAbsent(ctx context.Context, tx pgx.Tx, a *domain.WalletAccount) (bool, error)
	// AddAccountNumber attaches number to the account. Returns false on collision.
	AddAccountNumber(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, number string) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletAccount, error)
	GetByWalletAndCurrency(ctx context.Context, walletID uuid.UUID, currency string) (*domain.WalletAccount, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WalletAccount, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletAccount, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error
}

// LedgerRepository defines persistence operations for wallet account transactions.
type LedgerRepository interface {
	// CreatePending inserts a pending entry. Returns false when transaction_id already exists.
	CreatePending(ctx context.Context, t *domain.LedgerTransaction) (bool, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error)
	MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	// MarkFailed moves a pending entry to failed. Terminal entries are left untouched.
	MarkFailed(ctx context.Context, id uuid.UUID) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.LedgerTransaction, error)
}

// ExchangeRateRepository defines persistence operations for averaged exchange rates.
type ExchangeRateRepository interface {
	GetByCurrencies(ctx context.Context, codes []string) ([]domain.ExchangeRate, error)
	ListAll(ctx context.Context) ([]domain.ExchangeRate, error)
	InsertBatch(ctx context.Context, tx pgx.Tx, rates []domain.ExchangeRate) error
	UpdateBatch(ctx context.Context, tx pgx.Tx, rates []domain.ExchangeRate) error
}

// WebhookRepository defines persistence for the payment webhook ledger.
type WebhookRepository interface {
	// Insert stores w. Returns false when webhook_id was already recorded.
	Insert(ctx context.Context, w *domain.PaymentWebhook) (bool, error)
	// MarkProcessed flips the processed flag. Returns false for unknown ids.
	MarkProcessed(ctx context.Context, webhookID string) (bool, error)
	GetByWebhookID(ctx context.Context, webhookID string) (*domain.PaymentWebhook, error)
}

// SplitProgressRepository persists per-vendor split markers.
type SplitProgressRepository interface {
	ListByParent(ctx context.Context, parentOrderID uuid.UUID) ([]domain.SplitProgress, error)
	// Save upserts p keyed by (parent_order_id, vendor_id).
	Save(ctx context.Context, p *domain.SplitProgress) error
}

// OrderRepository reads and writes the commerce platform's orders.
type OrderRepository interface {
	// GetByID loads the order with its line items and shipping methods.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// CreateChild persists a child order with its items and shipping methods atomically.
	CreateChild(ctx context.Context, child *domain.Order) error
	MarkCaptured(ctx context.Context, id uuid.UUID, amount int64) error
	// ListChildren returns child orders of a parent ordered by creation.
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]domain.Order, error)
}

// CatalogRepository reads products and writes variant prices.
type CatalogRepository interface {
	GetProductVendors(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
	// ListProducts loads products with variants and prices; BaseCurrency comes from the vendor.
	ListProducts(ctx context.Context) ([]domain.Product, error)
	// UpsertVariantPrices applies updates to one variant in a single transaction.
	UpsertVariantPrices(ctx context.Context, variantID uuid.UUID, updates []domain.PriceUpdate) error
}

// VendorRepository looks up vendors.
type VendorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Vendor, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ErrDuplicateKey is returned by repositories when a write hits a uniqueness constraint.
var ErrDuplicateKey = errors.New("duplicate key")
