package integration

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-Memory Transactor ---

// serialTransactor hands out transactions that hold one shared mutex until
// they commit or roll back, standing in for the row locks of PostgreSQL.
// Setting failBegins makes that many upcoming Begin calls fail.
type serialTransactor struct {
	mu         sync.Mutex
	failBegins atomic.Int32
}

func (t *serialTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	if t.failBegins.Add(-1) >= 0 {
		return nil, errors.New("connection reset by peer")
	}
	t.mu.Lock()
	return &serialTx{release: t.mu.Unlock}, nil
}

type serialTx struct {
	once    sync.Once
	release func()
}

func (t *serialTx) end() error {
	t.once.Do(t.release)
	return nil
}

func (t *serialTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *serialTx) Commit(ctx context.Context) error          { return t.end() }
func (t *serialTx) Rollback(ctx context.Context) error        { return t.end() }
func (t *serialTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *serialTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *serialTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *serialTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *serialTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *serialTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *serialTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *serialTx) Conn() *pgx.Conn                                               { return nil }

// --- In-Memory Wallet Store ---

// walletStore backs both the wallet and the wallet account repositories so
// RecomputeTotal can see the accounts.
type walletStore struct {
	mu       sync.RWMutex
	wallets  map[uuid.UUID]*domain.Wallet
	accounts map[uuid.UUID]*domain.WalletAccount
	numbers  map[string]uuid.UUID
}

func newWalletStore() *walletStore {
	return &walletStore{
		wallets:  make(map[uuid.UUID]*domain.Wallet),
		accounts: make(map[uuid.UUID]*domain.WalletAccount),
		numbers:  make(map[string]uuid.UUID),
	}
}

type inMemoryWalletRepo struct{ s *walletStore }

func (r inMemoryWalletRepo) CreateIfAbsent(ctx context.Context, w *domain.Wallet) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.wallets {
		if existing.UserID == w.UserID {
			return false, nil
		}
	}
	cp := *w
	r.s.wallets[w.ID] = &cp
	return true, nil
}

func (r inMemoryWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.wallets[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r inMemoryWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, w := range r.s.wallets {
		if w.UserID == userID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r inMemoryWalletRepo) RecomputeTotal(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.wallets[walletID]
	if !ok {
		return nil
	}
	totals := make(map[string]decimal.Decimal)
	for _, a := range r.s.accounts {
		if a.WalletID == walletID {
			totals[a.Currency] = totals[a.Currency].Add(a.Balance)
		}
	}
	w.TotalBalance = totals
	return nil
}

type inMemoryAccountRepo struct{ s *walletStore }

func (r inMemoryAccountRepo) CreateIfAbsent(ctx context.Context, tx pgx.Tx, a *domain.WalletAccount) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if existing.WalletID == a.WalletID && existing.Currency == a.Currency {
			return false, nil
		}
	}
	cp := *a
	r.s.accounts[a.ID] = &cp
	return true, nil
}

func (r inMemoryAccountRepo) AddAccountNumber(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, number string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.numbers[number]; taken {
		return false, nil
	}
	r.s.numbers[number] = accountID
	if a, ok := r.s.accounts[accountID]; ok {
		a.AccountNumbers = append(a.AccountNumbers, number)
	}
	return true, nil
}

func (r inMemoryAccountRepo) get(id uuid.UUID) *domain.WalletAccount {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil
	}
	cp := *a
	cp.AccountNumbers = append([]string(nil), a.AccountNumbers...)
	return &cp
}

func (r inMemoryAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletAccount, error) {
	return r.get(id), nil
}

func (r inMemoryAccountRepo) GetByWalletAndCurrency(ctx context.Context, walletID uuid.UUID, currency string) (*domain.WalletAccount, error) {
	r.s.mu.RLock()
	var id uuid.UUID
	for _, a := range r.s.accounts {
		if a.WalletID == walletID && a.Currency == currency {
			id = a.ID
		}
	}
	r.s.mu.RUnlock()
	if id == uuid.Nil {
		return nil, nil
	}
	return r.get(id), nil
}

func (r inMemoryAccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WalletAccount, error) {
	return r.get(id), nil
}

func (r inMemoryAccountRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletAccount, error) {
	r.s.mu.RLock()
	var ids []uuid.UUID
	for _, a := range r.s.accounts {
		if a.WalletID == walletID {
			ids = append(ids, a.ID)
		}
	}
	r.s.mu.RUnlock()

	out := make([]domain.WalletAccount, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.get(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

func (r inMemoryAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.accounts[id]; ok {
		a.Balance = balance
	}
	return nil
}

// --- In-Memory Ledger Repo ---

type inMemoryLedgerRepo struct {
	mu      sync.RWMutex
	entries map[string]*domain.LedgerTransaction // by transaction_id
}

func newInMemoryLedgerRepo() *inMemoryLedgerRepo {
	return &inMemoryLedgerRepo{entries: make(map[string]*domain.LedgerTransaction)}
}

func (r *inMemoryLedgerRepo) CreatePending(ctx context.Context, t *domain.LedgerTransaction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[t.TransactionID]; ok {
		return false, nil
	}
	cp := *t
	r.entries[t.TransactionID] = &cp
	return true, nil
}

func (r *inMemoryLedgerRepo) GetByTransactionID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.entries[transactionID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

// moveFromPending sets status on a pending entry and reports whether one changed.
func (r *inMemoryLedgerRepo) moveFromPending(id uuid.UUID, status domain.TransactionStatus) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.entries {
		if t.ID == id && t.Status == domain.TransactionStatusPending {
			t.Status = status
			return true
		}
	}
	return false
}

func (r *inMemoryLedgerRepo) MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if !r.moveFromPending(id, domain.TransactionStatusCompleted) {
		return domain.ErrTransactionNotPending
	}
	return nil
}

func (r *inMemoryLedgerRepo) MarkFailed(ctx context.Context, id uuid.UUID) error {
	r.moveFromPending(id, domain.TransactionStatusFailed)
	return nil
}

func (r *inMemoryLedgerRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.LedgerTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.LedgerTransaction
	for _, t := range r.entries {
		if t.WalletAccountID == accountID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *inMemoryLedgerRepo) count(status domain.TransactionStatus) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, t := range r.entries {
		if t.Status == status {
			n++
		}
	}
	return n
}

// --- In-Memory Webhook Repo ---

type inMemoryWebhookRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.PaymentWebhook
}

func newInMemoryWebhookRepo() *inMemoryWebhookRepo {
	return &inMemoryWebhookRepo{rows: make(map[string]*domain.PaymentWebhook)}
}

func (r *inMemoryWebhookRepo) Insert(ctx context.Context, w *domain.PaymentWebhook) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[w.WebhookID]; ok {
		return false, nil
	}
	cp := *w
	r.rows[w.WebhookID] = &cp
	return true, nil
}

func (r *inMemoryWebhookRepo) MarkProcessed(ctx context.Context, webhookID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.rows[webhookID]
	if !ok {
		return false, nil
	}
	w.Processed = true
	return true, nil
}

func (r *inMemoryWebhookRepo) GetByWebhookID(ctx context.Context, webhookID string) (*domain.PaymentWebhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.rows[webhookID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

// --- In-Memory Commerce Data ---

type inMemoryOrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
}

func newInMemoryOrderRepo() *inMemoryOrderRepo {
	return &inMemoryOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (r *inMemoryOrderRepo) put(o *domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
}

func (r *inMemoryOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *inMemoryOrderRepo) CreateChild(ctx context.Context, child *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[child.ID]; ok {
		return nil
	}
	cp := *child
	r.orders[child.ID] = &cp
	return nil
}

func (r *inMemoryOrderRepo) MarkCaptured(ctx context.Context, id uuid.UUID, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		o.CapturedAmount = &amount
		o.Status = domain.OrderStatusCaptured
	}
	return nil
}

func (r *inMemoryOrderRepo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.ParentOrderID != nil && *o.ParentOrderID == parentID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

type inMemoryCatalogRepo struct {
	productVendors map[uuid.UUID]uuid.UUID
}

func (r *inMemoryCatalogRepo) GetProductVendors(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	out := make(map[uuid.UUID]uuid.UUID)
	for _, id := range productIDs {
		if v, ok := r.productVendors[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (r *inMemoryCatalogRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return nil, nil
}

func (r *inMemoryCatalogRepo) UpsertVariantPrices(ctx context.Context, variantID uuid.UUID, updates []domain.PriceUpdate) error {
	return nil
}

type inMemoryVendorRepo struct {
	vendors map[uuid.UUID]*domain.Vendor
}

func (r *inMemoryVendorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	return r.vendors[id], nil
}

func (r *inMemoryVendorRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Vendor, error) {
	for _, v := range r.vendors {
		if v.UserID == userID {
			return v, nil
		}
	}
	return nil, nil
}

type inMemoryProgressRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]map[uuid.UUID]domain.SplitProgress
}

func newInMemoryProgressRepo() *inMemoryProgressRepo {
	return &inMemoryProgressRepo{rows: make(map[uuid.UUID]map[uuid.UUID]domain.SplitProgress)}
}

func (r *inMemoryProgressRepo) ListByParent(ctx context.Context, parentOrderID uuid.UUID) ([]domain.SplitProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SplitProgress
	for _, p := range r.rows[parentOrderID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VendorID.String() < out[j].VendorID.String() })
	return out, nil
}

func (r *inMemoryProgressRepo) Save(ctx context.Context, p *domain.SplitProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows[p.ParentOrderID] == nil {
		r.rows[p.ParentOrderID] = make(map[uuid.UUID]domain.SplitProgress)
	}
	r.rows[p.ParentOrderID][p.VendorID] = *p
	return nil
}

type inMemoryRateRepo struct {
	rates map[string]float64
}

func (r *inMemoryRateRepo) GetByCurrencies(ctx context.Context, codes []string) ([]domain.ExchangeRate, error) {
	var out []domain.ExchangeRate
	for _, c := range codes {
		if rate, ok := r.rates[strings.ToUpper(c)]; ok {
			out = append(out, domain.ExchangeRate{CurrencyCode: strings.ToUpper(c), AverageRate: rate})
		}
	}
	return out, nil
}

func (r *inMemoryRateRepo) ListAll(ctx context.Context) ([]domain.ExchangeRate, error) {
	return r.GetByCurrencies(ctx, domain.RateTable(r.rates).Currencies())
}

func (r *inMemoryRateRepo) InsertBatch(ctx context.Context, tx pgx.Tx, rates []domain.ExchangeRate) error {
	return nil
}

func (r *inMemoryRateRepo) UpdateBatch(ctx context.Context, tx pgx.Tx, rates []domain.ExchangeRate) error {
	return nil
}

// capturingGateway settles every capture for the child order's full total.
type capturingGateway struct {
	mu       sync.Mutex
	captures map[uuid.UUID]int
}

func (g *capturingGateway) Capture(ctx context.Context, order *domain.Order, provider string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.captures[order.ID]++
	return order.Total, nil
}
