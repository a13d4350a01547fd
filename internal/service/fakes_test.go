package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// memDB is an in-memory stand-in for the ledger tables. Transactions are
// serialized by txMu, which gives the same effect as row locks on a single
// account, and undone on rollback.
type memDB struct {
	mu   sync.Mutex
	txMu sync.Mutex

	wallets  map[uuid.UUID]*domain.Wallet
	accounts map[uuid.UUID]*domain.WalletAccount
	numbers  map[string]uuid.UUID
	entries  map[string]*domain.LedgerTransaction // by transaction_id
}

func newMemDB() *memDB {
	return &memDB{
		wallets:  make(map[uuid.UUID]*domain.Wallet),
		accounts: make(map[uuid.UUID]*domain.WalletAccount),
		numbers:  make(map[string]uuid.UUID),
		entries:  make(map[string]*domain.LedgerTransaction),
	}
}

type memTx struct {
	pgx.Tx
	db   *memDB
	undo []func()
	done bool
}

func (t *memTx) onRollback(fn func()) { t.undo = append(t.undo, fn) }

func (t *memTx) Commit(_ context.Context) error {
	if t.done {
		return errors.New("tx already closed")
	}
	t.done = true
	t.db.txMu.Unlock()
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.db.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.db.mu.Unlock()
	t.done = true
	t.db.txMu.Unlock()
	return nil
}

func undoer(tx pgx.Tx) func(func()) {
	if mt, ok := tx.(*memTx); ok {
		return mt.onRollback
	}
	return func(func()) {}
}

type memTransactor struct{ db *memDB }

func (m memTransactor) Begin(_ context.Context) (pgx.Tx, error) {
	m.db.txMu.Lock()
	return &memTx{db: m.db}, nil
}

// flakyTransactor fails the next failBegins calls to Begin and rolls back the
// next failCommits commits with an error.
type flakyTransactor struct {
	memTransactor
	failBegins  atomic.Int32
	failCommits atomic.Int32
}

func (f *flakyTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.failBegins.Add(-1) >= 0 {
		return nil, errors.New("connection reset by peer")
	}
	tx, err := f.memTransactor.Begin(ctx)
	if err != nil {
		return nil, err
	}
	if f.failCommits.Add(-1) >= 0 {
		return &failingCommitTx{tx.(*memTx)}, nil
	}
	return tx, nil
}

type failingCommitTx struct{ *memTx }

func (t *failingCommitTx) Commit(ctx context.Context) error {
	_ = t.memTx.Rollback(ctx)
	return errors.New("commit: server closed the connection")
}

type memWalletRepo struct{ db *memDB }

func copyWallet(w *domain.Wallet) *domain.Wallet {
	c := *w
	c.TotalBalance = make(map[string]decimal.Decimal, len(w.TotalBalance))
	for k, v := range w.TotalBalance {
		c.TotalBalance[k] = v
	}
	return &c
}

func (r memWalletRepo) CreateIfAbsent(_ context.Context, w *domain.Wallet) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.wallets {
		if existing.UserID == w.UserID {
			return false, nil
		}
	}
	r.db.wallets[w.ID] = copyWallet(w)
	return true, nil
}

func (r memWalletRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if w, ok := r.db.wallets[id]; ok {
		return copyWallet(w), nil
	}
	return nil, nil
}

func (r memWalletRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, w := range r.db.wallets {
		if w.UserID == userID {
			return copyWallet(w), nil
		}
	}
	return nil, nil
}

func (r memWalletRepo) RecomputeTotal(_ context.Context, tx pgx.Tx, walletID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	w, ok := r.db.wallets[walletID]
	if !ok {
		return errors.New("wallet not found")
	}
	prev := w.TotalBalance
	var accounts []domain.WalletAccount
	for _, a := range r.db.accounts {
		if a.WalletID == walletID {
			accounts = append(accounts, *a)
		}
	}
	w.TotalBalance = domain.TotalsFromAccounts(accounts)
	undoer(tx)(func() { w.TotalBalance = prev })
	return nil
}

func (r memWalletRepo) count() int {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.wallets)
}

type memAccountRepo struct{ db *memDB }

func copyAccount(a *domain.WalletAccount) *domain.WalletAccount {
	c := *a
	c.AccountNumbers = append([]string(nil), a.AccountNumbers...)
	return &c
}

func (r memAccountRepo) CreateIfAbsent(_ context.Context, tx pgx.Tx, a *domain.WalletAccount) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.accounts {
		if existing.WalletID == a.WalletID && existing.Currency == a.Currency {
			return false, nil
		}
	}
	r.db.accounts[a.ID] = copyAccount(a)
	id := a.ID
	undoer(tx)(func() { delete(r.db.accounts, id) })
	return true, nil
}

func (r memAccountRepo) AddAccountNumber(_ context.Context, tx pgx.Tx, accountID uuid.UUID, number string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, taken := r.db.numbers[number]; taken {
		return false, nil
	}
	a, ok := r.db.accounts[accountID]
	if !ok {
		return false, errors.New("account not found")
	}
	r.db.numbers[number] = accountID
	a.AccountNumbers = append(a.AccountNumbers, number)
	undoer(tx)(func() {
		delete(r.db.numbers, number)
		a.AccountNumbers = a.AccountNumbers[:len(a.AccountNumbers)-1]
	})
	return true, nil
}

func (r memAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.WalletAccount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if a, ok := r.db.accounts[id]; ok {
		return copyAccount(a), nil
	}
	return nil, nil
}

func (r memAccountRepo) GetByWalletAndCurrency(_ context.Context, walletID uuid.UUID, currency string) (*domain.WalletAccount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.accounts {
		if a.WalletID == walletID && strings.EqualFold(a.Currency, currency) {
			return copyAccount(a), nil
		}
	}
	return nil, nil
}

func (r memAccountRepo) GetByIDForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*domain.WalletAccount, error) {
	return r.GetByID(ctx, id)
}

func (r memAccountRepo) ListByWallet(_ context.Context, walletID uuid.UUID) ([]domain.WalletAccount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.WalletAccount
	for _, a := range r.db.accounts {
		if a.WalletID == walletID {
			out = append(out, *copyAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

func (r memAccountRepo) UpdateBalance(_ context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.accounts[id]
	if !ok {
		return errors.New("account not found")
	}
	prev := a.Balance
	a.Balance = balance
	undoer(tx)(func() { a.Balance = prev })
	return nil
}

func (r memAccountRepo) count() int {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.accounts)
}

type memLedgerRepo struct{ db *memDB }

func (r memLedgerRepo) CreatePending(_ context.Context, t *domain.LedgerTransaction) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, exists := r.db.entries[t.TransactionID]; exists {
		return false, nil
	}
	c := *t
	r.db.entries[t.TransactionID] = &c
	return true, nil
}

func (r memLedgerRepo) GetByTransactionID(_ context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if t, ok := r.db.entries[transactionID]; ok {
		c := *t
		return &c, nil
	}
	return nil, nil
}

func (r memLedgerRepo) find(id uuid.UUID) *domain.LedgerTransaction {
	for _, t := range r.db.entries {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r memLedgerRepo) MarkCompleted(_ context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t := r.find(id)
	if t == nil {
		return errors.New("transaction not found")
	}
	if t.Status != domain.TransactionStatusPending {
		return domain.ErrTransactionNotPending
	}
	t.Status = domain.TransactionStatusCompleted
	undoer(tx)(func() { t.Status = domain.TransactionStatusPending })
	return nil
}

func (r memLedgerRepo) MarkFailed(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if t := r.find(id); t != nil && t.Status == domain.TransactionStatusPending {
		t.Status = domain.TransactionStatusFailed
	}
	return nil
}

func (r memLedgerRepo) ListByAccount(_ context.Context, accountID uuid.UUID, limit int) ([]domain.LedgerTransaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.LedgerTransaction
	for _, t := range r.db.entries {
		if t.WalletAccountID == accountID {
			out = append(out, *t)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// completedSum folds every completed entry on an account into a balance.
func (r memLedgerRepo) completedSum(accountID uuid.UUID) decimal.Decimal {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	sum := decimal.Zero
	for _, t := range r.db.entries {
		if t.WalletAccountID == accountID && t.Status == domain.TransactionStatusCompleted {
			sum = domain.Apply(sum, t.Type, t.Amount)
		}
	}
	return sum
}

// sequenceNumbers hands out AC0000000001, AC0000000002, ...
type sequenceNumbers struct {
	mu   sync.Mutex
	next int
}

func (s *sequenceNumbers) Next() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("AC%010d", s.next), nil
}

// newMemLedger wires a LedgerServiceImpl over fresh in-memory tables.
func newMemLedger() (*LedgerServiceImpl, *memDB) {
	svc, db, _ := newFlakyMemLedger()
	return svc, db
}

// newFlakyMemLedger is newMemLedger with a transactor whose failures can be armed.
func newFlakyMemLedger() (*LedgerServiceImpl, *memDB, *flakyTransactor) {
	db := newMemDB()
	transactor := &flakyTransactor{memTransactor: memTransactor{db}}
	svc := NewLedgerService(
		memWalletRepo{db}, memAccountRepo{db}, memLedgerRepo{db}, transactor,
		&sequenceNumbers{}, 3, zerolog.Nop(),
	)
	return svc, db, transactor
}

// memOrderRepo keeps orders in memory. Children are listed by creation time.
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order
}

func newMemOrderRepo(seed ...*domain.Order) *memOrderRepo {
	r := &memOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
	for _, o := range seed {
		c := *o
		r.orders[o.ID] = &c
	}
	return r
}

func (r *memOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		c := *o
		return &c, nil
	}
	return nil, nil
}

func (r *memOrderRepo) CreateChild(_ context.Context, child *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[child.ID]; !exists {
		c := *child
		r.orders[child.ID] = &c
	}
	return nil
}

func (r *memOrderRepo) MarkCaptured(_ context.Context, id uuid.UUID, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return errors.New("order not found")
	}
	o.Status = domain.OrderStatusCaptured
	o.CapturedAmount = &amount
	return nil
}

func (r *memOrderRepo) ListChildren(_ context.Context, parentID uuid.UUID) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.ParentOrderID != nil && *o.ParentOrderID == parentID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// memProgressRepo keeps split markers keyed by parent and vendor.
type memProgressRepo struct {
	mu      sync.Mutex
	markers map[[2]uuid.UUID]domain.SplitProgress
	order   [][2]uuid.UUID
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{markers: make(map[[2]uuid.UUID]domain.SplitProgress)}
}

func (r *memProgressRepo) ListByParent(_ context.Context, parentOrderID uuid.UUID) ([]domain.SplitProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SplitProgress
	for _, k := range r.order {
		if k[0] == parentOrderID {
			out = append(out, r.markers[k])
		}
	}
	return out, nil
}

func (r *memProgressRepo) Save(_ context.Context, p *domain.SplitProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := [2]uuid.UUID{p.ParentOrderID, p.VendorID}
	if _, ok := r.markers[k]; !ok {
		r.order = append(r.order, k)
	}
	r.markers[k] = *p
	return nil
}
