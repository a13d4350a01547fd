package postgres

import (
	"context"
	"errors"
	"fmt"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `a.id, a.wallet_id, a.currency, a.balance::text,
	COALESCE((SELECT array_agg(n.account_number ORDER BY n.created_at)
		FROM wallet_account_numbers n WHERE n.wallet_account_id = a.id), '{}'),
	a.created_at, a.updated_at`

// WalletAccountRepo implements ports.WalletAccountRepository.
type WalletAccountRepo struct {
	pool Pool
}

// NewWalletAccountRepo creates a new WalletAccountRepo.
func NewWalletAccountRepo(pool Pool) *WalletAccountRepo {
	return &WalletAccountRepo{pool: pool}
}

// CreateIfAbsent inserts an account unless the wallet already holds one in that currency.
func (r *WalletAccountRepo) CreateIfAbsent(ctx context.Context, tx pgx.Tx, a *domain.WalletAccount) (bool, error) {
	query := `INSERT INTO wallet_accounts (id, wallet_id, currency, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (wallet_id, currency) DO NOTHING`

	tag, err := tx.Exec(ctx, query,
		a.ID, a.WalletID, a.Currency, a.Balance.StringFixed(domain.LedgerScale),
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return false, wrap("insert wallet account", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AddAccountNumber attaches an external account number. A collision with any
// existing number leaves the transaction usable and returns false.
func (r *WalletAccountRepo) AddAccountNumber(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, number string) (bool, error) {
	query := `INSERT INTO wallet_account_numbers (account_number, wallet_account_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (account_number) DO NOTHING`

	tag, err := tx.Exec(ctx, query, number, accountID)
	if err != nil {
		return false, wrap("insert account number", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID fetches an account with its account numbers.
func (r *WalletAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM wallet_accounts a WHERE a.id = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet account by id: %w", err)
	}
	return a, nil
}

// GetByWalletAndCurrency fetches the wallet's account in currency.
func (r *WalletAccountRepo) GetByWalletAndCurrency(ctx context.Context, walletID uuid.UUID, currency string) (*domain.WalletAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM wallet_accounts a WHERE a.wallet_id = $1 AND a.currency = $2`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, walletID, currency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet account by currency: %w", err)
	}
	return a, nil
}

// GetByIDForUpdate fetches an account with pessimistic locking. Account numbers are not loaded.
// This MUST be called within a transaction.
func (r *WalletAccountRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WalletAccount, error) {
	query := `SELECT id, wallet_id, currency, balance::text, created_at, updated_at
		FROM wallet_accounts WHERE id = $1 FOR UPDATE`

	a := &domain.WalletAccount{}
	var balance string
	err := tx.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.WalletID, &a.Currency, &balance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet account for update: %w", err)
	}
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	return a, nil
}

// ListByWallet returns all accounts of a wallet ordered by currency.
func (r *WalletAccountRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.WalletAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM wallet_accounts a WHERE a.wallet_id = $1 ORDER BY a.currency`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list wallet accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.WalletAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// UpdateBalance sets an account balance within a transaction.
func (r *WalletAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error {
	query := `UPDATE wallet_accounts SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance.StringFixed(domain.LedgerScale), id)
	if err != nil {
		return fmt.Errorf("update wallet account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet account not found: %s", id)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.WalletAccount, error) {
	a := &domain.WalletAccount{}
	var balance string
	if err := row.Scan(
		&a.ID, &a.WalletID, &a.Currency, &balance,
		&a.AccountNumbers, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	return a, nil
}
