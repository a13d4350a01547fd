package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"marketplace-settlement/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const walletColumns = `id, user_id, total_balance::text, created_at, updated_at`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// CreateIfAbsent inserts a wallet unless one already exists for the user.
func (r *WalletRepo) CreateIfAbsent(ctx context.Context, w *domain.Wallet) (bool, error) {
	query := `INSERT INTO wallets (id, user_id, total_balance, created_at, updated_at)
		VALUES ($1, $2, '{}'::jsonb, $3, $4)
		ON CONFLICT (user_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, w.ID, w.UserID, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return false, wrap("insert wallet", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID fetches a wallet by its UUID.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}
	return w, nil
}

// GetByUserID fetches the wallet owned by userID.
func (r *WalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by user id: %w", err)
	}
	return w, nil
}

// RecomputeTotal rebuilds total_balance from the wallet's accounts.
// This MUST be called within the transaction that changed the balances.
func (r *WalletRepo) RecomputeTotal(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) error {
	query := `UPDATE wallets SET total_balance = COALESCE(
			(SELECT jsonb_object_agg(currency, balance::text) FROM wallet_accounts WHERE wallet_id = $1),
			'{}'::jsonb),
		updated_at = NOW()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, walletID)
	if err != nil {
		return fmt.Errorf("recompute wallet total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	var totals string
	if err := row.Scan(&w.ID, &w.UserID, &totals, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.TotalBalance = map[string]decimal.Decimal{}
	if totals != "" {
		if err := json.Unmarshal([]byte(totals), &w.TotalBalance); err != nil {
			return nil, fmt.Errorf("decode total balance: %w", err)
		}
	}
	return w, nil
}
