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

const ledgerColumns = `id, wallet_account_id, transaction_id, amount::text, currency, type, status, metadata, created_at, updated_at`

// LedgerRepo implements ports.LedgerRepository over wallet_account_transactions.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// CreatePending inserts a pending entry outside any transaction so that the
// row survives as an audit trail if the balance mutation later fails.
func (r *LedgerRepo) CreatePending(ctx context.Context, t *domain.LedgerTransaction) (bool, error) {
	query := `INSERT INTO wallet_account_transactions
		(id, wallet_account_id, transaction_id, amount, currency, type, status, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (transaction_id) DO NOTHING`

	meta, err := encodeMetadata(t.Metadata)
	if err != nil {
		return false, err
	}

	tag, err := r.pool.Exec(ctx, query,
		t.ID, t.WalletAccountID, t.TransactionID, t.Amount.StringFixed(domain.LedgerScale),
		t.Currency, string(t.Type), string(domain.TransactionStatusPending), meta,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return false, wrap("insert ledger transaction", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByTransactionID fetches an entry by its external transaction id.
func (r *LedgerRepo) GetByTransactionID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	query := `SELECT ` + ledgerColumns + ` FROM wallet_account_transactions WHERE transaction_id = $1`

	t, err := scanLedgerTransaction(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger transaction: %w", err)
	}
	return t, nil
}

// MarkCompleted moves a pending entry to completed within the balance transaction.
func (r *LedgerRepo) MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `UPDATE wallet_account_transactions SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`

	tag, err := tx.Exec(ctx, query,
		string(domain.TransactionStatusCompleted), id, string(domain.TransactionStatusPending))
	if err != nil {
		return fmt.Errorf("complete ledger transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ledger transaction %s: %w", id, domain.ErrTransactionNotPending)
	}
	return nil
}

// MarkFailed moves a pending entry to failed. Entries already terminal are left as they are.
func (r *LedgerRepo) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE wallet_account_transactions SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`

	_, err := r.pool.Exec(ctx, query,
		string(domain.TransactionStatusFailed), id, string(domain.TransactionStatusPending))
	if err != nil {
		return fmt.Errorf("fail ledger transaction: %w", err)
	}
	return nil
}

// ListByAccount returns the newest entries of an account.
func (r *LedgerRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.LedgerTransaction, error) {
	query := `SELECT ` + ledgerColumns + ` FROM wallet_account_transactions
		WHERE wallet_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.LedgerTransaction
	for rows.Next() {
		t, err := scanLedgerTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger transaction: %w", err)
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

func scanLedgerTransaction(row pgx.Row) (*domain.LedgerTransaction, error) {
	t := &domain.LedgerTransaction{}
	var amount, typ, status string
	var meta []byte
	if err := row.Scan(
		&t.ID, &t.WalletAccountID, &t.TransactionID, &amount, &t.Currency,
		&typ, &status, &meta, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	t.Type = domain.TransactionType(typ)
	t.Status = domain.TransactionStatus(status)
	if t.Metadata, err = decodeMetadata(meta); err != nil {
		return nil, err
	}
	return t, nil
}

func encodeMetadata(m map[string]string) ([]byte, error) {
	if m == nil {
		m = map[string]string{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return b, nil
}

func decodeMetadata(b []byte) (map[string]string, error) {
	m := map[string]string{}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return m, nil
}
