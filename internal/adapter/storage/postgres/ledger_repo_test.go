package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerColumnNames() []string {
	return []string{"id", "wallet_account_id", "transaction_id", "amount", "currency",
		"type", "status", "metadata", "created_at", "updated_at"}
}

func newTestLedgerTx() *domain.LedgerTransaction {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.LedgerTransaction{
		ID:              uuid.New(),
		WalletAccountID: uuid.New(),
		TransactionID:   "txn-001",
		Amount:          decimal.RequireFromString("99.9"),
		Currency:        "NGN",
		Type:            domain.TransactionTypeCredit,
		Status:          domain.TransactionStatusPending,
		Metadata:        map[string]string{"order_id": "ord_1"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestLedgerRepo_CreatePending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	txn := newTestLedgerTx()

	mock.ExpectExec("INSERT INTO wallet_account_transactions .+ ON CONFLICT \\(transaction_id\\) DO NOTHING").
		WithArgs(txn.ID, txn.WalletAccountID, "txn-001", "99.90", "NGN", "credit", "pending",
			[]byte(`{"order_id":"ord_1"}`), txn.CreatedAt, txn.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := repo.CreatePending(context.Background(), txn)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_CreatePending_Duplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	txn := newTestLedgerTx()

	mock.ExpectExec("INSERT INTO wallet_account_transactions").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := repo.CreatePending(context.Background(), txn)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLedgerRepo_CreatePending_PrimaryKeyViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	txn := newTestLedgerTx()

	mock.ExpectExec("INSERT INTO wallet_account_transactions").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "wallet_account_transactions_pkey"})

	_, err = repo.CreatePending(context.Background(), txn)
	assert.True(t, errors.Is(err, ports.ErrDuplicateKey))
}

func TestLedgerRepo_GetByTransactionID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	txn := newTestLedgerTx()

	mock.ExpectQuery("SELECT .+ FROM wallet_account_transactions WHERE transaction_id").
		WithArgs("txn-001").
		WillReturnRows(pgxmock.NewRows(ledgerColumnNames()).AddRow(
			txn.ID, txn.WalletAccountID, "txn-001", "99.90", "NGN", "credit", "completed",
			[]byte(`{"order_id":"ord_1"}`), txn.CreatedAt, txn.UpdatedAt,
		))

	result, err := repo.GetByTransactionID(context.Background(), "txn-001")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.TransactionStatusCompleted, result.Status)
	assert.Equal(t, domain.TransactionTypeCredit, result.Type)
	assert.Equal(t, "99.90", result.Amount.StringFixed(2))
	assert.Equal(t, "ord_1", result.Metadata["order_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_GetByTransactionID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM wallet_account_transactions").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(ledgerColumnNames()))

	result, err := repo.GetByTransactionID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestLedgerRepo_MarkCompleted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE wallet_account_transactions SET status").
		WithArgs("completed", id, "pending").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	assert.NoError(t, repo.MarkCompleted(context.Background(), tx, id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_MarkCompleted_NotPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE wallet_account_transactions SET status").
		WithArgs("completed", id, "pending").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.MarkCompleted(context.Background(), tx, id)
	assert.ErrorIs(t, err, domain.ErrTransactionNotPending)
}

func TestLedgerRepo_MarkFailed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE wallet_account_transactions SET status").
		WithArgs("failed", id, "pending").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(t, repo.MarkFailed(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepo_ListByAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewLedgerRepo(mock)
	accountID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows(ledgerColumnNames()).
		AddRow(uuid.New(), accountID, "t2", "5.00", "USD", "debit", "completed", []byte(`{}`), now, now).
		AddRow(uuid.New(), accountID, "t1", "10.00", "USD", "credit", "completed", []byte(nil), now, now)

	mock.ExpectQuery("SELECT .+ FROM wallet_account_transactions WHERE wallet_account_id .+ LIMIT").
		WithArgs(accountID, 20).
		WillReturnRows(rows)

	txns, err := repo.ListByAccount(context.Background(), accountID, 20)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, domain.TransactionTypeDebit, txns[0].Type)
	assert.Empty(t, txns[1].Metadata)
	assert.NoError(t, mock.ExpectationsWereMet())
}
