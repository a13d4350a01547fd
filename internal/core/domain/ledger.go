package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger entry. Amounts are always
// positive; the sign lives here.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// Valid reports whether t is a known type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// TransactionStatus represents the lifecycle state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// ErrTransactionNotPending is returned when completing an entry that another
// attempt already moved to a terminal status.
var ErrTransactionNotPending = errors.New("ledger transaction is not pending")

// LedgerTransaction is an append-only entry against a wallet account.
// TransactionID is the caller-supplied idempotency key and is globally unique.
type LedgerTransaction struct {
	ID              uuid.UUID         `json:"id"`
	WalletAccountID uuid.UUID         `json:"wallet_account_id"`
	TransactionID   string            `json:"transaction_id"`
	Amount          decimal.Decimal   `json:"amount"`
	Currency        string            `json:"currency"`
	Type            TransactionType   `json:"type"`
	Status          TransactionStatus `json:"status"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IsTerminal returns true once the entry is completed or failed.
func (t *LedgerTransaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusFailed
}

// Apply returns the balance after applying an entry of type typ and amount.
func Apply(balance decimal.Decimal, typ TransactionType, amount decimal.Decimal) decimal.Decimal {
	if typ == TransactionTypeDebit {
		return balance.Sub(amount)
	}
	return balance.Add(amount)
}
