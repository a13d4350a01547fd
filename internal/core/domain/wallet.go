package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is a user's container of per-currency accounts. TotalBalance is a
// cache recomputed from the accounts on every ledger mutation.
type Wallet struct {
	ID           uuid.UUID                  `json:"id"`
	UserID       uuid.UUID                  `json:"user_id"`
	TotalBalance map[string]decimal.Decimal `json:"total_balance"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// WalletAccount is a single currency balance inside a wallet.
type WalletAccount struct {
	ID             uuid.UUID       `json:"id"`
	WalletID       uuid.UUID       `json:"wallet_id"`
	Currency       string          `json:"currency"`
	AccountNumbers []string        `json:"account_numbers"`
	Balance        decimal.Decimal `json:"balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CanDebit reports whether the balance covers amount.
func (a *WalletAccount) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// TotalsFromAccounts sums account balances per currency.
func TotalsFromAccounts(accounts []WalletAccount) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		totals[a.Currency] = totals[a.Currency].Add(a.Balance)
	}
	return totals
}
