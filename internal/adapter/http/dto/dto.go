package dto

import (
	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"

	"github.com/google/uuid"
)

// OrderPlacedRequest is the body of the order-placed event.
type OrderPlacedRequest struct {
	OrderID string `json:"order_id" binding:"required,uuid"`
	Source  string `json:"source,omitempty" binding:"omitempty,max=64,safe_id"`
}

// SplitAcceptedResponse acknowledges a split run started in the background.
type SplitAcceptedResponse struct {
	OrderID string `json:"order_id"`
	Started bool   `json:"started"` // false = joined a run already in flight
	State   string `json:"state"`
}

// SplitStatusResponse combines the persisted progress of a split with the
// state of the latest in-process run, if any.
type SplitStatusResponse struct {
	OrderID  string                 `json:"order_id"`
	Progress []domain.SplitProgress `json:"progress"`
	Run      *SplitRunStatus        `json:"run,omitempty"`
}

// SplitRunStatus mirrors a background split task.
type SplitRunStatus struct {
	State     string              `json:"state"`
	StartedAt string              `json:"started_at"`
	EndedAt   string              `json:"ended_at,omitempty"`
	Result    *domain.SplitResult `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
	ErrorCode string              `json:"error_code,omitempty"`
	Details   any                 `json:"details,omitempty"`
}

// ChildOrderResponse is a compact view of a child order.
type ChildOrderResponse struct {
	ID       uuid.UUID `json:"id"`
	VendorID string    `json:"vendor_id"`
	Currency string    `json:"currency"`
	Total    int64     `json:"total"`
	Status   string    `json:"status"`
	Items    int       `json:"items"`
}

// WebhookAckResponse acknowledges a delivered payment event.
type WebhookAckResponse struct {
	Outcome string `json:"outcome"`
}

// WalletAccountResponse is a single wallet account.
type WalletAccountResponse struct {
	ID             uuid.UUID `json:"id"`
	WalletID       uuid.UUID `json:"wallet_id"`
	Currency       string    `json:"currency"`
	Balance        string    `json:"balance"`
	AccountNumbers []string  `json:"account_numbers"`
}

// WalletSummaryResponse is a wallet with all of its accounts.
type WalletSummaryResponse struct {
	WalletID     uuid.UUID               `json:"wallet_id"`
	UserID       uuid.UUID               `json:"user_id"`
	TotalBalance map[string]string       `json:"total_balance"`
	Accounts     []WalletAccountResponse `json:"accounts"`
}

// OnlyCurrency drops every account and total not in currency.
func (r WalletSummaryResponse) OnlyCurrency(currency string) WalletSummaryResponse {
	out := r
	out.TotalBalance = make(map[string]string, 1)
	if total, ok := r.TotalBalance[currency]; ok {
		out.TotalBalance[currency] = total
	}
	out.Accounts = make([]WalletAccountResponse, 0, 1)
	for _, a := range r.Accounts {
		if a.Currency == currency {
			out.Accounts = append(out.Accounts, a)
		}
	}
	return out
}

// WalletSummaryQuery narrows a wallet summary to one currency.
type WalletSummaryQuery struct {
	Currency string `form:"currency" binding:"omitempty,currency_code"`
}

// RateRefreshRequest triggers a rate refresh. Both dates empty selects the
// configured lookback window.
type RateRefreshRequest struct {
	Start string `json:"start,omitempty" binding:"omitempty,iso_date"`
	End   string `json:"end,omitempty" binding:"omitempty,iso_date"`
}

// RateRefreshResponse reports the averaged rates and what propagation touched.
type RateRefreshResponse struct {
	Rates       map[string]float64       `json:"rates"`
	Propagation *ports.PropagationReport `json:"propagation"`
}
