package handler

import (
	"strings"

	"marketplace-settlement/internal/adapter/http/dto"
	"marketplace-settlement/internal/adapter/http/middleware"
	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"
	"marketplace-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet endpoints.
type WalletHandler struct {
	ledger    ports.WalletLedger
	activator ports.WalletActivator
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledger ports.WalletLedger, activator ports.WalletActivator) *WalletHandler {
	return &WalletHandler{ledger: ledger, activator: activator}
}

// GetSummary handles GET /api/v1/wallets/:user_id[?currency=XXX].
func (h *WalletHandler) GetSummary(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.Error(c, apperror.Validation("user id must be a uuid"))
		return
	}
	var query dto.WalletSummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("currency must be a three-letter code"))
		return
	}

	summary, err := h.ledger.Summary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := toWalletSummaryResponse(summary)
	if query.Currency != "" {
		resp = resp.OnlyCurrency(strings.ToUpper(query.Currency))
	}
	response.OK(c, resp)
}

// ActivateVendor handles POST /api/v1/vendors/wallet/activate.
func (h *WalletHandler) ActivateVendor(c *gin.Context) {
	callerID, ok := c.Get(middleware.CtxCallerID)
	if !ok {
		response.Error(c, apperror.Validation(middleware.HeaderUserID+" header must carry a user id"))
		return
	}

	account, err := h.activator.ActivateVendorWallet(c.Request.Context(), domain.Caller{UserID: callerID.(uuid.UUID)})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletAccountResponse(*account))
}

func toWalletAccountResponse(a domain.WalletAccount) dto.WalletAccountResponse {
	numbers := a.AccountNumbers
	if numbers == nil {
		numbers = []string{}
	}
	return dto.WalletAccountResponse{
		ID:             a.ID,
		WalletID:       a.WalletID,
		Currency:       a.Currency,
		Balance:        a.Balance.StringFixed(2),
		AccountNumbers: numbers,
	}
}

func toWalletSummaryResponse(s *ports.WalletSummary) dto.WalletSummaryResponse {
	resp := dto.WalletSummaryResponse{
		WalletID:     s.Wallet.ID,
		UserID:       s.Wallet.UserID,
		TotalBalance: make(map[string]string, len(s.Wallet.TotalBalance)),
		Accounts:     make([]dto.WalletAccountResponse, len(s.Accounts)),
	}
	for currency, total := range s.Wallet.TotalBalance {
		resp.TotalBalance[currency] = total.StringFixed(2)
	}
	for i, a := range s.Accounts {
		resp.Accounts[i] = toWalletAccountResponse(a)
	}
	return resp
}
