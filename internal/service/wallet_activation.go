package service

import (
	"context"
	"fmt"

	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletActivationService implements ports.WalletActivator.
type WalletActivationService struct {
	vendors ports.VendorRepository
	ledger  ports.WalletLedger
	log     zerolog.Logger
}

// NewWalletActivationService creates a new WalletActivationService.
func NewWalletActivationService(vendors ports.VendorRepository, ledger ports.WalletLedger, log zerolog.Logger) *WalletActivationService {
	return &WalletActivationService{vendors: vendors, ledger: ledger, log: log}
}

// ActivateVendorWallet provisions the payout account of the caller's vendor in
// the vendor's default currency. Calling it again returns the same account.
func (s *WalletActivationService) ActivateVendorWallet(ctx context.Context, caller domain.Caller) (*domain.WalletAccount, error) {
	if caller.UserID == uuid.Nil {
		return nil, apperror.Validation("caller is required")
	}

	vendor, err := s.vendors.GetByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get vendor: %w", err))
	}
	if vendor == nil {
		return nil, apperror.ErrNotFound("vendor")
	}

	wallet, err := s.ledger.GetOrCreateWallet(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	account, err := s.ledger.GetOrCreateAccount(ctx, wallet.ID, vendor.DefaultCurrency)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("vendor_id", vendor.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("account_id", account.ID.String()).
		Str("currency", account.Currency).
		Msg("vendor wallet activated")
	return account, nil
}
