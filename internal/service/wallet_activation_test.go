package service

import (
	"context"
	"testing"

	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports/mocks"
	"marketplace-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type activationTestDeps struct {
	svc     *WalletActivationService
	vendors *mocks.MockVendorRepository
	ledger  *mocks.MockWalletLedger
}

func setupWalletActivation(t *testing.T) *activationTestDeps {
	ctrl := gomock.NewController(t)
	d := &activationTestDeps{
		vendors: mocks.NewMockVendorRepository(ctrl),
		ledger:  mocks.NewMockWalletLedger(ctrl),
	}
	d.svc = NewWalletActivationService(d.vendors, d.ledger, zerolog.Nop())
	return d
}

func TestWalletActivation_ActivateVendorWallet(t *testing.T) {
	d := setupWalletActivation(t)
	ctx := context.Background()
	userID := uuid.New()
	vendor := &domain.Vendor{ID: uuid.New(), UserID: userID, DefaultCurrency: "KES"}
	wallet := &domain.Wallet{ID: uuid.New(), UserID: userID}
	account := &domain.WalletAccount{ID: uuid.New(), WalletID: wallet.ID, Currency: "KES"}

	d.vendors.EXPECT().GetByUserID(ctx, userID).Return(vendor, nil)
	d.ledger.EXPECT().GetOrCreateWallet(ctx, userID).Return(wallet, nil)
	d.ledger.EXPECT().GetOrCreateAccount(ctx, wallet.ID, "KES").Return(account, nil)

	got, err := d.svc.ActivateVendorWallet(ctx, domain.Caller{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, account, got)
}

func TestWalletActivation_NotAVendor(t *testing.T) {
	d := setupWalletActivation(t)
	ctx := context.Background()
	userID := uuid.New()

	d.vendors.EXPECT().GetByUserID(ctx, userID).Return(nil, nil)

	_, err := d.svc.ActivateVendorWallet(ctx, domain.Caller{UserID: userID})
	assertAppError(t, err, apperror.CodeNotFound)
}

func TestWalletActivation_MissingCaller(t *testing.T) {
	d := setupWalletActivation(t)

	_, err := d.svc.ActivateVendorWallet(context.Background(), domain.Caller{})
	assertAppError(t, err, apperror.CodeValidation)
}

func TestWalletActivation_LedgerErrorPassesThrough(t *testing.T) {
	d := setupWalletActivation(t)
	ctx := context.Background()
	userID := uuid.New()
	wallet := &domain.Wallet{ID: uuid.New(), UserID: userID}

	d.vendors.EXPECT().GetByUserID(ctx, userID).Return(&domain.Vendor{ID: uuid.New(), DefaultCurrency: "NG"}, nil)
	d.ledger.EXPECT().GetOrCreateWallet(ctx, userID).Return(wallet, nil)
	d.ledger.EXPECT().GetOrCreateAccount(ctx, wallet.ID, "NG").Return(nil, apperror.Validation(`invalid currency code "NG"`))

	_, err := d.svc.ActivateVendorWallet(ctx, domain.Caller{UserID: userID})
	assertAppError(t, err, apperror.CodeValidation)
}
