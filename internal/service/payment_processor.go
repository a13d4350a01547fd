package service

import (
	"context"
	"fmt"

	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PaymentProcessorImpl implements ports.PaymentProcessor on top of the wallet ledger.
type PaymentProcessorImpl struct {
	ledger      ports.WalletLedger
	walletRepo  ports.WalletRepository
	accountRepo ports.WalletAccountRepository
	log         zerolog.Logger
}

// NewPaymentProcessor creates a new PaymentProcessorImpl.
func NewPaymentProcessor(
	ledger ports.WalletLedger,
	walletRepo ports.WalletRepository,
	accountRepo ports.WalletAccountRepository,
	log zerolog.Logger,
) *PaymentProcessorImpl {
	return &PaymentProcessorImpl{
		ledger:      ledger,
		walletRepo:  walletRepo,
		accountRepo: accountRepo,
		log:         log,
	}
}

// Authorize reports whether the user's account in currency could cover a debit
// of amount right now. It does not reserve funds.
func (p *PaymentProcessorImpl) Authorize(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency string) (bool, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return false, apperror.ErrInvalidAmount(err.Error())
	}
	currency, err := normalizeCurrency(currency)
	if err != nil {
		return false, err
	}

	account, err := p.lookupAccount(ctx, userID, currency)
	if err != nil {
		return false, err
	}
	if account == nil {
		return false, nil
	}
	return account.CanDebit(amount), nil
}

// RecordTransaction passes the request to the ledger.
func (p *PaymentProcessorImpl) RecordTransaction(ctx context.Context, req ports.RecordTransactionRequest) (*domain.LedgerTransaction, error) {
	return p.ledger.RecordTransaction(ctx, req)
}

// Settle records req against the user's account in req.Currency. Credits
// provision the wallet and account on first use; debits require them to exist.
func (p *PaymentProcessorImpl) Settle(ctx context.Context, req ports.SettleRequest) (*domain.LedgerTransaction, error) {
	if !req.Type.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown transaction type %q", req.Type))
	}
	currency, err := normalizeCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	var account *domain.WalletAccount
	if req.Type == domain.TransactionTypeCredit {
		wallet, err := p.ledger.GetOrCreateWallet(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if account, err = p.ledger.GetOrCreateAccount(ctx, wallet.ID, currency); err != nil {
			return nil, err
		}
	} else {
		if account, err = p.lookupAccount(ctx, req.UserID, currency); err != nil {
			return nil, err
		}
		if account == nil {
			return nil, apperror.ErrNotFound("wallet account")
		}
	}

	entry, err := p.ledger.RecordTransaction(ctx, ports.RecordTransactionRequest{
		AccountID:     account.ID,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		Currency:      currency,
		Type:          req.Type,
		Metadata:      req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	p.log.Info().
		Str("user_id", req.UserID.String()).
		Str("account_id", account.ID.String()).
		Str("tx_id", entry.TransactionID).
		Str("type", string(entry.Type)).
		Msg("payment settled")
	return entry, nil
}

func (p *PaymentProcessorImpl) lookupAccount(ctx context.Context, userID uuid.UUID, currency string) (*domain.WalletAccount, error) {
	wallet, err := p.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, nil
	}
	account, err := p.accountRepo.GetByWalletAndCurrency(ctx, wallet.ID, currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	return account, nil
}
