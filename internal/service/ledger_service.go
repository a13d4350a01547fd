package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AccountNumberSource produces candidate account numbers.
type AccountNumberSource interface {
	Next() (string, error)
}

// LedgerServiceImpl implements ports.WalletLedger.
type LedgerServiceImpl struct {
	walletRepo  ports.WalletRepository
	accountRepo ports.WalletAccountRepository
	ledgerRepo  ports.LedgerRepository
	transactor  ports.DBTransactor
	numbers     AccountNumberSource
	attempts    int
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl. attempts bounds how many
// account numbers are tried before a collision is reported.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	accountRepo ports.WalletAccountRepository,
	ledgerRepo ports.LedgerRepository,
	transactor ports.DBTransactor,
	numbers AccountNumberSource,
	attempts int,
	log zerolog.Logger,
) *LedgerServiceImpl {
	if attempts < 1 {
		attempts = 1
	}
	return &LedgerServiceImpl{
		walletRepo:  walletRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		transactor:  transactor,
		numbers:     numbers,
		attempts:    attempts,
		log:         log,
	}
}

// GetOrCreateWallet returns the user's wallet, creating an empty one if needed.
// Concurrent callers converge on the single row allowed by the user_id constraint.
func (s *LedgerServiceImpl) GetOrCreateWallet(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet != nil {
		return wallet, nil
	}

	now := time.Now().UTC()
	wallet = &domain.Wallet{
		ID:           uuid.New(),
		UserID:       userID,
		TotalBalance: map[string]decimal.Decimal{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.walletRepo.CreateIfAbsent(ctx, wallet)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}
	if created {
		s.log.Info().Str("wallet_id", wallet.ID.String()).Str("user_id", userID.String()).Msg("wallet created")
		return wallet, nil
	}

	// Lost the race: another caller created it first.
	wallet, err = s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.InternalError(fmt.Errorf("wallet for user %s vanished after conflicting insert", userID))
	}
	return wallet, nil
}

// GetOrCreateAccount returns the wallet's account in currency, creating it with
// a freshly generated account number if needed.
func (s *LedgerServiceImpl) GetOrCreateAccount(ctx context.Context, walletID uuid.UUID, currency string) (*domain.WalletAccount, error) {
	currency, err := normalizeCurrency(currency)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByWalletAndCurrency(ctx, walletID, currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account != nil {
		return account, nil
	}

	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	account = &domain.WalletAccount{
		ID:        uuid.New(),
		WalletID:  walletID,
		Currency:  currency,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.accountRepo.CreateIfAbsent(ctx, dbTx, account)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}
	if !created {
		_ = dbTx.Rollback(ctx)
		existing, err := s.accountRepo.GetByWalletAndCurrency(ctx, walletID, currency)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
		}
		if existing == nil {
			return nil, apperror.InternalError(fmt.Errorf("account %s/%s vanished after conflicting insert", walletID, currency))
		}
		return existing, nil
	}

	number, err := s.assignNumber(ctx, dbTx, account.ID)
	if err != nil {
		return nil, err
	}
	account.AccountNumbers = []string{number}

	if err := s.walletRepo.RecomputeTotal(ctx, dbTx, walletID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("recompute wallet total: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("wallet_id", walletID.String()).
		Str("account_id", account.ID.String()).
		Str("currency", currency).
		Msg("wallet account created")

	return account, nil
}

// AppendAccountNumber attaches an additional generated number to the account.
func (s *LedgerServiceImpl) AppendAccountNumber(ctx context.Context, accountID uuid.UUID) (*domain.WalletAccount, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("wallet account")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	number, err := s.assignNumber(ctx, dbTx, accountID)
	if err != nil {
		return nil, err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	account.AccountNumbers = append(account.AccountNumbers, number)
	return account, nil
}

// assignNumber generates numbers until one is accepted by the unique index.
func (s *LedgerServiceImpl) assignNumber(ctx context.Context, dbTx pgx.Tx, accountID uuid.UUID) (string, error) {
	for attempt := 1; attempt <= s.attempts; attempt++ {
		number, err := s.numbers.Next()
		if err != nil {
			return "", apperror.InternalError(err)
		}
		ok, err := s.accountRepo.AddAccountNumber(ctx, dbTx, accountID, number)
		if err != nil {
			return "", apperror.InternalError(fmt.Errorf("add account number: %w", err))
		}
		if ok {
			return number, nil
		}
		s.log.Warn().Str("account_id", accountID.String()).Int("attempt", attempt).Msg("account number collision, regenerating")
	}
	s.log.Error().Str("account_id", accountID.String()).Int("attempts", s.attempts).Msg("account number space exhausted")
	return "", apperror.ErrDuplicateResource("account number")
}

// Credit adds amount to the account.
func (s *LedgerServiceImpl) Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error) {
	return s.RecordTransaction(ctx, ports.RecordTransactionRequest{
		AccountID: accountID,
		Amount:    amount,
		Type:      domain.TransactionTypeCredit,
	})
}

// Debit removes amount from the account, failing with InsufficientFunds if the
// balance does not cover it.
func (s *LedgerServiceImpl) Debit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*domain.LedgerTransaction, error) {
	return s.RecordTransaction(ctx, ports.RecordTransactionRequest{
		AccountID: accountID,
		Amount:    amount,
		Type:      domain.TransactionTypeDebit,
	})
}

// RecordTransaction writes a pending ledger entry, applies it to the balance
// under a row lock and marks it completed in the same transaction. A rejected
// entry (insufficient funds, missing account) is marked failed and kept; an
// entry hit by an infrastructure error stays pending so the same transaction
// id can be retried. Replaying a completed transaction id returns the original
// entry.
func (s *LedgerServiceImpl) RecordTransaction(ctx context.Context, req ports.RecordTransactionRequest) (*domain.LedgerTransaction, error) {
	if !req.Type.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown transaction type %q", req.Type))
	}
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, apperror.ErrInvalidAmount(err.Error())
	}

	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("wallet account")
	}
	if req.Currency != "" && !strings.EqualFold(req.Currency, account.Currency) {
		return nil, apperror.Validation(fmt.Sprintf("currency %s does not match account currency %s", req.Currency, account.Currency))
	}

	txID := req.TransactionID
	if txID == "" {
		txID = uuid.NewString()
	}

	now := time.Now().UTC()
	entry := &domain.LedgerTransaction{
		ID:              uuid.New(),
		WalletAccountID: account.ID,
		TransactionID:   txID,
		Amount:          req.Amount,
		Currency:        account.Currency,
		Type:            req.Type,
		Status:          domain.TransactionStatusPending,
		Metadata:        req.Metadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.ledgerRepo.CreatePending(ctx, entry)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create pending transaction: %w", err))
	}
	if !created {
		return s.replay(ctx, account.WalletID, entry)
	}
	return s.settle(ctx, account.WalletID, entry)
}

// settle applies a pending entry and records the outcome on it.
func (s *LedgerServiceImpl) settle(ctx context.Context, walletID uuid.UUID, entry *domain.LedgerTransaction) (*domain.LedgerTransaction, error) {
	if err := s.apply(ctx, walletID, entry); err != nil {
		if errors.Is(err, domain.ErrTransactionNotPending) {
			// A concurrent attempt with the same id finished first.
			return s.replay(ctx, walletID, entry)
		}
		if !isLedgerRejection(err) {
			s.log.Warn().Err(err).
				Str("tx_id", entry.TransactionID).
				Str("account_id", entry.WalletAccountID.String()).
				Msg("ledger transaction left pending for retry")
			return nil, err
		}
		if markErr := s.ledgerRepo.MarkFailed(ctx, entry.ID); markErr != nil {
			s.log.Error().Err(markErr).Str("tx_id", entry.TransactionID).Msg("failed to mark transaction failed")
		}
		s.log.Warn().Err(err).
			Str("tx_id", entry.TransactionID).
			Str("account_id", entry.WalletAccountID.String()).
			Str("type", string(entry.Type)).
			Msg("ledger transaction rejected")
		return nil, err
	}

	entry.Status = domain.TransactionStatusCompleted
	s.log.Info().
		Str("tx_id", entry.TransactionID).
		Str("account_id", entry.WalletAccountID.String()).
		Str("type", string(entry.Type)).
		Str("amount", entry.Amount.StringFixed(domain.LedgerScale)).
		Str("currency", entry.Currency).
		Msg("ledger transaction completed")
	return entry, nil
}

// isLedgerRejection reports whether err is a terminal business outcome rather
// than an infrastructure failure.
func isLedgerRejection(err error) bool {
	return apperror.HasCode(err, apperror.CodeInsufficientFunds) ||
		apperror.HasCode(err, apperror.CodeInvalidAmount) ||
		apperror.HasCode(err, apperror.CodeNotFound) ||
		apperror.HasCode(err, apperror.CodeValidation)
}

// apply performs the balance mutation and completes entry atomically.
func (s *LedgerServiceImpl) apply(ctx context.Context, walletID uuid.UUID, entry *domain.LedgerTransaction) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.accountRepo.GetByIDForUpdate(ctx, dbTx, entry.WalletAccountID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if locked == nil {
		return apperror.ErrNotFound("wallet account")
	}

	if entry.Type == domain.TransactionTypeDebit && !locked.CanDebit(entry.Amount) {
		return apperror.ErrInsufficientFunds()
	}

	newBalance := domain.Apply(locked.Balance, entry.Type, entry.Amount)
	if err := s.accountRepo.UpdateBalance(ctx, dbTx, locked.ID, newBalance); err != nil {
		return apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}
	if err := s.ledgerRepo.MarkCompleted(ctx, dbTx, entry.ID); err != nil {
		return apperror.InternalError(fmt.Errorf("complete transaction: %w", err))
	}
	if err := s.walletRepo.RecomputeTotal(ctx, dbTx, walletID); err != nil {
		return apperror.InternalError(fmt.Errorf("recompute wallet total: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// replay resolves a transaction id that already exists. A completed match is
// returned as is and a pending match is applied again; MarkCompleted only
// moves pending rows, so at most one attempt changes the balance.
func (s *LedgerServiceImpl) replay(ctx context.Context, walletID uuid.UUID, attempted *domain.LedgerTransaction) (*domain.LedgerTransaction, error) {
	existing, err := s.ledgerRepo.GetByTransactionID(ctx, attempted.TransactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if existing == nil {
		return nil, apperror.InternalError(fmt.Errorf("transaction %s vanished after conflicting insert", attempted.TransactionID))
	}

	sameRequest := existing.WalletAccountID == attempted.WalletAccountID &&
		existing.Type == attempted.Type &&
		existing.Amount.Equal(attempted.Amount)
	if !sameRequest {
		return nil, apperror.ErrDuplicateResource("transaction id")
	}

	switch existing.Status {
	case domain.TransactionStatusCompleted:
		s.log.Info().Str("tx_id", existing.TransactionID).Msg("transaction already recorded, returning original")
		return existing, nil
	case domain.TransactionStatusPending:
		s.log.Info().Str("tx_id", existing.TransactionID).Msg("resuming pending transaction")
		return s.settle(ctx, walletID, existing)
	default:
		return nil, apperror.ErrDuplicateResource("transaction id")
	}
}

// Summary returns the user's wallet and accounts.
func (s *LedgerServiceImpl) Summary(ctx context.Context, userID uuid.UUID) (*ports.WalletSummary, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	accounts, err := s.accountRepo.ListByWallet(ctx, wallet.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list accounts: %w", err))
	}
	if accounts == nil {
		accounts = []domain.WalletAccount{}
	}
	return &ports.WalletSummary{Wallet: wallet, Accounts: accounts}, nil
}

// normalizeCurrency upper-cases an ISO 4217 code and rejects anything that is
// not three ASCII letters.
func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", apperror.Validation(fmt.Sprintf("invalid currency code %q", code))
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", apperror.Validation(fmt.Sprintf("invalid currency code %q", code))
		}
	}
	return code, nil
}

// asAppError passes AppErrors through and wraps anything else as internal.
func asAppError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.InternalError(err)
}
