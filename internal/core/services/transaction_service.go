package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pkondray/bankledger/internal/apperrors"
	"github.com/pkondray/bankledger/internal/core/domain"
	portsrepo "github.com/pkondray/bankledger/internal/core/ports/repositories"
	portssvc "github.com/pkondray/bankledger/internal/core/ports/services"
	"github.com/pkondray/bankledger/internal/dto"
	"github.com/pkondray/bankledger/internal/middleware"
)

// transactionService is the transaction engine: it validates commands, checks
// idempotency, mutates account balances and appends ledger entries, all inside
// one unit of work per operation.
type transactionService struct {
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(txManager portsrepo.TransactionManager, accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.TransactionSvcFacade {
	return &transactionService{
		txManager:   txManager,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// Ensure transactionService implements the portssvc.TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// runInTx executes fn inside a database transaction. The deferred rollback
// guarantees that no exit path, including cancellation mid-operation, can
// leave a half-committed transaction; it is a no-op once Commit succeeds.
func (s *transactionService) runInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.txManager.Rollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	return s.txManager.Commit(ctx, tx)
}

// validateMovement checks the fields every money-movement command shares.
func validateMovement(amount decimal.Decimal, idempotencyKey string) error {
	if strings.TrimSpace(idempotencyKey) == "" {
		return fmt.Errorf("%w: idempotency key is required", apperrors.ErrValidation)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, amount.String())
	}
	return nil
}

// checkIdempotencyInTx fails with ErrDuplicateRequest if the (account, key)
// pair has already been recorded. This is the sole duplicate-suppression
// mechanism: a retried request is a no-op error, never a double effect.
func (s *transactionService) checkIdempotencyInTx(ctx context.Context, tx pgx.Tx, accountID, idempotencyKey string) error {
	_, err := s.ledgerRepo.FindEntryByIdempotencyKeyInTx(ctx, tx, accountID, idempotencyKey)
	if err == nil {
		return fmt.Errorf("%w: idempotency key %q already used for account %s", apperrors.ErrDuplicateRequest, idempotencyKey, accountID)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return nil
}

// loadOwnedActiveAccount locks an account row and runs the checks shared by
// Deposit and Withdraw: existence, ownership, active status.
func (s *transactionService) loadOwnedActiveAccount(ctx context.Context, tx pgx.Tx, ownerID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, err
	}
	if account.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: account %s does not belong to caller", apperrors.ErrForbidden, accountID)
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: account %s is not active", apperrors.ErrValidation, accountID)
	}
	return account, nil
}

// Deposit credits an account with the requested amount.
// Implements portssvc.TransactionSvcFacade
func (s *transactionService) Deposit(ctx context.Context, ownerID string, req dto.DepositRequest) (*dto.TransactionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateMovement(req.Amount, req.IdempotencyKey); err != nil {
		return nil, err
	}

	var result *dto.TransactionResult
	err := s.runInTx(ctx, func(tx pgx.Tx) error {
		account, err := s.loadOwnedActiveAccount(ctx, tx, ownerID, req.AccountID)
		if err != nil {
			return err
		}
		if err := s.checkIdempotencyInTx(ctx, tx, req.AccountID, req.IdempotencyKey); err != nil {
			return err
		}

		now := time.Now().UTC()
		correlationID := uuid.NewString()
		entry := domain.LedgerEntry{
			EntryID:        uuid.NewString(),
			AccountID:      account.AccountID,
			Amount:         req.Amount,
			EntryType:      domain.EntryDeposit,
			CorrelationID:  correlationID,
			IdempotencyKey: req.IdempotencyKey,
			Description:    req.Description,
			CreatedAt:      now,
		}
		if err := s.ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
			return err
		}

		account.Balance = account.Balance.Add(req.Amount)
		if err := s.accountRepo.PersistBalanceInTx(ctx, tx, *account); err != nil {
			return err
		}

		result = &dto.TransactionResult{
			AccountID:     account.AccountID,
			Amount:        req.Amount,
			NewBalance:    account.Balance,
			CorrelationID: correlationID,
			CreatedAt:     now,
		}
		return nil
	})
	if err != nil {
		logger.Warn("Deposit failed", slog.String("account_id", req.AccountID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Deposit committed", slog.String("account_id", result.AccountID), slog.String("correlation_id", result.CorrelationID))
	return result, nil
}

// Withdraw debits an account with the requested amount.
// Implements portssvc.TransactionSvcFacade
func (s *transactionService) Withdraw(ctx context.Context, ownerID string, req dto.WithdrawRequest) (*dto.TransactionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateMovement(req.Amount, req.IdempotencyKey); err != nil {
		return nil, err
	}

	var result *dto.TransactionResult
	err := s.runInTx(ctx, func(tx pgx.Tx) error {
		account, err := s.loadOwnedActiveAccount(ctx, tx, ownerID, req.AccountID)
		if err != nil {
			return err
		}
		if err := s.checkIdempotencyInTx(ctx, tx, req.AccountID, req.IdempotencyKey); err != nil {
			return err
		}
		// Balance must never go negative. Checked after loading, before mutation.
		if account.Balance.LessThan(req.Amount) {
			return fmt.Errorf("%w: balance %s is less than requested %s", apperrors.ErrInsufficientFunds, account.Balance.String(), req.Amount.String())
		}

		now := time.Now().UTC()
		correlationID := uuid.NewString()
		entry := domain.LedgerEntry{
			EntryID:        uuid.NewString(),
			AccountID:      account.AccountID,
			Amount:         req.Amount.Neg(),
			EntryType:      domain.EntryWithdraw,
			CorrelationID:  correlationID,
			IdempotencyKey: req.IdempotencyKey,
			Description:    req.Description,
			CreatedAt:      now,
		}
		if err := s.ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
			return err
		}

		account.Balance = account.Balance.Sub(req.Amount)
		if err := s.accountRepo.PersistBalanceInTx(ctx, tx, *account); err != nil {
			return err
		}

		result = &dto.TransactionResult{
			AccountID:     account.AccountID,
			Amount:        req.Amount,
			NewBalance:    account.Balance,
			CorrelationID: correlationID,
			CreatedAt:     now,
		}
		return nil
	})
	if err != nil {
		logger.Warn("Withdraw failed", slog.String("account_id", req.AccountID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Withdraw committed", slog.String("account_id", result.AccountID), slog.String("correlation_id", result.CorrelationID))
	return result, nil
}

// Transfer moves money between two accounts as an atomic entry pair.
// Implements portssvc.TransactionSvcFacade
func (s *transactionService) Transfer(ctx context.Context, ownerID string, req dto.TransferRequest) (*dto.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateMovement(req.Amount, req.IdempotencyKey); err != nil {
		return nil, err
	}
	if req.SourceAccountID == req.DestinationAccountID {
		return nil, fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrValidation)
	}

	var result *dto.TransferResult
	err := s.runInTx(ctx, func(tx pgx.Tx) error {
		// The idempotency check is scoped to the source account only and runs
		// before any account state is touched. The same key legitimately
		// appears once on each side of one transfer, never twice on one side.
		if err := s.checkIdempotencyInTx(ctx, tx, req.SourceAccountID, req.IdempotencyKey); err != nil {
			return err
		}

		source, destination, err := s.lockTransferAccounts(ctx, tx, req.SourceAccountID, req.DestinationAccountID)
		if err != nil {
			return err
		}

		if source == nil {
			return fmt.Errorf("%w: source account %s", apperrors.ErrNotFound, req.SourceAccountID)
		}
		if destination == nil {
			return fmt.Errorf("%w: destination account %s", apperrors.ErrNotFound, req.DestinationAccountID)
		}
		// Ownership is checked only for the source: a transfer may push funds
		// into any valid destination account.
		if source.OwnerID != ownerID {
			return fmt.Errorf("%w: account %s does not belong to caller", apperrors.ErrForbidden, source.AccountID)
		}
		if !source.IsActive() {
			return fmt.Errorf("%w: source account %s is not active", apperrors.ErrValidation, source.AccountID)
		}
		if !destination.IsActive() {
			return fmt.Errorf("%w: destination account %s is not active", apperrors.ErrValidation, destination.AccountID)
		}
		if !strings.EqualFold(source.CurrencyCode, destination.CurrencyCode) {
			return fmt.Errorf("%w: currency mismatch between %s and %s", apperrors.ErrValidation, source.CurrencyCode, destination.CurrencyCode)
		}
		if source.Balance.LessThan(req.Amount) {
			return fmt.Errorf("%w: balance %s is less than requested %s", apperrors.ErrInsufficientFunds, source.Balance.String(), req.Amount.String())
		}

		// One correlation ID and one timestamp shared by both legs.
		now := time.Now().UTC()
		correlationID := uuid.NewString()
		entries := []domain.LedgerEntry{
			{
				EntryID:               uuid.NewString(),
				AccountID:             source.AccountID,
				Amount:                req.Amount.Neg(),
				EntryType:             domain.EntryTransferOut,
				CorrelationID:         correlationID,
				CounterpartyAccountID: &destination.AccountID,
				IdempotencyKey:        req.IdempotencyKey,
				Description:           req.Description,
				CreatedAt:             now,
			},
			{
				EntryID:               uuid.NewString(),
				AccountID:             destination.AccountID,
				Amount:                req.Amount,
				EntryType:             domain.EntryTransferIn,
				CorrelationID:         correlationID,
				CounterpartyAccountID: &source.AccountID,
				IdempotencyKey:        req.IdempotencyKey,
				Description:           req.Description,
				CreatedAt:             now,
			},
		}
		if err := s.ledgerRepo.AppendEntriesInTx(ctx, tx, entries); err != nil {
			return err
		}

		source.Balance = source.Balance.Sub(req.Amount)
		destination.Balance = destination.Balance.Add(req.Amount)
		if err := s.accountRepo.PersistBalanceInTx(ctx, tx, *source); err != nil {
			return err
		}
		if err := s.accountRepo.PersistBalanceInTx(ctx, tx, *destination); err != nil {
			return err
		}

		result = &dto.TransferResult{
			CorrelationID:        correlationID,
			SourceAccountID:      source.AccountID,
			DestinationAccountID: destination.AccountID,
			Amount:               req.Amount,
			SourceBalance:        source.Balance,
			DestinationBalance:   destination.Balance,
			CreatedAt:            now,
		}
		return nil
	})
	if err != nil {
		logger.Warn("Transfer failed",
			slog.String("source_account_id", req.SourceAccountID),
			slog.String("destination_account_id", req.DestinationAccountID),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Transfer committed",
		slog.String("source_account_id", result.SourceAccountID),
		slog.String("destination_account_id", result.DestinationAccountID),
		slog.String("correlation_id", result.CorrelationID))
	return result, nil
}

// lockTransferAccounts locks both rows of a transfer in ascending account-ID
// order, never in from/to order. Two opposite-direction transfers between the
// same pair of accounts therefore contend in the same order and cannot
// deadlock. Missing accounts come back as nil so the caller can report the
// source before the destination.
func (s *transactionService) lockTransferAccounts(ctx context.Context, tx pgx.Tx, sourceID, destinationID string) (*domain.Account, *domain.Account, error) {
	firstID, secondID := sourceID, destinationID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := s.lockAccountIfExists(ctx, tx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := s.lockAccountIfExists(ctx, tx, secondID)
	if err != nil {
		return nil, nil, err
	}

	// Resolve which locked row is which by ID equality.
	if firstID == sourceID {
		return first, second, nil
	}
	return second, first, nil
}

func (s *transactionService) lockAccountIfExists(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}
