package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pkondray/bankledger/internal/apperrors"
	"github.com/pkondray/bankledger/internal/core/domain"
	portsrepo "github.com/pkondray/bankledger/internal/core/ports/repositories"
	portssvc "github.com/pkondray/bankledger/internal/core/ports/services"
	"github.com/pkondray/bankledger/internal/dto"
	"github.com/pkondray/bankledger/internal/middleware"
)

// accountService provides account lifecycle operations. Balances are mutated
// only by the transaction engine; this service creates accounts and changes
// their status.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// normalizeCurrency uppercases and validates a 3-letter currency code.
func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: currency code must be exactly 3 letters", apperrors.ErrValidation)
	}
	for _, r := range code {
		if !unicode.IsLetter(r) {
			return "", fmt.Errorf("%w: currency code must contain only letters", apperrors.ErrValidation)
		}
	}
	return code, nil
}

// CreateAccount opens a new zero-balance account for the owner.
// Implements portssvc.AccountSvcFacade
func (s *accountService) CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	currency, err := normalizeCurrency(req.CurrencyCode)
	if err != nil {
		return nil, err
	}

	// One account per (owner, currency). The lookup catches the common case;
	// the unique constraint in the store closes the race between two
	// concurrent creations.
	_, err = s.accountRepo.FindAccountByOwnerAndCurrency(ctx, ownerID, currency)
	if err == nil {
		return nil, fmt.Errorf("%w: owner already has a %s account", apperrors.ErrValidation, currency)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check owner+currency uniqueness", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check existing accounts: %w", err)
	}

	account := domain.Account{
		AccountID:    uuid.NewString(),
		OwnerID:      ownerID,
		CurrencyCode: currency,
		Balance:      decimal.Zero,
		Status:       domain.StatusActive,
		CreatedAt:    time.Now().UTC(),
		Version:      1,
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("currency_code", currency))
	return &account, nil
}

// GetAccount retrieves one of the owner's accounts by ID.
// Implements portssvc.AccountSvcFacade
func (s *accountService) GetAccount(ctx context.Context, ownerID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: account %s does not belong to caller", apperrors.ErrForbidden, accountID)
	}
	return account, nil
}

// ListAccounts retrieves all of the owner's accounts.
// Implements portssvc.AccountSvcFacade
func (s *accountService) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	return s.accountRepo.FindAccountsByOwner(ctx, ownerID)
}

// SetAccountStatus activates or deactivates one of the owner's accounts.
// Implements portssvc.AccountSvcFacade
func (s *accountService) SetAccountStatus(ctx context.Context, ownerID string, accountID string, status domain.AccountStatus) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if status != domain.StatusActive && status != domain.StatusInactive {
		return nil, fmt.Errorf("%w: unknown account status %q", apperrors.ErrValidation, status)
	}

	account, err := s.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status == status {
		return account, nil
	}

	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, status); err != nil {
		logger.Error("Failed to update account status", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, err
	}

	account.Status = status
	logger.Info("Account status updated", slog.String("account_id", accountID), slog.String("status", string(status)))
	return account, nil
}
