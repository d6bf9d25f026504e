package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkondray/bankledger/internal/apperrors"
	"github.com/pkondray/bankledger/internal/core/domain"
	portsrepo "github.com/pkondray/bankledger/internal/core/ports/repositories"
	portssvc "github.com/pkondray/bankledger/internal/core/ports/services"
	"github.com/pkondray/bankledger/internal/middleware"
)

const (
	defaultEntryLimit = 20
	maxEntryLimit     = 200
)

// ledgerService is the read model over ledger entries.
type ledgerService struct {
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader) portssvc.LedgerSvcFacade {
	return &ledgerService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// clampLimit bounds the requested page size to prevent unbounded reads.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultEntryLimit
	}
	if limit > maxEntryLimit {
		return maxEntryLimit
	}
	return limit
}

// RecentEntries retrieves the most recent ledger entries for one of the
// owner's accounts, newest first.
// Implements portssvc.LedgerSvcFacade
func (s *ledgerService) RecentEntries(ctx context.Context, ownerID string, accountID string, limit int) ([]domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: account %s does not belong to caller", apperrors.ErrForbidden, accountID)
	}

	entries, err := s.ledgerRepo.ListRecentEntriesByAccount(ctx, accountID, clampLimit(limit))
	if err != nil {
		logger.Error("Failed to list recent entries", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}
	return entries, nil
}
