package services

import (
	"context"

	"github.com/pkondray/bankledger/internal/core/domain"
)

// LedgerSvcFacade defines the read model over ledger entries.
type LedgerSvcFacade interface {
	// RecentEntries retrieves the most recent ledger entries for one of the
	// owner's accounts, newest first. The limit is clamped to a bounded range.
	RecentEntries(ctx context.Context, ownerID string, accountID string, limit int) ([]domain.LedgerEntry, error)
}
