package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pkondray/bankledger/internal/core/domain"
)

// LedgerReader defines read operations for ledger entry data
type LedgerReader interface {
	// FindEntryByIdempotencyKey retrieves the ledger entry recorded for an
	// (account, idempotency key) pair, or apperrors.ErrNotFound if none exists.
	FindEntryByIdempotencyKey(ctx context.Context, accountID string, idempotencyKey string) (*domain.LedgerEntry, error)

	// FindEntryByIdempotencyKeyInTx is FindEntryByIdempotencyKey scoped to a
	// transaction, so the duplicate check and the append observe one snapshot.
	FindEntryByIdempotencyKeyInTx(ctx context.Context, tx pgx.Tx, accountID string, idempotencyKey string) (*domain.LedgerEntry, error)

	// ListRecentEntriesByAccount retrieves up to limit entries for an account,
	// most recent first.
	ListRecentEntriesByAccount(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error)
}

// LedgerWriter defines append operations for ledger entry data. Entries are
// immutable; there are no update or delete operations.
type LedgerWriter interface {
	// AppendEntryInTx inserts one ledger entry within the given transaction.
	// A duplicate (account, idempotency key) surfaces as apperrors.ErrDuplicateRequest.
	AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error

	// AppendEntriesInTx inserts the given entries atomically within the given
	// transaction (the two legs of a transfer).
	AppendEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
