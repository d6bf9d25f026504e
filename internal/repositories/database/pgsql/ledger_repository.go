package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkondray/bankledger/internal/apperrors"
	"github.com/pkondray/bankledger/internal/core/domain"
	portsrepo "github.com/pkondray/bankledger/internal/core/ports/repositories"
	"github.com/pkondray/bankledger/internal/models"
	"github.com/pkondray/bankledger/internal/utils/mapping"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger entry data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const entryColumns = `entry_id, account_id, amount, entry_type, correlation_id, counterparty_account_id, idempotency_key, description, created_at`

const insertEntryQuery = `
	INSERT INTO ledger_entries (entry_id, account_id, amount, entry_type, correlation_id, counterparty_account_id, idempotency_key, description, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var m models.LedgerEntry
	var counterparty sql.NullString
	err := row.Scan(
		&m.EntryID,
		&m.AccountID,
		&m.Amount,
		&m.EntryType,
		&m.CorrelationID,
		&counterparty,
		&m.IdempotencyKey,
		&m.Description,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if counterparty.Valid {
		m.CounterpartyAccountID = &counterparty.String
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

func (r *PgxLedgerRepository) findEntryByIdempotencyKey(ctx context.Context, q rowQuerier, accountID, idempotencyKey string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE account_id = $1 AND idempotency_key = $2;`

	entry, err := scanEntry(q.QueryRow(ctx, query, accountID, idempotencyKey))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by idempotency key for account %s: %w", accountID, err)
	}
	return entry, nil
}

// FindEntryByIdempotencyKey retrieves the entry recorded for an
// (account, idempotency key) pair.
func (r *PgxLedgerRepository) FindEntryByIdempotencyKey(ctx context.Context, accountID string, idempotencyKey string) (*domain.LedgerEntry, error) {
	return r.findEntryByIdempotencyKey(ctx, r.Pool, accountID, idempotencyKey)
}

// FindEntryByIdempotencyKeyInTx is the transaction-scoped variant, so the
// duplicate check and the append observe one snapshot.
func (r *PgxLedgerRepository) FindEntryByIdempotencyKeyInTx(ctx context.Context, tx pgx.Tx, accountID string, idempotencyKey string) (*domain.LedgerEntry, error) {
	return r.findEntryByIdempotencyKey(ctx, tx, accountID, idempotencyKey)
}

// ListRecentEntriesByAccount retrieves up to limit entries for an account,
// most recent first.
func (r *PgxLedgerRepository) ListRecentEntriesByAccount(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, entry_id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var m models.LedgerEntry
		var counterparty sql.NullString
		if err := rows.Scan(&m.EntryID, &m.AccountID, &m.Amount, &m.EntryType, &m.CorrelationID, &counterparty, &m.IdempotencyKey, &m.Description, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		if counterparty.Valid {
			m.CounterpartyAccountID = &counterparty.String
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading ledger entry rows: %w", err)
	}
	return entries, nil
}

// AppendEntryInTx inserts one ledger entry within the given transaction.
func (r *PgxLedgerRepository) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)

	_, err := tx.Exec(ctx, insertEntryQuery,
		m.EntryID,
		m.AccountID,
		m.Amount,
		m.EntryType,
		m.CorrelationID,
		m.CounterpartyAccountID,
		m.IdempotencyKey,
		m.Description,
		m.CreatedAt,
	)
	if err != nil {
		return translateAppendError(err, m.AccountID, m.IdempotencyKey)
	}
	return nil
}

// AppendEntriesInTx inserts the given entries atomically within the given
// transaction, batched in one round trip.
func (r *PgxLedgerRepository) AppendEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	batch := &pgx.Batch{}
	for _, entry := range entries {
		m := mapping.ToModelLedgerEntry(entry)
		batch.Queue(insertEntryQuery,
			m.EntryID,
			m.AccountID,
			m.Amount,
			m.EntryType,
			m.CorrelationID,
			m.CounterpartyAccountID,
			m.IdempotencyKey,
			m.Description,
			m.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for _, entry := range entries {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return translateAppendError(err, entry.AccountID, entry.IdempotencyKey)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close ledger entry batch: %w", err)
	}
	return nil
}

// translateAppendError maps a unique violation on (account_id, idempotency_key)
// to DuplicateRequest: two racing identical requests must not both commit.
func translateAppendError(err error, accountID, idempotencyKey string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: idempotency key %q already used for account %s", apperrors.ErrDuplicateRequest, idempotencyKey, accountID)
	}
	if conflictErr := translateContention(err); conflictErr != nil {
		return conflictErr
	}
	return fmt.Errorf("failed to append ledger entry for account %s: %w", accountID, err)
}
