package pgsql

import (
	"context"
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

// Postgres error codes the store translates into the error taxonomy.
const (
	pgUniqueViolation    = "23505"
	pgDeadlockDetected   = "40P01"
	pgSerializationError = "40001"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, owner_id, currency_code, balance, status, created_at, version`

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, so scans can be
// shared between pooled and transactional reads.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.OwnerID,
		&m.CurrencyCode,
		&m.Balance,
		&m.Status,
		&m.CreatedAt,
		&m.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// SaveAccount inserts a new account. The (owner_id, currency_code) unique
// constraint closes the race between two concurrent creations.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, owner_id, currency_code, balance, status, created_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.OwnerID,
		m.CurrencyCode,
		m.Balance,
		m.Status,
		m.CreatedAt,
		m.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: account for owner %s in %s already exists", apperrors.ErrConflict, m.OwnerID, m.CurrencyCode)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return acc, nil
}

// FindAccountsByOwner retrieves all accounts belonging to an owner.
func (r *PgxAccountRepository) FindAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(&m.AccountID, &m.OwnerID, &m.CurrencyCode, &m.Balance, &m.Status, &m.CreatedAt, &m.Version); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading account rows: %w", err)
	}
	return accounts, nil
}

// FindAccountByOwnerAndCurrency retrieves the single account an owner holds in
// a currency.
func (r *PgxAccountRepository) FindAccountByOwnerAndCurrency(ctx context.Context, ownerID string, currencyCode string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 AND currency_code = $2;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, ownerID, currencyCode))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account for owner %s in %s: %w", ownerID, currencyCode, err)
	}
	return acc, nil
}

// UpdateAccountStatus changes the status of an account.
func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) error {
	query := `UPDATE accounts SET status = $2 WHERE account_id = $1;`

	tag, err := r.Pool.Exec(ctx, query, accountID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update status for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountByIDForUpdate selects an account and locks its row for update
// within the given transaction.
func (r *PgxAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`

	acc, err := scanAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		if conflictErr := translateContention(err); conflictErr != nil {
			return nil, conflictErr
		}
		return nil, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	return acc, nil
}

// PersistBalanceInTx writes the account's new balance within the given
// transaction, guarded by the version token. A concurrent writer that already
// bumped the version makes this a zero-row update, reported as a conflict
// rather than silently overwriting.
func (r *PgxAccountRepository) PersistBalanceInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	query := `
		UPDATE accounts
		SET balance = $2, version = version + 1
		WHERE account_id = $1 AND version = $3;
	`
	tag, err := tx.Exec(ctx, query, account.AccountID, account.Balance, account.Version)
	if err != nil {
		if conflictErr := translateContention(err); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("failed to persist balance for account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s was modified concurrently", apperrors.ErrConflict, account.AccountID)
	}
	return nil
}

// translateContention maps storage-level contention errors (deadlock,
// serialization failure) into the Conflict kind without leaking the raw
// database error text. Returns nil for anything else.
func translateContention(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgDeadlockDetected, pgSerializationError:
			return fmt.Errorf("%w: transaction aborted by the store, retry the operation", apperrors.ErrConflict)
		}
	}
	return nil
}
