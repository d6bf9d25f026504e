package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pkondray/bankledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByOwner retrieves all accounts belonging to an owner.
	FindAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error)

	// FindAccountByOwnerAndCurrency retrieves the single account an owner holds
	// in a currency, or apperrors.ErrNotFound if none exists.
	FindAccountByOwnerAndCurrency(ctx context.Context, ownerID string, currencyCode string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A (owner, currency) uniqueness race
	// surfaces as apperrors.ErrConflict.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountStatus changes the status of an account.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) error
}

// AccountTransactionSupport defines the operations the transaction engine uses
// inside a unit of work.
type AccountTransactionSupport interface {
	// FindAccountByIDForUpdate selects an account and locks its row for update
	// within the given transaction.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// PersistBalanceInTx writes the account's new balance within the given
	// transaction, bumping the version token. A write against a stale version
	// surfaces as apperrors.ErrConflict.
	PersistBalanceInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
