package services

import (
	"context"

	"github.com/pkondray/bankledger/internal/dto"
)

// TransactionSvcFacade defines the money-movement operations of the ledger.
// Each call runs as one unit of work: every failure after the unit of work has
// begun rolls back before the error is returned.
type TransactionSvcFacade interface {
	// Deposit credits an account and appends one DEPOSIT ledger entry.
	Deposit(ctx context.Context, ownerID string, req dto.DepositRequest) (*dto.TransactionResult, error)

	// Withdraw debits an account and appends one WITHDRAW ledger entry.
	// Fails with apperrors.ErrInsufficientFunds if the balance is too low.
	Withdraw(ctx context.Context, ownerID string, req dto.WithdrawRequest) (*dto.TransactionResult, error)

	// Transfer moves money between two same-currency accounts, appending a
	// TRANSFER_OUT / TRANSFER_IN entry pair sharing one correlation ID.
	Transfer(ctx context.Context, ownerID string, req dto.TransferRequest) (*dto.TransferResult, error)
}
