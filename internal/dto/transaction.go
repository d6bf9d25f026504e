package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositRequest defines the data needed to credit an account.
type DepositRequest struct {
	AccountID      string          `json:"-"` // taken from the URL, not the body
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	IdempotencyKey string          `json:"idempotencyKey" binding:"required"`
	Description    string          `json:"description"`
}

// WithdrawRequest defines the data needed to debit an account.
type WithdrawRequest struct {
	AccountID      string          `json:"-"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	IdempotencyKey string          `json:"idempotencyKey" binding:"required"`
	Description    string          `json:"description"`
}

// TransferRequest defines the data needed to move money between two accounts.
type TransferRequest struct {
	SourceAccountID      string          `json:"sourceAccountID" binding:"required"`
	DestinationAccountID string          `json:"destinationAccountID" binding:"required"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	IdempotencyKey       string          `json:"idempotencyKey" binding:"required"`
	Description          string          `json:"description"`
}

// TransactionResult is returned for a committed deposit or withdrawal.
type TransactionResult struct {
	AccountID     string          `json:"accountID"`
	Amount        decimal.Decimal `json:"amount"`
	NewBalance    decimal.Decimal `json:"newBalance"`
	CorrelationID string          `json:"correlationID"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// TransferResult is returned for a committed transfer.
type TransferResult struct {
	CorrelationID        string          `json:"correlationID"`
	SourceAccountID      string          `json:"sourceAccountID"`
	DestinationAccountID string          `json:"destinationAccountID"`
	Amount               decimal.Decimal `json:"amount"`
	SourceBalance        decimal.Decimal `json:"sourceBalance"`
	DestinationBalance   decimal.Decimal `json:"destinationBalance"`
	CreatedAt            time.Time       `json:"createdAt"`
}
