package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates what kind of money movement a ledger entry records.
type EntryType string

const (
	EntryDeposit     EntryType = "DEPOSIT"
	EntryWithdraw    EntryType = "WITHDRAW"
	EntryTransferOut EntryType = "TRANSFER_OUT"
	EntryTransferIn  EntryType = "TRANSFER_IN"
)

// LedgerEntry is one signed, immutable record of value movement into or out of
// one account. A transfer is recorded as two entries whose amounts sum to zero,
// linked by a shared correlation ID.
type LedgerEntry struct {
	EntryID               string          `json:"entryID"`   // Primary Key (UUID)
	AccountID             string          `json:"accountID"` // Owning account
	Amount                decimal.Decimal `json:"amount"`    // Positive = credit, negative = debit
	EntryType             EntryType       `json:"entryType"`
	CorrelationID         string          `json:"correlationID"`         // Groups the two legs of one transfer
	CounterpartyAccountID *string         `json:"counterpartyAccountID"` // Set only on transfer legs
	IdempotencyKey        string          `json:"idempotencyKey"`        // Unique per (AccountID, IdempotencyKey)
	Description           string          `json:"description"`
	CreatedAt             time.Time       `json:"createdAt"`
}
