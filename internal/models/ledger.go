package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType mirrors domain.EntryType at the storage layer.
type EntryType string

const (
	EntryDeposit     EntryType = "DEPOSIT"
	EntryWithdraw    EntryType = "WITHDRAW"
	EntryTransferOut EntryType = "TRANSFER_OUT"
	EntryTransferIn  EntryType = "TRANSFER_IN"
)

// LedgerEntry is the database representation of one ledger entry.
// Rows are append-only: never updated, never deleted.
type LedgerEntry struct {
	EntryID               string          `db:"entry_id"`
	AccountID             string          `db:"account_id"`
	Amount                decimal.Decimal `db:"amount"`
	EntryType             EntryType       `db:"entry_type"`
	CorrelationID         string          `db:"correlation_id"`
	CounterpartyAccountID *string         `db:"counterparty_account_id"` // Nullable
	IdempotencyKey        string          `db:"idempotency_key"`
	Description           string          `db:"description"`
	CreatedAt             time.Time       `db:"created_at"`
}
