package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus defines the lifecycle state of an account.
type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE" // blocks all money movement
)

// Account represents a financial account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID    string          `json:"accountID"`    // Primary Key (UUID)
	OwnerID      string          `json:"ownerID"`      // Controlling principal; one account per (owner, currency)
	CurrencyCode string          `json:"currencyCode"` // 3-letter uppercase code, immutable after creation
	Balance      decimal.Decimal `json:"balance"`      // Cached balance, derived from ledger entries
	Status       AccountStatus   `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	Version      int64           `json:"version"` // Concurrency token, bumped on every balance write
}

// IsActive reports whether the account may move money.
func (a Account) IsActive() bool {
	return a.Status == StatusActive
}
