package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus defines the lifecycle state of an account row.
type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE"
)

// Account is the database representation of a financial account.
type Account struct {
	AccountID    string          `db:"account_id"`
	OwnerID      string          `db:"owner_id"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"`
	Status       AccountStatus   `db:"status"`
	CreatedAt    time.Time       `db:"created_at"`
	Version      int64           `db:"version"` // Optimistic concurrency token
}
