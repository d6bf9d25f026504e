package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pkondray/bankledger/internal/core/domain"
)

// ListEntriesParams defines query parameters for listing ledger entries.
type ListEntriesParams struct {
	Limit int `form:"limit,default=20"`
}

// LedgerEntryResponse defines the data returned for one ledger entry.
type LedgerEntryResponse struct {
	EntryID               string           `json:"entryID"`
	AccountID             string           `json:"accountID"`
	Amount                decimal.Decimal  `json:"amount"`
	EntryType             domain.EntryType `json:"entryType"`
	CorrelationID         string           `json:"correlationID"`
	CounterpartyAccountID *string          `json:"counterpartyAccountID,omitempty"`
	Description           string           `json:"description,omitempty"`
	CreatedAt             time.Time        `json:"createdAt"`
}

// ListEntriesResponse wraps the list of ledger entries for an account.
type ListEntriesResponse struct {
	Entries []LedgerEntryResponse `json:"entries"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its response DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:               e.EntryID,
		AccountID:             e.AccountID,
		Amount:                e.Amount,
		EntryType:             e.EntryType,
		CorrelationID:         e.CorrelationID,
		CounterpartyAccountID: e.CounterpartyAccountID,
		Description:           e.Description,
		CreatedAt:             e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of entries to response DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToLedgerEntryResponse(&entries[i])
	}
	return res
}
