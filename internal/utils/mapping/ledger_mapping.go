package mapping

import (
	"github.com/pkondray/bankledger/internal/core/domain"
	"github.com/pkondray/bankledger/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:               d.EntryID,
		AccountID:             d.AccountID,
		Amount:                d.Amount,
		EntryType:             models.EntryType(d.EntryType),
		CorrelationID:         d.CorrelationID,
		CounterpartyAccountID: d.CounterpartyAccountID,
		IdempotencyKey:        d.IdempotencyKey,
		Description:           d.Description,
		CreatedAt:             d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:               m.EntryID,
		AccountID:             m.AccountID,
		Amount:                m.Amount,
		EntryType:             domain.EntryType(m.EntryType),
		CorrelationID:         m.CorrelationID,
		CounterpartyAccountID: m.CounterpartyAccountID,
		IdempotencyKey:        m.IdempotencyKey,
		Description:           m.Description,
		CreatedAt:             m.CreatedAt,
	}
}
