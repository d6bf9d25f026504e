package mapping

import (
	"github.com/pkondray/bankledger/internal/core/domain"
	"github.com/pkondray/bankledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		OwnerID:      d.OwnerID,
		CurrencyCode: d.CurrencyCode,
		Balance:      d.Balance,
		Status:       models.AccountStatus(d.Status),
		CreatedAt:    d.CreatedAt,
		Version:      d.Version,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		OwnerID:      m.OwnerID,
		CurrencyCode: m.CurrencyCode,
		Balance:      m.Balance,
		Status:       domain.AccountStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		Version:      m.Version,
	}
}
