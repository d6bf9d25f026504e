package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pkondray/bankledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,alpha"`
}

// UpdateAccountStatusRequest flips an account between active and inactive.
type UpdateAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID    string               `json:"accountID"`
	OwnerID      string               `json:"ownerID"`
	CurrencyCode string               `json:"currencyCode"`
	Balance      decimal.Decimal      `json:"balance"`
	Status       domain.AccountStatus `json:"status"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    acc.AccountID,
		OwnerID:      acc.OwnerID,
		CurrencyCode: acc.CurrencyCode,
		Balance:      acc.Balance,
		Status:       acc.Status,
		CreatedAt:    acc.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
