package services

import (
	"context"

	"github.com/pkondray/bankledger/internal/core/domain"
	"github.com/pkondray/bankledger/internal/dto"
)

// AccountSvcFacade defines the service operations for managing accounts.
type AccountSvcFacade interface {
	// CreateAccount opens a new zero-balance account for the owner.
	CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error)

	// GetAccount retrieves one of the owner's accounts by ID.
	GetAccount(ctx context.Context, ownerID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all of the owner's accounts.
	ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)

	// SetAccountStatus activates or deactivates one of the owner's accounts.
	SetAccountStatus(ctx context.Context, ownerID string, accountID string, status domain.AccountStatus) (*domain.Account, error)
}
