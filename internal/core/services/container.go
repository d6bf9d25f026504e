package services

import (
	portsrepo "github.com/pkondray/bankledger/internal/core/ports/repositories"
	portssvc "github.com/pkondray/bankledger/internal/core/ports/services"
)

// Container holds all the services and manages their dependencies
type Container struct {
	Account     portssvc.AccountSvcFacade
	Transaction portssvc.TransactionSvcFacade
	Ledger      portssvc.LedgerSvcFacade
}

// NewContainer creates a new service container with properly initialized dependencies
func NewContainer(repos *portsrepo.RepositoryProvider) *Container {
	return &Container{
		Account:     NewAccountService(repos.AccountRepo),
		Transaction: NewTransactionService(repos.AccountRepo, repos.AccountRepo, repos.LedgerRepo),
		Ledger:      NewLedgerService(repos.AccountRepo, repos.LedgerRepo),
	}
}
