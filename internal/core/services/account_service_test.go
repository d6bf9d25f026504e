package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pkondray/bankledger/internal/apperrors"
	"github.com/pkondray/bankledger/internal/core/domain"
	portssvc "github.com/pkondray/bankledger/internal/core/ports/services"
	"github.com/pkondray/bankledger/internal/core/services"
	"github.com/pkondray/bankledger/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade

	ownerID string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.ownerID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByOwnerAndCurrency", ctx, suite.ownerID, "USD").Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.Account
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Account) }).
		Return(nil).Once()

	// Currency is normalized to upper case before any lookup.
	account, err := suite.service.CreateAccount(ctx, suite.ownerID, dto.CreateAccountRequest{CurrencyCode: "usd"})

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal("USD", account.CurrencyCode)
	suite.Equal(suite.ownerID, account.OwnerID)
	suite.Equal(domain.StatusActive, account.Status)
	suite.True(account.Balance.Equal(decimal.Zero))
	suite.Equal(int64(1), account.Version)
	suite.NotEmpty(account.AccountID)
	suite.Equal(account.AccountID, saved.AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCurrency() {
	ctx := context.Background()
	existing := &domain.Account{AccountID: uuid.NewString(), OwnerID: suite.ownerID, CurrencyCode: "USD"}

	suite.mockAccountRepo.On("FindAccountByOwnerAndCurrency", ctx, suite.ownerID, "USD").Return(existing, nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.ownerID, dto.CreateAccountRequest{CurrencyCode: "USD"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(account)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidCurrency() {
	ctx := context.Background()

	for _, code := range []string{"", "US", "USDX", "U1D"} {
		_, err := suite.service.CreateAccount(ctx, suite.ownerID, dto.CreateAccountRequest{CurrencyCode: code})
		suite.ErrorIs(err, apperrors.ErrValidation, "currency %q should be rejected", code)
	}
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByOwnerAndCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, OwnerID: suite.ownerID, CurrencyCode: "EUR", Status: domain.StatusActive, CreatedAt: time.Now().UTC()}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	found, err := suite.service.GetAccount(ctx, suite.ownerID, accountID)

	suite.Require().NoError(err)
	suite.Equal(accountID, found.AccountID)
}

func (suite *AccountServiceTestSuite) TestGetAccount_NotOwned() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, OwnerID: uuid.NewString(), CurrencyCode: "EUR"}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	found, err := suite.service.GetAccount(ctx, suite.ownerID, accountID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(found)
}

func (suite *AccountServiceTestSuite) TestGetAccount_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetAccount(ctx, suite.ownerID, accountID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts() {
	ctx := context.Background()
	accounts := []domain.Account{
		{AccountID: uuid.NewString(), OwnerID: suite.ownerID, CurrencyCode: "USD"},
		{AccountID: uuid.NewString(), OwnerID: suite.ownerID, CurrencyCode: "EUR"},
	}

	suite.mockAccountRepo.On("FindAccountsByOwner", ctx, suite.ownerID).Return(accounts, nil).Once()

	found, err := suite.service.ListAccounts(ctx, suite.ownerID)

	suite.Require().NoError(err)
	suite.Len(found, 2)
}

func (suite *AccountServiceTestSuite) TestSetAccountStatus_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, OwnerID: suite.ownerID, Status: domain.StatusActive}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountStatus", ctx, accountID, domain.StatusInactive).Return(nil).Once()

	updated, err := suite.service.SetAccountStatus(ctx, suite.ownerID, accountID, domain.StatusInactive)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusInactive, updated.Status)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSetAccountStatus_NoChangeIsNoOp() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, OwnerID: suite.ownerID, Status: domain.StatusActive}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	updated, err := suite.service.SetAccountStatus(ctx, suite.ownerID, accountID, domain.StatusActive)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusActive, updated.Status)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestSetAccountStatus_UnknownStatus() {
	ctx := context.Background()

	_, err := suite.service.SetAccountStatus(ctx, suite.ownerID, uuid.NewString(), domain.AccountStatus("FROZEN"))

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
