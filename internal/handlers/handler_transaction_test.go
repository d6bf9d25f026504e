package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pkondray/bankledger/internal/apperrors"
	"github.com/pkondray/bankledger/internal/core/domain"
	portssvc "github.com/pkondray/bankledger/internal/core/ports/services"
	"github.com/pkondray/bankledger/internal/core/services"
	"github.com/pkondray/bankledger/internal/dto"
	"github.com/pkondray/bankledger/internal/handlers"
	"github.com/pkondray/bankledger/internal/platform/config"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccount(ctx context.Context, ownerID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) SetAccountStatus(ctx context.Context, ownerID string, accountID string, status domain.AccountStatus) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, accountID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Deposit(ctx context.Context, ownerID string, req dto.DepositRequest) (*dto.TransactionResult, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionResult), args.Error(1)
}
func (m *MockTransactionService) Withdraw(ctx context.Context, ownerID string, req dto.WithdrawRequest) (*dto.TransactionResult, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionResult), args.Error(1)
}
func (m *MockTransactionService) Transfer(ctx context.Context, ownerID string, req dto.TransferRequest) (*dto.TransferResult, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransferResult), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecentEntries(ctx context.Context, ownerID string, accountID string, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, ownerID, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router                 *gin.Engine
	mockAccountService     *MockAccountService
	mockTransactionService *MockTransactionService
	mockLedgerService      *MockLedgerService
	jwtSecret              string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *TransactionHandlerTestSuite) generateTestToken(ownerID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "bankledger-test",
		Subject:   ownerID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockAccountService = new(MockAccountService)
	suite.mockTransactionService = new(MockTransactionService)
	suite.mockLedgerService = new(MockLedgerService)

	handlers.RegisterRoutes(suite.router, &config.Config{JWTSecret: suite.jwtSecret}, &services.Container{
		Account:     suite.mockAccountService,
		Transaction: suite.mockTransactionService,
		Ledger:      suite.mockLedgerService,
	})
}

func (suite *TransactionHandlerTestSuite) doJSON(method, url, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestDeposit_Success() {
	ownerID := uuid.NewString()
	accountID := uuid.NewString()
	expected := &dto.TransactionResult{
		AccountID:     accountID,
		Amount:        decimal.NewFromInt(100),
		NewBalance:    decimal.NewFromInt(100),
		CorrelationID: uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
	}

	suite.mockTransactionService.On("Deposit",
		mock.Anything,
		ownerID,
		mock.MatchedBy(func(req dto.DepositRequest) bool {
			// The account ID must come from the URL, not the body.
			return req.AccountID == accountID && req.IdempotencyKey == "k1" && req.Amount.Equal(decimal.NewFromInt(100))
		}),
	).Return(expected, nil).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/accounts/%s/deposit", accountID), suite.generateTestToken(ownerID), gin.H{
		"amount":         100,
		"idempotencyKey": "k1",
	})

	suite.Equal(http.StatusOK, w.Code)
	var result dto.TransactionResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	suite.Equal(expected.CorrelationID, result.CorrelationID)
	suite.True(result.NewBalance.Equal(expected.NewBalance))
	suite.mockTransactionService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestDeposit_Unauthorized() {
	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/accounts/%s/deposit", uuid.NewString()), "", gin.H{
		"amount":         100,
		"idempotencyKey": "k1",
	})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "Deposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestDeposit_MissingIdempotencyKey() {
	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/accounts/%s/deposit", uuid.NewString()), suite.generateTestToken(uuid.NewString()), gin.H{
		"amount": 100,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransactionService.AssertNotCalled(suite.T(), "Deposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestWithdraw_InsufficientFundsMapsTo422() {
	ownerID := uuid.NewString()
	accountID := uuid.NewString()

	suite.mockTransactionService.On("Withdraw", mock.Anything, ownerID, mock.AnythingOfType("dto.WithdrawRequest")).
		Return(nil, fmt.Errorf("%w: balance too low", apperrors.ErrInsufficientFunds)).Once()

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/accounts/%s/withdraw", accountID), suite.generateTestToken(ownerID), gin.H{
		"amount":         500,
		"idempotencyKey": "w1",
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestTransfer_DuplicateMapsTo409() {
	ownerID := uuid.NewString()

	suite.mockTransactionService.On("Transfer", mock.Anything, ownerID, mock.AnythingOfType("dto.TransferRequest")).
		Return(nil, fmt.Errorf("%w: idempotency key already used", apperrors.ErrDuplicateRequest)).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/transfers", suite.generateTestToken(ownerID), gin.H{
		"sourceAccountID":      uuid.NewString(),
		"destinationAccountID": uuid.NewString(),
		"amount":               50,
		"idempotencyKey":       "t1",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestTransfer_ConflictResponseIsSanitized() {
	ownerID := uuid.NewString()

	suite.mockTransactionService.On("Transfer", mock.Anything, ownerID, mock.AnythingOfType("dto.TransferRequest")).
		Return(nil, fmt.Errorf("%w: account was modified concurrently", apperrors.ErrConflict)).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/transfers", suite.generateTestToken(ownerID), gin.H{
		"sourceAccountID":      uuid.NewString(),
		"destinationAccountID": uuid.NewString(),
		"amount":               50,
		"idempotencyKey":       "t1",
	})

	suite.Equal(http.StatusConflict, w.Code)
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	// Internal conflict detail never leaks to the caller.
	suite.NotContains(body["error"], "modified concurrently")
}

func (suite *TransactionHandlerTestSuite) TestTransfer_ForbiddenMapsTo403() {
	ownerID := uuid.NewString()

	suite.mockTransactionService.On("Transfer", mock.Anything, ownerID, mock.AnythingOfType("dto.TransferRequest")).
		Return(nil, fmt.Errorf("%w: account does not belong to caller", apperrors.ErrForbidden)).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/transfers", suite.generateTestToken(ownerID), gin.H{
		"sourceAccountID":      uuid.NewString(),
		"destinationAccountID": uuid.NewString(),
		"amount":               50,
		"idempotencyKey":       "t1",
	})

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestRecentEntries_Success() {
	ownerID := uuid.NewString()
	accountID := uuid.NewString()
	entries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), AccountID: accountID, Amount: decimal.NewFromInt(100), EntryType: domain.EntryDeposit, CorrelationID: uuid.NewString(), CreatedAt: time.Now().UTC()},
	}

	suite.mockLedgerService.On("RecentEntries", mock.Anything, ownerID, accountID, 5).Return(entries, nil).Once()

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/transactions?limit=5", accountID), suite.generateTestToken(ownerID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Entries, 1)
	suite.Equal(entries[0].EntryID, resp.Entries[0].EntryID)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateAccount_Success() {
	ownerID := uuid.NewString()
	account := &domain.Account{
		AccountID:    uuid.NewString(),
		OwnerID:      ownerID,
		CurrencyCode: "USD",
		Balance:      decimal.Zero,
		Status:       domain.StatusActive,
		CreatedAt:    time.Now().UTC(),
		Version:      1,
	}

	suite.mockAccountService.On("CreateAccount", mock.Anything, ownerID, dto.CreateAccountRequest{CurrencyCode: "USD"}).Return(account, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/accounts", suite.generateTestToken(ownerID), gin.H{"currencyCode": "USD"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(account.AccountID, resp.AccountID)
	suite.Equal("USD", resp.CurrencyCode)
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
