package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/safarsoft/travel_agency_backoffice/internal/apperrors"
	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	portsrepo "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/repositories"
	portssvc "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/services"
	"github.com/safarsoft/travel_agency_backoffice/internal/core/services"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

// Ensure MockLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) SaveTransaction(ctx context.Context, txn domain.CashTransaction, audit domain.AuditEntry) (*domain.CashTransaction, error) {
	args := m.Called(ctx, txn, audit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashTransaction), args.Error(1)
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.CashTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashTransaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactions(ctx context.Context, filter portsrepo.LedgerFilter, limit int, nextToken *string) ([]domain.CashTransaction, int64, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, 0, nil, args.Error(3)
	}
	var returnedNextToken *string
	if args.Get(2) != nil {
		tokenVal := args.Get(2).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.CashTransaction), args.Get(1).(int64), returnedNextToken, args.Error(3)
}

func (m *MockLedgerRepository) GetBalances(ctx context.Context) (map[domain.PaymentMethod]decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).(map[domain.PaymentMethod]decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockLedgerRepository) Summarize(ctx context.Context, from, to time.Time) (*domain.LedgerSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSummary), args.Error(1)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	service        portssvc.LedgerSvcFacade
	agent          domain.Actor
	accountant     domain.Actor
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo)

	suite.agent = domain.Actor{EmployeeID: uuid.NewString(), Role: domain.RoleAgent}
	suite.accountant = domain.Actor{EmployeeID: uuid.NewString(), Role: domain.RoleAccountant}
}

// --- RecordTransaction ---

func (suite *LedgerServiceTestSuite) TestRecordTransaction_Success() {
	ctx := context.Background()
	req := dto.CreateCashTransactionRequest{
		Type:          string(domain.Income),
		Amount:        "150.00",
		PaymentMethod: string(domain.MethodCash),
		Category:      "ticket_sale",
		Description:   "walk-in customer",
	}

	saved := &domain.CashTransaction{
		TransactionID: uuid.NewString(),
		Type:          domain.Income,
		Amount:        decimal.NewFromInt(150),
		PaymentMethod: domain.MethodCash,
		EmployeeID:    suite.agent.EmployeeID,
		BalanceAfter:  decimal.NewFromInt(150),
		TotalAfter:    decimal.NewFromInt(150),
	}

	var savedTxn domain.CashTransaction
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.CashTransaction"), mock.AnythingOfType("domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(1).(domain.CashTransaction)
		}).
		Return(saved, nil).Once()

	result, err := suite.service.RecordTransaction(ctx, req, suite.agent)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(saved.TransactionID, result.TransactionID)
	suite.True(result.BalanceAfter.Equal(decimal.NewFromInt(150)))

	suite.NotEmpty(savedTxn.TransactionID)
	suite.Equal(domain.Income, savedTxn.Type)
	suite.True(savedTxn.Amount.Equal(decimal.NewFromInt(150)))
	suite.Equal(domain.MethodCash, savedTxn.PaymentMethod)
	suite.Equal(suite.agent.EmployeeID, savedTxn.EmployeeID)
	suite.Equal("ticket_sale", savedTxn.Category)
	suite.Equal(suite.agent.EmployeeID, savedTxn.CreatedBy)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_RoundsAmount() {
	ctx := context.Background()
	req := dto.CreateCashTransactionRequest{
		Type:          string(domain.Income),
		Amount:        "10.555",
		PaymentMethod: string(domain.MethodCard),
		Category:      "visa_fee",
	}

	var savedTxn domain.CashTransaction
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.CashTransaction"), mock.AnythingOfType("domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			savedTxn = args.Get(1).(domain.CashTransaction)
		}).
		Return(&domain.CashTransaction{TransactionID: uuid.NewString()}, nil).Once()

	_, err := suite.service.RecordTransaction(ctx, req, suite.agent)

	suite.Require().NoError(err)
	suite.True(savedTxn.Amount.Equal(decimal.RequireFromString("10.56")), "half-up to currency precision, got %s", savedTxn.Amount)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_ExpenseRequiresAccountant() {
	ctx := context.Background()
	req := dto.CreateCashTransactionRequest{
		Type:          string(domain.Expense),
		Amount:        "40",
		PaymentMethod: string(domain.MethodCash),
		Category:      "office_supplies",
	}

	_, err := suite.service.RecordTransaction(ctx, req, suite.agent)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_ExpenseAsAccountant() {
	ctx := context.Background()
	req := dto.CreateCashTransactionRequest{
		Type:          string(domain.Expense),
		Amount:        "40",
		PaymentMethod: string(domain.MethodCash),
		Category:      "office_supplies",
	}

	saved := &domain.CashTransaction{TransactionID: uuid.NewString(), Type: domain.Expense}
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.CashTransaction"), mock.AnythingOfType("domain.AuditEntry")).
		Return(saved, nil).Once()

	result, err := suite.service.RecordTransaction(ctx, req, suite.accountant)

	suite.Require().NoError(err)
	suite.Equal(domain.Expense, result.Type)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_InvalidAmounts() {
	ctx := context.Background()
	for _, amount := range []string{"abc", "-5", "0"} {
		req := dto.CreateCashTransactionRequest{
			Type:          string(domain.Income),
			Amount:        amount,
			PaymentMethod: string(domain.MethodCash),
			Category:      "ticket_sale",
		}

		_, err := suite.service.RecordTransaction(ctx, req, suite.agent)

		suite.Require().Error(err, "amount %q", amount)
		suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	}
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_UnknownType() {
	ctx := context.Background()
	req := dto.CreateCashTransactionRequest{
		Type:          "TRANSFER_OUT",
		Amount:        "10",
		PaymentMethod: string(domain.MethodCash),
		Category:      "misc",
	}

	_, err := suite.service.RecordTransaction(ctx, req, suite.agent)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestRecordTransaction_RetriesOnConflict() {
	ctx := context.Background()
	req := dto.CreateCashTransactionRequest{
		Type:          string(domain.Income),
		Amount:        "25",
		PaymentMethod: string(domain.MethodTransfer),
		Category:      "deposit",
	}

	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.CashTransaction"), mock.AnythingOfType("domain.AuditEntry")).
		Return(nil, apperrors.ErrConcurrencyConflict).Once()
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.CashTransaction"), mock.AnythingOfType("domain.AuditEntry")).
		Return(&domain.CashTransaction{TransactionID: uuid.NewString()}, nil).Once()

	result, err := suite.service.RecordTransaction(ctx, req, suite.agent)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

// --- GetBalances ---

func (suite *LedgerServiceTestSuite) TestGetBalances() {
	ctx := context.Background()
	stored := map[domain.PaymentMethod]decimal.Decimal{
		domain.MethodCash:     decimal.RequireFromString("100.50"),
		domain.MethodCard:     decimal.NewFromInt(25),
		domain.MethodTransfer: decimal.Zero,
	}

	suite.mockLedgerRepo.On("GetBalances", ctx).Return(stored, decimal.RequireFromString("125.50"), nil).Once()

	resp, err := suite.service.GetBalances(ctx)

	suite.Require().NoError(err)
	suite.True(resp.Cash.Equal(decimal.RequireFromString("100.50")))
	suite.True(resp.Card.Equal(decimal.NewFromInt(25)))
	suite.True(resp.Transfer.IsZero())
	suite.True(resp.Total.Equal(decimal.RequireFromString("125.50")))
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

// The reported total is the grand total balance row, not a re-sum of the
// method rows.
func (suite *LedgerServiceTestSuite) TestGetBalances_TotalFromRegisterRow() {
	ctx := context.Background()
	stored := map[domain.PaymentMethod]decimal.Decimal{
		domain.MethodCash: decimal.NewFromInt(80),
	}

	suite.mockLedgerRepo.On("GetBalances", ctx).Return(stored, decimal.RequireFromString("95.25"), nil).Once()

	resp, err := suite.service.GetBalances(ctx)

	suite.Require().NoError(err)
	suite.True(resp.Cash.Equal(decimal.NewFromInt(80)))
	suite.True(resp.Card.IsZero())
	suite.True(resp.Total.Equal(decimal.RequireFromString("95.25")))
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

// --- ListTransactions ---

func (suite *LedgerServiceTestSuite) TestListTransactions_MapsFilter() {
	ctx := context.Background()
	txnType := string(domain.Income)
	method := string(domain.MethodCash)
	params := dto.ListCashTransactionsParams{Type: &txnType, Method: &method, Limit: 20}

	stored := domain.CashTransaction{
		TransactionID:   uuid.NewString(),
		Type:            domain.Income,
		Amount:          decimal.NewFromInt(50),
		PaymentMethod:   domain.MethodCash,
		Category:        "ticket_sale",
		EmployeeID:      suite.agent.EmployeeID,
		TransactionDate: time.Now().UTC(),
		BalanceAfter:    decimal.NewFromInt(50),
		TotalAfter:      decimal.NewFromInt(50),
	}

	var filter portsrepo.LedgerFilter
	suite.mockLedgerRepo.On("ListTransactions", ctx, mock.AnythingOfType("repositories.LedgerFilter"), 20, (*string)(nil)).
		Run(func(args mock.Arguments) {
			filter = args.Get(1).(portsrepo.LedgerFilter)
		}).
		Return([]domain.CashTransaction{stored}, int64(37), "page-2", nil).Once()

	resp, err := suite.service.ListTransactions(ctx, params)

	suite.Require().NoError(err)
	suite.Len(resp.Items, 1)
	suite.Equal(stored.TransactionID, resp.Items[0].TransactionID)
	suite.Equal(int64(37), resp.Total)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("page-2", *resp.NextToken)
	suite.Require().NotNil(filter.Type)
	suite.Equal(domain.Income, *filter.Type)
	suite.Require().NotNil(filter.Method)
	suite.Equal(domain.MethodCash, *filter.Method)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

// --- Summarize ---

func (suite *LedgerServiceTestSuite) TestSummarize_RejectsInvertedRange() {
	ctx := context.Background()
	now := time.Now().UTC()
	params := dto.SummarizeParams{From: now, To: now.Add(-24 * time.Hour)}

	_, err := suite.service.Summarize(ctx, params)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "Summarize", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestSummarize_Success() {
	ctx := context.Background()
	now := time.Now().UTC()
	params := dto.SummarizeParams{From: now.Add(-7 * 24 * time.Hour), To: now}

	summary := &domain.LedgerSummary{
		Income:  decimal.NewFromInt(1000),
		Expense: decimal.NewFromInt(250),
		Net:     decimal.NewFromInt(750),
		CountByMethod: map[domain.PaymentMethod]int64{
			domain.MethodCash: 4,
			domain.MethodCard: 2,
		},
		CountByEmployee: map[string]int64{suite.agent.EmployeeID: 6},
	}

	suite.mockLedgerRepo.On("Summarize", ctx, params.From, params.To).Return(summary, nil).Once()

	resp, err := suite.service.Summarize(ctx, params)

	suite.Require().NoError(err)
	suite.True(resp.Net.Equal(decimal.NewFromInt(750)))
	suite.Equal(int64(4), resp.CountByMethod[string(domain.MethodCash)])
	suite.Equal(int64(6), resp.CountByEmployee[suite.agent.EmployeeID])
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
