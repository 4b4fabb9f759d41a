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

// --- Mock DocumentRepository ---
type MockDocumentRepository struct {
	mock.Mock
}

// Ensure MockDocumentRepository implements portsrepo.DocumentRepositoryFacade
var _ portsrepo.DocumentRepositoryFacade = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.BillingDocument, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingDocument), args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.BillingDocument, int64, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, 0, nil, args.Error(3)
	}
	var returnedNextToken *string
	if args.Get(2) != nil {
		tokenVal := args.Get(2).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.BillingDocument), args.Get(1).(int64), returnedNextToken, args.Error(3)
}

func (m *MockDocumentRepository) FindPaymentsByDocumentID(ctx context.Context, documentID string) ([]domain.Payment, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockDocumentRepository) NextDocumentNumber(ctx context.Context, docType domain.DocumentType) (string, error) {
	args := m.Called(ctx, docType)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc domain.BillingDocument, cashTxn *domain.CashTransaction, audit domain.AuditEntry) error {
	args := m.Called(ctx, doc, cashTxn, audit)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateDocumentStatus(ctx context.Context, doc domain.BillingDocument, expectedStatus domain.DocumentStatus, audit domain.AuditEntry) error {
	args := m.Called(ctx, doc, expectedStatus, audit)
	return args.Error(0)
}

func (m *MockDocumentRepository) ApplyPayment(ctx context.Context, doc domain.BillingDocument, expectedPaid decimal.Decimal, expectedStatus domain.DocumentStatus, payment domain.Payment, cashTxn domain.CashTransaction, audits []domain.AuditEntry) error {
	args := m.Called(ctx, doc, expectedPaid, expectedStatus, payment, cashTxn, audits)
	return args.Error(0)
}

func (m *MockDocumentRepository) SaveConversion(ctx context.Context, source domain.BillingDocument, expectedStatus domain.DocumentStatus, invoice domain.BillingDocument, audits []domain.AuditEntry) error {
	args := m.Called(ctx, source, expectedStatus, invoice, audits)
	return args.Error(0)
}

// --- Test Suite Setup ---
type DocumentServiceTestSuite struct {
	suite.Suite
	mockDocRepo *MockDocumentRepository
	service     portssvc.DocumentSvcFacade
	agent       domain.Actor
	accountant  domain.Actor
	customerID  string
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.mockDocRepo = new(MockDocumentRepository)
	suite.service = services.NewDocumentService(suite.mockDocRepo)

	suite.agent = domain.Actor{EmployeeID: uuid.NewString(), Role: domain.RoleAgent}
	suite.accountant = domain.Actor{EmployeeID: uuid.NewString(), Role: domain.RoleAccountant}
	suite.customerID = uuid.NewString()
}

// newDocument builds a stored document with a single line item covering the
// full total, so payment math in the tests stays easy to follow.
func (suite *DocumentServiceTestSuite) newDocument(docType domain.DocumentType, total, paid int64, status domain.DocumentStatus) *domain.BillingDocument {
	totalDec := decimal.NewFromInt(total)
	paidDec := decimal.NewFromInt(paid)
	docID := uuid.NewString()
	now := time.Now().UTC()
	return &domain.BillingDocument{
		DocumentID:     docID,
		Type:           docType,
		DocumentNumber: "X-000001",
		CustomerID:     suite.customerID,
		Items: []domain.LineItem{{
			LineItemID: uuid.NewString(),
			DocumentID: docID,
			Product:    "Flight ticket",
			Quantity:   decimal.NewFromInt(1),
			UnitPrice:  totalDec,
			Total:      totalDec,
		}},
		Subtotal:        totalDec,
		TaxRate:         decimal.Zero,
		TaxAmount:       decimal.Zero,
		Discount:        decimal.Zero,
		Total:           totalDec,
		PaidAmount:      paidDec,
		RemainingAmount: totalDec.Sub(paidDec),
		Status:          status,
		IssueDate:       now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     suite.agent.EmployeeID,
			LastUpdatedAt: now,
			LastUpdatedBy: suite.agent.EmployeeID,
		},
	}
}

// --- CreateDocument ---

func (suite *DocumentServiceTestSuite) TestCreateDocument_Invoice_Success() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Type:       string(domain.Invoice),
		CustomerID: suite.customerID,
		Items: []dto.LineItemRequest{
			{Product: "Umrah package", Quantity: "2", UnitPrice: "100"},
		},
	}

	suite.mockDocRepo.On("NextDocumentNumber", ctx, domain.Invoice).Return("INV-000001", nil).Once()

	var savedDoc domain.BillingDocument
	suite.mockDocRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.BillingDocument"), (*domain.CashTransaction)(nil), mock.AnythingOfType("domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			savedDoc = args.Get(1).(domain.BillingDocument)
		}).
		Return(nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req, suite.agent)

	suite.Require().NoError(err)
	suite.Require().NotNil(doc)
	suite.Equal("INV-000001", doc.DocumentNumber)
	suite.Equal(domain.StatusDraft, doc.Status)
	suite.True(doc.Subtotal.Equal(decimal.NewFromInt(200)))
	suite.True(doc.Total.Equal(decimal.NewFromInt(200)))
	suite.True(doc.PaidAmount.IsZero())
	suite.True(doc.RemainingAmount.Equal(doc.Total))
	suite.Len(doc.Items, 1)
	suite.Equal(suite.agent.EmployeeID, doc.CreatedBy)

	suite.Equal(doc.DocumentID, savedDoc.DocumentID)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_TaxAndDiscount() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Type:       string(domain.Invoice),
		CustomerID: suite.customerID,
		Items: []dto.LineItemRequest{
			{Product: "Hotel booking", Quantity: "2", UnitPrice: "100"},
		},
		TaxRate:  "15",
		Discount: "30",
		IssueNow: true,
	}

	suite.mockDocRepo.On("NextDocumentNumber", ctx, domain.Invoice).Return("INV-000002", nil).Once()
	suite.mockDocRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.BillingDocument"), (*domain.CashTransaction)(nil), mock.AnythingOfType("domain.AuditEntry")).Return(nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req, suite.agent)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusSent, doc.Status)
	suite.True(doc.Subtotal.Equal(decimal.NewFromInt(200)))
	suite.True(doc.TaxAmount.Equal(decimal.NewFromInt(30)))
	suite.True(doc.Total.Equal(decimal.NewFromInt(200)), "total = 200 + 30 tax - 30 discount")
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_InvalidQuantity() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Type:       string(domain.Invoice),
		CustomerID: suite.customerID,
		Items: []dto.LineItemRequest{
			{Product: "Visa service", Quantity: "0", UnitPrice: "50"},
		},
	}

	_, err := suite.service.CreateDocument(ctx, req, suite.agent)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidLineItem)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_Receipt_RequiresPaymentMethod() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Type:       string(domain.Receipt),
		CustomerID: suite.customerID,
		Items: []dto.LineItemRequest{
			{Product: "Transfer service", Quantity: "1", UnitPrice: "75"},
		},
	}

	_, err := suite.service.CreateDocument(ctx, req, suite.agent)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "NextDocumentNumber", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_Receipt_RecordsCashTransaction() {
	ctx := context.Background()
	method := string(domain.MethodCash)
	req := dto.CreateDocumentRequest{
		Type:          string(domain.Receipt),
		CustomerID:    suite.customerID,
		PaymentMethod: &method,
		Items: []dto.LineItemRequest{
			{Product: "Tour booking", Quantity: "1", UnitPrice: "350"},
		},
	}

	suite.mockDocRepo.On("NextDocumentNumber", ctx, domain.Receipt).Return("REC-000001", nil).Once()

	var savedDoc domain.BillingDocument
	var savedTxn *domain.CashTransaction
	suite.mockDocRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.BillingDocument"), mock.AnythingOfType("*domain.CashTransaction"), mock.AnythingOfType("domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			savedDoc = args.Get(1).(domain.BillingDocument)
			savedTxn = args.Get(2).(*domain.CashTransaction)
		}).
		Return(nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req, suite.agent)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusActive, doc.Status)
	suite.True(doc.PaidAmount.Equal(doc.Total))
	suite.True(doc.RemainingAmount.IsZero())

	suite.Require().NotNil(savedTxn)
	suite.Equal(domain.Income, savedTxn.Type)
	suite.Equal(domain.MethodCash, savedTxn.PaymentMethod)
	suite.Equal(domain.CategoryReceipt, savedTxn.Category)
	suite.True(savedTxn.Amount.Equal(savedDoc.Total))
	suite.Require().NotNil(savedTxn.DocumentID)
	suite.Equal(doc.DocumentID, *savedTxn.DocumentID)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCreateDocument_RetriesOnConflict() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Type:       string(domain.Invoice),
		CustomerID: suite.customerID,
		Items: []dto.LineItemRequest{
			{Product: "Flight ticket", Quantity: "1", UnitPrice: "500"},
		},
	}

	suite.mockDocRepo.On("NextDocumentNumber", ctx, domain.Invoice).Return("INV-000003", nil).Once()
	suite.mockDocRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.BillingDocument"), (*domain.CashTransaction)(nil), mock.AnythingOfType("domain.AuditEntry")).
		Return(apperrors.ErrConcurrencyConflict).Once()
	suite.mockDocRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.BillingDocument"), (*domain.CashTransaction)(nil), mock.AnythingOfType("domain.AuditEntry")).
		Return(nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req, suite.agent)

	suite.Require().NoError(err)
	suite.Require().NotNil(doc)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

// --- IssueDocument ---

func (suite *DocumentServiceTestSuite) TestIssueDocument_Success() {
	ctx := context.Background()
	draft := suite.newDocument(domain.Invoice, 200, 0, domain.StatusDraft)

	suite.mockDocRepo.On("FindDocumentByID", ctx, draft.DocumentID).Return(draft, nil).Once()

	var updated domain.BillingDocument
	suite.mockDocRepo.On("UpdateDocumentStatus", ctx, mock.AnythingOfType("domain.BillingDocument"), domain.StatusDraft, mock.AnythingOfType("domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.BillingDocument)
		}).
		Return(nil).Once()

	issued, err := suite.service.IssueDocument(ctx, draft.DocumentID, suite.agent)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusSent, issued.Status)
	suite.Equal(domain.StatusSent, updated.Status)
	suite.Equal(suite.agent.EmployeeID, updated.LastUpdatedBy)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestIssueDocument_NotDraft() {
	ctx := context.Background()
	sent := suite.newDocument(domain.Invoice, 200, 0, domain.StatusSent)

	suite.mockDocRepo.On("FindDocumentByID", ctx, sent.DocumentID).Return(sent, nil).Once()

	_, err := suite.service.IssueDocument(ctx, sent.DocumentID, suite.agent)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "UpdateDocumentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestIssueDocument_Receipt() {
	ctx := context.Background()
	receipt := suite.newDocument(domain.Receipt, 300, 300, domain.StatusActive)

	suite.mockDocRepo.On("FindDocumentByID", ctx, receipt.DocumentID).Return(receipt, nil).Once()

	_, err := suite.service.IssueDocument(ctx, receipt.DocumentID, suite.agent)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

// --- ApplyPayment ---

func (suite *DocumentServiceTestSuite) TestApplyPayment_Partial() {
	ctx := context.Background()
	invoice := suite.newDocument(domain.Invoice, 200, 0, domain.StatusSent)
	req := dto.ApplyPaymentRequest{Amount: "120", Method: string(domain.MethodCash)}

	suite.mockDocRepo.On("FindDocumentByID", ctx, invoice.DocumentID).Return(invoice, nil).Once()

	var updated domain.BillingDocument
	var cashTxn domain.CashTransaction
	suite.mockDocRepo.On("ApplyPayment", ctx, mock.AnythingOfType("domain.BillingDocument"), mock.AnythingOfType("decimal.Decimal"), domain.StatusSent, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.CashTransaction"), mock.AnythingOfType("[]domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.BillingDocument)
			cashTxn = args.Get(5).(domain.CashTransaction)
		}).
		Return(nil).Once()

	payment, doc, err := suite.service.ApplyPayment(ctx, invoice.DocumentID, req, suite.agent)

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.True(payment.Amount.Equal(decimal.NewFromInt(120)))
	suite.Equal(domain.MethodCash, payment.Method)
	suite.Equal(domain.StatusPartial, doc.Status)
	suite.True(doc.PaidAmount.Equal(decimal.NewFromInt(120)))
	suite.True(doc.RemainingAmount.Equal(decimal.NewFromInt(80)))

	suite.Equal(domain.StatusPartial, updated.Status)
	suite.Equal(domain.Income, cashTxn.Type)
	suite.Equal(domain.CategoryInvoicePayment, cashTxn.Category)
	suite.True(cashTxn.Amount.Equal(decimal.NewFromInt(120)))
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestApplyPayment_CompletesToPaid() {
	ctx := context.Background()
	invoice := suite.newDocument(domain.Invoice, 200, 120, domain.StatusPartial)
	req := dto.ApplyPaymentRequest{Amount: "80", Method: string(domain.MethodCard)}

	suite.mockDocRepo.On("FindDocumentByID", ctx, invoice.DocumentID).Return(invoice, nil).Once()
	suite.mockDocRepo.On("ApplyPayment", ctx, mock.AnythingOfType("domain.BillingDocument"), mock.AnythingOfType("decimal.Decimal"), domain.StatusPartial, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.CashTransaction"), mock.AnythingOfType("[]domain.AuditEntry")).
		Return(nil).Once()

	_, doc, err := suite.service.ApplyPayment(ctx, invoice.DocumentID, req, suite.agent)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, doc.Status)
	suite.True(doc.PaidAmount.Equal(doc.Total))
	suite.True(doc.RemainingAmount.IsZero())
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestApplyPayment_Overpayment() {
	ctx := context.Background()
	invoice := suite.newDocument(domain.Invoice, 200, 120, domain.StatusPartial)
	req := dto.ApplyPaymentRequest{Amount: "100", Method: string(domain.MethodCash)}

	suite.mockDocRepo.On("FindDocumentByID", ctx, invoice.DocumentID).Return(invoice, nil).Once()

	_, _, err := suite.service.ApplyPayment(ctx, invoice.DocumentID, req, suite.agent)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverpayment)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "ApplyPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestApplyPayment_Quote() {
	ctx := context.Background()
	quote := suite.newDocument(domain.Quote, 200, 0, domain.StatusSent)
	req := dto.ApplyPaymentRequest{Amount: "50", Method: string(domain.MethodCash)}

	suite.mockDocRepo.On("FindDocumentByID", ctx, quote.DocumentID).Return(quote, nil).Once()

	_, _, err := suite.service.ApplyPayment(ctx, quote.DocumentID, req, suite.agent)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *DocumentServiceTestSuite) TestApplyPayment_AlreadyPaid() {
	ctx := context.Background()
	invoice := suite.newDocument(domain.Invoice, 200, 200, domain.StatusPaid)
	req := dto.ApplyPaymentRequest{Amount: "10", Method: string(domain.MethodCash)}

	suite.mockDocRepo.On("FindDocumentByID", ctx, invoice.DocumentID).Return(invoice, nil).Once()

	_, _, err := suite.service.ApplyPayment(ctx, invoice.DocumentID, req, suite.agent)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

// --- CancelDocument ---

func (suite *DocumentServiceTestSuite) TestCancelDocument_RequiresAccountant() {
	ctx := context.Background()
	req := dto.CancelDocumentRequest{Reason: "customer backed out"}

	_, err := suite.service.CancelDocument(ctx, uuid.NewString(), req, suite.agent)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "FindDocumentByID", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCancelDocument_Success() {
	ctx := context.Background()
	invoice := suite.newDocument(domain.Invoice, 200, 0, domain.StatusSent)
	req := dto.CancelDocumentRequest{Reason: "duplicate entry"}

	suite.mockDocRepo.On("FindDocumentByID", ctx, invoice.DocumentID).Return(invoice, nil).Once()

	var updated domain.BillingDocument
	suite.mockDocRepo.On("UpdateDocumentStatus", ctx, mock.AnythingOfType("domain.BillingDocument"), domain.StatusSent, mock.AnythingOfType("domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.BillingDocument)
		}).
		Return(nil).Once()

	cancelled, err := suite.service.CancelDocument(ctx, invoice.DocumentID, req, suite.accountant)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, cancelled.Status)
	suite.Require().NotNil(cancelled.CancelReason)
	suite.Equal("duplicate entry", *cancelled.CancelReason)
	suite.Equal(domain.StatusCancelled, updated.Status)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestCancelDocument_PaidInvoice() {
	ctx := context.Background()
	invoice := suite.newDocument(domain.Invoice, 200, 200, domain.StatusPaid)
	req := dto.CancelDocumentRequest{Reason: "late regret"}

	suite.mockDocRepo.On("FindDocumentByID", ctx, invoice.DocumentID).Return(invoice, nil).Once()

	_, err := suite.service.CancelDocument(ctx, invoice.DocumentID, req, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "UpdateDocumentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Cancelling an active receipt keeps its collected amount and writes no
// offsetting ledger entry; the register history stays append-only.
func (suite *DocumentServiceTestSuite) TestCancelDocument_ActiveReceipt() {
	ctx := context.Background()
	receipt := suite.newDocument(domain.Receipt, 300, 300, domain.StatusActive)
	req := dto.CancelDocumentRequest{Reason: "voided at the counter"}

	suite.mockDocRepo.On("FindDocumentByID", ctx, receipt.DocumentID).Return(receipt, nil).Once()

	var updated domain.BillingDocument
	suite.mockDocRepo.On("UpdateDocumentStatus", ctx, mock.AnythingOfType("domain.BillingDocument"), domain.StatusActive, mock.AnythingOfType("domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.BillingDocument)
		}).
		Return(nil).Once()

	cancelled, err := suite.service.CancelDocument(ctx, receipt.DocumentID, req, suite.accountant)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, cancelled.Status)
	suite.True(updated.PaidAmount.Equal(receipt.Total))
	suite.Len(updated.Items, len(receipt.Items))
	suite.mockDocRepo.AssertExpectations(suite.T())
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestCancelDocument_ConvertedReceipt() {
	ctx := context.Background()
	receipt := suite.newDocument(domain.Receipt, 300, 300, domain.StatusConverted)
	req := dto.CancelDocumentRequest{Reason: "mistake"}

	suite.mockDocRepo.On("FindDocumentByID", ctx, receipt.DocumentID).Return(receipt, nil).Once()

	_, err := suite.service.CancelDocument(ctx, receipt.DocumentID, req, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

// --- Conversions ---

func (suite *DocumentServiceTestSuite) TestConvertQuoteToInvoice_Success() {
	ctx := context.Background()
	quote := suite.newDocument(domain.Quote, 500, 0, domain.StatusSent)

	suite.mockDocRepo.On("FindDocumentByID", ctx, quote.DocumentID).Return(quote, nil).Once()
	suite.mockDocRepo.On("NextDocumentNumber", ctx, domain.Invoice).Return("INV-000042", nil).Once()

	var source, invoice domain.BillingDocument
	suite.mockDocRepo.On("SaveConversion", ctx, mock.AnythingOfType("domain.BillingDocument"), domain.StatusSent, mock.AnythingOfType("domain.BillingDocument"), mock.AnythingOfType("[]domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			source = args.Get(1).(domain.BillingDocument)
			invoice = args.Get(3).(domain.BillingDocument)
		}).
		Return(nil).Once()

	result, err := suite.service.ConvertQuoteToInvoice(ctx, quote.DocumentID, suite.accountant)

	suite.Require().NoError(err)
	suite.Equal(domain.Invoice, result.Type)
	suite.Equal("INV-000042", result.DocumentNumber)
	suite.Equal(domain.StatusSent, result.Status)
	suite.True(result.Total.Equal(quote.Total))
	suite.True(result.RemainingAmount.Equal(quote.Total))
	suite.Require().NotNil(result.ConvertedFromID)
	suite.Equal(quote.DocumentID, *result.ConvertedFromID)

	suite.Equal(domain.StatusConverted, source.Status)
	suite.Require().NotNil(source.ConvertedToID)
	suite.Equal(invoice.DocumentID, *source.ConvertedToID)
	suite.Len(invoice.Items, len(quote.Items))
	suite.Equal(invoice.DocumentID, invoice.Items[0].DocumentID)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestConvertQuoteToInvoice_Idempotent() {
	ctx := context.Background()
	existingInvoice := suite.newDocument(domain.Invoice, 500, 0, domain.StatusSent)
	quote := suite.newDocument(domain.Quote, 500, 0, domain.StatusConverted)
	quote.ConvertedToID = &existingInvoice.DocumentID

	suite.mockDocRepo.On("FindDocumentByID", ctx, quote.DocumentID).Return(quote, nil).Once()
	suite.mockDocRepo.On("FindDocumentByID", ctx, existingInvoice.DocumentID).Return(existingInvoice, nil).Once()

	result, err := suite.service.ConvertQuoteToInvoice(ctx, quote.DocumentID, suite.accountant)

	suite.Require().NoError(err)
	suite.Equal(existingInvoice.DocumentID, result.DocumentID)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "NextDocumentNumber", mock.Anything, mock.Anything)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SaveConversion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestConvertQuoteToInvoice_RequiresAccountant() {
	ctx := context.Background()

	_, err := suite.service.ConvertQuoteToInvoice(ctx, uuid.NewString(), suite.agent)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "FindDocumentByID", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestConvertQuoteToInvoice_CancelledQuote() {
	ctx := context.Background()
	quote := suite.newDocument(domain.Quote, 500, 0, domain.StatusCancelled)

	suite.mockDocRepo.On("FindDocumentByID", ctx, quote.DocumentID).Return(quote, nil).Once()

	_, err := suite.service.ConvertQuoteToInvoice(ctx, quote.DocumentID, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SaveConversion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestConvertQuoteToInvoice_ExpiredQuote() {
	ctx := context.Background()
	quote := suite.newDocument(domain.Quote, 500, 0, domain.StatusSent)
	pastDeadline := time.Now().UTC().Add(-24 * time.Hour)
	quote.ValidUntil = &pastDeadline

	suite.mockDocRepo.On("FindDocumentByID", ctx, quote.DocumentID).Return(quote, nil).Once()

	// The elapsed validity window is persisted before the conversion is refused.
	var expired domain.BillingDocument
	suite.mockDocRepo.On("UpdateDocumentStatus", ctx, mock.AnythingOfType("domain.BillingDocument"), domain.StatusSent, mock.AnythingOfType("domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			expired = args.Get(1).(domain.BillingDocument)
		}).
		Return(nil).Once()

	_, err := suite.service.ConvertQuoteToInvoice(ctx, quote.DocumentID, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.Equal(domain.StatusExpired, expired.Status)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SaveConversion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestConvertReceiptToInvoice_BornPaid() {
	ctx := context.Background()
	receipt := suite.newDocument(domain.Receipt, 350, 350, domain.StatusActive)

	suite.mockDocRepo.On("FindDocumentByID", ctx, receipt.DocumentID).Return(receipt, nil).Once()
	suite.mockDocRepo.On("NextDocumentNumber", ctx, domain.Invoice).Return("INV-000043", nil).Once()

	var invoice domain.BillingDocument
	suite.mockDocRepo.On("SaveConversion", ctx, mock.AnythingOfType("domain.BillingDocument"), domain.StatusActive, mock.AnythingOfType("domain.BillingDocument"), mock.AnythingOfType("[]domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			invoice = args.Get(3).(domain.BillingDocument)
		}).
		Return(nil).Once()

	result, err := suite.service.ConvertReceiptToInvoice(ctx, receipt.DocumentID, suite.accountant)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, result.Status)
	suite.True(result.PaidAmount.Equal(receipt.Total))
	suite.True(result.RemainingAmount.IsZero())
	suite.Equal(domain.StatusPaid, invoice.Status)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestConvertReceiptToInvoice_WrongType() {
	ctx := context.Background()
	invoice := suite.newDocument(domain.Invoice, 200, 0, domain.StatusSent)

	suite.mockDocRepo.On("FindDocumentByID", ctx, invoice.DocumentID).Return(invoice, nil).Once()

	_, err := suite.service.ConvertReceiptToInvoice(ctx, invoice.DocumentID, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Reads ---

func (suite *DocumentServiceTestSuite) TestListPayments_DocumentNotFound() {
	ctx := context.Background()
	documentID := uuid.NewString()

	suite.mockDocRepo.On("FindDocumentByID", ctx, documentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListPayments(ctx, documentID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "FindPaymentsByDocumentID", mock.Anything, mock.Anything)
}

func (suite *DocumentServiceTestSuite) TestListDocuments_MapsFilter() {
	ctx := context.Background()
	docType := string(domain.Invoice)
	status := string(domain.StatusSent)
	params := dto.ListDocumentsParams{Type: &docType, Status: &status, Limit: 10}

	stored := suite.newDocument(domain.Invoice, 200, 0, domain.StatusSent)

	var filter portsrepo.DocumentFilter
	suite.mockDocRepo.On("ListDocuments", ctx, mock.AnythingOfType("repositories.DocumentFilter"), 10, (*string)(nil)).
		Run(func(args mock.Arguments) {
			filter = args.Get(1).(portsrepo.DocumentFilter)
		}).
		Return([]domain.BillingDocument{*stored}, int64(12), "next-page", nil).Once()

	resp, err := suite.service.ListDocuments(ctx, params)

	suite.Require().NoError(err)
	suite.Len(resp.Items, 1)
	suite.Equal(int64(12), resp.Total)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next-page", *resp.NextToken)
	suite.Require().NotNil(filter.Type)
	suite.Equal(domain.Invoice, *filter.Type)
	suite.Require().NotNil(filter.Status)
	suite.Equal(domain.StatusSent, *filter.Status)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
