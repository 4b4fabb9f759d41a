package services

import (
	"context"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
)

// DocumentSvcFacade defines the billing document lifecycle operations.
type DocumentSvcFacade interface {
	// CreateDocument validates line items, computes totals and persists the
	// document. Receipts are created ACTIVE with the collected amount
	// recorded in the cash register.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, actor domain.Actor) (*domain.BillingDocument, error)

	GetDocument(ctx context.Context, documentID string) (*domain.BillingDocument, error)

	ListDocuments(ctx context.Context, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)

	ListPayments(ctx context.Context, documentID string) ([]domain.Payment, error)

	// IssueDocument moves a draft invoice or quote to SENT.
	IssueDocument(ctx context.Context, documentID string, actor domain.Actor) (*domain.BillingDocument, error)

	// ApplyPayment applies money against an invoice and records the matching
	// income cash transaction. Fails with apperrors.ErrOverpayment when the
	// amount exceeds the remaining balance.
	ApplyPayment(ctx context.Context, documentID string, req dto.ApplyPaymentRequest, actor domain.Actor) (*domain.Payment, *domain.BillingDocument, error)

	// CancelDocument cancels an invoice, quote or active receipt. Requires
	// the ACCOUNTANT role; fully paid invoices and converted receipts cannot
	// be cancelled.
	CancelDocument(ctx context.Context, documentID string, req dto.CancelDocumentRequest, actor domain.Actor) (*domain.BillingDocument, error)

	// ConvertQuoteToInvoice creates an invoice from a quote. Idempotent: a
	// quote already converted returns its linked invoice.
	ConvertQuoteToInvoice(ctx context.Context, quoteID string, actor domain.Actor) (*domain.BillingDocument, error)

	// ConvertReceiptToInvoice creates a paid invoice from an active receipt.
	// Idempotent: a converted receipt returns its linked invoice.
	ConvertReceiptToInvoice(ctx context.Context, receiptID string, actor domain.Actor) (*domain.BillingDocument, error)
}
