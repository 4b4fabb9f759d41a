package repositories

import (
	"context"
	"time"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentFilter narrows a document listing. Nil fields match everything.
type DocumentFilter struct {
	Type       *domain.DocumentType
	Status     *domain.DocumentStatus
	CustomerID *string
	From       *time.Time
	To         *time.Time
}

// DocumentReader defines read operations for billing documents.
type DocumentReader interface {
	// FindDocumentByID retrieves a document with its line items.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.BillingDocument, error)

	// ListDocuments retrieves a page of documents (without line items),
	// newest first, using token-based pagination, along with the total count
	// of documents matching the filter.
	ListDocuments(ctx context.Context, filter DocumentFilter, limit int, nextToken *string) ([]domain.BillingDocument, int64, *string, error)

	// FindPaymentsByDocumentID retrieves the payments applied to a document.
	FindPaymentsByDocumentID(ctx context.Context, documentID string) ([]domain.Payment, error)

	// NextDocumentNumber reserves the next sequential number for a type.
	NextDocumentNumber(ctx context.Context, docType domain.DocumentType) (string, error)
}

// DocumentWriter defines write operations for billing documents. Every method
// runs as a single database transaction that also inserts the given audit
// entries; the mutation commits iff its audit record commits.
//
// Methods taking an expected status or paid amount perform an optimistic
// check against the stored row: zero rows matched means another request got
// there first and the call fails with apperrors.ErrConcurrencyConflict so the
// service can re-read and retry.
type DocumentWriter interface {
	// SaveDocument inserts a document and its line items. For receipts,
	// cashTxn is the income movement for the collected amount and is recorded
	// through the ledger balance chain in the same transaction.
	SaveDocument(ctx context.Context, doc domain.BillingDocument, cashTxn *domain.CashTransaction, audit domain.AuditEntry) error

	// UpdateDocumentStatus moves a document from expectedStatus to doc.Status,
	// persisting cancel reason and audit fields from doc.
	UpdateDocumentStatus(ctx context.Context, doc domain.BillingDocument, expectedStatus domain.DocumentStatus, audit domain.AuditEntry) error

	// ApplyPayment persists a payment: inserts the payment row, updates the
	// document's paid/remaining/status from doc (checked against expectedPaid
	// and expectedStatus), and appends the income cash transaction.
	ApplyPayment(ctx context.Context, doc domain.BillingDocument, expectedPaid decimal.Decimal, expectedStatus domain.DocumentStatus, payment domain.Payment, cashTxn domain.CashTransaction, audits []domain.AuditEntry) error

	// SaveConversion atomically inserts the new invoice (with its line items)
	// and moves the source document to its converted/linked state. Either both
	// happen or neither does.
	SaveConversion(ctx context.Context, source domain.BillingDocument, expectedStatus domain.DocumentStatus, invoice domain.BillingDocument, audits []domain.AuditEntry) error
}

// DocumentRepositoryFacade combines all document repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
