package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType is the billing document variant.
type DocumentType string

const (
	Invoice DocumentType = "INVOICE"
	Quote   DocumentType = "QUOTE"
	Receipt DocumentType = "RECEIPT"
)

// IsValidDocumentType reports whether t is a known document type.
func IsValidDocumentType(t DocumentType) bool {
	switch t {
	case Invoice, Quote, Receipt:
		return true
	}
	return false
}

// DocumentStatus is the lifecycle state of a billing document.
//
// Invoices/quotes: DRAFT -> SENT -> PARTIAL -> PAID, CANCELLED from any
// non-terminal state, EXPIRED from DRAFT/SENT (quotes only, once validUntil
// elapses). Receipts: ACTIVE -> CONVERTED or CANCELLED.
// PAID, CANCELLED, EXPIRED and CONVERTED are terminal.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusSent      DocumentStatus = "SENT"
	StatusPartial   DocumentStatus = "PARTIAL"
	StatusPaid      DocumentStatus = "PAID"
	StatusCancelled DocumentStatus = "CANCELLED"
	StatusExpired   DocumentStatus = "EXPIRED"
	StatusActive    DocumentStatus = "ACTIVE"
	StatusConverted DocumentStatus = "CONVERTED"
)

// IsTerminal reports whether no further transition may leave s.
func (s DocumentStatus) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusCancelled, StatusExpired, StatusConverted:
		return true
	}
	return false
}

// LineItem is one row of a billing document. Quantity must be positive and
// unit price non-negative; Total is quantity times unit price, exact.
type LineItem struct {
	LineItemID  string          `json:"lineItemID"`
	DocumentID  string          `json:"documentID"`
	Product     string          `json:"product"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// BillingDocument is the tagged-variant entity covering invoices, quotes and
// receipts. Totals obey total = subtotal + taxAmount - discount and
// remainingAmount = total - paidAmount >= 0 after every mutation.
type BillingDocument struct {
	DocumentID      string          `json:"documentID"`
	Type            DocumentType    `json:"type"`
	DocumentNumber  string          `json:"documentNumber"`
	CustomerID      string          `json:"customerID"`
	Items           []LineItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxRate         decimal.Decimal `json:"taxRate"` // Percentage, e.g. 15 for 15%
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          DocumentStatus  `json:"status"`
	IssueDate       time.Time       `json:"issueDate"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	ValidUntil      *time.Time      `json:"validUntil,omitempty"` // Quotes only
	ConvertedFromID *string         `json:"convertedFromID,omitempty"`
	ConvertedToID   *string         `json:"convertedToID,omitempty"`
	ConvertedAt     *time.Time      `json:"convertedAt,omitempty"`
	CancelReason    *string         `json:"cancelReason,omitempty"`
	AuditFields
}

// IsExpired reports whether a quote's validity window has elapsed. Only
// meaningful for quotes that are not yet in a terminal state.
func (d *BillingDocument) IsExpired(now time.Time) bool {
	return d.Type == Quote && d.ValidUntil != nil && d.ValidUntil.Before(now)
}

// Payment records one application of money against a billing document.
// Applying a payment is the only way a document's paidAmount changes.
type Payment struct {
	PaymentID  string          `json:"paymentID"`
	DocumentID string          `json:"documentID"`
	Amount     decimal.Decimal `json:"amount"`
	Method     PaymentMethod   `json:"method"`
	AppliedAt  time.Time       `json:"appliedAt"`
	EmployeeID string          `json:"employeeID"`
}
