package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType mirrors domain.DocumentType at the DB layer.
type DocumentType string

// DocumentStatus mirrors domain.DocumentStatus at the DB layer.
type DocumentStatus string

// BillingDocument is the billing_documents table row. Line items live in
// their own table and are loaded separately.
type BillingDocument struct {
	DocumentID      string          `db:"document_id"`
	Type            DocumentType    `db:"type"`
	DocumentNumber  string          `db:"document_number"`
	CustomerID      string          `db:"customer_id"`
	Subtotal        decimal.Decimal `db:"subtotal"`
	TaxRate         decimal.Decimal `db:"tax_rate"`
	TaxAmount       decimal.Decimal `db:"tax_amount"`
	Discount        decimal.Decimal `db:"discount"`
	Total           decimal.Decimal `db:"total"`
	PaidAmount      decimal.Decimal `db:"paid_amount"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	Status          DocumentStatus  `db:"status"`
	IssueDate       time.Time       `db:"issue_date"`
	DueDate         *time.Time      `db:"due_date"`     // Nullable
	ValidUntil      *time.Time      `db:"valid_until"`  // Nullable, quotes only
	ConvertedFromID *string         `db:"converted_from_id"`
	ConvertedToID   *string         `db:"converted_to_id"`
	ConvertedAt     *time.Time      `db:"converted_at"`
	CancelReason    *string         `db:"cancel_reason"`
	AuditFields
}

// LineItem is the line_items table row. Items are owned by their document and
// are never deleted once the document leaves draft.
type LineItem struct {
	LineItemID  string          `db:"line_item_id"`
	DocumentID  string          `db:"document_id"`
	Product     string          `db:"product"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Total       decimal.Decimal `db:"total"`
}

// Payment is the payments table row.
type Payment struct {
	PaymentID  string          `db:"payment_id"`
	DocumentID string          `db:"document_id"`
	Amount     decimal.Decimal `db:"amount"`
	Method     PaymentMethod   `db:"method"`
	AppliedAt  time.Time       `db:"applied_at"`
	EmployeeID string          `db:"employee_id"`
}
