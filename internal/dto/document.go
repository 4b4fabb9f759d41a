package dto

import (
	"time"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one row of a document creation request. Quantity and
// unit price travel as decimal strings.
type LineItemRequest struct {
	Product     string `json:"product" binding:"required"`
	Description string `json:"description"`
	Quantity    string `json:"quantity" binding:"required"`
	UnitPrice   string `json:"unitPrice" binding:"required"`
}

// CreateDocumentRequest creates an invoice, quote or receipt.
// For receipts, PaymentMethod names the channel the money came in on; the
// collected amount is recorded in the cash register at creation.
type CreateDocumentRequest struct {
	Type          string            `json:"type" binding:"required,oneof=INVOICE QUOTE RECEIPT"`
	CustomerID    string            `json:"customerID" binding:"required"`
	Items         []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate       string            `json:"taxRate"`
	Discount      string            `json:"discount"`
	DueDate       *time.Time        `json:"dueDate"`
	ValidUntil    *time.Time        `json:"validUntil"` // Quotes only
	IssueNow      bool              `json:"issueNow"`   // Create directly as SENT
	PaymentMethod *string           `json:"paymentMethod" binding:"omitempty,oneof=CASH CARD TRANSFER"`
}

// ApplyPaymentRequest applies money against an invoice.
type ApplyPaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
	Method string `json:"method" binding:"required,oneof=CASH CARD TRANSFER"`
}

// CancelDocumentRequest cancels a document. The reason is mandatory and ends
// up in the audit trail.
type CancelDocumentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// LineItemResponse is the API shape of a line item.
type LineItemResponse struct {
	LineItemID  string          `json:"lineItemID"`
	Product     string          `json:"product"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// DocumentResponse is the API shape of a billing document.
type DocumentResponse struct {
	DocumentID      string             `json:"documentID"`
	Type            string             `json:"type"`
	DocumentNumber  string             `json:"documentNumber"`
	CustomerID      string             `json:"customerID"`
	Items           []LineItemResponse `json:"items"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	TaxRate         decimal.Decimal    `json:"taxRate"`
	TaxAmount       decimal.Decimal    `json:"taxAmount"`
	Discount        decimal.Decimal    `json:"discount"`
	Total           decimal.Decimal    `json:"total"`
	PaidAmount      decimal.Decimal    `json:"paidAmount"`
	RemainingAmount decimal.Decimal    `json:"remainingAmount"`
	Status          string             `json:"status"`
	IssueDate       time.Time          `json:"issueDate"`
	DueDate         *time.Time         `json:"dueDate,omitempty"`
	ValidUntil      *time.Time         `json:"validUntil,omitempty"`
	ConvertedFromID *string            `json:"convertedFromID,omitempty"`
	ConvertedToID   *string            `json:"convertedToID,omitempty"`
	ConvertedAt     *time.Time         `json:"convertedAt,omitempty"`
	CancelReason    *string            `json:"cancelReason,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
}

// ToDocumentResponse converts a domain.BillingDocument to its DTO.
func ToDocumentResponse(d *domain.BillingDocument) DocumentResponse {
	items := make([]LineItemResponse, len(d.Items))
	for i, item := range d.Items {
		items[i] = LineItemResponse{
			LineItemID:  item.LineItemID,
			Product:     item.Product,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	}
	return DocumentResponse{
		DocumentID:      d.DocumentID,
		Type:            string(d.Type),
		DocumentNumber:  d.DocumentNumber,
		CustomerID:      d.CustomerID,
		Items:           items,
		Subtotal:        d.Subtotal,
		TaxRate:         d.TaxRate,
		TaxAmount:       d.TaxAmount,
		Discount:        d.Discount,
		Total:           d.Total,
		PaidAmount:      d.PaidAmount,
		RemainingAmount: d.RemainingAmount,
		Status:          string(d.Status),
		IssueDate:       d.IssueDate,
		DueDate:         d.DueDate,
		ValidUntil:      d.ValidUntil,
		ConvertedFromID: d.ConvertedFromID,
		ConvertedToID:   d.ConvertedToID,
		ConvertedAt:     d.ConvertedAt,
		CancelReason:    d.CancelReason,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
	}
}

// PaymentResponse is the API shape of an applied payment.
type PaymentResponse struct {
	PaymentID  string          `json:"paymentID"`
	DocumentID string          `json:"documentID"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	AppliedAt  time.Time       `json:"appliedAt"`
	EmployeeID string          `json:"employeeID"`
}

// ToPaymentResponse converts a domain.Payment to its DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:  p.PaymentID,
		DocumentID: p.DocumentID,
		Amount:     p.Amount,
		Method:     string(p.Method),
		AppliedAt:  p.AppliedAt,
		EmployeeID: p.EmployeeID,
	}
}

// ApplyPaymentResponse returns the payment together with the updated document.
type ApplyPaymentResponse struct {
	Payment  PaymentResponse  `json:"payment"`
	Document DocumentResponse `json:"document"`
}

// ListDocumentsParams are the query parameters for listing documents.
type ListDocumentsParams struct {
	Type       *string    `form:"type" binding:"omitempty,oneof=INVOICE QUOTE RECEIPT"`
	Status     *string    `form:"status"`
	CustomerID *string    `form:"customerID"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Limit      int        `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken  *string    `form:"nextToken"`
}

// ListDocumentsResponse is a page of documents, newest first. Total counts
// every document matching the filter, not just this page.
type ListDocumentsResponse struct {
	Items     []DocumentResponse `json:"items"`
	Total     int64              `json:"total"`
	NextToken *string            `json:"nextToken,omitempty"`
}
