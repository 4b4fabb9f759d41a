package mapping

import (
	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	"github.com/safarsoft/travel_agency_backoffice/internal/models"
)

// ToModelBillingDocument converts a domain billing document to its model.
// Line items are mapped separately because they live in their own table.
func ToModelBillingDocument(d domain.BillingDocument) models.BillingDocument {
	return models.BillingDocument{
		DocumentID:      d.DocumentID,
		Type:            models.DocumentType(d.Type),
		DocumentNumber:  d.DocumentNumber,
		CustomerID:      d.CustomerID,
		Subtotal:        d.Subtotal,
		TaxRate:         d.TaxRate,
		TaxAmount:       d.TaxAmount,
		Discount:        d.Discount,
		Total:           d.Total,
		PaidAmount:      d.PaidAmount,
		RemainingAmount: d.RemainingAmount,
		Status:          models.DocumentStatus(d.Status),
		IssueDate:       d.IssueDate,
		DueDate:         d.DueDate,
		ValidUntil:      d.ValidUntil,
		ConvertedFromID: d.ConvertedFromID,
		ConvertedToID:   d.ConvertedToID,
		ConvertedAt:     d.ConvertedAt,
		CancelReason:    d.CancelReason,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBillingDocument converts a model billing document and its line items
// to the domain form.
func ToDomainBillingDocument(m models.BillingDocument, items []models.LineItem) domain.BillingDocument {
	return domain.BillingDocument{
		DocumentID:      m.DocumentID,
		Type:            domain.DocumentType(m.Type),
		DocumentNumber:  m.DocumentNumber,
		CustomerID:      m.CustomerID,
		Items:           ToDomainLineItems(items),
		Subtotal:        m.Subtotal,
		TaxRate:         m.TaxRate,
		TaxAmount:       m.TaxAmount,
		Discount:        m.Discount,
		Total:           m.Total,
		PaidAmount:      m.PaidAmount,
		RemainingAmount: m.RemainingAmount,
		Status:          domain.DocumentStatus(m.Status),
		IssueDate:       m.IssueDate,
		DueDate:         m.DueDate,
		ValidUntil:      m.ValidUntil,
		ConvertedFromID: m.ConvertedFromID,
		ConvertedToID:   m.ConvertedToID,
		ConvertedAt:     m.ConvertedAt,
		CancelReason:    m.CancelReason,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLineItem converts a domain line item to its model.
func ToModelLineItem(documentID string, d domain.LineItem) models.LineItem {
	return models.LineItem{
		LineItemID:  d.LineItemID,
		DocumentID:  documentID,
		Product:     d.Product,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		Total:       d.Total,
	}
}

// ToDomainLineItems converts a slice of model line items.
func ToDomainLineItems(ms []models.LineItem) []domain.LineItem {
	ds := make([]domain.LineItem, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, domain.LineItem{
			LineItemID:  m.LineItemID,
			DocumentID:  m.DocumentID,
			Product:     m.Product,
			Description: m.Description,
			Quantity:    m.Quantity,
			UnitPrice:   m.UnitPrice,
			Total:       m.Total,
		})
	}
	return ds
}

// ToModelPayment converts a domain payment to its model.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:  d.PaymentID,
		DocumentID: d.DocumentID,
		Amount:     d.Amount,
		Method:     models.PaymentMethod(d.Method),
		AppliedAt:  d.AppliedAt,
		EmployeeID: d.EmployeeID,
	}
}

// ToDomainPayment converts a model payment to its domain form.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:  m.PaymentID,
		DocumentID: m.DocumentID,
		Amount:     m.Amount,
		Method:     domain.PaymentMethod(m.Method),
		AppliedAt:  m.AppliedAt,
		EmployeeID: m.EmployeeID,
	}
}
