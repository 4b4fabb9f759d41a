package mapping

import (
	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	"github.com/safarsoft/travel_agency_backoffice/internal/models"
)

// ToModelCashTransaction converts a domain cash transaction to its model.
func ToModelCashTransaction(d domain.CashTransaction) models.CashTransaction {
	return models.CashTransaction{
		TransactionID:   d.TransactionID,
		Type:            models.CashTransactionType(d.Type),
		Amount:          d.Amount,
		PaymentMethod:   models.PaymentMethod(d.PaymentMethod),
		Category:        d.Category,
		EmployeeID:      d.EmployeeID,
		Description:     d.Description,
		DocumentID:      d.DocumentID,
		TransactionDate: d.TransactionDate,
		BalanceAfter:    d.BalanceAfter,
		TotalAfter:      d.TotalAfter,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCashTransaction converts a model cash transaction to its domain form.
func ToDomainCashTransaction(m models.CashTransaction) domain.CashTransaction {
	return domain.CashTransaction{
		TransactionID:   m.TransactionID,
		Type:            domain.CashTransactionType(m.Type),
		Amount:          m.Amount,
		PaymentMethod:   domain.PaymentMethod(m.PaymentMethod),
		Category:        m.Category,
		EmployeeID:      m.EmployeeID,
		Description:     m.Description,
		DocumentID:      m.DocumentID,
		TransactionDate: m.TransactionDate,
		BalanceAfter:    m.BalanceAfter,
		TotalAfter:      m.TotalAfter,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCashTransactions converts a slice of model cash transactions.
func ToDomainCashTransactions(ms []models.CashTransaction) []domain.CashTransaction {
	ds := make([]domain.CashTransaction, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, ToDomainCashTransaction(m))
	}
	return ds
}
