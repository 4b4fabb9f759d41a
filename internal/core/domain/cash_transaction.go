package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashTransactionType indicates whether money entered or left the register.
type CashTransactionType string

const (
	Income  CashTransactionType = "INCOME"
	Expense CashTransactionType = "EXPENSE"
)

// PaymentMethod is the channel a cash movement went through. Each method has
// its own balance chain in the register.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodCard     PaymentMethod = "CARD"
	MethodTransfer PaymentMethod = "TRANSFER"
)

// KnownPaymentMethods lists every valid payment method.
var KnownPaymentMethods = []PaymentMethod{MethodCash, MethodCard, MethodTransfer}

// IsValidPaymentMethod reports whether m is one of the known methods.
func IsValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer:
		return true
	}
	return false
}

// Transaction categories recorded by the document workflow.
const (
	CategoryInvoicePayment = "invoice_payment"
	CategoryReceipt        = "receipt"
)

// CashTransaction is a single immutable movement in the cash register ledger.
// Rows are append-only; corrections are new offsetting entries.
type CashTransaction struct {
	TransactionID   string              `json:"transactionID"`
	Type            CashTransactionType `json:"type"`
	Amount          decimal.Decimal     `json:"amount"` // Always positive; sign comes from Type
	PaymentMethod   PaymentMethod       `json:"paymentMethod"`
	Category        string              `json:"category"`
	EmployeeID      string              `json:"employeeID"`
	Description     string              `json:"description"`
	DocumentID      *string             `json:"documentID,omitempty"` // Set when recorded by a document operation
	TransactionDate time.Time           `json:"transactionDate"`
	BalanceAfter    decimal.Decimal     `json:"balanceAfter"` // Register balance for PaymentMethod after this row
	TotalAfter      decimal.Decimal     `json:"totalAfter"`   // Grand total across methods after this row
	AuditFields
}

// RegisterBalance is the current balance of one payment method chain.
type RegisterBalance struct {
	Method  PaymentMethod   `json:"method"`
	Balance decimal.Decimal `json:"balance"`
}

// LedgerSummary aggregates the register over a date range. It is computed
// from the transaction rows themselves, never from separate counters.
type LedgerSummary struct {
	Income          decimal.Decimal         `json:"income"`
	Expense         decimal.Decimal         `json:"expense"`
	Net             decimal.Decimal         `json:"net"`
	CountByMethod   map[PaymentMethod]int64 `json:"countByMethod"`
	CountByEmployee map[string]int64        `json:"countByEmployee"`
}
