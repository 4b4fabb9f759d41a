package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashTransactionType mirrors domain.CashTransactionType at the DB layer.
type CashTransactionType string

// PaymentMethod mirrors domain.PaymentMethod at the DB layer.
type PaymentMethod string

// CashTransaction is the cash_transactions table row. Rows are append-only.
type CashTransaction struct {
	TransactionID   string              `db:"transaction_id"`
	Type            CashTransactionType `db:"type"`
	Amount          decimal.Decimal     `db:"amount"`
	PaymentMethod   PaymentMethod       `db:"payment_method"`
	Category        string              `db:"category"`
	EmployeeID      string              `db:"employee_id"`
	Description     string              `db:"description"`
	DocumentID      *string             `db:"document_id"` // Nullable
	TransactionDate time.Time           `db:"transaction_date"`
	BalanceAfter    decimal.Decimal     `db:"balance_after"`
	TotalAfter      decimal.Decimal     `db:"total_after"`
	AuditFields
}
