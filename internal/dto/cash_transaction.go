package dto

import (
	"time"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCashTransactionRequest is the payload for recording a cash movement.
// Amount travels as a decimal string so it is never a binary float on the wire.
type CreateCashTransactionRequest struct {
	Type            string     `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount          string     `json:"amount" binding:"required"`
	PaymentMethod   string     `json:"paymentMethod" binding:"required,oneof=CASH CARD TRANSFER"`
	Category        string     `json:"category" binding:"required"`
	Description     string     `json:"description"`
	TransactionDate *time.Time `json:"transactionDate"`
}

// CashTransactionResponse is the API shape of a ledger row.
type CashTransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"paymentMethod"`
	Category        string          `json:"category"`
	EmployeeID      string          `json:"employeeID"`
	Description     string          `json:"description"`
	DocumentID      *string         `json:"documentID,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	TotalAfter      decimal.Decimal `json:"totalAfter"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToCashTransactionResponse converts a domain.CashTransaction to its DTO.
func ToCashTransactionResponse(t *domain.CashTransaction) CashTransactionResponse {
	return CashTransactionResponse{
		TransactionID:   t.TransactionID,
		Type:            string(t.Type),
		Amount:          t.Amount,
		PaymentMethod:   string(t.PaymentMethod),
		Category:        t.Category,
		EmployeeID:      t.EmployeeID,
		Description:     t.Description,
		DocumentID:      t.DocumentID,
		TransactionDate: t.TransactionDate,
		BalanceAfter:    t.BalanceAfter,
		TotalAfter:      t.TotalAfter,
		CreatedAt:       t.CreatedAt,
	}
}

// ToCashTransactionResponses converts a slice of domain transactions.
func ToCashTransactionResponses(txns []domain.CashTransaction) []CashTransactionResponse {
	responses := make([]CashTransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToCashTransactionResponse(&txn)
	}
	return responses
}

// ListCashTransactionsParams are the query parameters for listing the ledger.
type ListCashTransactionsParams struct {
	Type       *string    `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Method     *string    `form:"method" binding:"omitempty,oneof=CASH CARD TRANSFER"`
	Category   *string    `form:"category"`
	EmployeeID *string    `form:"employeeID"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Limit      int        `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken  *string    `form:"nextToken"`
}

// ListCashTransactionsResponse is a page of ledger rows, newest first.
// Total counts every row matching the filter, not just this page.
type ListCashTransactionsResponse struct {
	Items     []CashTransactionResponse `json:"items"`
	Total     int64                     `json:"total"`
	NextToken *string                   `json:"nextToken,omitempty"`
}

// BalancesResponse reports the latest balance per payment method plus the
// grand total.
type BalancesResponse struct {
	Cash     decimal.Decimal `json:"cash"`
	Card     decimal.Decimal `json:"card"`
	Transfer decimal.Decimal `json:"transfer"`
	Total    decimal.Decimal `json:"total"`
}

// SummarizeParams bound the ledger aggregation window.
type SummarizeParams struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// LedgerSummaryResponse is the aggregation result for a date range.
type LedgerSummaryResponse struct {
	Income          decimal.Decimal  `json:"income"`
	Expense         decimal.Decimal  `json:"expense"`
	Net             decimal.Decimal  `json:"net"`
	CountByMethod   map[string]int64 `json:"countByMethod"`
	CountByEmployee map[string]int64 `json:"countByEmployee"`
}

// ToLedgerSummaryResponse converts a domain.LedgerSummary to its DTO.
func ToLedgerSummaryResponse(s *domain.LedgerSummary) LedgerSummaryResponse {
	countByMethod := make(map[string]int64, len(s.CountByMethod))
	for m, c := range s.CountByMethod {
		countByMethod[string(m)] = c
	}
	return LedgerSummaryResponse{
		Income:          s.Income,
		Expense:         s.Expense,
		Net:             s.Net,
		CountByMethod:   countByMethod,
		CountByEmployee: s.CountByEmployee,
	}
}
