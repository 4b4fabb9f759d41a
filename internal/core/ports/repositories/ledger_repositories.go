package repositories

import (
	"context"
	"time"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerFilter narrows a ledger listing. Nil fields match everything.
type LedgerFilter struct {
	Type       *domain.CashTransactionType
	Method     *domain.PaymentMethod
	Category   *string
	EmployeeID *string
	From       *time.Time
	To         *time.Time
}

// LedgerReader defines read operations for the cash register ledger.
type LedgerReader interface {
	// FindTransactionByID retrieves a single ledger row.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.CashTransaction, error)

	// ListTransactions retrieves a page of ledger rows, newest first, using
	// token-based pagination. It returns the rows, the total count of rows
	// matching the filter, and a token for the next page.
	ListTransactions(ctx context.Context, filter LedgerFilter, limit int, nextToken *string) ([]domain.CashTransaction, int64, *string, error)

	// GetBalances returns the latest balance per payment method and the grand
	// total as maintained on the TOTAL balance row.
	GetBalances(ctx context.Context) (map[domain.PaymentMethod]decimal.Decimal, decimal.Decimal, error)

	// Summarize aggregates the ledger over [from, to] directly from the rows.
	Summarize(ctx context.Context, from, to time.Time) (*domain.LedgerSummary, error)
}

// LedgerWriter defines write operations for the cash register ledger.
type LedgerWriter interface {
	// SaveTransaction appends a ledger row inside one database transaction:
	// it locks the balance rows for the affected method and the grand total,
	// computes BalanceAfter/TotalAfter, inserts the row and the audit entry,
	// and commits. Lock or serialization failures surface as
	// apperrors.ErrConcurrencyConflict.
	SaveTransaction(ctx context.Context, txn domain.CashTransaction, audit domain.AuditEntry) (*domain.CashTransaction, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
