package services

import (
	"context"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
)

// LedgerSvcFacade defines the cash register ledger operations.
type LedgerSvcFacade interface {
	// RecordTransaction appends an immutable cash movement and returns it
	// with its running balances. Expenses require the ACCOUNTANT role.
	RecordTransaction(ctx context.Context, req dto.CreateCashTransactionRequest, actor domain.Actor) (*domain.CashTransaction, error)

	// GetBalances returns the latest balance per method and the grand total.
	GetBalances(ctx context.Context) (*dto.BalancesResponse, error)

	// ListTransactions returns a page of ledger rows, newest first.
	ListTransactions(ctx context.Context, params dto.ListCashTransactionsParams) (*dto.ListCashTransactionsResponse, error)

	// Summarize aggregates the ledger over a date range.
	Summarize(ctx context.Context, params dto.SummarizeParams) (*dto.LedgerSummaryResponse, error)
}
