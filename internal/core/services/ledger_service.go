package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/safarsoft/travel_agency_backoffice/internal/apperrors"
	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	portsrepo "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/repositories"
	portssvc "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/services"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
	"github.com/safarsoft/travel_agency_backoffice/internal/middleware"
	"github.com/safarsoft/travel_agency_backoffice/internal/utils/money"
)

// ledgerService provides the cash register ledger operations.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// RecordTransaction implements portssvc.LedgerSvcFacade. The repository
// computes the running balances under row locks; lost updates surface as
// conflicts and are retried here with bounded backoff.
func (s *ledgerService) RecordTransaction(ctx context.Context, req dto.CreateCashTransactionRequest, actor domain.Actor) (*domain.CashTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txnType := domain.CashTransactionType(req.Type)
	if txnType != domain.Income && txnType != domain.Expense {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	if !domain.IsValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.PaymentMethod)
	}

	if txnType == domain.Expense && !actor.Role.Meets(domain.RoleAccountant) {
		return nil, fmt.Errorf("%w: recording expenses requires accountant role", apperrors.ErrForbidden)
	}

	amount, err := money.ParsePositive(req.Amount)
	if err != nil {
		return nil, err
	}
	amount = money.RoundCurrency(amount)

	now := time.Now().UTC()
	transactionDate := now
	if req.TransactionDate != nil {
		transactionDate = req.TransactionDate.UTC()
	}

	txn := domain.CashTransaction{
		TransactionID:   uuid.NewString(),
		Type:            txnType,
		Amount:          amount,
		PaymentMethod:   method,
		Category:        req.Category,
		EmployeeID:      actor.EmployeeID,
		Description:     req.Description,
		TransactionDate: transactionDate,
		// BalanceAfter and TotalAfter are computed by the repository under lock.
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.EmployeeID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.EmployeeID,
		},
	}

	var saved *domain.CashTransaction
	err = withConflictRetry(ctx, func() error {
		audit := newAuditEntry(entityCashTransaction, txn.TransactionID, domain.ActionCreate, nil, txn, actor, now)
		var saveErr error
		saved, saveErr = s.ledgerRepo.SaveTransaction(ctx, txn, audit)
		return saveErr
	})
	if err != nil {
		logger.Error("Failed to record cash transaction", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Cash transaction recorded",
		slog.String("transaction_id", saved.TransactionID),
		slog.String("type", string(saved.Type)),
		slog.String("method", string(saved.PaymentMethod)),
		slog.String("amount", saved.Amount.String()),
	)
	return saved, nil
}

// GetBalances implements portssvc.LedgerSvcFacade. The grand total is the
// TOTAL balance row the append path maintains under lock, so the API and the
// balance chain report one figure.
func (s *ledgerService) GetBalances(ctx context.Context) (*dto.BalancesResponse, error) {
	balances, total, err := s.ledgerRepo.GetBalances(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.BalancesResponse{
		Cash:     decimal.Zero,
		Card:     decimal.Zero,
		Transfer: decimal.Zero,
		Total:    total,
	}
	for method, balance := range balances {
		switch method {
		case domain.MethodCash:
			resp.Cash = balance
		case domain.MethodCard:
			resp.Card = balance
		case domain.MethodTransfer:
			resp.Transfer = balance
		}
	}
	return resp, nil
}

// ListTransactions implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ListTransactions(ctx context.Context, params dto.ListCashTransactionsParams) (*dto.ListCashTransactionsResponse, error) {
	filter := portsrepo.LedgerFilter{
		Category:   params.Category,
		EmployeeID: params.EmployeeID,
		From:       params.From,
		To:         params.To,
	}
	if params.Type != nil {
		txnType := domain.CashTransactionType(*params.Type)
		filter.Type = &txnType
	}
	if params.Method != nil {
		method := domain.PaymentMethod(*params.Method)
		filter.Method = &method
	}

	txns, total, nextToken, err := s.ledgerRepo.ListTransactions(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	return &dto.ListCashTransactionsResponse{
		Items:     dto.ToCashTransactionResponses(txns),
		Total:     total,
		NextToken: nextToken,
	}, nil
}

// Summarize implements portssvc.LedgerSvcFacade.
func (s *ledgerService) Summarize(ctx context.Context, params dto.SummarizeParams) (*dto.LedgerSummaryResponse, error) {
	if params.To.Before(params.From) {
		return nil, fmt.Errorf("%w: summary range end precedes start", apperrors.ErrValidation)
	}

	summary, err := s.ledgerRepo.Summarize(ctx, params.From, params.To)
	if err != nil {
		return nil, err
	}
	resp := dto.ToLedgerSummaryResponse(summary)
	return &resp, nil
}
