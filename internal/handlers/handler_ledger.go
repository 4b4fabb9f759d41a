package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/services"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
	"github.com/safarsoft/travel_agency_backoffice/internal/middleware"
)

// ledgerHandler handles HTTP requests for the cash register ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers routes related to the cash register.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.recordTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/balance", h.getBalances)
		transactions.GET("/summary", h.summarize)
	}
}

// recordTransaction godoc
// @Summary Record a cash transaction
// @Description Appends an income or expense movement to the register ledger. Expenses require the ACCOUNTANT role.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateCashTransactionRequest true "Transaction details"
// @Success 201 {object} dto.CashTransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid input or amount"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Role does not permit expenses"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *ledgerHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCashTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.ledgerService.RecordTransaction(c.Request.Context(), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCashTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List cash transactions
// @Description Returns a page of ledger rows, newest first, with optional filters.
// @Tags transactions
// @Produce json
// @Param type query string false "INCOME or EXPENSE"
// @Param method query string false "CASH, CARD or TRANSFER"
// @Param category query string false "Category filter"
// @Param employeeID query string false "Employee filter"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListCashTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListCashTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getBalances godoc
// @Summary Get register balances
// @Description Returns the current balance per payment method plus the grand total.
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.BalancesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/balance [get]
func (h *ledgerHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	resp, err := h.ledgerService.GetBalances(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve balances")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// summarize godoc
// @Summary Summarize the ledger
// @Description Aggregates income, expense, net and counts over a date range.
// @Tags transactions
// @Produce json
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.LedgerSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/summary [get]
func (h *ledgerHandler) summarize(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.SummarizeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.Summarize(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to summarize ledger")
		return
	}

	c.JSON(http.StatusOK, resp)
}
