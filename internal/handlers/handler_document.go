package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	portssvc "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/services"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
	"github.com/safarsoft/travel_agency_backoffice/internal/middleware"
)

// documentHandler handles HTTP requests for billing documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

func newDocumentHandler(ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{documentService: ds}
}

// registerDocumentRoutes registers routes related to billing documents.
// Quote and receipt conversions get their own route groups so the URLs read
// like the operations they perform.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("", h.listDocuments)
		documents.GET("/:id", h.getDocument)
		documents.GET("/:id/payments", h.listPayments)
		documents.POST("/:id/issue", h.issueDocument)
		documents.POST("/:id/payments", h.applyPayment)
		documents.POST("/:id/cancel", h.cancelDocument)
	}

	quotes := rg.Group("/quotes")
	{
		quotes.POST("/:id/convert", h.convertQuote)
	}

	receipts := rg.Group("/receipts")
	{
		receipts.POST("/:id/convert", h.convertReceipt)
		receipts.POST("/:id/cancel", h.cancelDocument)
	}
}

func (h *documentHandler) actorOrAbort(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return actor, ok
}

// createDocument godoc
// @Summary Create a billing document
// @Description Creates an invoice, quote or receipt. Receipts are created ACTIVE with the collected amount recorded in the register.
// @Tags documents
// @Accept json
// @Produce json
// @Param document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse "Invalid input, amount or line item"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := h.actorOrAbort(c)
	if !ok {
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create document")
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List billing documents
// @Description Returns a page of documents, newest first, with optional filters.
// @Tags documents
// @Produce json
// @Param type query string false "INVOICE, QUOTE or RECEIPT"
// @Param status query string false "Status filter"
// @Param customerID query string false "Customer filter"
// @Param from query string false "Start issue date (YYYY-MM-DD)"
// @Param to query string false "End issue date (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.documentService.ListDocuments(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list documents")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getDocument godoc
// @Summary Get a billing document
// @Description Retrieves a document with its line items.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	doc, err := h.documentService.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// listPayments godoc
// @Summary List payments for a document
// @Description Retrieves the payments applied to a document, oldest first.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{id}/payments [get]
func (h *documentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payments, err := h.documentService.ListPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payments")
		return
	}

	responses := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = dto.ToPaymentResponse(&payments[i])
	}
	c.JSON(http.StatusOK, responses)
}

// issueDocument godoc
// @Summary Issue a draft document
// @Description Moves a draft invoice or quote to SENT.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not a draft"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{id}/issue [post]
func (h *documentHandler) issueDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := h.actorOrAbort(c)
	if !ok {
		return
	}

	doc, err := h.documentService.IssueDocument(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to issue document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// applyPayment godoc
// @Summary Apply a payment
// @Description Applies money against an invoice and records the matching income transaction in the register.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param payment body dto.ApplyPaymentRequest true "Payment details"
// @Success 200 {object} dto.ApplyPaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Document not payable in its current state"
// @Failure 422 {object} ErrorResponse "Payment exceeds remaining amount"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{id}/payments [post]
func (h *documentHandler) applyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := h.actorOrAbort(c)
	if !ok {
		return
	}

	payment, doc, err := h.documentService.ApplyPayment(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to apply payment")
		return
	}

	c.JSON(http.StatusOK, dto.ApplyPaymentResponse{
		Payment:  dto.ToPaymentResponse(payment),
		Document: dto.ToDocumentResponse(doc),
	})
}

// cancelDocument godoc
// @Summary Cancel a document
// @Description Cancels an invoice, quote or active receipt with a mandatory reason. Requires the ACCOUNTANT role.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param cancel body dto.CancelDocumentRequest true "Cancellation reason"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already terminal or fully paid"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{id}/cancel [post]
func (h *documentHandler) cancelDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := h.actorOrAbort(c)
	if !ok {
		return
	}

	doc, err := h.documentService.CancelDocument(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// convertQuote godoc
// @Summary Convert a quote to an invoice
// @Description Creates an invoice from a quote. Idempotent: an already converted quote returns its linked invoice. Requires the ACCOUNTANT role.
// @Tags documents
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Quote cancelled or expired"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /quotes/{id}/convert [post]
func (h *documentHandler) convertQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := h.actorOrAbort(c)
	if !ok {
		return
	}

	invoice, err := h.documentService.ConvertQuoteToInvoice(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to convert quote")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(invoice))
}

// convertReceipt godoc
// @Summary Convert a receipt to an invoice
// @Description Creates a fully paid invoice from an active receipt. Idempotent: an already converted receipt returns its linked invoice. Requires the ACCOUNTANT role.
// @Tags documents
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Receipt not active"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /receipts/{id}/convert [post]
func (h *documentHandler) convertReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := h.actorOrAbort(c)
	if !ok {
		return
	}

	invoice, err := h.documentService.ConvertReceiptToInvoice(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to convert receipt")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(invoice))
}
