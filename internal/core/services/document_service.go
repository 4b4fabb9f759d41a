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

// documentService implements the billing document lifecycle: creation,
// issuing, payment application, cancellation and the quote/receipt to invoice
// conversions. Status is always derived here, never set by callers.
type documentService struct {
	docRepo portsrepo.DocumentRepositoryFacade
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(docRepo portsrepo.DocumentRepositoryFacade) portssvc.DocumentSvcFacade {
	return &documentService{docRepo: docRepo}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// parseLineItems validates and converts request line items. Line totals stay
// exact; rounding happens once at the document level.
func parseLineItems(items []dto.LineItemRequest, documentID string) ([]domain.LineItem, []decimal.Decimal, error) {
	parsed := make([]domain.LineItem, len(items))
	lineTotals := make([]decimal.Decimal, len(items))
	for i, item := range items {
		quantity, err := decimal.NewFromString(item.Quantity)
		if err != nil || quantity.LessThanOrEqual(decimal.Zero) {
			return nil, nil, fmt.Errorf("%w: quantity must be a positive decimal, got %q", apperrors.ErrInvalidLineItem, item.Quantity)
		}
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil || unitPrice.IsNegative() {
			return nil, nil, fmt.Errorf("%w: unit price must be a non-negative decimal, got %q", apperrors.ErrInvalidLineItem, item.UnitPrice)
		}

		total := quantity.Mul(unitPrice)
		parsed[i] = domain.LineItem{
			LineItemID:  uuid.NewString(),
			DocumentID:  documentID,
			Product:     item.Product,
			Description: item.Description,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Total:       total,
		}
		lineTotals[i] = total
	}
	return parsed, lineTotals, nil
}

// CreateDocument implements portssvc.DocumentSvcFacade.
func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, actor domain.Actor) (*domain.BillingDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	docType := domain.DocumentType(req.Type)
	if !domain.IsValidDocumentType(docType) {
		return nil, fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, req.Type)
	}

	documentID := uuid.NewString()
	items, lineTotals, err := parseLineItems(req.Items, documentID)
	if err != nil {
		return nil, err
	}

	taxRate := decimal.Zero
	if req.TaxRate != "" {
		if taxRate, err = money.ParseNonNegative(req.TaxRate); err != nil {
			return nil, err
		}
	}
	discount := decimal.Zero
	if req.Discount != "" {
		if discount, err = money.ParseNonNegative(req.Discount); err != nil {
			return nil, err
		}
	}

	subtotal, taxAmount, total, err := money.ComputeDocumentTotals(lineTotals, taxRate, discount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := domain.BillingDocument{
		DocumentID:      documentID,
		Type:            docType,
		CustomerID:      req.CustomerID,
		Items:           items,
		Subtotal:        subtotal,
		TaxRate:         taxRate,
		TaxAmount:       taxAmount,
		Discount:        discount,
		Total:           total,
		PaidAmount:      decimal.Zero,
		RemainingAmount: total,
		IssueDate:       now,
		DueDate:         req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.EmployeeID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.EmployeeID,
		},
	}

	var cashTxn *domain.CashTransaction
	switch docType {
	case domain.Receipt:
		// A receipt records money already collected: it is born fully paid,
		// and the collected amount goes through the register balance chain.
		if req.PaymentMethod == nil {
			return nil, fmt.Errorf("%w: receipts require a payment method", apperrors.ErrValidation)
		}
		method := domain.PaymentMethod(*req.PaymentMethod)
		if !domain.IsValidPaymentMethod(method) {
			return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, *req.PaymentMethod)
		}
		if total.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: receipt total must be positive", apperrors.ErrInvalidAmount)
		}
		doc.Status = domain.StatusActive
		doc.PaidAmount = total
		doc.RemainingAmount = decimal.Zero
		cashTxn = &domain.CashTransaction{
			TransactionID:   uuid.NewString(),
			Type:            domain.Income,
			Amount:          total,
			PaymentMethod:   method,
			Category:        domain.CategoryReceipt,
			EmployeeID:      actor.EmployeeID,
			Description:     "receipt " + documentID,
			DocumentID:      &documentID,
			TransactionDate: now,
			AuditFields:     doc.AuditFields,
		}
	case domain.Quote:
		doc.ValidUntil = req.ValidUntil
		doc.Status = domain.StatusDraft
		if req.IssueNow {
			doc.Status = domain.StatusSent
		}
	case domain.Invoice:
		doc.Status = domain.StatusDraft
		if req.IssueNow {
			doc.Status = domain.StatusSent
		}
	}

	number, err := s.docRepo.NextDocumentNumber(ctx, docType)
	if err != nil {
		return nil, err
	}
	doc.DocumentNumber = number

	err = withConflictRetry(ctx, func() error {
		audit := newAuditEntry(entityBillingDocument, documentID, domain.ActionCreate, nil, doc, actor, now)
		return s.docRepo.SaveDocument(ctx, doc, cashTxn, audit)
	})
	if err != nil {
		logger.Error("Failed to create document", slog.String("error", err.Error()), slog.String("type", string(docType)))
		return nil, err
	}

	logger.Info("Document created",
		slog.String("document_id", documentID),
		slog.String("type", string(docType)),
		slog.String("number", doc.DocumentNumber),
		slog.String("total", doc.Total.String()),
	)
	return &doc, nil
}

// GetDocument implements portssvc.DocumentSvcFacade.
func (s *documentService) GetDocument(ctx context.Context, documentID string) (*domain.BillingDocument, error) {
	return s.docRepo.FindDocumentByID(ctx, documentID)
}

// ListDocuments implements portssvc.DocumentSvcFacade.
func (s *documentService) ListDocuments(ctx context.Context, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	filter := portsrepo.DocumentFilter{
		CustomerID: params.CustomerID,
		From:       params.From,
		To:         params.To,
	}
	if params.Type != nil {
		docType := domain.DocumentType(*params.Type)
		filter.Type = &docType
	}
	if params.Status != nil {
		status := domain.DocumentStatus(*params.Status)
		filter.Status = &status
	}

	docs, total, nextToken, err := s.docRepo.ListDocuments(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		items[i] = dto.ToDocumentResponse(&doc)
	}
	return &dto.ListDocumentsResponse{Items: items, Total: total, NextToken: nextToken}, nil
}

// ListPayments implements portssvc.DocumentSvcFacade.
func (s *documentService) ListPayments(ctx context.Context, documentID string) ([]domain.Payment, error) {
	if _, err := s.docRepo.FindDocumentByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.docRepo.FindPaymentsByDocumentID(ctx, documentID)
}

// expireIfDue persists the EXPIRED transition for a quote whose validity
// window has elapsed. Returns the (possibly updated) document.
func (s *documentService) expireIfDue(ctx context.Context, doc *domain.BillingDocument, actor domain.Actor, now time.Time) (*domain.BillingDocument, error) {
	if doc.Status.IsTerminal() || !doc.IsExpired(now) {
		return doc, nil
	}

	updated := *doc
	updated.Status = domain.StatusExpired
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actor.EmployeeID

	audit := newAuditEntry(entityBillingDocument, doc.DocumentID, domain.ActionUpdate, doc, updated, actor, now)
	if err := s.docRepo.UpdateDocumentStatus(ctx, updated, doc.Status, audit); err != nil {
		return nil, err
	}
	return &updated, nil
}

// IssueDocument implements portssvc.DocumentSvcFacade.
func (s *documentService) IssueDocument(ctx context.Context, documentID string, actor domain.Actor) (*domain.BillingDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	var issued *domain.BillingDocument
	err := withConflictRetry(ctx, func() error {
		doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
		if err != nil {
			return err
		}
		if doc.Type == domain.Receipt {
			return fmt.Errorf("%w: receipts are not issued", apperrors.ErrInvalidState)
		}
		if doc, err = s.expireIfDue(ctx, doc, actor, now); err != nil {
			return err
		}
		if doc.Status != domain.StatusDraft {
			return fmt.Errorf("%w: only draft documents can be issued, status is %s", apperrors.ErrInvalidState, doc.Status)
		}

		updated := *doc
		updated.Status = domain.StatusSent
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = actor.EmployeeID

		audit := newAuditEntry(entityBillingDocument, documentID, domain.ActionIssue, doc, updated, actor, now)
		if err := s.docRepo.UpdateDocumentStatus(ctx, updated, doc.Status, audit); err != nil {
			return err
		}
		issued = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Document issued", slog.String("document_id", documentID))
	return issued, nil
}

// ApplyPayment implements portssvc.DocumentSvcFacade. The whole
// read-validate-write cycle sits inside the conflict retry: a lost update
// re-reads the document and re-derives the new state.
func (s *documentService) ApplyPayment(ctx context.Context, documentID string, req dto.ApplyPaymentRequest, actor domain.Actor) (*domain.Payment, *domain.BillingDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount, err := money.ParsePositive(req.Amount)
	if err != nil {
		return nil, nil, err
	}
	amount = money.RoundCurrency(amount)

	method := domain.PaymentMethod(req.Method)
	if !domain.IsValidPaymentMethod(method) {
		return nil, nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.Method)
	}

	var payment *domain.Payment
	var updatedDoc *domain.BillingDocument
	err = withConflictRetry(ctx, func() error {
		doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if doc.Type == domain.Quote {
			return fmt.Errorf("%w: payments cannot be applied to quotes", apperrors.ErrInvalidState)
		}
		switch doc.Status {
		case domain.StatusCancelled, domain.StatusConverted, domain.StatusExpired:
			return fmt.Errorf("%w: document is %s", apperrors.ErrInvalidState, doc.Status)
		case domain.StatusPaid:
			return fmt.Errorf("%w: document is already fully paid", apperrors.ErrInvalidState)
		}
		if amount.GreaterThan(doc.RemainingAmount) {
			return fmt.Errorf("%w: payment %s exceeds remaining %s", apperrors.ErrOverpayment, amount.String(), doc.RemainingAmount.String())
		}

		updated := *doc
		updated.PaidAmount = doc.PaidAmount.Add(amount)
		updated.RemainingAmount = doc.Total.Sub(updated.PaidAmount)
		if updated.RemainingAmount.IsZero() {
			updated.Status = domain.StatusPaid
		} else {
			updated.Status = domain.StatusPartial
		}
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = actor.EmployeeID

		p := domain.Payment{
			PaymentID:  uuid.NewString(),
			DocumentID: documentID,
			Amount:     amount,
			Method:     method,
			AppliedAt:  now,
			EmployeeID: actor.EmployeeID,
		}
		cashTxn := domain.CashTransaction{
			TransactionID:   uuid.NewString(),
			Type:            domain.Income,
			Amount:          amount,
			PaymentMethod:   method,
			Category:        domain.CategoryInvoicePayment,
			EmployeeID:      actor.EmployeeID,
			Description:     "payment on " + doc.DocumentNumber,
			DocumentID:      &documentID,
			TransactionDate: now,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor.EmployeeID,
				LastUpdatedAt: now,
				LastUpdatedBy: actor.EmployeeID,
			},
		}
		audits := []domain.AuditEntry{
			newAuditEntry(entityBillingDocument, documentID, domain.ActionPayment, doc, updated, actor, now),
			newAuditEntry(entityCashTransaction, cashTxn.TransactionID, domain.ActionCreate, nil, cashTxn, actor, now),
		}

		if err := s.docRepo.ApplyPayment(ctx, updated, doc.PaidAmount, doc.Status, p, cashTxn, audits); err != nil {
			return err
		}
		payment = &p
		updatedDoc = &updated
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Payment applied",
		slog.String("document_id", documentID),
		slog.String("amount", payment.Amount.String()),
		slog.String("new_status", string(updatedDoc.Status)),
	)
	return payment, updatedDoc, nil
}

// CancelDocument implements portssvc.DocumentSvcFacade. Cancellation never
// deletes the document, its line items or its audit trail.
func (s *documentService) CancelDocument(ctx context.Context, documentID string, req dto.CancelDocumentRequest, actor domain.Actor) (*domain.BillingDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.Meets(domain.RoleAccountant) {
		return nil, fmt.Errorf("%w: cancelling documents requires accountant role", apperrors.ErrForbidden)
	}

	var cancelled *domain.BillingDocument
	err := withConflictRetry(ctx, func() error {
		doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if doc, err = s.expireIfDue(ctx, doc, actor, now); err != nil {
			return err
		}

		switch {
		case doc.Type == domain.Receipt && doc.Status == domain.StatusConverted:
			// A converted receipt is handled by cancelling the resulting invoice.
			return fmt.Errorf("%w: receipt is converted, cancel the linked invoice instead", apperrors.ErrInvalidState)
		case doc.Type == domain.Receipt && doc.Status != domain.StatusActive:
			return fmt.Errorf("%w: receipt is %s", apperrors.ErrInvalidState, doc.Status)
		case doc.Type != domain.Receipt && doc.Status == domain.StatusPaid:
			return fmt.Errorf("%w: fully paid documents cannot be cancelled", apperrors.ErrInvalidState)
		case doc.Type != domain.Receipt && doc.Status.IsTerminal():
			return fmt.Errorf("%w: document is %s", apperrors.ErrInvalidState, doc.Status)
		}

		// Cancelling an active receipt does not reverse its recorded income:
		// the ledger is append-only and a correction is an explicit expense
		// entry, not a rewrite of history.
		reason := req.Reason
		updated := *doc
		updated.Status = domain.StatusCancelled
		updated.CancelReason = &reason
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = actor.EmployeeID

		audit := newAuditEntry(entityBillingDocument, documentID, domain.ActionCancel, doc, updated, actor, now)
		if err := s.docRepo.UpdateDocumentStatus(ctx, updated, doc.Status, audit); err != nil {
			return err
		}
		cancelled = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Document cancelled", slog.String("document_id", documentID), slog.String("reason", req.Reason))
	return cancelled, nil
}

// buildConvertedInvoice copies customer, items and totals from a source
// document into a fresh invoice linked back to it.
func (s *documentService) buildConvertedInvoice(source *domain.BillingDocument, actor domain.Actor, now time.Time) domain.BillingDocument {
	invoiceID := uuid.NewString()
	items := make([]domain.LineItem, len(source.Items))
	for i, item := range source.Items {
		items[i] = item
		items[i].LineItemID = uuid.NewString()
		items[i].DocumentID = invoiceID
	}
	sourceID := source.DocumentID
	return domain.BillingDocument{
		DocumentID:      invoiceID,
		Type:            domain.Invoice,
		CustomerID:      source.CustomerID,
		Items:           items,
		Subtotal:        source.Subtotal,
		TaxRate:         source.TaxRate,
		TaxAmount:       source.TaxAmount,
		Discount:        source.Discount,
		Total:           source.Total,
		PaidAmount:      decimal.Zero,
		RemainingAmount: source.Total,
		Status:          domain.StatusSent,
		IssueDate:       now,
		ConvertedFromID: &sourceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.EmployeeID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.EmployeeID,
		},
	}
}

// convert runs the shared transactional conversion: link the source forward,
// mark it CONVERTED, insert the invoice. Idempotent via the persisted link.
func (s *documentService) convert(ctx context.Context, sourceID string, wantType domain.DocumentType, prepare func(source *domain.BillingDocument, now time.Time) (*domain.BillingDocument, error), actor domain.Actor) (*domain.BillingDocument, error) {
	var invoice *domain.BillingDocument
	err := withConflictRetry(ctx, func() error {
		source, err := s.docRepo.FindDocumentByID(ctx, sourceID)
		if err != nil {
			return err
		}
		if source.Type != wantType {
			return fmt.Errorf("%w: document %s is a %s", apperrors.ErrValidation, sourceID, source.Type)
		}

		// Already converted: return the linked invoice rather than failing,
		// so a client retry after a timeout cannot double-create.
		if source.ConvertedToID != nil {
			invoice, err = s.docRepo.FindDocumentByID(ctx, *source.ConvertedToID)
			return err
		}

		now := time.Now().UTC()
		inv, err := prepare(source, now)
		if err != nil {
			return err
		}

		number, err := s.docRepo.NextDocumentNumber(ctx, domain.Invoice)
		if err != nil {
			return err
		}
		inv.DocumentNumber = number

		updated := *source
		updated.Status = domain.StatusConverted
		updated.ConvertedToID = &inv.DocumentID
		updated.ConvertedAt = &now
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = actor.EmployeeID

		audits := []domain.AuditEntry{
			newAuditEntry(entityBillingDocument, sourceID, domain.ActionConvert, source, updated, actor, now),
			newAuditEntry(entityBillingDocument, inv.DocumentID, domain.ActionCreate, nil, *inv, actor, now),
		}
		if err := s.docRepo.SaveConversion(ctx, updated, source.Status, *inv, audits); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// ConvertQuoteToInvoice implements portssvc.DocumentSvcFacade.
func (s *documentService) ConvertQuoteToInvoice(ctx context.Context, quoteID string, actor domain.Actor) (*domain.BillingDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.Meets(domain.RoleAccountant) {
		return nil, fmt.Errorf("%w: converting documents requires accountant role", apperrors.ErrForbidden)
	}

	invoice, err := s.convert(ctx, quoteID, domain.Quote, func(source *domain.BillingDocument, now time.Time) (*domain.BillingDocument, error) {
		var err error
		if source, err = s.expireIfDue(ctx, source, actor, now); err != nil {
			return nil, err
		}
		switch source.Status {
		case domain.StatusCancelled, domain.StatusExpired:
			return nil, fmt.Errorf("%w: quote is %s", apperrors.ErrInvalidState, source.Status)
		}
		inv := s.buildConvertedInvoice(source, actor, now)
		return &inv, nil
	}, actor)
	if err != nil {
		return nil, err
	}

	logger.Info("Quote converted to invoice", slog.String("quote_id", quoteID), slog.String("invoice_id", invoice.DocumentID))
	return invoice, nil
}

// ConvertReceiptToInvoice implements portssvc.DocumentSvcFacade. The invoice
// is born fully paid: the receipt's money was already collected and recorded
// in the register when the receipt was taken, so no new cash transaction is
// recorded here.
func (s *documentService) ConvertReceiptToInvoice(ctx context.Context, receiptID string, actor domain.Actor) (*domain.BillingDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.Meets(domain.RoleAccountant) {
		return nil, fmt.Errorf("%w: converting documents requires accountant role", apperrors.ErrForbidden)
	}

	invoice, err := s.convert(ctx, receiptID, domain.Receipt, func(source *domain.BillingDocument, now time.Time) (*domain.BillingDocument, error) {
		if source.Status != domain.StatusActive {
			return nil, fmt.Errorf("%w: receipt is %s", apperrors.ErrInvalidState, source.Status)
		}
		inv := s.buildConvertedInvoice(source, actor, now)
		inv.PaidAmount = inv.Total
		inv.RemainingAmount = decimal.Zero
		inv.Status = domain.StatusPaid
		return &inv, nil
	}, actor)
	if err != nil {
		return nil, err
	}

	logger.Info("Receipt converted to invoice", slog.String("receipt_id", receiptID), slog.String("invoice_id", invoice.DocumentID))
	return invoice, nil
}
