package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safarsoft/travel_agency_backoffice/internal/apperrors"
	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	portsrepo "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/repositories"
	"github.com/safarsoft/travel_agency_backoffice/internal/models"
	"github.com/safarsoft/travel_agency_backoffice/internal/utils/mapping"
	"github.com/safarsoft/travel_agency_backoffice/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// documentNumberPrefixes maps a document type to its human-facing number prefix.
var documentNumberPrefixes = map[domain.DocumentType]string{
	domain.Invoice: "INV",
	domain.Quote:   "QUO",
	domain.Receipt: "REC",
}

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for billing documents.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxDocumentRepository implements portsrepo.DocumentRepositoryFacade
var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const documentColumns = `
	document_id, type, document_number, customer_id,
	subtotal, tax_rate, tax_amount, discount, total, paid_amount, remaining_amount,
	status, issue_date, due_date, valid_until,
	converted_from_id, converted_to_id, converted_at, cancel_reason,
	created_at, created_by, last_updated_at, last_updated_by
`

// scanDocumentRow scans one billing_documents row, resolving nullable columns.
func scanDocumentRow(row pgx.Row) (models.BillingDocument, error) {
	var m models.BillingDocument
	var dueDate, validUntil, convertedAt sql.NullTime
	var convertedFromID, convertedToID, cancelReason sql.NullString

	err := row.Scan(
		&m.DocumentID,
		&m.Type,
		&m.DocumentNumber,
		&m.CustomerID,
		&m.Subtotal,
		&m.TaxRate,
		&m.TaxAmount,
		&m.Discount,
		&m.Total,
		&m.PaidAmount,
		&m.RemainingAmount,
		&m.Status,
		&m.IssueDate,
		&dueDate,
		&validUntil,
		&convertedFromID,
		&convertedToID,
		&convertedAt,
		&cancelReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}

	if dueDate.Valid {
		m.DueDate = &dueDate.Time
	}
	if validUntil.Valid {
		m.ValidUntil = &validUntil.Time
	}
	if convertedAt.Valid {
		m.ConvertedAt = &convertedAt.Time
	}
	if convertedFromID.Valid {
		m.ConvertedFromID = &convertedFromID.String
	}
	if convertedToID.Valid {
		m.ConvertedToID = &convertedToID.String
	}
	if cancelReason.Valid {
		m.CancelReason = &cancelReason.String
	}
	return m, nil
}

// insertDocumentTx inserts a document row and its line items inside an
// existing transaction.
func insertDocumentTx(ctx context.Context, tx pgx.Tx, doc domain.BillingDocument) error {
	m := mapping.ToModelBillingDocument(doc)
	insertQuery := `
		INSERT INTO billing_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := tx.Exec(ctx, insertQuery,
		m.DocumentID,
		m.Type,
		m.DocumentNumber,
		m.CustomerID,
		m.Subtotal,
		m.TaxRate,
		m.TaxAmount,
		m.Discount,
		m.Total,
		m.PaidAmount,
		m.RemainingAmount,
		m.Status,
		m.IssueDate,
		m.DueDate,
		m.ValidUntil,
		m.ConvertedFromID,
		m.ConvertedToID,
		m.ConvertedAt,
		m.CancelReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert billing document "+m.DocumentID, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO line_items (line_item_id, document_id, product, description, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, item := range doc.Items {
		modelItem := mapping.ToModelLineItem(doc.DocumentID, item)
		batch.Queue(itemQuery,
			modelItem.LineItemID,
			modelItem.DocumentID,
			modelItem.Product,
			modelItem.Description,
			modelItem.Quantity,
			modelItem.UnitPrice,
			modelItem.Total,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert line items for document "+m.DocumentID, err)
	}
	return nil
}

// SaveDocument inserts a document with its line items; for receipts it also
// appends the income cash transaction through the register balance chain, all
// within one DB transaction.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.BillingDocument, cashTxn *domain.CashTransaction, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertDocumentTx(ctx, tx, doc); err != nil {
		return err
	}
	if cashTxn != nil {
		modelTxn := mapping.ToModelCashTransaction(*cashTxn)
		if err := appendCashTransactionTx(ctx, tx, &modelTxn); err != nil {
			return err
		}
	}
	if err := insertAuditEntryTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateDocumentStatus moves a document from expectedStatus to doc.Status.
// Zero matched rows means a concurrent request changed the document first.
func (r *PgxDocumentRepository) UpdateDocumentStatus(ctx context.Context, doc domain.BillingDocument, expectedStatus domain.DocumentStatus, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelBillingDocument(doc)
	updateQuery := `
		UPDATE billing_documents
		SET status = $1, cancel_reason = $2, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $5 AND status = $6;
	`
	tag, err := tx.Exec(ctx, updateQuery,
		m.Status,
		m.CancelReason,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DocumentID,
		string(expectedStatus),
	)
	if err != nil {
		if isConcurrencyFailure(err) {
			return apperrors.ErrConcurrencyConflict
		}
		return apperrors.NewAppError(500, "failed to update status of document "+m.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConcurrencyConflict
	}

	if err := insertAuditEntryTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ApplyPayment persists a payment: the payment row, the document's new
// paid/remaining/status (optimistically checked), the income ledger row and
// the audit entries all commit together.
func (r *PgxDocumentRepository) ApplyPayment(ctx context.Context, doc domain.BillingDocument, expectedPaid decimal.Decimal, expectedStatus domain.DocumentStatus, payment domain.Payment, cashTxn domain.CashTransaction, audits []domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelBillingDocument(doc)
	updateQuery := `
		UPDATE billing_documents
		SET paid_amount = $1, remaining_amount = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE document_id = $6 AND paid_amount = $7 AND status = $8;
	`
	tag, err := tx.Exec(ctx, updateQuery,
		m.PaidAmount,
		m.RemainingAmount,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DocumentID,
		expectedPaid,
		string(expectedStatus),
	)
	if err != nil {
		if isConcurrencyFailure(err) {
			return apperrors.ErrConcurrencyConflict
		}
		return apperrors.NewAppError(500, "failed to update paid amount of document "+m.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConcurrencyConflict
	}

	modelPayment := mapping.ToModelPayment(payment)
	paymentQuery := `
		INSERT INTO payments (payment_id, document_id, amount, method, applied_at, employee_id)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, paymentQuery,
		modelPayment.PaymentID,
		modelPayment.DocumentID,
		modelPayment.Amount,
		modelPayment.Method,
		modelPayment.AppliedAt,
		modelPayment.EmployeeID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert payment "+modelPayment.PaymentID, err)
	}

	modelTxn := mapping.ToModelCashTransaction(cashTxn)
	if err := appendCashTransactionTx(ctx, tx, &modelTxn); err != nil {
		return err
	}

	for _, audit := range audits {
		if err := insertAuditEntryTx(ctx, tx, audit); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// SaveConversion atomically inserts the converted invoice and moves the
// source document to its converted state with the back link.
func (r *PgxDocumentRepository) SaveConversion(ctx context.Context, source domain.BillingDocument, expectedStatus domain.DocumentStatus, invoice domain.BillingDocument, audits []domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelBillingDocument(source)
	updateQuery := `
		UPDATE billing_documents
		SET status = $1, converted_to_id = $2, converted_at = $3, last_updated_at = $4, last_updated_by = $5
		WHERE document_id = $6 AND status = $7;
	`
	tag, err := tx.Exec(ctx, updateQuery,
		m.Status,
		m.ConvertedToID,
		m.ConvertedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DocumentID,
		string(expectedStatus),
	)
	if err != nil {
		if isConcurrencyFailure(err) {
			return apperrors.ErrConcurrencyConflict
		}
		return apperrors.NewAppError(500, "failed to mark document "+m.DocumentID+" as converted", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConcurrencyConflict
	}

	if err := insertDocumentTx(ctx, tx, invoice); err != nil {
		return err
	}

	for _, audit := range audits {
		if err := insertAuditEntryTx(ctx, tx, audit); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// FindDocumentByID retrieves a document and its line items.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.BillingDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM billing_documents WHERE document_id = $1;`

	m, err := scanDocumentRow(r.Pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find document by ID "+documentID, err)
	}

	items, err := r.findLineItems(ctx, documentID)
	if err != nil {
		return nil, err
	}

	domainDoc := mapping.ToDomainBillingDocument(m, items)
	return &domainDoc, nil
}

func (r *PgxDocumentRepository) findLineItems(ctx context.Context, documentID string) ([]models.LineItem, error) {
	query := `
		SELECT line_item_id, document_id, product, description, quantity, unit_price, total
		FROM line_items
		WHERE document_id = $1
		ORDER BY line_item_id;
	`
	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for document "+documentID, err)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var item models.LineItem
		err := rows.Scan(
			&item.LineItemID,
			&item.DocumentID,
			&item.Product,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.Total,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row for document "+documentID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows for document "+documentID, err)
	}
	return items, nil
}

// ListDocuments retrieves a paginated list of documents without line items,
// newest first, using token-based pagination on (issue_date, created_at,
// document_id), plus the total count of documents matching the filter. The
// document ID breaks timestamp ties, like a quote converted in the same
// instant its invoice is created, so neither row is skipped across pages.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.BillingDocument, int64, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	addFilter := func(clause string, value interface{}) {
		where += fmt.Sprintf(" AND %s $%d", clause, argPos)
		args = append(args, value)
		argPos++
	}

	if filter.Type != nil {
		addFilter("type =", string(*filter.Type))
	}
	if filter.Status != nil {
		addFilter("status =", string(*filter.Status))
	}
	if filter.CustomerID != nil {
		addFilter("customer_id =", *filter.CustomerID)
	}
	if filter.From != nil {
		addFilter("issue_date >=", *filter.From)
	}
	if filter.To != nil {
		addFilter("issue_date <=", *filter.To)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM billing_documents` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "failed to count billing documents", err)
	}

	if nextToken != nil && *nextToken != "" {
		lastIssueDate, lastCreatedAt, lastDocumentID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, 0, nil, apperrors.NewAppError(400, "invalid pagination token", decodeErr)
		}
		where += fmt.Sprintf(
			" AND (issue_date, created_at, document_id) < ($%d, $%d, $%d)",
			argPos, argPos+1, argPos+2)
		args = append(args, lastIssueDate, lastCreatedAt, lastDocumentID)
		argPos += 3
	}

	query := `SELECT ` + documentColumns + ` FROM billing_documents` + where +
		fmt.Sprintf(" ORDER BY issue_date DESC, created_at DESC, document_id DESC LIMIT $%d;", argPos)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "failed to query billing documents", err)
	}
	defer rows.Close()

	docs := []models.BillingDocument{}
	for rows.Next() {
		m, scanErr := scanDocumentRow(rows)
		if scanErr != nil {
			return nil, 0, nil, apperrors.NewAppError(500, "failed to scan billing document row", scanErr)
		}
		docs = append(docs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "error iterating billing document rows", err)
	}

	var newNextToken *string
	if len(docs) == fetchLimit {
		docs = docs[:limit]
		lastDoc := docs[len(docs)-1]
		token := pagination.EncodeToken(lastDoc.IssueDate, lastDoc.CreatedAt, lastDoc.DocumentID)
		newNextToken = &token
	}

	result := make([]domain.BillingDocument, 0, len(docs))
	for _, m := range docs {
		result = append(result, mapping.ToDomainBillingDocument(m, nil))
	}
	return result, total, newNextToken, nil
}

// FindPaymentsByDocumentID retrieves the payments applied to a document,
// oldest first.
func (r *PgxDocumentRepository) FindPaymentsByDocumentID(ctx context.Context, documentID string) ([]domain.Payment, error) {
	query := `
		SELECT payment_id, document_id, amount, method, applied_at, employee_id
		FROM payments
		WHERE document_id = $1
		ORDER BY applied_at;
	`
	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payments for document "+documentID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var m models.Payment
		err := rows.Scan(
			&m.PaymentID,
			&m.DocumentID,
			&m.Amount,
			&m.Method,
			&m.AppliedAt,
			&m.EmployeeID,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row for document "+documentID, err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment rows for document "+documentID, err)
	}
	return payments, nil
}

// NextDocumentNumber reserves the next sequential number for a document type.
// The per-type counter row is upserted and incremented atomically so two
// concurrent creates can never receive the same number.
func (r *PgxDocumentRepository) NextDocumentNumber(ctx context.Context, docType domain.DocumentType) (string, error) {
	prefix, ok := documentNumberPrefixes[docType]
	if !ok {
		return "", apperrors.NewAppError(400, "unknown document type "+string(docType), nil)
	}

	query := `
		INSERT INTO document_numbers (doc_type, next_value)
		VALUES ($1, 1)
		ON CONFLICT (doc_type) DO UPDATE SET next_value = document_numbers.next_value + 1
		RETURNING next_value;
	`
	var nextValue int64
	if err := r.Pool.QueryRow(ctx, query, string(docType)).Scan(&nextValue); err != nil {
		if isConcurrencyFailure(err) {
			return "", apperrors.ErrConcurrencyConflict
		}
		return "", apperrors.NewAppError(500, "failed to reserve document number for type "+string(docType), err)
	}

	return fmt.Sprintf("%s-%06d", prefix, nextValue), nil
}
