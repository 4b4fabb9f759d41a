package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

// methodTotal is the register_balances row tracking the grand total across
// all payment methods. It is not a payment method and never appears on a
// cash transaction.
const methodTotal = "TOTAL"

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the cash register ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// appendCashTransactionTx appends a ledger row inside an existing transaction.
// It locks the balance row for the transaction's method and the grand total
// row, applies the signed amount, fills in BalanceAfter/TotalAfter on m, and
// inserts the cash transaction row. Lock order is always method then total so
// concurrent appends cannot deadlock on each other.
func appendCashTransactionTx(ctx context.Context, tx pgx.Tx, m *models.CashTransaction) error {
	signedAmount := m.Amount
	if m.Type != models.CashTransactionType(domain.Income) {
		signedAmount = m.Amount.Neg()
	}

	lockQuery := `SELECT balance FROM register_balances WHERE method = $1 FOR UPDATE;`

	var methodBalance decimal.Decimal
	if err := tx.QueryRow(ctx, lockQuery, string(m.PaymentMethod)).Scan(&methodBalance); err != nil {
		if isConcurrencyFailure(err) {
			return apperrors.ErrConcurrencyConflict
		}
		return apperrors.NewAppError(500, "failed to lock balance row for method "+string(m.PaymentMethod), err)
	}

	var totalBalance decimal.Decimal
	if err := tx.QueryRow(ctx, lockQuery, methodTotal).Scan(&totalBalance); err != nil {
		if isConcurrencyFailure(err) {
			return apperrors.ErrConcurrencyConflict
		}
		return apperrors.NewAppError(500, "failed to lock grand total balance row", err)
	}

	m.BalanceAfter = methodBalance.Add(signedAmount)
	m.TotalAfter = totalBalance.Add(signedAmount)

	updateQuery := `UPDATE register_balances SET balance = $1, last_updated_at = $2, last_updated_by = $3 WHERE method = $4;`
	if _, err := tx.Exec(ctx, updateQuery, m.BalanceAfter, m.LastUpdatedAt, m.LastUpdatedBy, string(m.PaymentMethod)); err != nil {
		return apperrors.NewAppError(500, "failed to update balance for method "+string(m.PaymentMethod), err)
	}
	if _, err := tx.Exec(ctx, updateQuery, m.TotalAfter, m.LastUpdatedAt, m.LastUpdatedBy, methodTotal); err != nil {
		return apperrors.NewAppError(500, "failed to update grand total balance", err)
	}

	insertQuery := `
		INSERT INTO cash_transactions (
			transaction_id, type, amount, payment_method, category, employee_id,
			description, document_id, transaction_date, balance_after, total_after,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, insertQuery,
		m.TransactionID,
		m.Type,
		m.Amount,
		m.PaymentMethod,
		m.Category,
		m.EmployeeID,
		m.Description,
		m.DocumentID,
		m.TransactionDate,
		m.BalanceAfter,
		m.TotalAfter,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert cash transaction "+m.TransactionID, err)
	}
	return nil
}

// SaveTransaction appends a ledger row and its audit entry within a DB transaction.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.CashTransaction, audit domain.AuditEntry) (*domain.CashTransaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	modelTxn := mapping.ToModelCashTransaction(txn)
	if err := appendCashTransactionTx(ctx, tx, &modelTxn); err != nil {
		return nil, err
	}
	if err := insertAuditEntryTx(ctx, tx, audit); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	saved := mapping.ToDomainCashTransaction(modelTxn)
	return &saved, nil
}

// FindTransactionByID retrieves a ledger row by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.CashTransaction, error) {
	query := `
		SELECT transaction_id, type, amount, payment_method, category, employee_id,
		       description, document_id, transaction_date, balance_after, total_after,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM cash_transactions
		WHERE transaction_id = $1;
	`
	var m models.CashTransaction
	var documentID sql.NullString

	err := r.Pool.QueryRow(ctx, query, transactionID).Scan(
		&m.TransactionID,
		&m.Type,
		&m.Amount,
		&m.PaymentMethod,
		&m.Category,
		&m.EmployeeID,
		&m.Description,
		&documentID,
		&m.TransactionDate,
		&m.BalanceAfter,
		&m.TotalAfter,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find cash transaction by ID "+transactionID, err)
	}

	if documentID.Valid {
		m.DocumentID = &documentID.String
	}

	domainTxn := mapping.ToDomainCashTransaction(m)
	return &domainTxn, nil
}

// ListTransactions retrieves a paginated list of ledger rows, newest first,
// using token-based pagination on (transaction_date, created_at,
// transaction_id), plus the total count of rows matching the filter. The
// transaction ID breaks timestamp ties so rows recorded in the same instant
// never straddle a page boundary.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, filter portsrepo.LedgerFilter, limit int, nextToken *string) ([]domain.CashTransaction, int64, *string, error) {
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
	if filter.Method != nil {
		addFilter("payment_method =", string(*filter.Method))
	}
	if filter.Category != nil {
		addFilter("category =", *filter.Category)
	}
	if filter.EmployeeID != nil {
		addFilter("employee_id =", *filter.EmployeeID)
	}
	if filter.From != nil {
		addFilter("transaction_date >=", *filter.From)
	}
	if filter.To != nil {
		addFilter("transaction_date <=", *filter.To)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM cash_transactions` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "failed to count cash transactions", err)
	}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, lastTransactionID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, 0, nil, apperrors.NewAppError(400, "invalid pagination token", decodeErr)
		}
		where += fmt.Sprintf(
			" AND (transaction_date, created_at, transaction_id) < ($%d, $%d, $%d)",
			argPos, argPos+1, argPos+2)
		args = append(args, lastDate, lastCreatedAt, lastTransactionID)
		argPos += 3
	}

	query := `
		SELECT transaction_id, type, amount, payment_method, category, employee_id,
		       description, document_id, transaction_date, balance_after, total_after,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM cash_transactions` + where +
		fmt.Sprintf(" ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC LIMIT $%d;", argPos)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "failed to query cash transactions", err)
	}
	defer rows.Close()

	txns := []models.CashTransaction{}
	for rows.Next() {
		var m models.CashTransaction
		var documentID sql.NullString
		err := rows.Scan(
			&m.TransactionID,
			&m.Type,
			&m.Amount,
			&m.PaymentMethod,
			&m.Category,
			&m.EmployeeID,
			&m.Description,
			&documentID,
			&m.TransactionDate,
			&m.BalanceAfter,
			&m.TotalAfter,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, 0, nil, apperrors.NewAppError(500, "failed to scan cash transaction row", err)
		}
		if documentID.Valid {
			m.DocumentID = &documentID.String
		}
		txns = append(txns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "error iterating cash transaction rows", err)
	}

	var newNextToken *string
	if len(txns) == fetchLimit {
		txns = txns[:limit]
		lastTxn := txns[len(txns)-1]
		token := pagination.EncodeToken(lastTxn.TransactionDate, lastTxn.CreatedAt, lastTxn.TransactionID)
		newNextToken = &token
	}

	return mapping.ToDomainCashTransactions(txns), total, newNextToken, nil
}

// GetBalances returns the current balance of every payment method chain and
// the grand total. The total comes from the TOTAL row that every append
// updates under lock, not from re-summing the method rows, so the API reports
// the same figure the balance chain maintains.
func (r *PgxLedgerRepository) GetBalances(ctx context.Context) (map[domain.PaymentMethod]decimal.Decimal, decimal.Decimal, error) {
	query := `SELECT method, balance FROM register_balances;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, decimal.Zero, apperrors.NewAppError(500, "failed to query register balances", err)
	}
	defer rows.Close()

	total := decimal.Zero
	balances := make(map[domain.PaymentMethod]decimal.Decimal, len(domain.KnownPaymentMethods))
	for rows.Next() {
		var method string
		var balance decimal.Decimal
		if err := rows.Scan(&method, &balance); err != nil {
			return nil, decimal.Zero, apperrors.NewAppError(500, "failed to scan register balance row", err)
		}
		if method == methodTotal {
			total = balance
			continue
		}
		balances[domain.PaymentMethod(method)] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, decimal.Zero, apperrors.NewAppError(500, "error iterating register balance rows", err)
	}

	return balances, total, nil
}

// Summarize aggregates the ledger over [from, to] directly from the rows.
func (r *PgxLedgerRepository) Summarize(ctx context.Context, from, to time.Time) (*domain.LedgerSummary, error) {
	summary := &domain.LedgerSummary{
		CountByMethod:   make(map[domain.PaymentMethod]int64),
		CountByEmployee: make(map[string]int64),
	}

	totalsQuery := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'INCOME'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE'), 0)
		FROM cash_transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2;
	`
	err := r.Pool.QueryRow(ctx, totalsQuery, from, to).Scan(&summary.Income, &summary.Expense)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate ledger totals", err)
	}
	summary.Net = summary.Income.Sub(summary.Expense)

	methodQuery := `
		SELECT payment_method, COUNT(*)
		FROM cash_transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2
		GROUP BY payment_method;
	`
	methodRows, err := r.Pool.Query(ctx, methodQuery, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate ledger counts by method", err)
	}
	defer methodRows.Close()

	for methodRows.Next() {
		var method string
		var count int64
		if err := methodRows.Scan(&method, &count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan method count row", err)
		}
		summary.CountByMethod[domain.PaymentMethod(method)] = count
	}
	if err := methodRows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating method count rows", err)
	}

	employeeQuery := `
		SELECT employee_id, COUNT(*)
		FROM cash_transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2
		GROUP BY employee_id;
	`
	employeeRows, err := r.Pool.Query(ctx, employeeQuery, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate ledger counts by employee", err)
	}
	defer employeeRows.Close()

	for employeeRows.Next() {
		var employeeID string
		var count int64
		if err := employeeRows.Scan(&employeeID, &count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan employee count row", err)
		}
		summary.CountByEmployee[employeeID] = count
	}
	if err := employeeRows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating employee count rows", err)
	}

	return summary, nil
}
