package pgsql

import (
	"context"
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
)

type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customer data.
func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCustomerRepository implements portsrepo.CustomerRepositoryFacade
var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

const customerColumns = `
	customer_id, name, phone, email, address, national_id, notes, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanCustomerRow(row pgx.Row) (models.Customer, error) {
	var m models.Customer
	err := row.Scan(
		&m.CustomerID,
		&m.Name,
		&m.Phone,
		&m.Email,
		&m.Address,
		&m.NationalID,
		&m.Notes,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveCustomer inserts a customer and its audit entry within a DB transaction.
func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelCustomer(customer)
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		m.CustomerID,
		m.Name,
		m.Phone,
		m.Email,
		m.Address,
		m.NationalID,
		m.Notes,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert customer "+m.CustomerID, err)
	}

	if err := insertAuditEntryTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateCustomer updates customer details and writes the audit entry within a
// DB transaction.
func (r *PgxCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelCustomer(customer)
	query := `
		UPDATE customers
		SET name = $1, phone = $2, email = $3, address = $4, national_id = $5, notes = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE customer_id = $9 AND is_active = TRUE;
	`
	tag, err := tx.Exec(ctx, query,
		m.Name,
		m.Phone,
		m.Email,
		m.Address,
		m.NationalID,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.CustomerID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update customer "+m.CustomerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditEntryTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeactivateCustomer soft-deletes a customer so existing billing documents
// keep a resolvable reference.
func (r *PgxCustomerRepository) DeactivateCustomer(ctx context.Context, customer domain.Customer, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelCustomer(customer)
	query := `
		UPDATE customers
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE customer_id = $3 AND is_active = TRUE;
	`
	tag, err := tx.Exec(ctx, query, m.LastUpdatedAt, m.LastUpdatedBy, m.CustomerID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate customer "+m.CustomerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditEntryTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindCustomerByID retrieves a customer by its ID.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1;`

	m, err := scanCustomerRow(r.Pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find customer by ID "+customerID, err)
	}

	domainCustomer := mapping.ToDomainCustomer(m)
	return &domainCustomer, nil
}

// ListCustomers retrieves a paginated list of active customers, newest first,
// with the total count of matches. search, when set, matches against name or
// phone. The cursor carries (created_at, customer_id) so customers created in
// the same instant never straddle a page boundary.
func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, search *string, limit int, nextToken *string) ([]domain.Customer, int64, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	where := ` WHERE is_active = TRUE`
	args := []interface{}{}
	argPos := 1

	if search != nil && *search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR phone ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+*search+"%")
		argPos++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM customers` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "failed to count customers", err)
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastCustomerID, decodeErr := pagination.DecodeCursorToken(*nextToken)
		if decodeErr != nil {
			return nil, 0, nil, apperrors.NewAppError(400, "invalid pagination token", decodeErr)
		}
		where += fmt.Sprintf(" AND (created_at < $%d OR (created_at = $%d AND customer_id < $%d))", argPos, argPos, argPos+1)
		args = append(args, lastCreatedAt, lastCustomerID)
		argPos += 2
	}

	query := `SELECT ` + customerColumns + ` FROM customers` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, customer_id DESC LIMIT $%d;", argPos)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "failed to query customers", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		m, scanErr := scanCustomerRow(rows)
		if scanErr != nil {
			return nil, 0, nil, apperrors.NewAppError(500, "failed to scan customer row", scanErr)
		}
		customers = append(customers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "error iterating customer rows", err)
	}

	var newNextToken *string
	if len(customers) == fetchLimit {
		customers = customers[:limit]
		lastCustomer := customers[len(customers)-1]
		token := pagination.EncodeCursorToken(lastCustomer.CreatedAt, lastCustomer.CustomerID)
		newNextToken = &token
	}

	result := make([]domain.Customer, 0, len(customers))
	for _, m := range customers {
		result = append(result, mapping.ToDomainCustomer(m))
	}
	return result, total, newNextToken, nil
}
