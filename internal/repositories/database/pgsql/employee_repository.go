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

type PgxEmployeeRepository struct {
	BaseRepository
}

// newPgxEmployeeRepository creates a new repository for employee data.
func newPgxEmployeeRepository(pool *pgxpool.Pool) portsrepo.EmployeeRepositoryFacade {
	return &PgxEmployeeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxEmployeeRepository implements portsrepo.EmployeeRepositoryFacade
var _ portsrepo.EmployeeRepositoryFacade = (*PgxEmployeeRepository)(nil)

const employeeColumns = `
	employee_id, username, password_hash, full_name, role, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanEmployeeRow(row pgx.Row) (models.Employee, error) {
	var m models.Employee
	err := row.Scan(
		&m.EmployeeID,
		&m.Username,
		&m.PasswordHash,
		&m.FullName,
		&m.Role,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveEmployee inserts an employee and its audit entry within a DB
// transaction. A username collision surfaces as ErrDuplicate.
func (r *PgxEmployeeRepository) SaveEmployee(ctx context.Context, employee domain.Employee, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelEmployee(employee)
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query,
		m.EmployeeID,
		m.Username,
		m.PasswordHash,
		m.FullName,
		m.Role,
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
		return apperrors.NewAppError(500, "failed to insert employee "+m.EmployeeID, err)
	}

	if err := insertAuditEntryTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeactivateEmployee soft-deletes an employee so past ledger and audit rows
// keep a resolvable actor reference.
func (r *PgxEmployeeRepository) DeactivateEmployee(ctx context.Context, employee domain.Employee, audit domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelEmployee(employee)
	query := `
		UPDATE employees
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE employee_id = $3 AND is_active = TRUE;
	`
	tag, err := tx.Exec(ctx, query, m.LastUpdatedAt, m.LastUpdatedBy, m.EmployeeID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate employee "+m.EmployeeID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditEntryTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindEmployeeByID retrieves an employee by its ID.
func (r *PgxEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = $1;`

	m, err := scanEmployeeRow(r.Pool.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find employee by ID "+employeeID, err)
	}

	domainEmployee := mapping.ToDomainEmployee(m)
	return &domainEmployee, nil
}

// FindEmployeeByUsername retrieves an employee by username, used by login.
func (r *PgxEmployeeRepository) FindEmployeeByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE username = $1;`

	m, err := scanEmployeeRow(r.Pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find employee by username", err)
	}

	domainEmployee := mapping.ToDomainEmployee(m)
	return &domainEmployee, nil
}

// ListEmployees retrieves a paginated list of employees, newest first, with
// the total employee count. The cursor carries (created_at, employee_id) so
// accounts created in the same instant never straddle a page boundary.
func (r *PgxEmployeeRepository) ListEmployees(ctx context.Context, limit int, nextToken *string) ([]domain.Employee, int64, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	var total int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees;`).Scan(&total); err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "failed to count employees", err)
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastEmployeeID, decodeErr := pagination.DecodeCursorToken(*nextToken)
		if decodeErr != nil {
			return nil, 0, nil, apperrors.NewAppError(400, "invalid pagination token", decodeErr)
		}
		query += fmt.Sprintf(" AND (created_at < $%d OR (created_at = $%d AND employee_id < $%d))", argPos, argPos, argPos+1)
		args = append(args, lastCreatedAt, lastEmployeeID)
		argPos += 2
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, employee_id DESC LIMIT $%d;", argPos)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "failed to query employees", err)
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		m, scanErr := scanEmployeeRow(rows)
		if scanErr != nil {
			return nil, 0, nil, apperrors.NewAppError(500, "failed to scan employee row", scanErr)
		}
		employees = append(employees, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "error iterating employee rows", err)
	}

	var newNextToken *string
	if len(employees) == fetchLimit {
		employees = employees[:limit]
		lastEmployee := employees[len(employees)-1]
		token := pagination.EncodeCursorToken(lastEmployee.CreatedAt, lastEmployee.EmployeeID)
		newNextToken = &token
	}

	result := make([]domain.Employee, 0, len(employees))
	for _, m := range employees {
		result = append(result, mapping.ToDomainEmployee(m))
	}
	return result, total, newNextToken, nil
}
