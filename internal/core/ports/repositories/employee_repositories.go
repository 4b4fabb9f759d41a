package repositories

import (
	"context"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
)

// EmployeeReader defines read operations for employees.
type EmployeeReader interface {
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)
	FindEmployeeByUsername(ctx context.Context, username string) (*domain.Employee, error)
	ListEmployees(ctx context.Context, limit int, nextToken *string) ([]domain.Employee, int64, *string, error)
}

// EmployeeWriter defines write operations for employees. Each write inserts
// the given audit entry in the same database transaction.
type EmployeeWriter interface {
	SaveEmployee(ctx context.Context, employee domain.Employee, audit domain.AuditEntry) error
	DeactivateEmployee(ctx context.Context, employee domain.Employee, audit domain.AuditEntry) error
}

// EmployeeRepositoryFacade combines all employee repository interfaces.
type EmployeeRepositoryFacade interface {
	EmployeeReader
	EmployeeWriter
}
