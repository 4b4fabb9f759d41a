package services

import (
	"context"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
)

// EmployeeSvcFacade defines employee management and authentication.
type EmployeeSvcFacade interface {
	// Authenticate verifies credentials and returns the active employee.
	Authenticate(ctx context.Context, username, password string) (*domain.Employee, error)

	// CreateEmployee creates an employee account. Admin only.
	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, actor domain.Actor) (*domain.Employee, error)

	GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error)

	// ListEmployees returns a page of employees plus the total employee
	// count. Admin only.
	ListEmployees(ctx context.Context, limit int, nextToken *string, actor domain.Actor) ([]domain.Employee, int64, *string, error)

	// DeactivateEmployee disables login without deleting history. Admin only.
	DeactivateEmployee(ctx context.Context, employeeID string, actor domain.Actor) error
}
