package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/safarsoft/travel_agency_backoffice/internal/apperrors"
	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	portsrepo "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/repositories"
	portssvc "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/services"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
	"github.com/safarsoft/travel_agency_backoffice/internal/middleware"
	"github.com/safarsoft/travel_agency_backoffice/internal/utils"
)

// ErrInvalidCredentials is returned by Authenticate for a bad username or
// password. Deliberately indistinguishable between the two.
var ErrInvalidCredentials = errors.New("invalid username or password")

// employeeService provides employee management and authentication.
type employeeService struct {
	employeeRepo portsrepo.EmployeeRepositoryFacade
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(employeeRepo portsrepo.EmployeeRepositoryFacade) portssvc.EmployeeSvcFacade {
	return &employeeService{employeeRepo: employeeRepo}
}

var _ portssvc.EmployeeSvcFacade = (*employeeService)(nil)

// Authenticate implements portssvc.EmployeeSvcFacade.
func (s *employeeService) Authenticate(ctx context.Context, username, password string) (*domain.Employee, error) {
	employee, err := s.employeeRepo.FindEmployeeByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !employee.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, employee.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return employee, nil
}

// CreateEmployee implements portssvc.EmployeeSvcFacade.
func (s *employeeService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, actor domain.Actor) (*domain.Employee, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.Meets(domain.RoleAdmin) {
		return nil, fmt.Errorf("%w: managing employees requires admin role", apperrors.ErrForbidden)
	}

	if existing, err := s.employeeRepo.FindEmployeeByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username %q", apperrors.ErrDuplicate, req.Username)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	employee := domain.Employee{
		EmployeeID:   uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         domain.EmployeeRole(req.Role),
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.EmployeeID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.EmployeeID,
		},
	}

	// The snapshot excludes the password hash via the domain JSON tags.
	audit := newAuditEntry(entityEmployee, employee.EmployeeID, domain.ActionCreate, nil, employee, actor, now)
	if err := s.employeeRepo.SaveEmployee(ctx, employee, audit); err != nil {
		logger.Error("Failed to create employee", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Employee created", slog.String("employee_id", employee.EmployeeID), slog.String("role", req.Role))
	return &employee, nil
}

// GetEmployee implements portssvc.EmployeeSvcFacade.
func (s *employeeService) GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	return s.employeeRepo.FindEmployeeByID(ctx, employeeID)
}

// ListEmployees implements portssvc.EmployeeSvcFacade.
func (s *employeeService) ListEmployees(ctx context.Context, limit int, nextToken *string, actor domain.Actor) ([]domain.Employee, int64, *string, error) {
	if !actor.Role.Meets(domain.RoleAdmin) {
		return nil, 0, nil, fmt.Errorf("%w: listing employees requires admin role", apperrors.ErrForbidden)
	}
	return s.employeeRepo.ListEmployees(ctx, limit, nextToken)
}

// DeactivateEmployee implements portssvc.EmployeeSvcFacade.
func (s *employeeService) DeactivateEmployee(ctx context.Context, employeeID string, actor domain.Actor) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.Meets(domain.RoleAdmin) {
		return fmt.Errorf("%w: managing employees requires admin role", apperrors.ErrForbidden)
	}

	employee, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	updated := *employee
	updated.IsActive = false
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actor.EmployeeID

	audit := newAuditEntry(entityEmployee, employeeID, domain.ActionDelete, employee, updated, actor, now)
	if err := s.employeeRepo.DeactivateEmployee(ctx, updated, audit); err != nil {
		logger.Error("Failed to deactivate employee", slog.String("error", err.Error()), slog.String("employee_id", employeeID))
		return err
	}

	logger.Info("Employee deactivated", slog.String("employee_id", employeeID))
	return nil
}
