package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/safarsoft/travel_agency_backoffice/internal/apperrors"
	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	portsrepo "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/repositories"
	portssvc "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/services"
	"github.com/safarsoft/travel_agency_backoffice/internal/core/services"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
	"github.com/safarsoft/travel_agency_backoffice/internal/utils"
)

// --- Mock EmployeeRepository ---
type MockEmployeeRepository struct {
	mock.Mock
}

// Ensure MockEmployeeRepository implements portsrepo.EmployeeRepositoryFacade
var _ portsrepo.EmployeeRepositoryFacade = (*MockEmployeeRepository)(nil)

func (m *MockEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindEmployeeByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) ListEmployees(ctx context.Context, limit int, nextToken *string) ([]domain.Employee, int64, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, 0, nil, args.Error(3)
	}
	var returnedNextToken *string
	if args.Get(2) != nil {
		tokenVal := args.Get(2).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Employee), args.Get(1).(int64), returnedNextToken, args.Error(3)
}

func (m *MockEmployeeRepository) SaveEmployee(ctx context.Context, employee domain.Employee, audit domain.AuditEntry) error {
	args := m.Called(ctx, employee, audit)
	return args.Error(0)
}

func (m *MockEmployeeRepository) DeactivateEmployee(ctx context.Context, employee domain.Employee, audit domain.AuditEntry) error {
	args := m.Called(ctx, employee, audit)
	return args.Error(0)
}

// --- Test Suite Setup ---
type EmployeeServiceTestSuite struct {
	suite.Suite
	mockEmployeeRepo *MockEmployeeRepository
	service          portssvc.EmployeeSvcFacade
	admin            domain.Actor
	accountant       domain.Actor
}

func (suite *EmployeeServiceTestSuite) SetupTest() {
	suite.mockEmployeeRepo = new(MockEmployeeRepository)
	suite.service = services.NewEmployeeService(suite.mockEmployeeRepo)

	suite.admin = domain.Actor{EmployeeID: uuid.NewString(), Role: domain.RoleAdmin}
	suite.accountant = domain.Actor{EmployeeID: uuid.NewString(), Role: domain.RoleAccountant}
}

func (suite *EmployeeServiceTestSuite) newEmployee(password string, active bool) *domain.Employee {
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	return &domain.Employee{
		EmployeeID:   uuid.NewString(),
		Username:     "fatima.agent",
		PasswordHash: hash,
		FullName:     "Fatima Al-Harbi",
		Role:         domain.RoleAgent,
		IsActive:     active,
	}
}

// --- Authenticate ---

func (suite *EmployeeServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	employee := suite.newEmployee("correct horse battery", true)

	suite.mockEmployeeRepo.On("FindEmployeeByUsername", ctx, employee.Username).Return(employee, nil).Once()

	result, err := suite.service.Authenticate(ctx, employee.Username, "correct horse battery")

	suite.Require().NoError(err)
	suite.Equal(employee.EmployeeID, result.EmployeeID)
	suite.mockEmployeeRepo.AssertExpectations(suite.T())
}

func (suite *EmployeeServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	employee := suite.newEmployee("correct horse battery", true)

	suite.mockEmployeeRepo.On("FindEmployeeByUsername", ctx, employee.Username).Return(employee, nil).Once()

	_, err := suite.service.Authenticate(ctx, employee.Username, "wrong password")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *EmployeeServiceTestSuite) TestAuthenticate_UnknownUsername() {
	ctx := context.Background()

	suite.mockEmployeeRepo.On("FindEmployeeByUsername", ctx, "nobody").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Authenticate(ctx, "nobody", "whatever")

	suite.Require().Error(err)
	// Unknown user and wrong password must be indistinguishable.
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *EmployeeServiceTestSuite) TestAuthenticate_InactiveEmployee() {
	ctx := context.Background()
	employee := suite.newEmployee("correct horse battery", false)

	suite.mockEmployeeRepo.On("FindEmployeeByUsername", ctx, employee.Username).Return(employee, nil).Once()

	_, err := suite.service.Authenticate(ctx, employee.Username, "correct horse battery")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

// --- CreateEmployee ---

func (suite *EmployeeServiceTestSuite) TestCreateEmployee_Success() {
	ctx := context.Background()
	req := dto.CreateEmployeeRequest{
		Username: "omar.accountant",
		Password: "a long enough password",
		FullName: "Omar Basha",
		Role:     string(domain.RoleAccountant),
	}

	suite.mockEmployeeRepo.On("FindEmployeeByUsername", ctx, req.Username).Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.Employee
	suite.mockEmployeeRepo.On("SaveEmployee", ctx, mock.AnythingOfType("domain.Employee"), mock.AnythingOfType("domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Employee)
		}).
		Return(nil).Once()

	employee, err := suite.service.CreateEmployee(ctx, req, suite.admin)

	suite.Require().NoError(err)
	suite.Equal(req.Username, employee.Username)
	suite.Equal(domain.RoleAccountant, employee.Role)
	suite.True(employee.IsActive)
	suite.Equal(suite.admin.EmployeeID, employee.CreatedBy)

	suite.NotEqual(req.Password, saved.PasswordHash)
	suite.True(utils.CheckPasswordHash(req.Password, saved.PasswordHash))
	suite.mockEmployeeRepo.AssertExpectations(suite.T())
}

func (suite *EmployeeServiceTestSuite) TestCreateEmployee_RequiresAdmin() {
	ctx := context.Background()
	req := dto.CreateEmployeeRequest{Username: "x", Password: "password123", FullName: "X", Role: string(domain.RoleAgent)}

	_, err := suite.service.CreateEmployee(ctx, req, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockEmployeeRepo.AssertNotCalled(suite.T(), "SaveEmployee", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EmployeeServiceTestSuite) TestCreateEmployee_DuplicateUsername() {
	ctx := context.Background()
	existing := suite.newEmployee("irrelevant password", true)
	req := dto.CreateEmployeeRequest{
		Username: existing.Username,
		Password: "another password",
		FullName: "Someone Else",
		Role:     string(domain.RoleAgent),
	}

	suite.mockEmployeeRepo.On("FindEmployeeByUsername", ctx, req.Username).Return(existing, nil).Once()

	_, err := suite.service.CreateEmployee(ctx, req, suite.admin)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockEmployeeRepo.AssertNotCalled(suite.T(), "SaveEmployee", mock.Anything, mock.Anything, mock.Anything)
}

// --- ListEmployees / DeactivateEmployee ---

func (suite *EmployeeServiceTestSuite) TestListEmployees_RequiresAdmin() {
	ctx := context.Background()

	_, _, _, err := suite.service.ListEmployees(ctx, 20, nil, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockEmployeeRepo.AssertNotCalled(suite.T(), "ListEmployees", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EmployeeServiceTestSuite) TestListEmployees_ReportsTotal() {
	ctx := context.Background()
	stored := []domain.Employee{*suite.newEmployee("irrelevant password", true)}

	suite.mockEmployeeRepo.On("ListEmployees", ctx, 20, (*string)(nil)).
		Return(stored, int64(9), nil, nil).Once()

	employees, total, nextToken, err := suite.service.ListEmployees(ctx, 20, nil, suite.admin)

	suite.Require().NoError(err)
	suite.Len(employees, 1)
	suite.Equal(int64(9), total)
	suite.Nil(nextToken)
	suite.mockEmployeeRepo.AssertExpectations(suite.T())
}

func (suite *EmployeeServiceTestSuite) TestDeactivateEmployee_Success() {
	ctx := context.Background()
	employee := suite.newEmployee("irrelevant password", true)

	suite.mockEmployeeRepo.On("FindEmployeeByID", ctx, employee.EmployeeID).Return(employee, nil).Once()

	var updated domain.Employee
	suite.mockEmployeeRepo.On("DeactivateEmployee", ctx, mock.AnythingOfType("domain.Employee"), mock.AnythingOfType("domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.Employee)
		}).
		Return(nil).Once()

	err := suite.service.DeactivateEmployee(ctx, employee.EmployeeID, suite.admin)

	suite.Require().NoError(err)
	suite.False(updated.IsActive)
	suite.Equal(suite.admin.EmployeeID, updated.LastUpdatedBy)
	suite.mockEmployeeRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestEmployeeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EmployeeServiceTestSuite))
}
