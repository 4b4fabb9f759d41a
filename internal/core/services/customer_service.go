package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	portsrepo "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/repositories"
	portssvc "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/services"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
	"github.com/safarsoft/travel_agency_backoffice/internal/middleware"
)

// customerService provides customer management.
type customerService struct {
	customerRepo portsrepo.CustomerRepositoryFacade
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customerRepo portsrepo.CustomerRepositoryFacade) portssvc.CustomerSvcFacade {
	return &customerService{customerRepo: customerRepo}
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

// CreateCustomer implements portssvc.CustomerSvcFacade.
func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, actor domain.Actor) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID: uuid.NewString(),
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		NationalID: req.NationalID,
		Notes:      req.Notes,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.EmployeeID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.EmployeeID,
		},
	}

	audit := newAuditEntry(entityCustomer, customer.CustomerID, domain.ActionCreate, nil, customer, actor, now)
	if err := s.customerRepo.SaveCustomer(ctx, customer, audit); err != nil {
		logger.Error("Failed to create customer", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Customer created", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

// GetCustomer implements portssvc.CustomerSvcFacade.
func (s *customerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	return s.customerRepo.FindCustomerByID(ctx, customerID)
}

// ListCustomers implements portssvc.CustomerSvcFacade.
func (s *customerService) ListCustomers(ctx context.Context, params dto.ListCustomersParams) (*dto.ListCustomersResponse, error) {
	customers, total, nextToken, err := s.customerRepo.ListCustomers(ctx, params.Search, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CustomerResponse, len(customers))
	for i, customer := range customers {
		items[i] = dto.ToCustomerResponse(&customer)
	}
	return &dto.ListCustomersResponse{Items: items, Total: total, NextToken: nextToken}, nil
}

// UpdateCustomer implements portssvc.CustomerSvcFacade.
func (s *customerService) UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest, actor domain.Actor) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	updated := *customer
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Phone != nil {
		updated.Phone = *req.Phone
	}
	if req.Email != nil {
		updated.Email = *req.Email
	}
	if req.Address != nil {
		updated.Address = *req.Address
	}
	if req.NationalID != nil {
		updated.NationalID = *req.NationalID
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actor.EmployeeID

	audit := newAuditEntry(entityCustomer, customerID, domain.ActionUpdate, customer, updated, actor, now)
	if err := s.customerRepo.UpdateCustomer(ctx, updated, audit); err != nil {
		logger.Error("Failed to update customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		return nil, err
	}

	return &updated, nil
}

// DeactivateCustomer implements portssvc.CustomerSvcFacade.
func (s *customerService) DeactivateCustomer(ctx context.Context, customerID string, actor domain.Actor) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	updated := *customer
	updated.IsActive = false
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actor.EmployeeID

	audit := newAuditEntry(entityCustomer, customerID, domain.ActionDelete, customer, updated, actor, now)
	if err := s.customerRepo.DeactivateCustomer(ctx, updated, audit); err != nil {
		logger.Error("Failed to deactivate customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		return err
	}

	logger.Info("Customer deactivated", slog.String("customer_id", customerID))
	return nil
}
