package services

import (
	"context"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
)

// CustomerSvcFacade defines customer management operations.
type CustomerSvcFacade interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, actor domain.Actor) (*domain.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, params dto.ListCustomersParams) (*dto.ListCustomersResponse, error)
	UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest, actor domain.Actor) (*domain.Customer, error)
	DeactivateCustomer(ctx context.Context, customerID string, actor domain.Actor) error
}
