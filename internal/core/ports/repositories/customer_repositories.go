package repositories

import (
	"context"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
)

// CustomerReader defines read operations for customers.
type CustomerReader interface {
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// ListCustomers retrieves a page of active customers, newest first, along
	// with the total count of matches. search, when non-nil, matches against
	// name or phone.
	ListCustomers(ctx context.Context, search *string, limit int, nextToken *string) ([]domain.Customer, int64, *string, error)
}

// CustomerWriter defines write operations for customers. Each write inserts
// the given audit entry in the same database transaction.
type CustomerWriter interface {
	SaveCustomer(ctx context.Context, customer domain.Customer, audit domain.AuditEntry) error
	UpdateCustomer(ctx context.Context, customer domain.Customer, audit domain.AuditEntry) error

	// DeactivateCustomer soft-deletes so billing documents keep a resolvable
	// customer reference.
	DeactivateCustomer(ctx context.Context, customer domain.Customer, audit domain.AuditEntry) error
}

// CustomerRepositoryFacade combines all customer repository interfaces.
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
}
