package services

import (
	portsrepo "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/repositories"
	portssvc "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Ledger:   NewLedgerService(repos.LedgerRepo),
		Document: NewDocumentService(repos.DocumentRepo),
		Audit:    NewAuditService(repos.AuditRepo),
		Customer: NewCustomerService(repos.CustomerRepo),
		Employee: NewEmployeeService(repos.EmployeeRepo),
	}
}
