package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	ledgerRepo := newPgxLedgerRepository(dbPool)
	documentRepo := newPgxDocumentRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	customerRepo := newPgxCustomerRepository(dbPool)
	employeeRepo := newPgxEmployeeRepository(dbPool)

	return portsrepo.RepositoryProvider{
		LedgerRepo:   ledgerRepo,
		DocumentRepo: documentRepo,
		AuditRepo:    auditRepo,
		CustomerRepo: customerRepo,
		EmployeeRepo: employeeRepo,
	}
}
