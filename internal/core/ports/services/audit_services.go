package services

import (
	"context"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
)

// AuditSvcFacade defines read access to the audit log.
type AuditSvcFacade interface {
	// QueryLog returns a page of audit entries, newest first. Admin only.
	QueryLog(ctx context.Context, params dto.ListAuditEntriesParams, actor domain.Actor) (*dto.ListAuditEntriesResponse, error)
}
