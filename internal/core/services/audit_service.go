package services

import (
	"context"
	"fmt"

	"github.com/safarsoft/travel_agency_backoffice/internal/apperrors"
	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	portsrepo "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/repositories"
	portssvc "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/services"
	"github.com/safarsoft/travel_agency_backoffice/internal/dto"
)

// auditService provides read access to the audit log.
type auditService struct {
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// QueryLog implements portssvc.AuditSvcFacade.
func (s *auditService) QueryLog(ctx context.Context, params dto.ListAuditEntriesParams, actor domain.Actor) (*dto.ListAuditEntriesResponse, error) {
	if !actor.Role.Meets(domain.RoleAdmin) {
		return nil, fmt.Errorf("%w: audit log requires admin role", apperrors.ErrForbidden)
	}

	filter := portsrepo.AuditFilter{
		EntityType: params.EntityType,
		EntityID:   params.EntityID,
		ActorID:    params.ActorID,
		From:       params.From,
		To:         params.To,
	}
	if params.Action != nil {
		action := domain.AuditAction(*params.Action)
		filter.Action = &action
	}

	entries, total, nextToken, err := s.auditRepo.ListEntries(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AuditEntryResponse, len(entries))
	for i, entry := range entries {
		items[i] = dto.ToAuditEntryResponse(&entry)
	}
	return &dto.ListAuditEntriesResponse{Items: items, Total: total, NextToken: nextToken}, nil
}
