package dto

import (
	"encoding/json"
	"time"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
)

// ListAuditEntriesParams are the query parameters for the audit log.
type ListAuditEntriesParams struct {
	EntityType *string    `form:"entityType"`
	EntityID   *string    `form:"entityID"`
	Action     *string    `form:"action"`
	ActorID    *string    `form:"actorID"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Limit      int        `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken  *string    `form:"nextToken"`
}

// AuditEntryResponse is the API shape of an audit entry.
type AuditEntryResponse struct {
	EntryID    string          `json:"entryID"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityID"`
	Action     string          `json:"action"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	ActorID    string          `json:"actorID"`
	ActorRole  string          `json:"actorRole"`
	IP         string          `json:"ip,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ToAuditEntryResponse converts a domain.AuditEntry to its DTO.
func ToAuditEntryResponse(e *domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		EntryID:    e.EntryID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     string(e.Action),
		Before:     e.Before,
		After:      e.After,
		ActorID:    e.ActorID,
		ActorRole:  e.ActorRole,
		IP:         e.IP,
		CreatedAt:  e.CreatedAt,
	}
}

// ListAuditEntriesResponse is a page of audit entries, newest first. Total
// counts every entry matching the filter, not just this page.
type ListAuditEntriesResponse struct {
	Items     []AuditEntryResponse `json:"items"`
	Total     int64                `json:"total"`
	NextToken *string              `json:"nextToken,omitempty"`
}
