package mapping

import (
	"encoding/json"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	"github.com/safarsoft/travel_agency_backoffice/internal/models"
)

// ToModelAuditEntry converts a domain audit entry to its model.
func ToModelAuditEntry(d domain.AuditEntry) models.AuditEntry {
	return models.AuditEntry{
		EntryID:    d.EntryID,
		EntityType: d.EntityType,
		EntityID:   d.EntityID,
		Action:     string(d.Action),
		Before:     d.Before,
		After:      d.After,
		ActorID:    d.ActorID,
		ActorRole:  d.ActorRole,
		IP:         d.IP,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainAuditEntry converts a model audit entry to its domain form.
func ToDomainAuditEntry(m models.AuditEntry) domain.AuditEntry {
	return domain.AuditEntry{
		EntryID:    m.EntryID,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Action:     domain.AuditAction(m.Action),
		Before:     json.RawMessage(m.Before),
		After:      json.RawMessage(m.After),
		ActorID:    m.ActorID,
		ActorRole:  m.ActorRole,
		IP:         m.IP,
		CreatedAt:  m.CreatedAt,
	}
}
