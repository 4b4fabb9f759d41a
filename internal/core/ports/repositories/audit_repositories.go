package repositories

import (
	"context"
	"time"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
)

// AuditFilter narrows an audit log query. Nil fields match everything.
type AuditFilter struct {
	EntityType *string
	EntityID   *string
	Action     *domain.AuditAction
	ActorID    *string
	From       *time.Time
	To         *time.Time
}

// AuditReader defines read operations for the audit log.
type AuditReader interface {
	// ListEntries retrieves a page of audit entries, newest first, along with
	// the total count of entries matching the filter. The cursor is unique per
	// entry so entries sharing a timestamp are never skipped across pages.
	ListEntries(ctx context.Context, filter AuditFilter, limit int, nextToken *string) ([]domain.AuditEntry, int64, *string, error)
}

// AuditWriter defines write operations for the audit log. Mutating
// repositories write entries inside their own transactions; this standalone
// writer exists for subsystems without a dedicated repository transaction.
type AuditWriter interface {
	SaveEntry(ctx context.Context, entry domain.AuditEntry) error
}

// AuditRepositoryFacade combines all audit repository interfaces.
type AuditRepositoryFacade interface {
	AuditReader
	AuditWriter
}
