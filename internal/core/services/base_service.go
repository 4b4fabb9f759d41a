package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/safarsoft/travel_agency_backoffice/internal/apperrors"
	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
)

// maxConflictRetries bounds the internal retries on lost-update conflicts.
// Conflicts are the only error class retried by the services; everything else
// surfaces verbatim.
const maxConflictRetries = 3

// withConflictRetry runs fn, retrying with linear backoff while it fails with
// apperrors.ErrConcurrencyConflict.
func withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = fn()
		if !errors.Is(err, apperrors.ErrConcurrencyConflict) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
	return err
}

// snapshot marshals an entity into an audit snapshot. Credential fields are
// excluded by the domain types' JSON tags, so a snapshot is safe to store.
func snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// newAuditEntry builds the immutable audit record accompanying a mutation.
// Repositories insert it in the same database transaction as the mutation.
func newAuditEntry(entityType, entityID string, action domain.AuditAction, before, after any, actor domain.Actor, now time.Time) domain.AuditEntry {
	return domain.AuditEntry{
		EntryID:    uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Before:     snapshot(before),
		After:      snapshot(after),
		ActorID:    actor.EmployeeID,
		ActorRole:  string(actor.Role),
		IP:         actor.IP,
		CreatedAt:  now,
	}
}

// Audit entity type names shared by the services.
const (
	entityCashTransaction = "cash_transaction"
	entityBillingDocument = "billing_document"
	entityCustomer        = "customer"
	entityEmployee        = "employee"
)
