package domain

import (
	"encoding/json"
	"time"
)

// AuditAction names the mutation an audit entry records.
type AuditAction string

const (
	ActionCreate  AuditAction = "CREATE"
	ActionUpdate  AuditAction = "UPDATE"
	ActionIssue   AuditAction = "ISSUE"
	ActionPayment AuditAction = "PAYMENT"
	ActionCancel  AuditAction = "CANCEL"
	ActionConvert AuditAction = "CONVERT"
	ActionDelete  AuditAction = "DELETE"
)

// AuditEntry is an immutable before/after record of a single mutation.
// Entries are written in the same database transaction as the mutation they
// describe; a mutation whose audit entry fails is not committed.
type AuditEntry struct {
	EntryID    string          `json:"entryID"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityID"`
	Action     AuditAction     `json:"action"`
	Before     json.RawMessage `json:"before,omitempty"` // Sanitized snapshot, nil for creates
	After      json.RawMessage `json:"after,omitempty"`  // Sanitized snapshot, nil for deletes
	ActorID    string          `json:"actorID"`
	ActorRole  string          `json:"actorRole"`
	IP         string          `json:"ip,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}
