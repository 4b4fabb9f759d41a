package models

import "time"

// AuditEntry is the audit_entries table row. Before/after snapshots are
// stored as jsonb.
type AuditEntry struct {
	EntryID    string    `db:"entry_id"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Action     string    `db:"action"`
	Before     []byte    `db:"before_snapshot"` // Nullable jsonb
	After      []byte    `db:"after_snapshot"`  // Nullable jsonb
	ActorID    string    `db:"actor_id"`
	ActorRole  string    `db:"actor_role"`
	IP         string    `db:"ip"`
	CreatedAt  time.Time `db:"created_at"`
}
