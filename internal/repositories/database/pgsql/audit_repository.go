package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safarsoft/travel_agency_backoffice/internal/apperrors"
	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
	portsrepo "github.com/safarsoft/travel_agency_backoffice/internal/core/ports/repositories"
	"github.com/safarsoft/travel_agency_backoffice/internal/models"
	"github.com/safarsoft/travel_agency_backoffice/internal/utils/mapping"
	"github.com/safarsoft/travel_agency_backoffice/internal/utils/pagination"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the audit log.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepositoryFacade
var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

const insertAuditEntryQuery = `
	INSERT INTO audit_entries (entry_id, entity_type, entity_id, action, before_snapshot, after_snapshot, actor_id, actor_role, ip, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

// insertAuditEntryTx writes an audit entry inside an existing transaction.
// Every mutating repository in this package calls it so a mutation commits
// iff its audit record commits.
func insertAuditEntryTx(ctx context.Context, tx pgx.Tx, entry domain.AuditEntry) error {
	m := mapping.ToModelAuditEntry(entry)
	_, err := tx.Exec(ctx, insertAuditEntryQuery,
		m.EntryID,
		m.EntityType,
		m.EntityID,
		m.Action,
		m.Before,
		m.After,
		m.ActorID,
		m.ActorRole,
		m.IP,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit entry for "+m.EntityType+" "+m.EntityID, err)
	}
	return nil
}

// SaveEntry writes a standalone audit entry in its own transaction.
func (r *PgxAuditRepository) SaveEntry(ctx context.Context, entry domain.AuditEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertAuditEntryTx(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ListEntries retrieves a paginated list of audit entries, newest first, using
// token-based pagination on (created_at, entry_id). Entries written together
// in one transaction share a timestamp, so the entry ID breaks the tie and a
// page boundary between them cannot skip the later one. It also reports the
// total number of entries matching the filter.
func (r *PgxAuditRepository) ListEntries(ctx context.Context, filter portsrepo.AuditFilter, limit int, nextToken *string) ([]domain.AuditEntry, int64, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	addFilter := func(clause string, value interface{}) {
		where += fmt.Sprintf(" AND %s $%d", clause, argPos)
		args = append(args, value)
		argPos++
	}

	if filter.EntityType != nil {
		addFilter("entity_type =", *filter.EntityType)
	}
	if filter.EntityID != nil {
		addFilter("entity_id =", *filter.EntityID)
	}
	if filter.Action != nil {
		addFilter("action =", string(*filter.Action))
	}
	if filter.ActorID != nil {
		addFilter("actor_id =", *filter.ActorID)
	}
	if filter.From != nil {
		addFilter("created_at >=", *filter.From)
	}
	if filter.To != nil {
		addFilter("created_at <=", *filter.To)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM audit_entries` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "failed to count audit entries", err)
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeCursorToken(*nextToken)
		if decodeErr != nil {
			return nil, 0, nil, apperrors.NewAppError(400, "invalid pagination token", decodeErr)
		}
		where += fmt.Sprintf(" AND (created_at < $%d OR (created_at = $%d AND entry_id < $%d))", argPos, argPos, argPos+1)
		args = append(args, lastCreatedAt, lastEntryID)
		argPos += 2
	}

	query := `
		SELECT entry_id, entity_type, entity_id, action, before_snapshot, after_snapshot, actor_id, actor_role, ip, created_at
		FROM audit_entries` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, entry_id DESC LIMIT $%d;", argPos)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "failed to query audit entries", err)
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		err := rows.Scan(
			&e.EntryID,
			&e.EntityType,
			&e.EntityID,
			&e.Action,
			&e.Before,
			&e.After,
			&e.ActorID,
			&e.ActorRole,
			&e.IP,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, 0, nil, apperrors.NewAppError(500, "failed to scan audit entry row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, nil, apperrors.NewAppError(500, "error iterating audit entry rows", err)
	}

	var newNextToken *string
	if len(entries) == fetchLimit {
		entries = entries[:limit]
		lastEntry := entries[len(entries)-1]
		token := pagination.EncodeCursorToken(lastEntry.CreatedAt, lastEntry.EntryID)
		newNextToken = &token
	}

	result := make([]domain.AuditEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, mapping.ToDomainAuditEntry(e))
	}
	return result, total, newNextToken, nil
}
