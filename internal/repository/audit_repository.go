package repository

import (
	"context"

	"github.com/evenza/eventdesk-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository handles audit trail persistence.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// InsertBatch bulk-inserts audit entries via UNNEST in a single statement.
func (r *AuditRepository) InsertBatch(ctx context.Context, entries []model.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	emails := make([]string, len(entries))
	roles := make([]string, len(entries))
	actions := make([]string, len(entries))
	resourceTypes := make([]string, len(entries))
	resourceIDs := make([]string, len(entries))
	details := make([]string, len(entries))
	for i, e := range entries {
		emails[i] = e.UserEmail
		roles[i] = e.UserRole
		actions[i] = e.Action
		resourceTypes[i] = e.ResourceType
		resourceIDs[i] = e.ResourceID
		details[i] = e.Details
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (user_email, user_role, action, resource_type, resource_id, details)
		 SELECT * FROM UNNEST($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[])`,
		emails, roles, actions, resourceTypes, resourceIDs, details)
	return err
}
