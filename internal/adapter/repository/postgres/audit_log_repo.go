package postgres

import (
	"context"
	"fmt"

	"github.com/insurepro/regcalc-backend/internal/domain"
)

// auditLogRepository implements domain.AuditLogRepository
type auditLogRepository struct {
	db *DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *DB) domain.AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Append writes a new audit entry. The table carries no UPDATE or
// DELETE path anywhere in this package; the trail only grows.
func (r *auditLogRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	query := `
		INSERT INTO audit_log (id, run_id, operation, detail, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.RunID,
		entry.Operation,
		entry.Detail,
		entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
