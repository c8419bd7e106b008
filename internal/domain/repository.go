package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CalculationRun is one persisted suite execution: the run identity, the
// deterministic input hash and the serialized result. Owned by the
// external persistence layer; the engines only produce it.
type CalculationRun struct {
	ID              uuid.UUID
	TenantID        string
	PortfolioID     string
	CalculationDate time.Time
	InputHash       string
	Status          ComplianceStatus
	Result          []byte // canonical JSON of the SuiteResult
	CreatedAt       time.Time
}

// AuditEntry is one append-only audit-trail record tied to a run.
type AuditEntry struct {
	ID         uuid.UUID
	RunID      uuid.UUID
	Operation  string
	Detail     []byte // JSON lineage payload
	RecordedAt time.Time
}

// CalculationRunRepository defines the interface for run persistence operations
type CalculationRunRepository interface {
	// Create persists a completed calculation run
	Create(ctx context.Context, run *CalculationRun) error

	// GetByID retrieves a run by its ID
	// Returns ErrRunNotFound if no run exists
	GetByID(ctx context.Context, id uuid.UUID) (*CalculationRun, error)

	// ListByTenant retrieves the most recent runs for a tenant, newest first
	ListByTenant(ctx context.Context, tenantID string, limit int) ([]*CalculationRun, error)
}

// AuditLogRepository defines the interface for the append-only audit trail
type AuditLogRepository interface {
	// Append writes a new audit entry; entries are never updated or deleted
	Append(ctx context.Context, entry *AuditEntry) error
}
