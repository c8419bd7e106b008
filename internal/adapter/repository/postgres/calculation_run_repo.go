package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/insurepro/regcalc-backend/internal/domain"
)

// calculationRunRepository implements domain.CalculationRunRepository
type calculationRunRepository struct {
	db *DB
}

// NewCalculationRunRepository creates a new calculation run repository
func NewCalculationRunRepository(db *DB) domain.CalculationRunRepository {
	return &calculationRunRepository{db: db}
}

// Create persists a completed calculation run
func (r *calculationRunRepository) Create(ctx context.Context, run *domain.CalculationRun) error {
	query := `
		INSERT INTO calculation_runs (id, tenant_id, portfolio_id, calculation_date, input_hash, status, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.TenantID,
		run.PortfolioID,
		run.CalculationDate,
		run.InputHash,
		string(run.Status),
		run.Result,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert calculation run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID
func (r *calculationRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CalculationRun, error) {
	query := `
		SELECT id, tenant_id, portfolio_id, calculation_date, input_hash, status, result, created_at
		FROM calculation_runs
		WHERE id = $1
	`

	var run domain.CalculationRun
	var status string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.TenantID,
		&run.PortfolioID,
		&run.CalculationDate,
		&run.InputHash,
		&status,
		&run.Result,
		&run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get calculation run by ID: %w", err)
	}
	run.Status = domain.ComplianceStatus(status)

	return &run, nil
}

// ListByTenant retrieves the most recent runs for a tenant, newest first
func (r *calculationRunRepository) ListByTenant(ctx context.Context, tenantID string, limit int) ([]*domain.CalculationRun, error) {
	query := `
		SELECT id, tenant_id, portfolio_id, calculation_date, input_hash, status, result, created_at
		FROM calculation_runs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculation runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.CalculationRun
	for rows.Next() {
		var run domain.CalculationRun
		var status string
		if err := rows.Scan(
			&run.ID,
			&run.TenantID,
			&run.PortfolioID,
			&run.CalculationDate,
			&run.InputHash,
			&status,
			&run.Result,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan calculation run: %w", err)
		}
		run.Status = domain.ComplianceStatus(status)
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calculation runs: %w", err)
	}

	return runs, nil
}
