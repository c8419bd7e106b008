package suite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/insurepro/regcalc-backend/internal/domain"
)

// Service runs the calculation suite and persists the run with its
// audit lineage. The orchestrator stays pure; all I/O lives here.
type Service struct {
	Params    domain.RegulatoryParams
	RunRepo   domain.CalculationRunRepository
	AuditRepo domain.AuditLogRepository
}

// NewService creates a new Service instance
func NewService(params domain.RegulatoryParams, runRepo domain.CalculationRunRepository, auditRepo domain.AuditLogRepository) *Service {
	return &Service{
		Params:    params,
		RunRepo:   runRepo,
		AuditRepo: auditRepo,
	}
}

// Calculate executes the suite for one request and records the run and
// an audit entry. A persistence failure is the request's failure: the
// audit trail is part of the contract, not best-effort, so the result
// is never returned without its lineage on record.
func (s *Service) Calculate(ctx context.Context, req *domain.CalculationRequest) (*domain.SuiteResult, error) {
	result, err := Run(ctx, req, s.Params)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode suite result: %w", err)
	}

	run := &domain.CalculationRun{
		ID:              result.RunID,
		TenantID:        result.TenantID,
		PortfolioID:     result.PortfolioID,
		CalculationDate: result.CalculationDate,
		InputHash:       result.InputHash,
		Status:          result.Compliance.Status,
		Result:          payload,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.RunRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("persist calculation run %s: %w", run.ID, err)
	}

	detail, err := json.Marshal(map[string]any{
		"input_hash":     result.InputHash,
		"status":         result.Compliance.Status,
		"exposure_count": len(req.Exposures),
		"cohort_count":   len(req.Cohorts),
	})
	if err != nil {
		return nil, fmt.Errorf("encode audit detail: %w", err)
	}
	entry := &domain.AuditEntry{
		ID:         uuid.New(),
		RunID:      run.ID,
		Operation:  "suite_calculation",
		Detail:     detail,
		RecordedAt: time.Now().UTC(),
	}
	if err := s.AuditRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append audit entry for run %s: %w", run.ID, err)
	}

	return result, nil
}

// GetRun fetches a persisted calculation run by its identifier.
func (s *Service) GetRun(ctx context.Context, id uuid.UUID) (*domain.CalculationRun, error) {
	return s.RunRepo.GetByID(ctx, id)
}

// ListRuns returns the most recent runs for a tenant, newest first.
func (s *Service) ListRuns(ctx context.Context, tenantID string, limit int) ([]*domain.CalculationRun, error) {
	return s.RunRepo.ListByTenant(ctx, tenantID, limit)
}
