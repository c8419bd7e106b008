package suite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/insurepro/regcalc-backend/internal/domain"
	"github.com/insurepro/regcalc-backend/internal/usecase/creditrisk"
	"github.com/insurepro/regcalc-backend/internal/usecase/guaranteefund"
	"github.com/insurepro/regcalc-backend/internal/usecase/liability"
	"github.com/insurepro/regcalc-backend/internal/usecase/solvency"
)

var (
	warningRatioFloor = decimal.RequireFromString("1.5")
	errorRatioFloor   = decimal.NewFromInt(1)
)

// Run executes the full regulatory calculation suite for one request:
// expected credit losses and insurance liabilities computed item by
// item, capital adequacy fed from their totals, the guarantee-fund levy
// from the resulting ratio, and the compliance verdict over all of it.
//
// Per-item computations fan out concurrently and land in index slots,
// so the aggregation sees the same ordering as the request regardless
// of scheduling. Engines are pure; Run performs no I/O.
func Run(ctx context.Context, req *domain.CalculationRequest, params domain.RegulatoryParams) (*domain.SuiteResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inputHash, err := InputHash(req)
	if err != nil {
		return nil, err
	}

	eclItems := make([]domain.ECLResult, len(req.Exposures))
	liabilityItems := make([]domain.LiabilityResult, len(req.Cohorts))

	g, ctx := errgroup.WithContext(ctx)
	for i := range req.Exposures {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := creditrisk.CalculateExposure(req.Exposures[i], params)
			if err != nil {
				return fmt.Errorf("exposure %s: %w", req.Exposures[i].ID, err)
			}
			eclItems[i] = *item
			return nil
		})
	}
	for i := range req.Cohorts {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := liability.CalculateCohort(req.Cohorts[i], req.RAMethod, params)
			if err != nil {
				return fmt.Errorf("cohort %s: %w", req.Cohorts[i].ID, err)
			}
			liabilityItems[i] = *item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ifrs9 := creditrisk.Aggregate(eclItems, params)
	ifrs17 := liability.Aggregate(liabilityItems)

	var solvencyResult *domain.SolvencyResult
	if req.Capital.IsZero() {
		// No balance-sheet breakdown supplied: measure reported own
		// funds directly against the minimum capital requirement.
		solvencyResult, err = solvency.FromOwnFunds(req.Risk, req.MinimumCapitalRequirement, params)
	} else {
		solvencyResult, err = solvency.Calculate(req.Capital, req.MinimumCapitalRequirement,
			ifrs9.TotalECL, ifrs17.TotalCSM, params)
	}
	if err != nil {
		return nil, err
	}

	contribution, err := guaranteefund.Calculate(req.Capital.GrossPremiums,
		solvencyResult.Ratio, req.RegulatoryViolations, params)
	if err != nil {
		return nil, err
	}

	compliance := evaluateCompliance(ifrs9, ifrs17, solvencyResult)

	return &domain.SuiteResult{
		RunID:           uuid.New(),
		TenantID:        req.TenantID,
		PortfolioID:     req.PortfolioID,
		CalculationDate: req.CalculationDate,
		InputHash:       inputHash,
		IFRS9:           *ifrs9,
		IFRS17:          *ifrs17,
		Solvency:        *solvencyResult,
		Contribution:    *contribution,
		Compliance:      compliance,
	}, nil
}

// evaluateCompliance runs the ordered business-rule list over the
// assembled results. Warnings are collected before errors so the report
// reads in escalating severity; findings are data, never raised.
func evaluateCompliance(ifrs9 *domain.PortfolioECLResult, ifrs17 *domain.PortfolioLiabilityResult, solvencyResult *domain.SolvencyResult) domain.ComplianceReport {
	report := domain.ComplianceReport{
		Status:   domain.ComplianceCompliant,
		Warnings: []string{},
		Errors:   []string{},
	}

	if len(ifrs17.OnerousCohorts) > 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"%d onerous cohort(s) with immediate loss recognition totalling %s",
			len(ifrs17.OnerousCohorts), ifrs17.TotalOnerousLoss))
	}
	report.Warnings = append(report.Warnings, ifrs9.Warnings...)
	if solvencyResult.Ratio.LessThan(warningRatioFloor) {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"solvency ratio %s below the comfort threshold 1.5", solvencyResult.Ratio))
	}

	if solvencyResult.Ratio.LessThan(errorRatioFloor) {
		report.Errors = append(report.Errors, fmt.Sprintf(
			"solvency ratio %s below the regulatory minimum 1.0", solvencyResult.Ratio))
	}

	switch {
	case len(report.Errors) > 0:
		report.Status = domain.ComplianceError
	case len(report.Warnings) > 0:
		report.Status = domain.ComplianceWarning
	}
	return report
}
