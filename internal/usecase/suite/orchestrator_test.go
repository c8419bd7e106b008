package suite

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurepro/regcalc-backend/internal/domain"
)

// flatSuiteParams pins the macro multiplier at 1 so every suite figure
// can be asserted exactly.
func flatSuiteParams() domain.RegulatoryParams {
	params := domain.DefaultRegulatoryParams()
	params.Scenarios = []domain.MacroScenario{
		{Name: "flat", Multiplier: decimal.NewFromInt(1), Weight: decimal.NewFromInt(1)},
	}
	return params
}

// suiteRequest builds a request whose portfolio-level outcomes are known
// in closed form: total ECL 645.00, total CSM 3320.00, one onerous
// cohort, thin stage-3 coverage.
func suiteRequest() *domain.CalculationRequest {
	return &domain.CalculationRequest{
		TenantID:        "TEN-1",
		PortfolioID:     "PF-1",
		CalculationDate: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		RAMethod:        domain.RAMethodCostOfCapital,
		Exposures: []domain.Exposure{
			{
				ID:                  "S1",
				GrossCarryingAmount: decimal.NewFromInt(1000),
				PDOrigination:       decimal.RequireFromString("0.1"),
				PDCurrent:           decimal.RequireFromString("0.1"),
				LGD:                 decimal.RequireFromString("0.5"),
				RemainingTermYears:  5,
				EffectiveRate:       decimal.Zero,
			},
			{
				ID:                  "S2",
				GrossCarryingAmount: decimal.NewFromInt(1000),
				PDOrigination:       decimal.RequireFromString("0.1"),
				PDCurrent:           decimal.RequireFromString("0.1"),
				LGD:                 decimal.RequireFromString("0.5"),
				DaysPastDue:         45,
				RemainingTermYears:  2,
				EffectiveRate:       decimal.Zero,
			},
			{
				ID:                  "S3",
				GrossCarryingAmount: decimal.NewFromInt(1000),
				PDOrigination:       decimal.RequireFromString("0.5"),
				PDCurrent:           decimal.RequireFromString("0.5"),
				LGD:                 decimal.NewFromInt(1),
				DaysPastDue:         120,
				RemainingTermYears:  1,
				EffectiveRate:       decimal.Zero,
			},
		},
		Cohorts: []domain.InsuranceCohort{
			{
				ID:              "COH-OK",
				Model:           domain.ModelGMM,
				PremiumTotal:    decimal.NewFromInt(10_000),
				AnnualClaims:    decimal.NewFromInt(1000),
				AnnualExpenses:  decimal.NewFromInt(200),
				AcquisitionCost: decimal.NewFromInt(500),
				ContractTerm:    5,
				DiscountRate:    decimal.Zero,
			},
			{
				ID:              "COH-LOSS",
				Model:           domain.ModelVFA,
				PremiumTotal:    decimal.NewFromInt(5000),
				AnnualClaims:    decimal.NewFromInt(1000),
				AnnualExpenses:  decimal.NewFromInt(200),
				AcquisitionCost: decimal.NewFromInt(500),
				ContractTerm:    5,
				DiscountRate:    decimal.Zero,
			},
		},
		Capital: domain.CapitalPosition{
			GrossPremiums:  decimal.NewFromInt(10_000_000),
			IncurredClaims: decimal.NewFromInt(5_000_000),
			Equity:         decimal.NewFromInt(3_600_000),
			Retention:      decimal.NewFromInt(1),
		},
		MinimumCapitalRequirement: decimal.NewFromInt(1_000_000),
	}
}

func TestRun_FullSuiteFanInAndCrossFeeds(t *testing.T) {
	result, err := Run(context.Background(), suiteRequest(), flatSuiteParams())
	require.NoError(t, err)

	assert.NotEqual(t, "", result.RunID.String())
	assert.Equal(t, "TEN-1", result.TenantID)
	assert.Equal(t, "PF-1", result.PortfolioID)
	assert.Len(t, result.InputHash, 64)

	// IFRS 9: 50 + 95 + 500 across the three stages.
	assert.True(t, result.IFRS9.TotalECL.Equal(decimal.RequireFromString("645.00")),
		"expected total ECL 645.00, got %s", result.IFRS9.TotalECL)
	assert.Equal(t, 1, result.IFRS9.Stage3Count)

	// IFRS 17: 3320 from the profitable cohort, zero from the onerous.
	assert.True(t, result.IFRS17.TotalCSM.Equal(decimal.RequireFromString("3320.00")))
	assert.True(t, result.IFRS17.TotalOnerousLoss.Equal(decimal.RequireFromString("1680.00")))
	require.Len(t, result.IFRS17.OnerousCohorts, 1)

	// Solvency: margin 1,800,000 from premiums; own funds
	// 3,600,000 - 645 + 3320 = 3,602,675; ratio 2.0015 -> 2.00.
	assert.True(t, result.Solvency.MinimumMargin.Equal(decimal.RequireFromString("1800000.00")))
	assert.True(t, result.Solvency.OwnFunds.Equal(decimal.RequireFromString("3602675.00")),
		"expected own funds 3602675.00, got %s", result.Solvency.OwnFunds)
	assert.True(t, result.Solvency.Ratio.Equal(decimal.RequireFromString("2.00")))
	assert.Equal(t, domain.StatusWellCapitalized, result.Solvency.Status)

	// Guarantee fund: low tier, 10,000,000 * 0.005 * 1.
	assert.Equal(t, domain.RiskCategoryLow, result.Contribution.RiskCategory)
	assert.True(t, result.Contribution.TotalLevy.Equal(decimal.RequireFromString("50000.00")))

	// Compliance: onerous cohort and thin stage-3 coverage warn, the
	// ratio itself is healthy.
	assert.Equal(t, domain.ComplianceWarning, result.Compliance.Status)
	assert.Len(t, result.Compliance.Warnings, 2)
	assert.Empty(t, result.Compliance.Errors)
}

func TestRun_UndercapitalizedEscalatesToError(t *testing.T) {
	req := suiteRequest()
	req.Capital.Equity = decimal.NewFromInt(900_000)
	req.RegulatoryViolations = true

	result, err := Run(context.Background(), req, flatSuiteParams())
	require.NoError(t, err)

	// 902,675 / 1,800,000 = 0.5015 -> 0.50.
	assert.True(t, result.Solvency.Ratio.Equal(decimal.RequireFromString("0.50")))
	assert.Equal(t, domain.StatusUndercapitalized, result.Solvency.Status)

	assert.Equal(t, domain.ComplianceError, result.Compliance.Status)
	require.Len(t, result.Compliance.Errors, 1)
	assert.Contains(t, result.Compliance.Errors[0], "regulatory minimum")
	// Warnings still precede: onerous, stage-3 and the comfort floor.
	assert.Len(t, result.Compliance.Warnings, 3)

	// Critical tier with the violation surcharge:
	// 10,000,000 * 0.005 * 6 * 1.25.
	assert.Equal(t, domain.RiskCategoryCritical, result.Contribution.RiskCategory)
	assert.True(t, result.Contribution.TotalLevy.Equal(decimal.RequireFromString("375000.00")),
		"expected levy 375000.00, got %s", result.Contribution.TotalLevy)
}

func TestRun_FallsBackToReportedOwnFunds(t *testing.T) {
	req := suiteRequest()
	req.Capital = domain.CapitalPosition{Retention: decimal.Zero}
	req.Risk = domain.RiskParameters{OwnFunds: decimal.NewFromInt(2_000_000)}

	result, err := Run(context.Background(), req, flatSuiteParams())
	require.NoError(t, err)

	// Own funds measured straight against the capital requirement.
	assert.True(t, result.Solvency.Ratio.Equal(decimal.RequireFromString("2.00")))
	assert.True(t, result.Solvency.MinimumMargin.Equal(decimal.RequireFromString("1000000.00")))

	// No premium base, no levy.
	assert.True(t, result.Contribution.TotalLevy.IsZero())
}

func TestRun_ItemOrderMatchesRequestOrder(t *testing.T) {
	result, err := Run(context.Background(), suiteRequest(), flatSuiteParams())
	require.NoError(t, err)

	require.Len(t, result.IFRS9.Items, 3)
	assert.Equal(t, "S1", result.IFRS9.Items[0].ExposureID)
	assert.Equal(t, "S2", result.IFRS9.Items[1].ExposureID)
	assert.Equal(t, "S3", result.IFRS9.Items[2].ExposureID)

	require.Len(t, result.IFRS17.Items, 2)
	assert.Equal(t, "COH-OK", result.IFRS17.Items[0].CohortID)
	assert.Equal(t, "COH-LOSS", result.IFRS17.Items[1].CohortID)
}

func TestRun_RejectsInvalidRequestBeforeComputing(t *testing.T) {
	req := suiteRequest()
	req.TenantID = ""

	_, err := Run(context.Background(), req, flatSuiteParams())
	require.Error(t, err)

	verr, ok := domain.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "tenant_id", verr.Field)
}

func TestRun_IdenticalInputsYieldIdenticalFigures(t *testing.T) {
	first, err := Run(context.Background(), suiteRequest(), flatSuiteParams())
	require.NoError(t, err)
	second, err := Run(context.Background(), suiteRequest(), flatSuiteParams())
	require.NoError(t, err)

	// The generated run id is the only nondeterministic field; with it
	// normalized, the two results must serialize byte for byte.
	second.RunID = first.RunID
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestInputHash_DeterministicAcrossCalls(t *testing.T) {
	first, err := InputHash(suiteRequest())
	require.NoError(t, err)
	second, err := InputHash(suiteRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	changed := suiteRequest()
	changed.PortfolioID = "PF-2"
	third, err := InputHash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}
