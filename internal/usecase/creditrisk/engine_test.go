package creditrisk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurepro/regcalc-backend/internal/domain"
)

// flatParams returns a parameter set whose single macro scenario carries
// a multiplier of 1, so adjusted PD equals current PD and expected
// losses can be asserted exactly.
func flatParams() domain.RegulatoryParams {
	params := domain.DefaultRegulatoryParams()
	params.Scenarios = []domain.MacroScenario{
		{Name: "flat", Multiplier: decimal.NewFromInt(1), Weight: decimal.NewFromInt(1)},
	}
	return params
}

func TestDetermineStage_DaysPastDueDominatesPDRatio(t *testing.T) {
	thresholds := domain.DefaultRegulatoryParams().Stages

	// 120 days past due is Stage 3 even though the PD ratio alone would
	// only put the exposure in Stage 2.
	stage := DetermineStage(
		decimal.RequireFromString("0.01"),
		decimal.RequireFromString("0.20"),
		120, thresholds)
	assert.Equal(t, domain.Stage3, stage)
}

func TestDetermineStage_DayBoundaries(t *testing.T) {
	thresholds := domain.DefaultRegulatoryParams().Stages
	pd := decimal.RequireFromString("0.05")

	assert.Equal(t, domain.Stage1, DetermineStage(pd, pd, 29, thresholds))
	assert.Equal(t, domain.Stage2, DetermineStage(pd, pd, 30, thresholds))
	assert.Equal(t, domain.Stage2, DetermineStage(pd, pd, 89, thresholds))
	assert.Equal(t, domain.Stage3, DetermineStage(pd, pd, 90, thresholds))
}

func TestDetermineStage_PDRatioStrictlyGreaterThan(t *testing.T) {
	thresholds := domain.DefaultRegulatoryParams().Stages

	// A ratio of exactly 2.0 does not trigger the significant-increase
	// test; the exposure stays in Stage 1.
	stage := DetermineStage(
		decimal.RequireFromString("0.025"),
		decimal.RequireFromString("0.05"),
		0, thresholds)
	assert.Equal(t, domain.Stage1, stage)

	// 2.01 does.
	stage = DetermineStage(
		decimal.RequireFromString("0.01"),
		decimal.RequireFromString("0.0201"),
		0, thresholds)
	assert.Equal(t, domain.Stage2, stage)
}

func TestDetermineStage_ZeroOriginationPDSkipsRatioTest(t *testing.T) {
	thresholds := domain.DefaultRegulatoryParams().Stages

	// PD at origination of zero never divides: classification falls
	// through to the days-past-due tests.
	stage := DetermineStage(decimal.Zero, decimal.RequireFromString("0.50"), 0, thresholds)
	assert.Equal(t, domain.Stage1, stage)

	stage = DetermineStage(decimal.Zero, decimal.RequireFromString("0.50"), 45, thresholds)
	assert.Equal(t, domain.Stage2, stage)
}

func TestWeightedPDMultiplier_DefaultScenarios(t *testing.T) {
	params := domain.DefaultRegulatoryParams()

	// 1.35*0.55 + 1.80*0.35 + 2.40*0.10 = 1.6125, rounded half away
	// from zero to three places.
	multiplier := params.WeightedPDMultiplier()
	assert.True(t, multiplier.Equal(decimal.RequireFromString("1.613")),
		"expected 1.613, got %s", multiplier)
}

func TestCalculateExposure_TwelveMonthStageOne(t *testing.T) {
	// Ratio exactly at the threshold, no arrears: Stage 1, twelve-month
	// horizon regardless of the remaining term.
	exp := domain.Exposure{
		ID:                  "EXP-001",
		GrossCarryingAmount: decimal.NewFromInt(500_000_000),
		PDOrigination:       decimal.RequireFromString("0.025"),
		PDCurrent:           decimal.RequireFromString("0.05"),
		LGD:                 decimal.RequireFromString("0.4"),
		DaysPastDue:         0,
		RemainingTermYears:  3,
		EffectiveRate:       decimal.RequireFromString("0.19"),
	}

	result, err := CalculateExposure(exp, domain.DefaultRegulatoryParams())
	require.NoError(t, err)

	assert.Equal(t, domain.Stage1, result.Stage)
	assert.Equal(t, domain.HorizonTwelveMonth, result.Horizon)
	assert.True(t, result.MultiplierApplied.Equal(decimal.RequireFromString("1.613")))
	assert.True(t, result.AdjustedPD.Equal(decimal.RequireFromString("0.0807")),
		"expected adjusted PD 0.0807, got %s", result.AdjustedPD)

	// One discounted period, so the loss sits strictly below the
	// undiscounted one-year loss.
	undiscounted := decimal.RequireFromString("0.08065").
		Mul(exp.LGD).Mul(exp.GrossCarryingAmount)
	assert.True(t, result.ECLAmount.IsPositive())
	assert.True(t, result.ECLAmount.LessThan(undiscounted))
}

func TestCalculateExposure_ExactValueAtZeroRate(t *testing.T) {
	// With the default scenarios and a zero effective rate the discount
	// factor is exactly 1: ECL = 0.05 * 1.613 * 1000 = 80.65.
	exp := domain.Exposure{
		ID:                  "EXP-002",
		GrossCarryingAmount: decimal.NewFromInt(1000),
		PDOrigination:       decimal.RequireFromString("0.05"),
		PDCurrent:           decimal.RequireFromString("0.05"),
		LGD:                 decimal.NewFromInt(1),
		DaysPastDue:         0,
		RemainingTermYears:  5,
		EffectiveRate:       decimal.Zero,
	}

	result, err := CalculateExposure(exp, domain.DefaultRegulatoryParams())
	require.NoError(t, err)
	assert.True(t, result.ECLAmount.Equal(decimal.RequireFromString("80.65")),
		"expected 80.65, got %s", result.ECLAmount)
}

func TestCalculateExposure_LifetimeMarginalDecay(t *testing.T) {
	// Stage 2, two-year term, zero rate, flat multiplier:
	// year 1 loss 0.1*0.5*1000 = 50, year 2 loss 0.1*0.9*0.5*1000 = 45.
	exp := domain.Exposure{
		ID:                  "EXP-003",
		GrossCarryingAmount: decimal.NewFromInt(1000),
		PDOrigination:       decimal.RequireFromString("0.1"),
		PDCurrent:           decimal.RequireFromString("0.1"),
		LGD:                 decimal.RequireFromString("0.5"),
		DaysPastDue:         45,
		RemainingTermYears:  2,
		EffectiveRate:       decimal.Zero,
	}

	result, err := CalculateExposure(exp, flatParams())
	require.NoError(t, err)

	assert.Equal(t, domain.Stage2, result.Stage)
	assert.Equal(t, domain.HorizonLifetime, result.Horizon)
	assert.True(t, result.ECLAmount.Equal(decimal.RequireFromString("95.00")),
		"expected 95.00, got %s", result.ECLAmount)
}

func TestCalculateExposure_NeverExceedsMaximumLoss(t *testing.T) {
	// However long the lifetime horizon, the survival decay keeps the
	// total below GCA * LGD.
	exp := domain.Exposure{
		ID:                  "EXP-004",
		GrossCarryingAmount: decimal.NewFromInt(100_000),
		PDOrigination:       decimal.RequireFromString("0.10"),
		PDCurrent:           decimal.RequireFromString("0.60"),
		LGD:                 decimal.RequireFromString("0.45"),
		DaysPastDue:         45,
		RemainingTermYears:  10,
		EffectiveRate:       decimal.RequireFromString("0.05"),
	}

	result, err := CalculateExposure(exp, domain.DefaultRegulatoryParams())
	require.NoError(t, err)

	maxLoss := exp.GrossCarryingAmount.Mul(exp.LGD)
	assert.True(t, result.ECLAmount.IsPositive())
	assert.True(t, result.ECLAmount.LessThanOrEqual(maxLoss),
		"ECL %s must not exceed GCA*LGD %s", result.ECLAmount, maxLoss)
}

func TestCalculateExposure_AdjustedPDCappedAtOne(t *testing.T) {
	// 0.9 * 1.613 exceeds 1; the adjusted PD is capped, never above.
	exp := domain.Exposure{
		ID:                  "EXP-005",
		GrossCarryingAmount: decimal.NewFromInt(1000),
		PDOrigination:       decimal.RequireFromString("0.9"),
		PDCurrent:           decimal.RequireFromString("0.9"),
		LGD:                 decimal.NewFromInt(1),
		DaysPastDue:         0,
		RemainingTermYears:  3,
		EffectiveRate:       decimal.Zero,
	}

	result, err := CalculateExposure(exp, domain.DefaultRegulatoryParams())
	require.NoError(t, err)
	assert.True(t, result.AdjustedPD.Equal(decimal.NewFromInt(1)))
	// Capped PD at zero rate over a one-year horizon loses everything.
	assert.True(t, result.ECLAmount.Equal(decimal.RequireFromString("1000.00")))
}

func TestCalculateExposure_ValidationNamesField(t *testing.T) {
	exp := domain.Exposure{
		ID:                  "EXP-006",
		GrossCarryingAmount: decimal.NewFromInt(1000),
		PDOrigination:       decimal.RequireFromString("0.05"),
		PDCurrent:           decimal.RequireFromString("0.05"),
		LGD:                 decimal.RequireFromString("1.5"),
		RemainingTermYears:  1,
	}

	_, err := CalculateExposure(exp, domain.DefaultRegulatoryParams())
	require.Error(t, err)

	verr, ok := domain.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "lgd", verr.Field)
}

func TestCalculatePortfolio_AggregatesAndFlagsThinStage3Coverage(t *testing.T) {
	exposures := []domain.Exposure{
		{
			ID:                  "S1",
			GrossCarryingAmount: decimal.NewFromInt(1000),
			PDOrigination:       decimal.RequireFromString("0.1"),
			PDCurrent:           decimal.RequireFromString("0.1"),
			LGD:                 decimal.RequireFromString("0.5"),
			DaysPastDue:         0,
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
	}

	result, err := CalculatePortfolio(exposures, flatParams())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stage1Count)
	assert.Equal(t, 1, result.Stage2Count)
	assert.Equal(t, 1, result.Stage3Count)

	// 50 + 95 + 500
	assert.True(t, result.TotalECL.Equal(decimal.RequireFromString("645.00")),
		"expected total 645.00, got %s", result.TotalECL)
	assert.True(t, result.TotalEAD.Equal(decimal.RequireFromString("3000.00")))
	assert.True(t, result.CoverageRatio.Equal(decimal.RequireFromString("0.2150")),
		"expected coverage 0.2150, got %s", result.CoverageRatio)
	assert.True(t, result.Stage3ECL.Equal(decimal.RequireFromString("500.00")))

	// Stage 3 covered at 500/1000 = 0.50, below the 0.60 minimum.
	assert.True(t, result.Stage3Coverage.Equal(decimal.RequireFromString("0.5000")))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "stage 3 coverage")
}

func TestCalculatePortfolio_EmptyPortfolioIsAllZeros(t *testing.T) {
	result, err := CalculatePortfolio(nil, domain.DefaultRegulatoryParams())
	require.NoError(t, err)

	assert.True(t, result.TotalECL.IsZero())
	assert.True(t, result.TotalEAD.IsZero())
	assert.True(t, result.CoverageRatio.IsZero())
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Items)
}

func TestCalculatePortfolio_RejectsUnbalancedScenarioWeights(t *testing.T) {
	params := domain.DefaultRegulatoryParams()
	params.Scenarios[0].Weight = decimal.RequireFromString("0.40")

	_, err := CalculatePortfolio(nil, params)
	require.Error(t, err)

	verr, ok := domain.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "scenarios", verr.Field)
}
