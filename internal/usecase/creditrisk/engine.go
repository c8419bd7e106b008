package creditrisk

import (
	"fmt"

	"github.com/insurepro/regcalc-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// DetermineStage classifies an exposure into its impairment stage.
// Order matters: credit-impairment (days past due) takes priority over
// the significant-increase tests.
//
// A zero PD at origination never divides: the PD-ratio test simply does
// not trigger and classification falls through to the days-past-due test.
func DetermineStage(pdOrigination, pdCurrent decimal.Decimal, daysPastDue int, thresholds domain.StageThresholds) domain.Stage {
	if daysPastDue >= thresholds.Stage3DaysPastDue {
		return domain.Stage3
	}
	if pdOrigination.IsPositive() {
		ratio := pdCurrent.Div(pdOrigination)
		if ratio.GreaterThan(thresholds.PDRatio) {
			return domain.Stage2
		}
	}
	if daysPastDue >= thresholds.Stage2DaysPastDue {
		return domain.Stage2
	}
	return domain.Stage1
}

// ClassifyExposure annotates an exposure with its derived stage and
// loss-recognition horizon.
func ClassifyExposure(exp domain.Exposure, thresholds domain.StageThresholds) domain.StagedExposure {
	stage := DetermineStage(exp.PDOrigination, exp.PDCurrent, exp.DaysPastDue, thresholds)
	return domain.StagedExposure{
		Exposure: exp,
		Stage:    stage,
		Horizon:  domain.HorizonForStage(stage),
	}
}

// CalculateExposure computes the expected credit loss for one exposure.
//
// The horizon is one year for Stage 1, the remaining term otherwise.
// For each period t the marginal default probability follows the
// survival decay PD_t = PD_adj * (1-PD_adj)^(t-1), the period exposure
// is the gross carrying amount discounted at e^(-rate*t), and the period
// loss is PD_t * LGD * exposure_t. The total is rounded to currency
// precision at the end only; per-period rounding would compound error
// across long-dated exposures.
func CalculateExposure(exp domain.Exposure, params domain.RegulatoryParams) (*domain.ECLResult, error) {
	if err := exp.Validate(); err != nil {
		return nil, err
	}

	staged := ClassifyExposure(exp, params.Stages)

	multiplier := params.WeightedPDMultiplier()
	adjustedPD := exp.PDCurrent.Mul(multiplier)
	if adjustedPD.GreaterThan(one) {
		adjustedPD = one
	}

	horizon := exp.RemainingTermYears
	if staged.Stage == domain.Stage1 {
		horizon = 1
	}

	totalECL := decimal.Zero
	survival := one
	for t := 1; t <= horizon; t++ {
		marginalPD := adjustedPD.Mul(survival)
		df := domain.DiscountFactor(exp.EffectiveRate, t)
		periodExposure := exp.GrossCarryingAmount.Mul(df)
		totalECL = totalECL.Add(marginalPD.Mul(exp.LGD).Mul(periodExposure))
		survival = survival.Mul(one.Sub(adjustedPD))
	}

	return &domain.ECLResult{
		ExposureID:        exp.ID,
		Stage:             staged.Stage,
		Horizon:           staged.Horizon,
		ExposureAtDefault: domain.RoundCurrency(exp.GrossCarryingAmount),
		AdjustedPD:        domain.RoundRatio(adjustedPD),
		LGD:               exp.LGD,
		MultiplierApplied: multiplier,
		ECLAmount:         domain.RoundCurrency(totalECL),
	}, nil
}

// Aggregate folds per-exposure results into the portfolio view:
// totals, exposure-weighted PD/LGD, per-stage breakdown and the
// coverage ratios. The fold is a commutative sum, so the order the
// items were computed in never affects the figures.
func Aggregate(items []domain.ECLResult, params domain.RegulatoryParams) *domain.PortfolioECLResult {
	result := &domain.PortfolioECLResult{
		TotalECL:       decimal.Zero,
		TotalEAD:       decimal.Zero,
		WeightedPD:     decimal.Zero,
		WeightedLGD:    decimal.Zero,
		CoverageRatio:  decimal.Zero,
		Stage1ECL:      decimal.Zero,
		Stage2ECL:      decimal.Zero,
		Stage3ECL:      decimal.Zero,
		Stage1Share:    decimal.Zero,
		Stage2Share:    decimal.Zero,
		Stage3Share:    decimal.Zero,
		Stage3Coverage: decimal.Zero,
		Items:          items,
		Warnings:       []string{},
	}

	pdWeighted := decimal.Zero
	lgdWeighted := decimal.Zero
	stage3EAD := decimal.Zero

	for _, item := range items {
		result.TotalECL = result.TotalECL.Add(item.ECLAmount)
		result.TotalEAD = result.TotalEAD.Add(item.ExposureAtDefault)
		pdWeighted = pdWeighted.Add(item.AdjustedPD.Mul(item.ExposureAtDefault))
		lgdWeighted = lgdWeighted.Add(item.LGD.Mul(item.ExposureAtDefault))

		switch item.Stage {
		case domain.Stage1:
			result.Stage1ECL = result.Stage1ECL.Add(item.ECLAmount)
			result.Stage1Count++
		case domain.Stage2:
			result.Stage2ECL = result.Stage2ECL.Add(item.ECLAmount)
			result.Stage2Count++
		case domain.Stage3:
			result.Stage3ECL = result.Stage3ECL.Add(item.ECLAmount)
			result.Stage3Count++
			stage3EAD = stage3EAD.Add(item.ExposureAtDefault)
		}
	}

	if result.TotalEAD.IsPositive() {
		result.WeightedPD = domain.RoundRatio(pdWeighted.Div(result.TotalEAD))
		result.WeightedLGD = domain.RoundRatio(lgdWeighted.Div(result.TotalEAD))
		result.CoverageRatio = domain.RoundRatio(result.TotalECL.Div(result.TotalEAD))
	}
	if result.TotalECL.IsPositive() {
		result.Stage1Share = domain.RoundRatio(result.Stage1ECL.Div(result.TotalECL))
		result.Stage2Share = domain.RoundRatio(result.Stage2ECL.Div(result.TotalECL))
		result.Stage3Share = domain.RoundRatio(result.Stage3ECL.Div(result.TotalECL))
	}

	if result.Stage3Count > 0 && stage3EAD.IsPositive() {
		result.Stage3Coverage = domain.RoundRatio(result.Stage3ECL.Div(stage3EAD))
		if result.Stage3Coverage.LessThan(params.Stage3CoverageMinimum) {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"stage 3 coverage %s below regulatory minimum %s",
				result.Stage3Coverage, params.Stage3CoverageMinimum))
		}
	}

	return result
}

// CalculatePortfolio validates and computes every exposure, then
// aggregates. All exposures are validated up front: a validation error
// on any item rejects the whole portfolio before arithmetic starts.
func CalculatePortfolio(exposures []domain.Exposure, params domain.RegulatoryParams) (*domain.PortfolioECLResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	for i := range exposures {
		if err := exposures[i].Validate(); err != nil {
			return nil, err
		}
	}

	items := make([]domain.ECLResult, 0, len(exposures))
	for i := range exposures {
		item, err := CalculateExposure(exposures[i], params)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return Aggregate(items, params), nil
}
