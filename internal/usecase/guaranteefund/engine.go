package guaranteefund

import (
	"github.com/insurepro/regcalc-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// CategoryForRatio maps a solvency ratio to the guarantee-fund risk
// tier. The thresholds coincide with the solvency status buckets today,
// but the mapping is maintained here independently: the fund regulation
// can recalibrate without touching capital adequacy.
func CategoryForRatio(ratio decimal.Decimal) domain.RiskCategory {
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(2)):
		return domain.RiskCategoryLow
	case ratio.GreaterThanOrEqual(decimal.RequireFromString("1.5")):
		return domain.RiskCategoryMedium
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return domain.RiskCategoryHigh
	default:
		return domain.RiskCategoryCritical
	}
}

func multiplierForCategory(category domain.RiskCategory, params domain.GuaranteeFundParams) decimal.Decimal {
	switch category {
	case domain.RiskCategoryLow:
		return params.LowMultiplier
	case domain.RiskCategoryMedium:
		return params.MediumMultiplier
	case domain.RiskCategoryHigh:
		return params.HighMultiplier
	default:
		return params.CriticalMultiplier
	}
}

// Calculate determines the annual guarantee-fund contribution: the base
// levy on gross premiums, scaled by the solvency-derived risk tier, with
// a penalty surcharge when the insurer carries open regulatory
// violations. Rounding happens once at the output figures.
func Calculate(grossPremiums, solvencyRatio decimal.Decimal, violations bool, params domain.RegulatoryParams) (*domain.ContributionResult, error) {
	if grossPremiums.IsNegative() {
		return nil, domain.NewValidationError("gross_premiums", "must not be negative")
	}

	fund := params.GuaranteeFund
	category := CategoryForRatio(solvencyRatio)
	multiplier := multiplierForCategory(category, fund)

	baseLevy := grossPremiums.Mul(fund.BaseRate)
	scaledLevy := baseLevy.Mul(multiplier)

	totalLevy := scaledLevy
	penalty := decimal.Zero
	if violations {
		totalLevy = scaledLevy.Mul(fund.ViolationFactor)
		penalty = totalLevy.Sub(scaledLevy)
	}

	return &domain.ContributionResult{
		BaseLevy:         domain.RoundCurrency(baseLevy),
		RiskCategory:     category,
		Multiplier:       multiplier,
		ViolationPenalty: domain.RoundCurrency(penalty),
		TotalLevy:        domain.RoundCurrency(totalLevy),
	}, nil
}
