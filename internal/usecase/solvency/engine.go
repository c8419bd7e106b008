package solvency

import (
	"github.com/insurepro/regcalc-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// StatusForRatio buckets a rounded solvency ratio. The partition is
// evaluated on the reported 2-decimal figure, so a raw ratio of 1.999
// that rounds to 2.00 is well capitalized: classification and the
// published number never disagree.
func StatusForRatio(ratio decimal.Decimal) domain.SolvencyStatus {
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(2)):
		return domain.StatusWellCapitalized
	case ratio.GreaterThanOrEqual(decimal.RequireFromString("1.5")):
		return domain.StatusComfortable
	case ratio.GreaterThanOrEqual(one):
		return domain.StatusAcceptable
	default:
		return domain.StatusUndercapitalized
	}
}

// MinimumMargin computes the required solvency margin from the capital
// position: the greater of the premium-based and claims-based margins,
// loaded for compulsory lines, floored at the regulatory minimum
// capital requirement.
func MinimumMargin(capital domain.CapitalPosition, mcr decimal.Decimal, params domain.RegulatoryParams) decimal.Decimal {
	premiumMargin := capital.GrossPremiums.Mul(capital.Retention).Mul(params.PremiumMarginRate)
	claimsMargin := capital.IncurredClaims.Mul(capital.Retention).Mul(params.ClaimsMarginRate)

	margin := premiumMargin
	if claimsMargin.GreaterThan(margin) {
		margin = claimsMargin
	}
	if capital.CompulsoryLine {
		margin = margin.Mul(one.Add(params.CompulsoryLoading))
	}
	if mcr.GreaterThan(margin) {
		margin = mcr
	}
	return margin
}

// OwnFunds derives eligible own funds from the balance-sheet position.
// The expected-credit-loss adjustment reduces own funds; the
// contractual-service-margin adjustment adds back the unearned profit
// the liability measurement deferred.
func OwnFunds(capital domain.CapitalPosition, eclAdjustment, csmAdjustment decimal.Decimal) decimal.Decimal {
	return capital.Equity.
		Sub(capital.IlliquidAssets).
		Sub(eclAdjustment).
		Add(csmAdjustment).
		Add(capital.SubordinatedCapital)
}

// evaluate produces the ratio, status and compliance flag for one
// own-funds/margin pair. A zero or negative required margin yields the
// sentinel ratio 0 and the undercapitalized status: a ratio against no
// requirement is meaningless, never infinite.
func evaluate(ownFunds, margin decimal.Decimal) (decimal.Decimal, domain.SolvencyStatus) {
	if !margin.IsPositive() {
		return decimal.Zero, domain.StatusUndercapitalized
	}
	ratio := domain.RoundCurrency(ownFunds.Div(margin))
	if ratio.IsNegative() {
		ratio = decimal.Zero
	}
	return ratio, StatusForRatio(ratio)
}

// runStress re-evaluates the base case under each configured scenario.
// Every scenario perturbs the base figures independently; shocks are
// never chained across scenarios.
func runStress(ownFunds, margin decimal.Decimal, scenarios []domain.StressScenario) []domain.StressOutcome {
	outcomes := make([]domain.StressOutcome, 0, len(scenarios))
	for _, s := range scenarios {
		shockedFunds := ownFunds.Mul(one.Add(s.OwnFundsShock))
		shockedMargin := margin.Mul(one.Add(s.MarginShock))
		ratio, status := evaluate(shockedFunds, shockedMargin)
		outcomes = append(outcomes, domain.StressOutcome{
			Name:   s.Name,
			Ratio:  ratio,
			Status: status,
		})
	}
	return outcomes
}

// Calculate runs the full capital-adequacy assessment from a balance
// sheet: margins, own funds with the cross-engine adjustments, the base
// ratio and the stress battery.
func Calculate(capital domain.CapitalPosition, mcr, eclAdjustment, csmAdjustment decimal.Decimal, params domain.RegulatoryParams) (*domain.SolvencyResult, error) {
	if err := capital.Validate(); err != nil {
		return nil, err
	}
	if mcr.IsNegative() {
		return nil, domain.NewValidationError("minimum_capital_requirement", "must not be negative")
	}

	premiumMargin := domain.RoundCurrency(capital.GrossPremiums.Mul(capital.Retention).Mul(params.PremiumMarginRate))
	claimsMargin := domain.RoundCurrency(capital.IncurredClaims.Mul(capital.Retention).Mul(params.ClaimsMarginRate))
	margin := MinimumMargin(capital, mcr, params)
	ownFunds := OwnFunds(capital, eclAdjustment, csmAdjustment)

	ratio, status := evaluate(ownFunds, margin)

	return &domain.SolvencyResult{
		PremiumMargin: premiumMargin,
		ClaimsMargin:  claimsMargin,
		MinimumMargin: domain.RoundCurrency(margin),
		OwnFunds:      domain.RoundCurrency(ownFunds),
		Ratio:         ratio,
		Status:        status,
		IsCompliant:   ratio.GreaterThanOrEqual(one),
		Stress:        runStress(ownFunds, margin, params.StressScenarios),
	}, nil
}

// FromOwnFunds assesses adequacy when no balance-sheet breakdown is
// available: eligible own funds are taken as reported and measured
// directly against the minimum capital requirement.
func FromOwnFunds(risk domain.RiskParameters, mcr decimal.Decimal, params domain.RegulatoryParams) (*domain.SolvencyResult, error) {
	if err := risk.Validate(); err != nil {
		return nil, err
	}
	if mcr.IsNegative() {
		return nil, domain.NewValidationError("minimum_capital_requirement", "must not be negative")
	}

	ratio, status := evaluate(risk.OwnFunds, mcr)

	return &domain.SolvencyResult{
		PremiumMargin: decimal.Zero,
		ClaimsMargin:  decimal.Zero,
		MinimumMargin: domain.RoundCurrency(mcr),
		OwnFunds:      domain.RoundCurrency(risk.OwnFunds),
		Ratio:         ratio,
		Status:        status,
		IsCompliant:   ratio.GreaterThanOrEqual(one),
		Stress:        runStress(risk.OwnFunds, mcr, params.StressScenarios),
	}, nil
}
