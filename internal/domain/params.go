package domain

import (
	"github.com/shopspring/decimal"
)

// MacroScenario is a named forward-looking scenario carrying a PD
// multiplier and a probability weight.
type MacroScenario struct {
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Weight     decimal.Decimal `json:"weight"`
}

// StageThresholds hold the stage-classification triggers.
type StageThresholds struct {
	Stage2DaysPastDue int             `json:"stage_2_days_past_due"`
	Stage3DaysPastDue int             `json:"stage_3_days_past_due"`
	PDRatio           decimal.Decimal `json:"pd_ratio"` // strictly-greater-than trigger
}

// StressScenario is a named perturbation of the solvency base case.
// Shocks are relative: -0.10 means a 10% haircut.
type StressScenario struct {
	Name          string          `json:"name"`
	OwnFundsShock decimal.Decimal `json:"own_funds_shock"`
	MarginShock   decimal.Decimal `json:"margin_shock"`
}

// GuaranteeFundParams parameterize the contribution levy.
type GuaranteeFundParams struct {
	BaseRate           decimal.Decimal `json:"base_rate"`
	LowMultiplier      decimal.Decimal `json:"low_multiplier"`
	MediumMultiplier   decimal.Decimal `json:"medium_multiplier"`
	HighMultiplier     decimal.Decimal `json:"high_multiplier"`
	CriticalMultiplier decimal.Decimal `json:"critical_multiplier"`
	ViolationFactor    decimal.Decimal `json:"violation_factor"`
}

// RegulatoryParams carry every fixed regulatory constant used by the
// engines. They are threaded explicitly into each engine call, never
// read from package state, so jurisdiction or version changes need no
// recompilation and each parameter set is independently testable.
type RegulatoryParams struct {
	Scenarios             []MacroScenario     `json:"scenarios"`
	Stages                StageThresholds     `json:"stages"`
	Stage3CoverageMinimum decimal.Decimal     `json:"stage_3_coverage_minimum"`
	CapitalChargeRate     decimal.Decimal     `json:"capital_charge_rate"`
	CoCRate               decimal.Decimal     `json:"coc_rate"`
	CTEShare              decimal.Decimal     `json:"cte_share"`
	PremiumMarginRate     decimal.Decimal     `json:"premium_margin_rate"`
	ClaimsMarginRate      decimal.Decimal     `json:"claims_margin_rate"`
	CompulsoryLoading     decimal.Decimal     `json:"compulsory_loading"`
	StressScenarios       []StressScenario    `json:"stress_scenarios"`
	GuaranteeFund         GuaranteeFundParams `json:"guarantee_fund"`
}

// DefaultRegulatoryParams returns the current regulatory parameter set.
func DefaultRegulatoryParams() RegulatoryParams {
	return RegulatoryParams{
		Scenarios: []MacroScenario{
			{Name: "baseline", Multiplier: decimal.RequireFromString("1.35"), Weight: decimal.RequireFromString("0.55")},
			{Name: "adverse", Multiplier: decimal.RequireFromString("1.80"), Weight: decimal.RequireFromString("0.35")},
			{Name: "severe", Multiplier: decimal.RequireFromString("2.40"), Weight: decimal.RequireFromString("0.10")},
		},
		Stages: StageThresholds{
			Stage2DaysPastDue: 30,
			Stage3DaysPastDue: 90,
			PDRatio:           decimal.RequireFromString("2.0"),
		},
		Stage3CoverageMinimum: decimal.RequireFromString("0.60"),
		CapitalChargeRate:     decimal.RequireFromString("0.10"),
		CoCRate:               decimal.RequireFromString("0.06"),
		CTEShare:              decimal.RequireFromString("0.06"),
		PremiumMarginRate:     decimal.RequireFromString("0.18"),
		ClaimsMarginRate:      decimal.RequireFromString("0.26"),
		CompulsoryLoading:     decimal.RequireFromString("0.15"),
		StressScenarios: []StressScenario{
			{Name: "adverse", OwnFundsShock: decimal.RequireFromString("-0.10"), MarginShock: decimal.Zero},
			{Name: "severe", OwnFundsShock: decimal.RequireFromString("-0.25"), MarginShock: decimal.RequireFromString("0.10")},
		},
		GuaranteeFund: GuaranteeFundParams{
			BaseRate:           decimal.RequireFromString("0.005"),
			LowMultiplier:      decimal.RequireFromString("1"),
			MediumMultiplier:   decimal.RequireFromString("2"),
			HighMultiplier:     decimal.RequireFromString("4"),
			CriticalMultiplier: decimal.RequireFromString("6"),
			ViolationFactor:    decimal.RequireFromString("1.25"),
		},
	}
}

// weightTolerance is the permitted deviation of the scenario weight sum
// from 1. The precondition is checked, never repaired by renormalizing.
var weightTolerance = decimal.RequireFromString("0.001")

// Validate checks the parameter set preconditions.
func (p *RegulatoryParams) Validate() error {
	if len(p.Scenarios) == 0 {
		return NewValidationError("scenarios", "at least one macro scenario is required")
	}
	weightSum := decimal.Zero
	for _, s := range p.Scenarios {
		if s.Multiplier.IsNegative() {
			return NewValidationError("scenarios", "multiplier must not be negative")
		}
		if !isUnitInterval(s.Weight) {
			return NewValidationError("scenarios", "weight must be within [0, 1]")
		}
		weightSum = weightSum.Add(s.Weight)
	}
	if weightSum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(weightTolerance) {
		return NewValidationError("scenarios", "weights must sum to 1")
	}
	if p.Stages.Stage2DaysPastDue < 0 || p.Stages.Stage3DaysPastDue <= p.Stages.Stage2DaysPastDue {
		return NewValidationError("stages", "day thresholds must satisfy 0 <= stage2 < stage3")
	}
	return nil
}

// WeightedPDMultiplier is the weight-multiplier dot product across the
// macro scenarios, rounded to 3 decimal places.
func (p *RegulatoryParams) WeightedPDMultiplier() decimal.Decimal {
	total := decimal.Zero
	for _, s := range p.Scenarios {
		total = total.Add(s.Multiplier.Mul(s.Weight))
	}
	return RoundMultiplier(total)
}
