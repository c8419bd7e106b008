package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationRequest is the engine's full input: a portfolio of
// exposures and insurance cohorts plus the balance-sheet and risk
// blocks, in a single reporting currency. Inputs are consumed once per
// run and never mutated.
type CalculationRequest struct {
	TenantID                  string            `json:"tenant_id"`
	PortfolioID               string            `json:"portfolio_id"`
	CalculationDate           time.Time         `json:"calculation_date"`
	InflationRate             decimal.Decimal   `json:"inflation_rate"`
	RiskFreeRate              decimal.Decimal   `json:"risk_free_rate"`
	Exposures                 []Exposure        `json:"exposures"`
	Cohorts                   []InsuranceCohort `json:"cohorts"`
	RAMethod                  RAMethod          `json:"ra_method"`
	Capital                   CapitalPosition   `json:"capital"`
	Risk                      RiskParameters    `json:"risk"`
	MinimumCapitalRequirement decimal.Decimal   `json:"minimum_capital_requirement"`
	RegulatoryViolations      bool              `json:"regulatory_violations"`
}

// Validate rejects a malformed request before any engine runs. Every
// nested input is checked here so the arithmetic core never sees an
// invalid value.
func (r *CalculationRequest) Validate() error {
	if r.TenantID == "" {
		return NewValidationError("tenant_id", "must not be empty")
	}
	if r.PortfolioID == "" {
		return NewValidationError("portfolio_id", "must not be empty")
	}
	if !r.RAMethod.Valid() {
		return NewValidationError("ra_method", "must be COST_OF_CAPITAL or CTE")
	}
	if r.InflationRate.IsNegative() {
		return NewValidationError("inflation_rate", "must not be negative")
	}
	if r.RiskFreeRate.IsNegative() {
		return NewValidationError("risk_free_rate", "must not be negative")
	}
	if r.MinimumCapitalRequirement.IsNegative() {
		return NewValidationError("minimum_capital_requirement", "must not be negative")
	}
	for i := range r.Exposures {
		if err := r.Exposures[i].Validate(); err != nil {
			return err
		}
	}
	for i := range r.Cohorts {
		if err := r.Cohorts[i].Validate(); err != nil {
			return err
		}
	}
	if err := r.Capital.Validate(); err != nil {
		return err
	}
	if err := r.Risk.Validate(); err != nil {
		return err
	}
	return nil
}
