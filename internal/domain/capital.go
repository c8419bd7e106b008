package domain

import (
	"github.com/shopspring/decimal"
)

// SolvencyStatus buckets the solvency ratio. The partition is total and
// non-overlapping: every real ratio maps to exactly one status.
type SolvencyStatus string

const (
	StatusUndercapitalized SolvencyStatus = "UNDERCAPITALIZED"  // [0, 1.0)
	StatusAcceptable       SolvencyStatus = "ACCEPTABLE"        // [1.0, 1.5)
	StatusComfortable      SolvencyStatus = "COMFORTABLE"       // [1.5, 2.0)
	StatusWellCapitalized  SolvencyStatus = "WELL_CAPITALIZED"  // [2.0, +inf)
)

// RiskCategory is the guarantee-fund risk tier. It mirrors the solvency
// status buckets but is a distinct, independently maintained mapping:
// the two regulatory regimes may diverge.
type RiskCategory string

const (
	RiskCategoryLow      RiskCategory = "LOW"      // ratio >= 2.0
	RiskCategoryMedium   RiskCategory = "MEDIUM"   // [1.5, 2.0)
	RiskCategoryHigh     RiskCategory = "HIGH"     // [1.0, 1.5)
	RiskCategoryCritical RiskCategory = "CRITICAL" // < 1.0
)

// CapitalPosition is the solvency-margin input of an insurer.
// Retention is the net retention coefficient applied to both the
// premium-based and claims-based margins.
type CapitalPosition struct {
	GrossPremiums       decimal.Decimal `json:"gross_premiums"`
	IncurredClaims      decimal.Decimal `json:"incurred_claims"`
	Equity              decimal.Decimal `json:"equity"`
	SubordinatedCapital decimal.Decimal `json:"subordinated_capital"`
	IlliquidAssets      decimal.Decimal `json:"illiquid_assets"`
	Retention           decimal.Decimal `json:"retention"`
	CompulsoryLine      bool            `json:"compulsory_line"`
}

// Validate rejects out-of-range capital input before any arithmetic.
// Equity may be negative: an insolvent balance sheet is a reachable
// input state, not a malformed one.
func (c *CapitalPosition) Validate() error {
	if c.GrossPremiums.IsNegative() {
		return NewValidationError("gross_premiums", "must not be negative")
	}
	if c.IncurredClaims.IsNegative() {
		return NewValidationError("incurred_claims", "must not be negative")
	}
	if c.SubordinatedCapital.IsNegative() {
		return NewValidationError("subordinated_capital", "must not be negative")
	}
	if c.IlliquidAssets.IsNegative() {
		return NewValidationError("illiquid_assets", "must not be negative")
	}
	if c.Retention.IsNegative() || c.Retention.GreaterThan(decimal.NewFromInt(1)) {
		return NewValidationError("retention", "must be within [0, 1]")
	}
	return nil
}

// IsZero reports whether the position carries no balance-sheet data at
// all, in which case the orchestrator falls back to the risk-parameter
// block's own-funds figure.
func (c *CapitalPosition) IsZero() bool {
	return c.GrossPremiums.IsZero() &&
		c.IncurredClaims.IsZero() &&
		c.Equity.IsZero() &&
		c.SubordinatedCapital.IsZero() &&
		c.IlliquidAssets.IsZero()
}

// RiskParameters is the request-level risk block: portfolio-wide factors
// reported alongside the balance-sheet position.
type RiskParameters struct {
	MarketVolatility    decimal.Decimal `json:"market_volatility"`
	CreditExposure      decimal.Decimal `json:"credit_exposure"`
	DefaultRate         decimal.Decimal `json:"default_rate"`
	OperationalLossRate decimal.Decimal `json:"operational_loss_rate"`
	OwnFunds            decimal.Decimal `json:"own_funds"`
}

// Validate rejects out-of-range risk parameters before any arithmetic.
func (r *RiskParameters) Validate() error {
	if r.MarketVolatility.IsNegative() {
		return NewValidationError("market_volatility", "must not be negative")
	}
	if r.CreditExposure.IsNegative() {
		return NewValidationError("credit_exposure", "must not be negative")
	}
	if !isUnitInterval(r.DefaultRate) {
		return NewValidationError("default_rate", "must be within [0, 1]")
	}
	if r.OperationalLossRate.IsNegative() {
		return NewValidationError("operational_loss_rate", "must not be negative")
	}
	if r.OwnFunds.IsNegative() {
		return NewValidationError("own_funds", "must not be negative")
	}
	return nil
}
