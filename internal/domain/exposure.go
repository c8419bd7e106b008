package domain

import (
	"github.com/shopspring/decimal"
)

// Stage is the IFRS 9 impairment stage of an exposure.
type Stage int

const (
	Stage1 Stage = 1 // performing, 12-month ECL
	Stage2 Stage = 2 // significant increase in credit risk, lifetime ECL
	Stage3 Stage = 3 // credit-impaired, lifetime ECL
)

// ECLHorizon is the loss-recognition horizon implied by the stage.
type ECLHorizon string

const (
	HorizonTwelveMonth ECLHorizon = "TWELVE_MONTH"
	HorizonLifetime    ECLHorizon = "LIFETIME"
)

// Exposure is a single credit-risk position. Constructed from portfolio
// input, consumed once per calculation run, never mutated.
type Exposure struct {
	ID                  string          `json:"id"`
	GrossCarryingAmount decimal.Decimal `json:"gross_carrying_amount"`
	PDOrigination       decimal.Decimal `json:"pd_origination"`
	PDCurrent           decimal.Decimal `json:"pd_current"`
	LGD                 decimal.Decimal `json:"lgd"`
	DaysPastDue         int             `json:"days_past_due"`
	RemainingTermYears  int             `json:"remaining_term_years"`
	EffectiveRate       decimal.Decimal `json:"effective_rate"`
}

// Validate rejects out-of-range exposure input before any arithmetic.
func (e *Exposure) Validate() error {
	if e.GrossCarryingAmount.IsNegative() {
		return NewValidationError("gross_carrying_amount", "must not be negative")
	}
	if !isUnitInterval(e.PDOrigination) {
		return NewValidationError("pd_origination", "must be within [0, 1]")
	}
	if !isUnitInterval(e.PDCurrent) {
		return NewValidationError("pd_current", "must be within [0, 1]")
	}
	if !isUnitInterval(e.LGD) {
		return NewValidationError("lgd", "must be within [0, 1]")
	}
	if e.DaysPastDue < 0 {
		return NewValidationError("days_past_due", "must not be negative")
	}
	if e.RemainingTermYears < 1 {
		return NewValidationError("remaining_term_years", "must be at least 1")
	}
	return nil
}

// StagedExposure is an Exposure annotated with its derived stage and
// horizon. Stage is a pure function of (PD at origination, current PD,
// days past due); it is never stored apart from the inputs that
// produced it.
type StagedExposure struct {
	Exposure
	Stage   Stage
	Horizon ECLHorizon
}

// HorizonForStage maps a stage to its loss-recognition horizon:
// Stage 1 recognises twelve-month losses, Stages 2 and 3 lifetime losses.
func HorizonForStage(s Stage) ECLHorizon {
	if s == Stage1 {
		return HorizonTwelveMonth
	}
	return HorizonLifetime
}
