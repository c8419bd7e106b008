package domain

import (
	"github.com/shopspring/decimal"
)

// MeasurementModel is the IFRS 17 measurement model of a contract group.
type MeasurementModel string

const (
	ModelGMM MeasurementModel = "GMM" // general measurement model
	ModelVFA MeasurementModel = "VFA" // variable fee approach
	ModelPAA MeasurementModel = "PAA" // premium allocation approach
)

// Valid reports whether m is a known measurement model.
func (m MeasurementModel) Valid() bool {
	switch m {
	case ModelGMM, ModelVFA, ModelPAA:
		return true
	}
	return false
}

// RAMethod selects the risk-adjustment methodology. The set is closed:
// engines dispatch on the variant and reject anything else, so adding a
// method is an explicit change rather than a string lookup that falls
// through on typos.
type RAMethod string

const (
	RAMethodCostOfCapital RAMethod = "COST_OF_CAPITAL"
	RAMethodCTE           RAMethod = "CTE"
)

// Valid reports whether m is a known risk-adjustment method.
func (m RAMethod) Valid() bool {
	switch m {
	case RAMethodCostOfCapital, RAMethodCTE:
		return true
	}
	return false
}

// InsuranceCohort is a group of insurance contracts measured together.
// Premium, claims and expense figures are cohort totals.
type InsuranceCohort struct {
	ID              string           `json:"id"`
	Model           MeasurementModel `json:"model"`
	PremiumTotal    decimal.Decimal  `json:"premium_total"`
	AnnualClaims    decimal.Decimal  `json:"annual_claims"`
	AnnualExpenses  decimal.Decimal  `json:"annual_expenses"`
	AcquisitionCost decimal.Decimal  `json:"acquisition_cost"`
	ContractTerm    int              `json:"contract_term_years"`
	DiscountRate    decimal.Decimal  `json:"discount_rate"`
}

// Validate rejects out-of-range cohort input before any arithmetic.
func (c *InsuranceCohort) Validate() error {
	if !c.Model.Valid() {
		return NewValidationError("model", "must be one of GMM, VFA, PAA")
	}
	if c.PremiumTotal.IsNegative() {
		return NewValidationError("premium_total", "must not be negative")
	}
	if c.AnnualClaims.IsNegative() {
		return NewValidationError("annual_claims", "must not be negative")
	}
	if c.AnnualExpenses.IsNegative() {
		return NewValidationError("annual_expenses", "must not be negative")
	}
	if c.AcquisitionCost.IsNegative() {
		return NewValidationError("acquisition_cost", "must not be negative")
	}
	if c.ContractTerm < 1 {
		return NewValidationError("contract_term_years", "must be at least 1")
	}
	if c.DiscountRate.IsNegative() {
		return NewValidationError("discount_rate", "must not be negative")
	}
	return nil
}

// InsuranceContract is a single contract belonging to exactly one cohort.
// Contracts feed the per-contract measurement mode; the cohort-aggregate
// mode pools their cash flows before measuring.
type InsuranceContract struct {
	ID              string           `json:"id"`
	CohortID        string           `json:"cohort_id"`
	Model           MeasurementModel `json:"model"`
	PremiumTotal    decimal.Decimal  `json:"premium_total"`
	AnnualClaims    decimal.Decimal  `json:"annual_claims"`
	AnnualExpenses  decimal.Decimal  `json:"annual_expenses"`
	AcquisitionCost decimal.Decimal  `json:"acquisition_cost"`
	ContractTerm    int              `json:"contract_term_years"`
	DiscountRate    decimal.Decimal  `json:"discount_rate"`
}

// Validate rejects out-of-range contract input before any arithmetic.
func (c *InsuranceContract) Validate() error {
	cohort := InsuranceCohort{
		ID:              c.ID,
		Model:           c.Model,
		PremiumTotal:    c.PremiumTotal,
		AnnualClaims:    c.AnnualClaims,
		AnnualExpenses:  c.AnnualExpenses,
		AcquisitionCost: c.AcquisitionCost,
		ContractTerm:    c.ContractTerm,
		DiscountRate:    c.DiscountRate,
	}
	if err := cohort.Validate(); err != nil {
		return err
	}
	if c.CohortID == "" {
		return NewValidationError("cohort_id", "must not be empty")
	}
	return nil
}
