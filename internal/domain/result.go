package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ECLResult is the expected-credit-loss outcome for a single exposure.
// The realized stage, horizon, adjusted PD and applied multiplier are
// carried for audit traceability. Produced once per run; immutable.
type ECLResult struct {
	ExposureID        string          `json:"exposure_id"`
	Stage             Stage           `json:"stage"`
	Horizon           ECLHorizon      `json:"horizon"`
	ExposureAtDefault decimal.Decimal `json:"exposure_at_default"`
	AdjustedPD        decimal.Decimal `json:"adjusted_pd"`
	LGD               decimal.Decimal `json:"lgd"`
	MultiplierApplied decimal.Decimal `json:"multiplier_applied"`
	ECLAmount         decimal.Decimal `json:"ecl_amount"`
}

// PortfolioECLResult aggregates per-exposure ECL results.
type PortfolioECLResult struct {
	TotalECL        decimal.Decimal `json:"total_ecl"`
	TotalEAD        decimal.Decimal `json:"total_ead"`
	WeightedPD      decimal.Decimal `json:"weighted_pd"`
	WeightedLGD     decimal.Decimal `json:"weighted_lgd"`
	CoverageRatio   decimal.Decimal `json:"coverage_ratio"`
	Stage1ECL       decimal.Decimal `json:"stage_1_ecl"`
	Stage2ECL       decimal.Decimal `json:"stage_2_ecl"`
	Stage3ECL       decimal.Decimal `json:"stage_3_ecl"`
	Stage1Share     decimal.Decimal `json:"stage_1_share"`
	Stage2Share     decimal.Decimal `json:"stage_2_share"`
	Stage3Share     decimal.Decimal `json:"stage_3_share"`
	Stage1Count     int             `json:"stage_1_count"`
	Stage2Count     int             `json:"stage_2_count"`
	Stage3Count     int             `json:"stage_3_count"`
	Stage3Coverage  decimal.Decimal `json:"stage_3_coverage"`
	Items           []ECLResult     `json:"items"`
	Warnings        []string        `json:"warnings"`
}

// LiabilityResult is the IFRS 17 outcome for one cohort (or one contract
// in per-contract mode). CSM is never negative: an onerous group clamps
// CSM to zero and records the deficit as an immediate loss alongside the
// liability figure, not instead of it. Total liability = BEL + RA; the
// CSM is off-balance-sheet information reported separately.
type LiabilityResult struct {
	CohortID            string           `json:"cohort_id"`
	Model               MeasurementModel `json:"model"`
	RAMethod            RAMethod         `json:"ra_method"`
	BEL                 decimal.Decimal  `json:"bel"`
	RA                  decimal.Decimal  `json:"ra"`
	CSM                 decimal.Decimal  `json:"csm"`
	FulfilmentCashFlows decimal.Decimal  `json:"fulfilment_cash_flows"`
	TotalLiability      decimal.Decimal  `json:"total_liability"`
	IsOnerous           bool             `json:"is_onerous"`
	OnerousLoss         decimal.Decimal  `json:"onerous_loss"`
}

// PortfolioLiabilityResult aggregates per-cohort liability results.
// Onerous cohorts are listed by identifier so downstream consumers can
// flag affected groups without recomputing.
type PortfolioLiabilityResult struct {
	TotalBEL         decimal.Decimal   `json:"total_bel"`
	TotalRA          decimal.Decimal   `json:"total_ra"`
	TotalCSM         decimal.Decimal   `json:"total_csm"`
	TotalLiability   decimal.Decimal   `json:"total_liability"`
	TotalOnerousLoss decimal.Decimal   `json:"total_onerous_loss"`
	OnerousCohorts   []string          `json:"onerous_cohorts"`
	GMMCount         int               `json:"gmm_count"`
	VFACount         int               `json:"vfa_count"`
	PAACount         int               `json:"paa_count"`
	Items            []LiabilityResult `json:"items"`
	Warnings         []string          `json:"warnings"`
}

// StressOutcome is the solvency ratio re-evaluated under one named
// perturbation of the base case.
type StressOutcome struct {
	Name   string          `json:"name"`
	Ratio  decimal.Decimal `json:"ratio"`
	Status SolvencyStatus  `json:"status"`
}

// SolvencyResult is the capital-adequacy outcome.
type SolvencyResult struct {
	PremiumMargin decimal.Decimal `json:"premium_margin"`
	ClaimsMargin  decimal.Decimal `json:"claims_margin"`
	MinimumMargin decimal.Decimal `json:"minimum_margin"`
	OwnFunds      decimal.Decimal `json:"own_funds"`
	Ratio         decimal.Decimal `json:"ratio"`
	Status        SolvencyStatus  `json:"status"`
	IsCompliant   bool            `json:"is_compliant"`
	Stress        []StressOutcome `json:"stress"`
}

// ContributionResult is the guarantee-fund levy outcome.
type ContributionResult struct {
	BaseLevy         decimal.Decimal `json:"base_levy"`
	RiskCategory     RiskCategory    `json:"risk_category"`
	Multiplier       decimal.Decimal `json:"multiplier"`
	ViolationPenalty decimal.Decimal `json:"violation_penalty"`
	TotalLevy        decimal.Decimal `json:"total_levy"`
}

// ComplianceStatus is the overall verdict of a suite run.
type ComplianceStatus string

const (
	ComplianceCompliant ComplianceStatus = "COMPLIANT"
	ComplianceWarning   ComplianceStatus = "WARNING"
	ComplianceError     ComplianceStatus = "ERROR"
)

// ComplianceReport carries the verdict and the business-rule findings
// behind it. Warnings and violations are data, never raised errors:
// callers can render partial, still-useful output even under
// regulatory non-compliance.
type ComplianceReport struct {
	Status   ComplianceStatus `json:"status"`
	Warnings []string         `json:"warnings"`
	Errors   []string         `json:"errors"`
}

// SuiteResult is the full fan-in of the four engines for one portfolio.
// InputHash is the SHA-256 digest of the canonical request payload,
// computed deterministically for tamper-evident audit lineage; the
// engine owns none of its storage.
type SuiteResult struct {
	RunID           uuid.UUID                `json:"run_id"`
	TenantID        string                   `json:"tenant_id"`
	PortfolioID     string                   `json:"portfolio_id"`
	CalculationDate time.Time                `json:"calculation_date"`
	InputHash       string                   `json:"input_hash"`
	IFRS9           PortfolioECLResult       `json:"ifrs9"`
	IFRS17          PortfolioLiabilityResult `json:"ifrs17"`
	Solvency        SolvencyResult           `json:"solvency"`
	Contribution    ContributionResult       `json:"contribution"`
	Compliance      ComplianceReport         `json:"compliance"`
}
