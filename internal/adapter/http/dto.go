package http

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insurepro/regcalc-backend/internal/domain"
)

// ExposureDTO is the wire form of a credit exposure. Amounts arrive as
// JSON numbers and are decoded into exact decimals; float64 never
// appears on the path.
type ExposureDTO struct {
	ID                  string          `json:"id" binding:"required"`
	GrossCarryingAmount decimal.Decimal `json:"gross_carrying_amount"`
	PDOrigination       decimal.Decimal `json:"pd_origination"`
	PDCurrent           decimal.Decimal `json:"pd_current"`
	LGD                 decimal.Decimal `json:"lgd"`
	DaysPastDue         int             `json:"days_past_due" binding:"min=0"`
	RemainingTermYears  int             `json:"remaining_term_years" binding:"required,min=1"`
	EffectiveRate       decimal.Decimal `json:"effective_rate"`
}

// CohortDTO is the wire form of an insurance cohort.
type CohortDTO struct {
	ID              string          `json:"id" binding:"required"`
	Model           string          `json:"model" binding:"required,oneof=GMM VFA PAA"`
	PremiumTotal    decimal.Decimal `json:"premium_total"`
	AnnualClaims    decimal.Decimal `json:"annual_claims"`
	AnnualExpenses  decimal.Decimal `json:"annual_expenses"`
	AcquisitionCost decimal.Decimal `json:"acquisition_cost"`
	ContractTerm    int             `json:"contract_term_years" binding:"required,min=1"`
	DiscountRate    decimal.Decimal `json:"discount_rate"`
}

// CapitalDTO is the wire form of the balance-sheet position.
type CapitalDTO struct {
	GrossPremiums       decimal.Decimal `json:"gross_premiums"`
	IncurredClaims      decimal.Decimal `json:"incurred_claims"`
	Equity              decimal.Decimal `json:"equity"`
	SubordinatedCapital decimal.Decimal `json:"subordinated_capital"`
	IlliquidAssets      decimal.Decimal `json:"illiquid_assets"`
	Retention           decimal.Decimal `json:"retention"`
	CompulsoryLine      bool            `json:"compulsory_line"`
}

// RiskDTO is the wire form of the portfolio risk block.
type RiskDTO struct {
	MarketVolatility    decimal.Decimal `json:"market_volatility"`
	CreditExposure      decimal.Decimal `json:"credit_exposure"`
	DefaultRate         decimal.Decimal `json:"default_rate"`
	OperationalLossRate decimal.Decimal `json:"operational_loss_rate"`
	OwnFunds            decimal.Decimal `json:"own_funds"`
}

// CalculationRequestDTO is the POST /api/v1/calculations payload.
// Structural constraints are checked by binding tags; the numeric
// regulatory preconditions are checked again by the domain layer.
type CalculationRequestDTO struct {
	TenantID                  string          `json:"tenant_id" binding:"required"`
	PortfolioID               string          `json:"portfolio_id" binding:"required"`
	CalculationDate           time.Time       `json:"calculation_date" binding:"required"`
	InflationRate             decimal.Decimal `json:"inflation_rate"`
	RiskFreeRate              decimal.Decimal `json:"risk_free_rate"`
	Exposures                 []ExposureDTO   `json:"exposures" binding:"dive"`
	Cohorts                   []CohortDTO     `json:"cohorts" binding:"dive"`
	RAMethod                  string          `json:"ra_method" binding:"required,oneof=COST_OF_CAPITAL CTE"`
	Capital                   CapitalDTO      `json:"capital"`
	Risk                      RiskDTO         `json:"risk"`
	MinimumCapitalRequirement decimal.Decimal `json:"minimum_capital_requirement"`
	RegulatoryViolations      bool            `json:"regulatory_violations"`
}

// ToDomain converts the validated DTO into the engine request.
func (d *CalculationRequestDTO) ToDomain() *domain.CalculationRequest {
	exposures := make([]domain.Exposure, 0, len(d.Exposures))
	for _, e := range d.Exposures {
		exposures = append(exposures, domain.Exposure{
			ID:                  e.ID,
			GrossCarryingAmount: e.GrossCarryingAmount,
			PDOrigination:       e.PDOrigination,
			PDCurrent:           e.PDCurrent,
			LGD:                 e.LGD,
			DaysPastDue:         e.DaysPastDue,
			RemainingTermYears:  e.RemainingTermYears,
			EffectiveRate:       e.EffectiveRate,
		})
	}

	cohorts := make([]domain.InsuranceCohort, 0, len(d.Cohorts))
	for _, c := range d.Cohorts {
		cohorts = append(cohorts, domain.InsuranceCohort{
			ID:              c.ID,
			Model:           domain.MeasurementModel(c.Model),
			PremiumTotal:    c.PremiumTotal,
			AnnualClaims:    c.AnnualClaims,
			AnnualExpenses:  c.AnnualExpenses,
			AcquisitionCost: c.AcquisitionCost,
			ContractTerm:    c.ContractTerm,
			DiscountRate:    c.DiscountRate,
		})
	}

	return &domain.CalculationRequest{
		TenantID:        d.TenantID,
		PortfolioID:     d.PortfolioID,
		CalculationDate: d.CalculationDate,
		InflationRate:   d.InflationRate,
		RiskFreeRate:    d.RiskFreeRate,
		Exposures:       exposures,
		Cohorts:         cohorts,
		RAMethod:        domain.RAMethod(d.RAMethod),
		Capital: domain.CapitalPosition{
			GrossPremiums:       d.Capital.GrossPremiums,
			IncurredClaims:      d.Capital.IncurredClaims,
			Equity:              d.Capital.Equity,
			SubordinatedCapital: d.Capital.SubordinatedCapital,
			IlliquidAssets:      d.Capital.IlliquidAssets,
			Retention:           d.Capital.Retention,
			CompulsoryLine:      d.Capital.CompulsoryLine,
		},
		Risk: domain.RiskParameters{
			MarketVolatility:    d.Risk.MarketVolatility,
			CreditExposure:      d.Risk.CreditExposure,
			DefaultRate:         d.Risk.DefaultRate,
			OperationalLossRate: d.Risk.OperationalLossRate,
			OwnFunds:            d.Risk.OwnFunds,
		},
		MinimumCapitalRequirement: d.MinimumCapitalRequirement,
		RegulatoryViolations:      d.RegulatoryViolations,
	}
}

// ErrorResponse is the uniform error body of the API.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// RunResponse is the GET /api/v1/calculations/:id body: run metadata
// with the stored result embedded verbatim.
type RunResponse struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenant_id"`
	PortfolioID     string          `json:"portfolio_id"`
	CalculationDate time.Time       `json:"calculation_date"`
	InputHash       string          `json:"input_hash"`
	Status          string          `json:"status"`
	Result          json.RawMessage `json:"result"`
	CreatedAt       time.Time       `json:"created_at"`
}
