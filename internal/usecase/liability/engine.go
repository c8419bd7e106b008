package liability

import (
	"fmt"

	"github.com/insurepro/regcalc-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// bestEstimateLiability discounts the annual claims+expenses outflow at
// e^(-rate*t) over the contract term. The sum stays unrounded; callers
// round at the output boundary.
func bestEstimateLiability(annualClaims, annualExpenses, rate decimal.Decimal, term int) decimal.Decimal {
	outflow := annualClaims.Add(annualExpenses)
	bel := decimal.Zero
	for t := 1; t <= term; t++ {
		bel = bel.Add(outflow.Mul(domain.DiscountFactor(rate, t)))
	}
	return bel
}

// riskAdjustment dispatches on the closed set of RA methods.
//
// Cost-of-Capital: a capital charge of 10% of BEL held over the term at
// the cost-of-capital rate, undiscounted. Deliberately conservative;
// the richer stochastic methods are a documented, unimplemented
// extension.
// Conditional-Tail-Expectation (simplified): a fixed share of BEL.
func riskAdjustment(method domain.RAMethod, bel decimal.Decimal, term int, params domain.RegulatoryParams) (decimal.Decimal, error) {
	switch method {
	case domain.RAMethodCostOfCapital:
		charge := bel.Mul(params.CapitalChargeRate)
		return charge.Mul(params.CoCRate).Mul(decimal.NewFromInt(int64(term))), nil
	case domain.RAMethodCTE:
		return bel.Mul(params.CTEShare), nil
	default:
		return decimal.Zero, domain.NewValidationError("ra_method", fmt.Sprintf("unknown risk-adjustment method %q", method))
	}
}

// measure runs the general measurement model over one cash-flow profile.
// CSM = premiums - acquisition - BEL - RA. A negative CSM marks the
// group onerous: the deficit is recorded as an immediate loss and the
// reported CSM is clamped to exactly zero. Loss recognition happens
// alongside the liability figure, never instead of it.
func measure(id string, model domain.MeasurementModel, method domain.RAMethod,
	premiums, acquisition, annualClaims, annualExpenses, rate decimal.Decimal, term int,
	params domain.RegulatoryParams) (*domain.LiabilityResult, error) {

	bel := domain.RoundCurrency(bestEstimateLiability(annualClaims, annualExpenses, rate, term))

	ra, err := riskAdjustment(method, bel, term, params)
	if err != nil {
		return nil, err
	}
	ra = domain.RoundCurrency(ra)

	csm := premiums.Sub(acquisition).Sub(bel).Sub(ra)
	isOnerous := csm.IsNegative()
	onerousLoss := decimal.Zero
	if isOnerous {
		onerousLoss = domain.RoundCurrency(csm.Abs())
		csm = decimal.Zero
	}

	fcf := bel.Add(ra)
	return &domain.LiabilityResult{
		CohortID:            id,
		Model:               model,
		RAMethod:            method,
		BEL:                 bel,
		RA:                  ra,
		CSM:                 domain.RoundCurrency(csm),
		FulfilmentCashFlows: fcf,
		TotalLiability:      fcf,
		IsOnerous:           isOnerous,
		OnerousLoss:         onerousLoss,
	}, nil
}

// CalculateCohort measures one cohort in aggregate mode.
func CalculateCohort(cohort domain.InsuranceCohort, method domain.RAMethod, params domain.RegulatoryParams) (*domain.LiabilityResult, error) {
	if err := cohort.Validate(); err != nil {
		return nil, err
	}
	return measure(cohort.ID, cohort.Model, method,
		cohort.PremiumTotal, cohort.AcquisitionCost,
		cohort.AnnualClaims, cohort.AnnualExpenses,
		cohort.DiscountRate, cohort.ContractTerm, params)
}

// CalculateContract measures a single contract on its own. This is the
// per-contract mode: each contract is clamped independently, so a
// cohort's per-contract results and its pooled result diverge exactly
// by the pooling of deficits and surpluses, not by rounding drift.
func CalculateContract(contract domain.InsuranceContract, method domain.RAMethod, params domain.RegulatoryParams) (*domain.LiabilityResult, error) {
	if err := contract.Validate(); err != nil {
		return nil, err
	}
	return measure(contract.ID, contract.Model, method,
		contract.PremiumTotal, contract.AcquisitionCost,
		contract.AnnualClaims, contract.AnnualExpenses,
		contract.DiscountRate, contract.ContractTerm, params)
}

// CalculatePooled measures a set of contracts belonging to one cohort as
// a single pooled group: cash flows are projected per contract over each
// contract's own term and rate, summed before rounding, the risk
// adjustment is taken on the pooled BEL over the longest remaining term,
// and the onerous clamp applies once at the cohort level.
func CalculatePooled(cohortID string, contracts []domain.InsuranceContract, method domain.RAMethod, params domain.RegulatoryParams) (*domain.LiabilityResult, error) {
	if len(contracts) == 0 {
		return nil, domain.NewValidationError("contracts", "pooled measurement requires at least one contract")
	}

	premiums := decimal.Zero
	acquisition := decimal.Zero
	pooledBEL := decimal.Zero
	longestTerm := 0
	model := contracts[0].Model

	for i := range contracts {
		c := &contracts[i]
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if c.CohortID != cohortID {
			return nil, domain.NewValidationError("cohort_id", fmt.Sprintf("contract %s does not belong to cohort %s", c.ID, cohortID))
		}
		premiums = premiums.Add(c.PremiumTotal)
		acquisition = acquisition.Add(c.AcquisitionCost)
		pooledBEL = pooledBEL.Add(bestEstimateLiability(c.AnnualClaims, c.AnnualExpenses, c.DiscountRate, c.ContractTerm))
		if c.ContractTerm > longestTerm {
			longestTerm = c.ContractTerm
		}
	}

	bel := domain.RoundCurrency(pooledBEL)
	ra, err := riskAdjustment(method, bel, longestTerm, params)
	if err != nil {
		return nil, err
	}
	ra = domain.RoundCurrency(ra)

	csm := premiums.Sub(acquisition).Sub(bel).Sub(ra)
	isOnerous := csm.IsNegative()
	onerousLoss := decimal.Zero
	if isOnerous {
		onerousLoss = domain.RoundCurrency(csm.Abs())
		csm = decimal.Zero
	}

	fcf := bel.Add(ra)
	return &domain.LiabilityResult{
		CohortID:            cohortID,
		Model:               model,
		RAMethod:            method,
		BEL:                 bel,
		RA:                  ra,
		CSM:                 domain.RoundCurrency(csm),
		FulfilmentCashFlows: fcf,
		TotalLiability:      fcf,
		IsOnerous:           isOnerous,
		OnerousLoss:         onerousLoss,
	}, nil
}

// Aggregate folds per-cohort results into the portfolio view. Onerous
// cohorts are listed by identifier; cohorts are counted per measurement
// model. VFA and PAA cohorts are measured through the GMM pipeline and
// tracked here by count only.
func Aggregate(items []domain.LiabilityResult) *domain.PortfolioLiabilityResult {
	result := &domain.PortfolioLiabilityResult{
		TotalBEL:         decimal.Zero,
		TotalRA:          decimal.Zero,
		TotalCSM:         decimal.Zero,
		TotalLiability:   decimal.Zero,
		TotalOnerousLoss: decimal.Zero,
		OnerousCohorts:   []string{},
		Items:            items,
		Warnings:         []string{},
	}

	for _, item := range items {
		result.TotalBEL = result.TotalBEL.Add(item.BEL)
		result.TotalRA = result.TotalRA.Add(item.RA)
		result.TotalCSM = result.TotalCSM.Add(item.CSM)
		result.TotalLiability = result.TotalLiability.Add(item.TotalLiability)
		result.TotalOnerousLoss = result.TotalOnerousLoss.Add(item.OnerousLoss)

		if item.IsOnerous {
			result.OnerousCohorts = append(result.OnerousCohorts, item.CohortID)
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"cohort %s is onerous: immediate loss %s recognized, CSM clamped to zero",
				item.CohortID, item.OnerousLoss))
		}

		switch item.Model {
		case domain.ModelGMM:
			result.GMMCount++
		case domain.ModelVFA:
			result.VFACount++
		case domain.ModelPAA:
			result.PAACount++
		}
	}

	return result
}

// CalculatePortfolio validates and measures every cohort, then
// aggregates. Each cohort is evaluated independently.
func CalculatePortfolio(cohorts []domain.InsuranceCohort, method domain.RAMethod, params domain.RegulatoryParams) (*domain.PortfolioLiabilityResult, error) {
	for i := range cohorts {
		if err := cohorts[i].Validate(); err != nil {
			return nil, err
		}
	}

	items := make([]domain.LiabilityResult, 0, len(cohorts))
	for i := range cohorts {
		item, err := CalculateCohort(cohorts[i], method, params)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return Aggregate(items), nil
}
