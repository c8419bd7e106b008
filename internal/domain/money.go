package domain

import (
	"github.com/shopspring/decimal"
)

// Rounding precisions mandated by the reporting rules.
// Currency amounts carry 2 decimal places, ratios and probabilities 4,
// the weighted scenario multiplier 3.
const (
	CurrencyPlaces   int32 = 2
	RatioPlaces      int32 = 4
	MultiplierPlaces int32 = 3
)

// expPrecision is the internal precision used for continuous discount
// factors. Intermediate values are never rounded to output precision;
// rounding happens only at the defined output boundaries.
const expPrecision int32 = 16

// RoundCurrency rounds a monetary amount to 2 decimal places,
// half away from zero.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// RoundRatio rounds a ratio or probability to 4 decimal places,
// half away from zero.
func RoundRatio(d decimal.Decimal) decimal.Decimal {
	return d.Round(RatioPlaces)
}

// RoundMultiplier rounds a scenario multiplier to 3 decimal places,
// half away from zero.
func RoundMultiplier(d decimal.Decimal) decimal.Decimal {
	return d.Round(MultiplierPlaces)
}

// DiscountFactor returns the continuous discount factor e^(-rate*t)
// for a whole-year period t.
func DiscountFactor(rate decimal.Decimal, period int) decimal.Decimal {
	exponent := rate.Mul(decimal.NewFromInt(int64(period))).Neg()
	df, err := exponent.ExpTaylor(expPrecision)
	if err != nil {
		// ExpTaylor only fails for precision < -1, which is constant here
		return decimal.Zero
	}
	return df
}

// isUnitInterval reports whether d lies in [0, 1].
func isUnitInterval(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}
