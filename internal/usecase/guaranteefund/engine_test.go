package guaranteefund

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurepro/regcalc-backend/internal/domain"
)

func TestCategoryForRatio_TierBoundaries(t *testing.T) {
	cases := []struct {
		ratio    string
		expected domain.RiskCategory
	}{
		{"2.50", domain.RiskCategoryLow},
		{"2.00", domain.RiskCategoryLow},
		{"1.99", domain.RiskCategoryMedium},
		{"1.50", domain.RiskCategoryMedium},
		{"1.49", domain.RiskCategoryHigh},
		{"1.00", domain.RiskCategoryHigh},
		{"0.99", domain.RiskCategoryCritical},
		{"0", domain.RiskCategoryCritical},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, CategoryForRatio(decimal.RequireFromString(c.ratio)),
			"ratio %s", c.ratio)
	}
}

func TestCalculate_LowRiskBaseLevy(t *testing.T) {
	// 10,000,000 * 0.005 * 1 = 50,000.
	result, err := Calculate(decimal.NewFromInt(10_000_000), decimal.RequireFromString("2.10"),
		false, domain.DefaultRegulatoryParams())
	require.NoError(t, err)

	assert.Equal(t, domain.RiskCategoryLow, result.RiskCategory)
	assert.True(t, result.Multiplier.Equal(decimal.NewFromInt(1)))
	assert.True(t, result.BaseLevy.Equal(decimal.RequireFromString("50000.00")))
	assert.True(t, result.ViolationPenalty.IsZero())
	assert.True(t, result.TotalLevy.Equal(decimal.RequireFromString("50000.00")))
}

func TestCalculate_CriticalTierScalesLevySixfold(t *testing.T) {
	// 10,000,000 * 0.005 * 6 = 300,000.
	result, err := Calculate(decimal.NewFromInt(10_000_000), decimal.RequireFromString("0.80"),
		false, domain.DefaultRegulatoryParams())
	require.NoError(t, err)

	assert.Equal(t, domain.RiskCategoryCritical, result.RiskCategory)
	assert.True(t, result.Multiplier.Equal(decimal.NewFromInt(6)))
	assert.True(t, result.TotalLevy.Equal(decimal.RequireFromString("300000.00")),
		"expected 300000.00, got %s", result.TotalLevy)
}

func TestCalculate_ViolationSurcharge(t *testing.T) {
	// high tier: 10,000,000 * 0.005 * 4 = 200,000; violations add 25%.
	result, err := Calculate(decimal.NewFromInt(10_000_000), decimal.RequireFromString("1.20"),
		true, domain.DefaultRegulatoryParams())
	require.NoError(t, err)

	assert.Equal(t, domain.RiskCategoryHigh, result.RiskCategory)
	assert.True(t, result.ViolationPenalty.Equal(decimal.RequireFromString("50000.00")),
		"expected penalty 50000.00, got %s", result.ViolationPenalty)
	assert.True(t, result.TotalLevy.Equal(decimal.RequireFromString("250000.00")),
		"expected 250000.00, got %s", result.TotalLevy)
}

func TestCalculate_ZeroPremiumsZeroLevy(t *testing.T) {
	result, err := Calculate(decimal.Zero, decimal.RequireFromString("0.50"),
		true, domain.DefaultRegulatoryParams())
	require.NoError(t, err)

	assert.True(t, result.TotalLevy.IsZero())
	assert.Equal(t, domain.RiskCategoryCritical, result.RiskCategory)
}

func TestCalculate_NegativePremiumsRejected(t *testing.T) {
	_, err := Calculate(decimal.NewFromInt(-1), decimal.NewFromInt(2),
		false, domain.DefaultRegulatoryParams())
	require.Error(t, err)

	verr, ok := domain.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "gross_premiums", verr.Field)
}
