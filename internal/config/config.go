// Package config loads regulatory parameter overrides from YAML, so a
// jurisdiction recalibration ships as a file change instead of a
// release. Absent fields keep their defaults; numeric values are read
// as strings and converted to exact decimals, never through float64.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/insurepro/regcalc-backend/internal/domain"
)

type scenarioFile struct {
	Name       string `yaml:"name"`
	Multiplier string `yaml:"multiplier"`
	Weight     string `yaml:"weight"`
}

type stagesFile struct {
	Stage2DaysPastDue *int   `yaml:"stage_2_days_past_due"`
	Stage3DaysPastDue *int   `yaml:"stage_3_days_past_due"`
	PDRatio           string `yaml:"pd_ratio"`
}

type stressFile struct {
	Name          string `yaml:"name"`
	OwnFundsShock string `yaml:"own_funds_shock"`
	MarginShock   string `yaml:"margin_shock"`
}

type guaranteeFundFile struct {
	BaseRate           string `yaml:"base_rate"`
	LowMultiplier      string `yaml:"low_multiplier"`
	MediumMultiplier   string `yaml:"medium_multiplier"`
	HighMultiplier     string `yaml:"high_multiplier"`
	CriticalMultiplier string `yaml:"critical_multiplier"`
	ViolationFactor    string `yaml:"violation_factor"`
}

type paramsFile struct {
	Scenarios             []scenarioFile     `yaml:"scenarios"`
	Stages                *stagesFile        `yaml:"stages"`
	Stage3CoverageMinimum string             `yaml:"stage_3_coverage_minimum"`
	CapitalChargeRate     string             `yaml:"capital_charge_rate"`
	CoCRate               string             `yaml:"coc_rate"`
	CTEShare              string             `yaml:"cte_share"`
	PremiumMarginRate     string             `yaml:"premium_margin_rate"`
	ClaimsMarginRate      string             `yaml:"claims_margin_rate"`
	CompulsoryLoading     string             `yaml:"compulsory_loading"`
	StressScenarios       []stressFile       `yaml:"stress_scenarios"`
	GuaranteeFund         *guaranteeFundFile `yaml:"guarantee_fund"`
}

// LoadRegulatoryParams reads a YAML override file and merges it over
// the built-in defaults. The merged set is validated before it is
// returned, so a file that breaks the scenario-weight precondition
// fails at startup rather than mid-calculation.
func LoadRegulatoryParams(path string) (domain.RegulatoryParams, error) {
	params := domain.DefaultRegulatoryParams()

	raw, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("read regulatory parameters %s: %w", path, err)
	}

	var file paramsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return params, fmt.Errorf("parse regulatory parameters %s: %w", path, err)
	}

	if err := applyOverrides(&params, &file); err != nil {
		return params, fmt.Errorf("apply regulatory parameters %s: %w", path, err)
	}
	if err := params.Validate(); err != nil {
		return params, fmt.Errorf("validate regulatory parameters %s: %w", path, err)
	}
	return params, nil
}

func applyOverrides(params *domain.RegulatoryParams, file *paramsFile) error {
	if len(file.Scenarios) > 0 {
		scenarios := make([]domain.MacroScenario, 0, len(file.Scenarios))
		for _, s := range file.Scenarios {
			multiplier, err := parseDecimal("scenarios.multiplier", s.Multiplier)
			if err != nil {
				return err
			}
			weight, err := parseDecimal("scenarios.weight", s.Weight)
			if err != nil {
				return err
			}
			scenarios = append(scenarios, domain.MacroScenario{
				Name:       s.Name,
				Multiplier: multiplier,
				Weight:     weight,
			})
		}
		params.Scenarios = scenarios
	}

	if file.Stages != nil {
		if file.Stages.Stage2DaysPastDue != nil {
			params.Stages.Stage2DaysPastDue = *file.Stages.Stage2DaysPastDue
		}
		if file.Stages.Stage3DaysPastDue != nil {
			params.Stages.Stage3DaysPastDue = *file.Stages.Stage3DaysPastDue
		}
		if err := overrideDecimal(&params.Stages.PDRatio, "stages.pd_ratio", file.Stages.PDRatio); err != nil {
			return err
		}
	}

	scalars := []struct {
		target *decimal.Decimal
		field  string
		value  string
	}{
		{&params.Stage3CoverageMinimum, "stage_3_coverage_minimum", file.Stage3CoverageMinimum},
		{&params.CapitalChargeRate, "capital_charge_rate", file.CapitalChargeRate},
		{&params.CoCRate, "coc_rate", file.CoCRate},
		{&params.CTEShare, "cte_share", file.CTEShare},
		{&params.PremiumMarginRate, "premium_margin_rate", file.PremiumMarginRate},
		{&params.ClaimsMarginRate, "claims_margin_rate", file.ClaimsMarginRate},
		{&params.CompulsoryLoading, "compulsory_loading", file.CompulsoryLoading},
	}
	for _, s := range scalars {
		if err := overrideDecimal(s.target, s.field, s.value); err != nil {
			return err
		}
	}

	if len(file.StressScenarios) > 0 {
		stress := make([]domain.StressScenario, 0, len(file.StressScenarios))
		for _, s := range file.StressScenarios {
			fundsShock, err := parseDecimal("stress_scenarios.own_funds_shock", s.OwnFundsShock)
			if err != nil {
				return err
			}
			marginShock := decimal.Zero
			if s.MarginShock != "" {
				marginShock, err = parseDecimal("stress_scenarios.margin_shock", s.MarginShock)
				if err != nil {
					return err
				}
			}
			stress = append(stress, domain.StressScenario{
				Name:          s.Name,
				OwnFundsShock: fundsShock,
				MarginShock:   marginShock,
			})
		}
		params.StressScenarios = stress
	}

	if file.GuaranteeFund != nil {
		fund := []struct {
			target *decimal.Decimal
			field  string
			value  string
		}{
			{&params.GuaranteeFund.BaseRate, "guarantee_fund.base_rate", file.GuaranteeFund.BaseRate},
			{&params.GuaranteeFund.LowMultiplier, "guarantee_fund.low_multiplier", file.GuaranteeFund.LowMultiplier},
			{&params.GuaranteeFund.MediumMultiplier, "guarantee_fund.medium_multiplier", file.GuaranteeFund.MediumMultiplier},
			{&params.GuaranteeFund.HighMultiplier, "guarantee_fund.high_multiplier", file.GuaranteeFund.HighMultiplier},
			{&params.GuaranteeFund.CriticalMultiplier, "guarantee_fund.critical_multiplier", file.GuaranteeFund.CriticalMultiplier},
			{&params.GuaranteeFund.ViolationFactor, "guarantee_fund.violation_factor", file.GuaranteeFund.ViolationFactor},
		}
		for _, f := range fund {
			if err := overrideDecimal(f.target, f.field, f.value); err != nil {
				return err
			}
		}
	}

	return nil
}

func overrideDecimal(target *decimal.Decimal, field, value string) error {
	if value == "" {
		return nil
	}
	parsed, err := parseDecimal(field, value)
	if err != nil {
		return err
	}
	*target = parsed
	return nil
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid decimal %q: %w", field, value, err)
	}
	return parsed, nil
}
