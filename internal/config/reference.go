package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/rpgo/dta-calculator/internal/domain"
	"github.com/rpgo/dta-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultReferenceYAML []byte

var (
	defaultTaperThreshold = decimal.NewFromInt(100000)
	defaultTaperRate      = decimal.NewFromFloat(0.5)
	one                   = decimal.NewFromInt(1)
	hundred               = decimal.NewFromInt(100)
)

// InputParser handles parsing of reference data and calculation input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// DefaultReferenceData returns the built-in reference tables
func (ip *InputParser) DefaultReferenceData() (*domain.ReferenceData, error) {
	return ip.ParseReferenceData(defaultReferenceYAML)
}

// LoadReferenceData loads reference tables from a YAML or JSON file
func (ip *InputParser) LoadReferenceData(filename string) (*domain.ReferenceData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read file %s: %v", ErrInvalidReferenceData, filename, err)
	}
	return ip.ParseReferenceData(data)
}

// ParseReferenceData decodes reference tables, applies defaults and checks invariants
func (ip *InputParser) ParseReferenceData(data []byte) (*domain.ReferenceData, error) {
	var ref domain.ReferenceData
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidReferenceData, err)
	}

	applyReferenceDefaults(&ref)

	if err := ip.ValidateReferenceData(&ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

func applyReferenceDefaults(ref *domain.ReferenceData) {
	ref.ReportingCurrency = strings.ToUpper(strings.TrimSpace(ref.ReportingCurrency))
	if ref.ReportingCurrency == "" {
		ref.ReportingCurrency = "GBP"
	}
	for name, cfg := range ref.TaxYears {
		if cfg == nil {
			continue
		}
		cfg.Name = name
		if cfg.AllowanceTaperThreshold.IsZero() && cfg.AllowanceTaperRate.IsZero() {
			cfg.AllowanceTaperThreshold = defaultTaperThreshold
			cfg.AllowanceTaperRate = defaultTaperRate
		}
	}
}

// ValidateReferenceData checks the invariants the engines rely on
func (ip *InputParser) ValidateReferenceData(ref *domain.ReferenceData) error {
	if len(ref.TaxYears) == 0 {
		return fmt.Errorf("%w: no tax years provided", ErrInvalidReferenceData)
	}
	for name, cfg := range ref.TaxYears {
		if err := ip.validateTaxYear(name, cfg); err != nil {
			return fmt.Errorf("%w: tax year %s: %v", ErrInvalidReferenceData, name, err)
		}
	}

	for code, rate := range ref.ExchangeRates {
		if !rate.IsPositive() {
			return fmt.Errorf("%w: exchange rate for %s must be positive", ErrInvalidReferenceData, code)
		}
	}

	seen := make(map[string]bool, len(ref.Treaties))
	for i, t := range ref.Treaties {
		code := strings.ToUpper(strings.TrimSpace(t.CountryCode))
		if code == "" {
			return fmt.Errorf("%w: treaty %d: country code is required", ErrInvalidReferenceData, i)
		}
		if seen[code] {
			return fmt.Errorf("%w: duplicate treaty for %s", ErrInvalidReferenceData, code)
		}
		seen[code] = true
		if !t.ReliefMethod.Valid() {
			return fmt.Errorf("%w: treaty %s: relief method is required", ErrInvalidReferenceData, code)
		}
		if t.MaxCreditPercentage.IsNegative() || t.MaxCreditPercentage.GreaterThan(hundred) {
			return fmt.Errorf("%w: treaty %s: max credit percentage must be between 0 and 100", ErrInvalidReferenceData, code)
		}
	}

	if th := ref.AdvisoryThresholds; th != nil {
		if th.SpecialistJurisdictions < 0 {
			return fmt.Errorf("%w: advisory specialist_jurisdictions cannot be negative", ErrInvalidReferenceData)
		}
		for _, v := range []decimal.Decimal{th.MultiCountryFilingIncome, th.RemittanceBasisIncome, th.RemittanceSavingRate,
			th.PropertyStructureIncome, th.PropertySavingRate, th.DividendWithholdingRate, th.BusinessPEIncome} {
			if v.IsNegative() {
				return fmt.Errorf("%w: advisory thresholds cannot be negative", ErrInvalidReferenceData)
			}
		}
	}

	return nil
}

// validateTaxYear validates a single rate card
func (ip *InputParser) validateTaxYear(name string, cfg *domain.TaxYearConfig) error {
	if cfg == nil {
		return fmt.Errorf("rate card is empty")
	}
	if _, _, err := dateutil.ParseTaxYear(name); err != nil {
		return err
	}
	if cfg.PersonalAllowance.IsNegative() {
		return fmt.Errorf("personal allowance cannot be negative")
	}
	if cfg.AllowanceTaperRate.IsNegative() || cfg.AllowanceTaperRate.GreaterThan(one) {
		return fmt.Errorf("allowance taper rate must be between 0 and 1")
	}
	if len(cfg.Bands) == 0 {
		return fmt.Errorf("at least one band is required")
	}

	previous := decimal.Zero
	for i, band := range cfg.Bands {
		if !isFraction(band.Rate) {
			return fmt.Errorf("band %q: rate must be between 0 and 1", band.Name)
		}
		last := i == len(cfg.Bands)-1
		if band.Unbounded() {
			if !last {
				return fmt.Errorf("band %q: only the last band may be unbounded", band.Name)
			}
			continue
		}
		if last {
			return fmt.Errorf("band %q: the last band must be unbounded", band.Name)
		}
		if band.Threshold.LessThanOrEqual(previous) {
			return fmt.Errorf("band %q: thresholds must increase strictly", band.Name)
		}
		previous = *band.Threshold
	}

	cgt := cfg.CGT
	if cgt.AnnualExemption.IsNegative() {
		return fmt.Errorf("cgt annual exemption cannot be negative")
	}
	for _, r := range []decimal.Decimal{cgt.BasicRate, cgt.HigherRate, cgt.PropertyBasicRate, cgt.PropertyHigherRate} {
		if !isFraction(r) {
			return fmt.Errorf("cgt rates must be between 0 and 1")
		}
	}
	return nil
}

func isFraction(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(one)
}
