package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TaxBand is one marginal income-tax band. Threshold is the upper bound of taxable
// income taxed at Rate; a nil Threshold marks the unbounded top band.
type TaxBand struct {
	Name      string           `yaml:"name" json:"name"`
	Threshold *decimal.Decimal `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	Rate      decimal.Decimal  `yaml:"rate" json:"rate"`
}

// Unbounded reports whether this is the open-ended top band
func (b TaxBand) Unbounded() bool {
	return b.Threshold == nil
}

// CGTConfig holds capital gains rates and the annual exempt amount
type CGTConfig struct {
	AnnualExemption    decimal.Decimal `yaml:"annual_exemption" json:"annual_exemption"`
	BasicRate          decimal.Decimal `yaml:"basic_rate" json:"basic_rate"`
	HigherRate         decimal.Decimal `yaml:"higher_rate" json:"higher_rate"`
	PropertyBasicRate  decimal.Decimal `yaml:"property_basic_rate" json:"property_basic_rate"`
	PropertyHigherRate decimal.Decimal `yaml:"property_higher_rate" json:"property_higher_rate"`
}

// TaxYearConfig is the immutable rate card for one tax year
type TaxYearConfig struct {
	Name                    string          `yaml:"-" json:"name"`
	PersonalAllowance       decimal.Decimal `yaml:"personal_allowance" json:"personal_allowance"`
	AllowanceTaperThreshold decimal.Decimal `yaml:"allowance_taper_threshold" json:"allowance_taper_threshold"`
	AllowanceTaperRate      decimal.Decimal `yaml:"allowance_taper_rate" json:"allowance_taper_rate"`
	Bands                   []TaxBand       `yaml:"bands" json:"bands"`
	CGT                     CGTConfig       `yaml:"cgt" json:"cgt"`
}

// BasicRateThreshold is the upper limit of the first band. Capital gains falling
// under it are charged at the basic CGT rates.
func (c *TaxYearConfig) BasicRateThreshold() decimal.Decimal {
	if len(c.Bands) == 0 || c.Bands[0].Unbounded() {
		return decimal.Zero
	}
	return *c.Bands[0].Threshold
}

// ReliefMethod is the mechanism a treaty uses to relieve double taxation
type ReliefMethod int

const (
	ReliefCredit ReliefMethod = iota + 1
	ReliefExemption
	ReliefHybrid
)

var reliefMethodNames = map[ReliefMethod]string{
	ReliefCredit:    "credit",
	ReliefExemption: "exemption",
	ReliefHybrid:    "hybrid",
}

// ReliefMethods lists every supported method
func ReliefMethods() []ReliefMethod {
	return []ReliefMethod{ReliefCredit, ReliefExemption, ReliefHybrid}
}

func (m ReliefMethod) String() string {
	if name, ok := reliefMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ReliefMethod(%d)", int(m))
}

// Valid reports whether m is one of the declared methods
func (m ReliefMethod) Valid() bool {
	_, ok := reliefMethodNames[m]
	return ok
}

// ParseReliefMethod resolves a case-insensitive method name
func ParseReliefMethod(s string) (ReliefMethod, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for m, name := range reliefMethodNames {
		if name == needle {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown relief method %q", s)
}

func (m ReliefMethod) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid relief method %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *ReliefMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseReliefMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Treaty describes the double taxation agreement with one country.
// Provisions are informational and not used in calculations.
type Treaty struct {
	CountryCode         string          `yaml:"country_code" json:"country_code"`
	Country             string          `yaml:"country" json:"country"`
	ReliefMethod        ReliefMethod    `yaml:"relief_method" json:"relief_method"`
	MaxCreditPercentage decimal.Decimal `yaml:"max_credit_percentage" json:"max_credit_percentage"`
	Provisions          []string        `yaml:"provisions,omitempty" json:"provisions,omitempty"`
}

// DefaultTreaty is applied when no agreement exists for a country: full unilateral credit
func DefaultTreaty(countryCode string) Treaty {
	return Treaty{
		CountryCode:         countryCode,
		ReliefMethod:        ReliefCredit,
		MaxCreditPercentage: decimal.NewFromInt(100),
	}
}

// AdvisoryThresholds parameterise the recommendation rules
type AdvisoryThresholds struct {
	MultiCountryFilingIncome decimal.Decimal `yaml:"multi_country_filing_income" json:"multi_country_filing_income"`
	SpecialistJurisdictions  int             `yaml:"specialist_jurisdictions" json:"specialist_jurisdictions"`
	RemittanceBasisIncome    decimal.Decimal `yaml:"remittance_basis_income" json:"remittance_basis_income"`
	RemittanceSavingRate     decimal.Decimal `yaml:"remittance_saving_rate" json:"remittance_saving_rate"`
	PropertyStructureIncome  decimal.Decimal `yaml:"property_structure_income" json:"property_structure_income"`
	PropertySavingRate       decimal.Decimal `yaml:"property_saving_rate" json:"property_saving_rate"`
	DividendWithholdingRate  decimal.Decimal `yaml:"dividend_withholding_rate" json:"dividend_withholding_rate"`
	BusinessPEIncome         decimal.Decimal `yaml:"business_pe_income" json:"business_pe_income"`
}

// DefaultAdvisoryThresholds returns the standard rule parameters
func DefaultAdvisoryThresholds() AdvisoryThresholds {
	return AdvisoryThresholds{
		MultiCountryFilingIncome: decimal.NewFromInt(50000),
		SpecialistJurisdictions:  3,
		RemittanceBasisIncome:    decimal.NewFromInt(100000),
		RemittanceSavingRate:     decimal.NewFromFloat(0.15),
		PropertyStructureIncome:  decimal.NewFromInt(30000),
		PropertySavingRate:       decimal.NewFromFloat(0.10),
		DividendWithholdingRate:  decimal.NewFromFloat(0.10),
		BusinessPEIncome:         decimal.NewFromInt(50000),
	}
}

// ReferenceData bundles every lookup table the engine reads. It is loaded once
// and treated as read-only afterwards.
type ReferenceData struct {
	ReportingCurrency  string                     `yaml:"reporting_currency" json:"reporting_currency"`
	TaxYears           map[string]*TaxYearConfig  `yaml:"tax_years" json:"tax_years"`
	ExchangeRates      map[string]decimal.Decimal `yaml:"exchange_rates" json:"exchange_rates"`
	Treaties           []Treaty                   `yaml:"treaties" json:"treaties"`
	AdvisoryThresholds *AdvisoryThresholds        `yaml:"advisory_thresholds,omitempty" json:"advisory_thresholds,omitempty"`
}

// Thresholds returns the configured advisory thresholds or the defaults
func (r *ReferenceData) Thresholds() AdvisoryThresholds {
	if r.AdvisoryThresholds == nil {
		return DefaultAdvisoryThresholds()
	}
	return *r.AdvisoryThresholds
}
