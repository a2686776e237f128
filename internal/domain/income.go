package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingField reports a required numeric field that was absent from the input
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidNumber reports a numeric field that could not be parsed
	ErrInvalidNumber = errors.New("invalid numeric value")
)

// IncomeType classifies a foreign income source
type IncomeType string

const (
	IncomeEmployment  IncomeType = "employment"
	IncomeProperty    IncomeType = "property"
	IncomeDividend    IncomeType = "dividend"
	IncomeInterest    IncomeType = "interest"
	IncomeBusiness    IncomeType = "business"
	IncomeCapitalGain IncomeType = "capital_gain"
)

// Valid reports whether t is a known income type
func (t IncomeType) Valid() bool {
	switch t {
	case IncomeEmployment, IncomeProperty, IncomeDividend, IncomeInterest, IncomeBusiness, IncomeCapitalGain:
		return true
	}
	return false
}

func (t *IncomeType) UnmarshalText(text []byte) error {
	v := IncomeType(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("unknown income type %q", string(text))
	}
	*t = v
	return nil
}

// ForeignIncomeRecord is one slice of income arising abroad, in its local currency.
// Records are built per calculation and never modified afterwards.
type ForeignIncomeRecord struct {
	Country         string          `yaml:"country" json:"country"`
	CountryCode     string          `yaml:"country_code" json:"country_code"`
	IncomeType      IncomeType      `yaml:"income_type" json:"income_type"`
	ForeignIncome   decimal.Decimal `yaml:"foreign_income" json:"foreign_income"`
	ForeignCurrency string          `yaml:"foreign_currency" json:"foreign_currency"`
	ForeignTaxPaid  decimal.Decimal `yaml:"foreign_tax_paid" json:"foreign_tax_paid"`
	// ExchangeRate, when positive, is used instead of the reference rate table.
	// It is ignored for records already in the reporting currency.
	ExchangeRate *decimal.Decimal `yaml:"exchange_rate,omitempty" json:"exchange_rate,omitempty"`
}

// HasExchangeRate reports whether the record carries a usable rate of its own
func (r ForeignIncomeRecord) HasExchangeRate() bool {
	return r.ExchangeRate != nil && r.ExchangeRate.IsPositive()
}

// EffectiveForeignRate is tax paid over income in the local currency
func (r ForeignIncomeRecord) EffectiveForeignRate() decimal.Decimal {
	if r.ForeignIncome.IsZero() {
		return decimal.Zero
	}
	return r.ForeignTaxPaid.Div(r.ForeignIncome)
}

// UnmarshalYAML implements custom YAML unmarshaling so that absent or malformed
// amounts fail loudly instead of defaulting to zero
func (r *ForeignIncomeRecord) UnmarshalYAML(value *yaml.Node) error {
	type Alias struct {
		Country         string     `yaml:"country"`
		CountryCode     string     `yaml:"country_code"`
		IncomeType      IncomeType `yaml:"income_type"`
		ForeignIncome   *string    `yaml:"foreign_income"`
		ForeignCurrency string     `yaml:"foreign_currency"`
		ForeignTaxPaid  *string    `yaml:"foreign_tax_paid"`
		ExchangeRate    *string    `yaml:"exchange_rate,omitempty"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	income, err := requiredDecimal("foreign_income", aux.ForeignIncome)
	if err != nil {
		return err
	}
	tax, err := requiredDecimal("foreign_tax_paid", aux.ForeignTaxPaid)
	if err != nil {
		return err
	}
	var rate *decimal.Decimal
	if aux.ExchangeRate != nil {
		parsed, err := requiredDecimal("exchange_rate", aux.ExchangeRate)
		if err != nil {
			return err
		}
		rate = &parsed
	}

	*r = ForeignIncomeRecord{
		Country:         aux.Country,
		CountryCode:     aux.CountryCode,
		IncomeType:      aux.IncomeType,
		ForeignIncome:   income,
		ForeignCurrency: aux.ForeignCurrency,
		ForeignTaxPaid:  tax,
		ExchangeRate:    rate,
	}
	return nil
}

// UnmarshalJSON mirrors UnmarshalYAML for JSON request bodies
func (r *ForeignIncomeRecord) UnmarshalJSON(data []byte) error {
	type Alias struct {
		Country         string          `json:"country"`
		CountryCode     string          `json:"country_code"`
		IncomeType      IncomeType      `json:"income_type"`
		ForeignIncome   json.RawMessage `json:"foreign_income"`
		ForeignCurrency string          `json:"foreign_currency"`
		ForeignTaxPaid  json.RawMessage `json:"foreign_tax_paid"`
		ExchangeRate    json.RawMessage `json:"exchange_rate,omitempty"`
	}

	var aux Alias
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	income, err := requiredDecimalJSON("foreign_income", aux.ForeignIncome)
	if err != nil {
		return err
	}
	tax, err := requiredDecimalJSON("foreign_tax_paid", aux.ForeignTaxPaid)
	if err != nil {
		return err
	}
	var rate *decimal.Decimal
	if !isJSONAbsent(aux.ExchangeRate) {
		parsed, err := requiredDecimalJSON("exchange_rate", aux.ExchangeRate)
		if err != nil {
			return err
		}
		rate = &parsed
	}

	*r = ForeignIncomeRecord{
		Country:         aux.Country,
		CountryCode:     aux.CountryCode,
		IncomeType:      aux.IncomeType,
		ForeignIncome:   income,
		ForeignCurrency: aux.ForeignCurrency,
		ForeignTaxPaid:  tax,
		ExchangeRate:    rate,
	}
	return nil
}

func requiredDecimal(field string, raw *string) (decimal.Decimal, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, field, *raw)
	}
	return d, nil
}

func requiredDecimalJSON(field string, raw json.RawMessage) (decimal.Decimal, error) {
	if isJSONAbsent(raw) {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s=%s", ErrInvalidNumber, field, string(raw))
	}
	return d, nil
}

func isJSONAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// UKIncome holds domestic income by source, in the reporting currency
type UKIncome struct {
	Employment     decimal.Decimal `yaml:"employment" json:"employment"`
	SelfEmployment decimal.Decimal `yaml:"self_employment" json:"self_employment"`
	Property       decimal.Decimal `yaml:"property" json:"property"`
	Pension        decimal.Decimal `yaml:"pension" json:"pension"`
	Dividends      decimal.Decimal `yaml:"dividends" json:"dividends"`
	Interest       decimal.Decimal `yaml:"interest" json:"interest"`
}

// Total sums every source
func (u UKIncome) Total() decimal.Decimal {
	return u.Employment.Add(u.SelfEmployment).Add(u.Property).Add(u.Pension).Add(u.Dividends).Add(u.Interest)
}

// CapitalGains holds realised gains for the year
type CapitalGains struct {
	Property decimal.Decimal `yaml:"property" json:"property"`
	Shares   decimal.Decimal `yaml:"shares" json:"shares"`
	Other    decimal.Decimal `yaml:"other" json:"other"`
}

// NonProperty is every gain charged at the standard CGT rates
func (g CapitalGains) NonProperty() decimal.Decimal {
	return g.Shares.Add(g.Other)
}

// Deductions reduce gross income before the personal allowance is applied
type Deductions struct {
	PensionContributions decimal.Decimal `yaml:"pension_contributions" json:"pension_contributions"`
	CharitableDonations  decimal.Decimal `yaml:"charitable_donations" json:"charitable_donations"`
	BusinessExpenses     decimal.Decimal `yaml:"business_expenses" json:"business_expenses"`
}

// Total sums every deduction
func (d Deductions) Total() decimal.Decimal {
	return d.PensionContributions.Add(d.CharitableDonations).Add(d.BusinessExpenses)
}

// NamedAmount is a domestic figure together with its input field path
type NamedAmount struct {
	Field  string
	Amount decimal.Decimal
}

// DomesticAmounts lists every UK income, gain and deduction figure in input order
func (in TaxInput) DomesticAmounts() []NamedAmount {
	return []NamedAmount{
		{"uk_income.employment", in.UKIncome.Employment},
		{"uk_income.self_employment", in.UKIncome.SelfEmployment},
		{"uk_income.property", in.UKIncome.Property},
		{"uk_income.pension", in.UKIncome.Pension},
		{"uk_income.dividends", in.UKIncome.Dividends},
		{"uk_income.interest", in.UKIncome.Interest},
		{"capital_gains.property", in.CapitalGains.Property},
		{"capital_gains.shares", in.CapitalGains.Shares},
		{"capital_gains.other", in.CapitalGains.Other},
		{"deductions.pension_contributions", in.Deductions.PensionContributions},
		{"deductions.charitable_donations", in.Deductions.CharitableDonations},
		{"deductions.business_expenses", in.Deductions.BusinessExpenses},
	}
}

// WithoutNegatives returns a copy of the domestic figures with negative amounts
// replaced by zero. Foreign records are shared, not copied.
func (in TaxInput) WithoutNegatives() TaxInput {
	out := in
	for _, f := range []*decimal.Decimal{
		&out.UKIncome.Employment, &out.UKIncome.SelfEmployment, &out.UKIncome.Property,
		&out.UKIncome.Pension, &out.UKIncome.Dividends, &out.UKIncome.Interest,
		&out.CapitalGains.Property, &out.CapitalGains.Shares, &out.CapitalGains.Other,
		&out.Deductions.PensionContributions, &out.Deductions.CharitableDonations, &out.Deductions.BusinessExpenses,
	} {
		if f.IsNegative() {
			*f = decimal.Zero
		}
	}
	return out
}

// TaxInput is everything a caller supplies for one calculation
type TaxInput struct {
	TaxYear       string                `yaml:"tax_year" json:"tax_year"`
	UKIncome      UKIncome              `yaml:"uk_income" json:"uk_income"`
	CapitalGains  CapitalGains          `yaml:"capital_gains" json:"capital_gains"`
	Deductions    Deductions            `yaml:"deductions" json:"deductions"`
	ForeignIncome []ForeignIncomeRecord `yaml:"foreign_income" json:"foreign_income"`
	// UKTaxRate is the flat rate used to estimate UK tax on foreign income
	UKTaxRate *decimal.Decimal `yaml:"uk_tax_rate,omitempty" json:"uk_tax_rate,omitempty"`
}
