package calculation

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/rpgo/dta-calculator/internal/domain"
	dec "github.com/rpgo/dta-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

var (
	highEffectiveRate = dec.MustParse("0.50")
	lowEffectiveRate  = dec.MustParse("0.05")
)

// Validator screens foreign income records for structural and plausibility problems.
// It never fails: every finding is reported as an error or a warning.
type Validator struct {
	Converter *CurrencyConverter
	Treaties  *TreatyRegistry
}

// NewValidator creates a validator that checks treaty and rate coverage
func NewValidator(converter *CurrencyConverter, treaties *TreatyRegistry) *Validator {
	return &Validator{Converter: converter, Treaties: treaties}
}

// Validate checks every record. Errors block use of the record downstream.
func (v *Validator) Validate(records []domain.ForeignIncomeRecord) domain.ValidationResult {
	result := domain.ValidationResult{
		Errors:   []domain.ValidationIssue{},
		Warnings: []domain.ValidationIssue{},
	}

	for i, r := range records {
		issue := func(code domain.IssueCode, severity domain.Severity, field string, value *decimal.Decimal) {
			entry := domain.ValidationIssue{
				Code:        code,
				Severity:    severity,
				RecordIndex: i,
				Country:     r.Country,
				Field:       field,
				Value:       value,
			}
			if severity == domain.SeverityError {
				result.Errors = append(result.Errors, entry)
			} else {
				result.Warnings = append(result.Warnings, entry)
			}
		}

		if strings.TrimSpace(r.Country) == "" {
			issue(domain.IssueMissingCountry, domain.SeverityError, "country", nil)
		}
		if strings.TrimSpace(r.CountryCode) == "" {
			issue(domain.IssueMissingCountryCode, domain.SeverityError, "country_code", nil)
		}
		if r.ForeignIncome.LessThanOrEqual(decimal.Zero) {
			income := r.ForeignIncome
			issue(domain.IssueInvalidIncome, domain.SeverityError, "foreign_income", &income)
		}
		if r.ForeignTaxPaid.IsNegative() {
			tax := r.ForeignTaxPaid
			issue(domain.IssueNegativeForeignTax, domain.SeverityError, "foreign_tax_paid", &tax)
		}

		if r.ForeignIncome.IsPositive() && !r.ForeignTaxPaid.IsNegative() {
			rate := r.EffectiveForeignRate()
			pct := dec.AsPercent(rate)
			if rate.GreaterThan(highEffectiveRate) {
				issue(domain.IssueHighEffectiveRate, domain.SeverityWarning, "foreign_tax_paid", &pct)
			}
			if rate.LessThan(lowEffectiveRate) && r.IncomeType != domain.IncomeCapitalGain {
				issue(domain.IssueLowEffectiveRate, domain.SeverityWarning, "foreign_tax_paid", &pct)
			}
		}

		if strings.TrimSpace(r.CountryCode) != "" && !v.Treaties.Has(r.CountryCode) {
			issue(domain.IssueNoTreaty, domain.SeverityWarning, "country_code", nil)
		}

		if r.IncomeType == "" {
			issue(domain.IssueMissingIncomeType, domain.SeverityWarning, "income_type", nil)
		}

		if r.ExchangeRate != nil && !r.HasExchangeRate() && !v.Converter.IsReportingCurrency(r.ForeignCurrency) {
			rate := *r.ExchangeRate
			issue(domain.IssueInvalidRate, domain.SeverityWarning, "exchange_rate", &rate)
		}

		switch {
		case money.GetCurrency(strings.ToUpper(strings.TrimSpace(r.ForeignCurrency))) == nil:
			issue(domain.IssueUnknownCurrency, domain.SeverityWarning, "foreign_currency", nil)
		case !r.HasExchangeRate() && !v.Converter.HasRate(r.ForeignCurrency):
			issue(domain.IssueNoExchangeRate, domain.SeverityWarning, "foreign_currency", nil)
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// ValidateInput screens the foreign records and every domestic figure. Negative
// UK income, gains or deductions are errors against DomesticRecord.
func (v *Validator) ValidateInput(input domain.TaxInput) domain.ValidationResult {
	result := v.Validate(input.ForeignIncome)
	for _, a := range input.DomesticAmounts() {
		if !a.Amount.IsNegative() {
			continue
		}
		amount := a.Amount
		result.Errors = append(result.Errors, domain.ValidationIssue{
			Code:        domain.IssueNegativeAmount,
			Severity:    domain.SeverityError,
			RecordIndex: domain.DomesticRecord,
			Field:       a.Field,
			Value:       &amount,
		})
	}
	result.IsValid = len(result.Errors) == 0
	return result
}
