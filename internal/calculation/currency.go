package calculation

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyConverter converts local-currency amounts into the reporting currency
// using a static rate table. Rates express one unit of the source currency in
// reporting-currency units.
type CurrencyConverter struct {
	reporting string
	rates     map[string]decimal.Decimal
}

// NewCurrencyConverter copies the rate table; later changes to rates are not observed
func NewCurrencyConverter(reportingCurrency string, rates map[string]decimal.Decimal) *CurrencyConverter {
	copied := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		copied[normalizeCurrency(code)] = rate
	}
	return &CurrencyConverter{reporting: normalizeCurrency(reportingCurrency), rates: copied}
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ReportingCurrency returns the target currency code
func (c *CurrencyConverter) ReportingCurrency() string {
	return c.reporting
}

// IsReportingCurrency reports whether currency needs no conversion
func (c *CurrencyConverter) IsReportingCurrency(currency string) bool {
	return normalizeCurrency(currency) == c.reporting
}

// Rate returns the multiplier for currency. The reporting currency has rate 1.
// Unknown currencies also return 1 with found=false.
func (c *CurrencyConverter) Rate(currency string) (decimal.Decimal, bool) {
	if c.IsReportingCurrency(currency) {
		return decimal.NewFromInt(1), true
	}
	rate, ok := c.rates[normalizeCurrency(currency)]
	if !ok {
		return decimal.NewFromInt(1), false
	}
	return rate, true
}

// HasRate reports whether the currency converts without falling back
func (c *CurrencyConverter) HasRate(currency string) bool {
	_, ok := c.Rate(currency)
	return ok
}

// ToReportingCurrency converts amount. Identity for the reporting currency;
// unknown currencies are passed through unconverted.
func (c *CurrencyConverter) ToReportingCurrency(amount decimal.Decimal, currency string) decimal.Decimal {
	if c.IsReportingCurrency(currency) {
		return amount
	}
	rate, _ := c.Rate(currency)
	return amount.Mul(rate)
}
