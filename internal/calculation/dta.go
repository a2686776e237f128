package calculation

import (
	"github.com/rpgo/dta-calculator/internal/domain"
	dec "github.com/rpgo/dta-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// reliefStrategy returns the relief granted for one income slice before any
// treaty percentage cap is applied
type reliefStrategy struct {
	relief func(foreignTax, ukTax decimal.Decimal) decimal.Decimal
	// capped strategies are scaled by the treaty's maximum creditable percentage
	capped bool
}

func creditRelief(foreignTax, ukTax decimal.Decimal) decimal.Decimal {
	return decimal.Min(foreignTax, ukTax)
}

func exemptionRelief(_, ukTax decimal.Decimal) decimal.Decimal {
	return ukTax
}

// Hybrid treaties currently relieve exactly like credit treaties.
var reliefStrategies = map[domain.ReliefMethod]reliefStrategy{
	domain.ReliefCredit:    {relief: creditRelief, capped: true},
	domain.ReliefExemption: {relief: exemptionRelief, capped: false},
	domain.ReliefHybrid:    {relief: creditRelief, capped: true},
}

var lowForeignTaxFactor = dec.MustParse("0.5")

// DTAReliefCalculator computes UK tax on foreign income slices and the relief
// each country's treaty allows against it
type DTAReliefCalculator struct {
	Converter *CurrencyConverter
	Treaties  *TreatyRegistry
	Logger    Logger
}

// NewDTAReliefCalculator creates a relief calculator over the given tables
func NewDTAReliefCalculator(converter *CurrencyConverter, treaties *TreatyRegistry, logger Logger) *DTAReliefCalculator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &DTAReliefCalculator{Converter: converter, Treaties: treaties, Logger: logger}
}

// ResolveRate returns the rate applied to a record. Reporting-currency records
// always use 1; others use their own positive rate when supplied, else the table
// rate. found is false when the table fell back to 1.
func (c *DTAReliefCalculator) ResolveRate(record domain.ForeignIncomeRecord) (decimal.Decimal, bool) {
	if !c.Converter.IsReportingCurrency(record.ForeignCurrency) && record.HasExchangeRate() {
		return *record.ExchangeRate, true
	}
	return c.Converter.Rate(record.ForeignCurrency)
}

// convert brings one of the record's amounts into the reporting currency
func (c *DTAReliefCalculator) convert(amount decimal.Decimal, record domain.ForeignIncomeRecord) decimal.Decimal {
	if !c.Converter.IsReportingCurrency(record.ForeignCurrency) && record.HasExchangeRate() {
		return amount.Mul(*record.ExchangeRate)
	}
	return c.Converter.ToReportingCurrency(amount, record.ForeignCurrency)
}

// ReliefFor applies a treaty to a single slice
func ReliefFor(treaty domain.Treaty, foreignTax, ukTax decimal.Decimal) decimal.Decimal {
	strategy, ok := reliefStrategies[treaty.ReliefMethod]
	if !ok {
		strategy = reliefStrategies[domain.ReliefCredit]
	}
	relief := strategy.relief(foreignTax, ukTax)
	if strategy.capped {
		relief = dec.PercentOf(relief, treaty.MaxCreditPercentage)
	}
	return relief
}

// Calculate estimates UK tax at the flat ukTaxRate on every record and the
// relief available, accumulating totals and advisories in one pass
func (c *DTAReliefCalculator) Calculate(records []domain.ForeignIncomeRecord, ukTaxRate decimal.Decimal) domain.DTAResult {
	result := domain.DTAResult{
		UKTaxRate:  ukTaxRate,
		Entries:    make([]domain.ReliefBreakdownEntry, 0, len(records)),
		Advisories: []domain.Advisory{},
	}

	for _, record := range records {
		rate, found := c.ResolveRate(record)
		if !found {
			c.Logger.Warnf("no exchange rate for %q; converting %s at 1.0", record.ForeignCurrency, record.CountryCode)
		}
		income := c.convert(record.ForeignIncome, record)
		foreignTax := c.convert(record.ForeignTaxPaid, record)

		treaty, hasTreaty := c.Treaties.Resolve(record.CountryCode)
		ukTax := income.Mul(ukTaxRate)
		relief := ReliefFor(treaty, foreignTax, ukTax)

		c.Logger.Debugf("dta %s: income=%s foreign_tax=%s uk_tax=%s method=%s relief=%s",
			record.CountryCode, income.StringFixed(2), foreignTax.StringFixed(2), ukTax.StringFixed(2), treaty.ReliefMethod, relief.StringFixed(2))

		result.Entries = append(result.Entries, domain.ReliefBreakdownEntry{
			Country:          record.Country,
			CountryCode:      record.CountryCode,
			IncomeType:       record.IncomeType,
			ExchangeRate:     rate,
			Income:           income,
			ForeignTax:       foreignTax,
			UKTax:            ukTax,
			Relief:           relief,
			UKTaxAfterRelief: dec.NonNegative(ukTax.Sub(relief)),
			ReliefType:       treaty.ReliefMethod,
			TreatyFound:      hasTreaty,
		})

		result.TotalForeignIncome = result.TotalForeignIncome.Add(income)
		result.TotalForeignTax = result.TotalForeignTax.Add(foreignTax)
		result.TotalUKTax = result.TotalUKTax.Add(ukTax)
		result.TotalRelief = result.TotalRelief.Add(relief)

		switch {
		case foreignTax.GreaterThan(ukTax):
			result.Advisories = append(result.Advisories, domain.Advisory{
				Code:        domain.AdvisoryExcessForeignTax,
				Country:     record.Country,
				CountryCode: record.CountryCode,
				ForeignTax:  foreignTax,
				UKTax:       ukTax,
				Amount:      foreignTax.Sub(ukTax),
			})
		case foreignTax.LessThan(ukTax.Mul(lowForeignTaxFactor)):
			result.Advisories = append(result.Advisories, domain.Advisory{
				Code:        domain.AdvisoryLowForeignTax,
				Country:     record.Country,
				CountryCode: record.CountryCode,
				ForeignTax:  foreignTax,
				UKTax:       ukTax,
			})
		}
	}

	result.NetUKTaxDue = dec.NonNegative(result.TotalUKTax.Sub(result.TotalRelief))
	result.TotalEffectiveTax = result.TotalForeignTax.Add(result.NetUKTaxDue)
	result.DTASavings = result.TotalRelief
	result.EffectiveRate = dec.Round(dec.AsPercent(dec.Ratio(result.TotalEffectiveTax, result.TotalForeignIncome)))
	return result
}
