package calculation

import (
	"github.com/rpgo/dta-calculator/internal/domain"
	dec "github.com/rpgo/dta-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// IncomeTaxCalculator applies the personal allowance taper and the marginal bands
type IncomeTaxCalculator struct{}

// NewIncomeTaxCalculator creates a new income tax calculator
func NewIncomeTaxCalculator() *IncomeTaxCalculator {
	return &IncomeTaxCalculator{}
}

// Allowance returns the personal allowance left after tapering. Above the taper
// threshold the allowance is withdrawn at AllowanceTaperRate per pound of income.
func (c *IncomeTaxCalculator) Allowance(grossIncome decimal.Decimal, cfg *domain.TaxYearConfig) decimal.Decimal {
	excess := dec.NonNegative(grossIncome.Sub(cfg.AllowanceTaperThreshold))
	reduction := excess.Mul(cfg.AllowanceTaperRate)
	return dec.NonNegative(cfg.PersonalAllowance.Sub(reduction))
}

// Calculate computes income tax on grossIncome. Negative income yields zero tax.
func (c *IncomeTaxCalculator) Calculate(grossIncome decimal.Decimal, cfg *domain.TaxYearConfig) domain.IncomeTaxResult {
	allowance := c.Allowance(grossIncome, cfg)
	taxable := dec.NonNegative(grossIncome.Sub(allowance))

	bands, total := c.CalculateBandTax(taxable, cfg.Bands)

	return domain.IncomeTaxResult{
		GrossIncome:   grossIncome,
		AllowanceUsed: decimal.Min(allowance, dec.NonNegative(grossIncome)),
		TaxableIncome: taxable,
		Bands:         bands,
		TotalTax:      total,
		MarginalRate:  c.MarginalRate(taxable, cfg),
	}
}

// CalculateBandTax walks the bands charging each slice of taxable income at its
// own rate. Bands that receive no income are omitted from the breakdown.
func (c *IncomeTaxCalculator) CalculateBandTax(taxableIncome decimal.Decimal, bands []domain.TaxBand) ([]domain.BandBreakdown, decimal.Decimal) {
	breakdown := []domain.BandBreakdown{}
	total := decimal.Zero
	remaining := taxableIncome
	previousThreshold := decimal.Zero

	for _, band := range bands {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}

		inBand := remaining
		if !band.Unbounded() {
			width := band.Threshold.Sub(previousThreshold)
			previousThreshold = *band.Threshold
			if width.LessThanOrEqual(decimal.Zero) {
				continue
			}
			inBand = decimal.Min(remaining, width)
		}

		tax := inBand.Mul(band.Rate)
		breakdown = append(breakdown, domain.BandBreakdown{
			Band:   band.Name,
			Amount: inBand,
			Rate:   band.Rate,
			Tax:    tax,
		})
		total = total.Add(tax)
		remaining = remaining.Sub(inBand)
	}

	return breakdown, total
}

// MarginalRate returns the rate charged on the next pound above taxableIncome
func (c *IncomeTaxCalculator) MarginalRate(taxableIncome decimal.Decimal, cfg *domain.TaxYearConfig) decimal.Decimal {
	for _, band := range cfg.Bands {
		if band.Unbounded() || taxableIncome.LessThan(*band.Threshold) {
			return band.Rate
		}
	}
	return decimal.Zero
}
