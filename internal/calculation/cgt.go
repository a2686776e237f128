package calculation

import (
	"github.com/rpgo/dta-calculator/internal/domain"
	dec "github.com/rpgo/dta-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// CapitalGainsCalculator computes CGT after the annual exemption.
//
// The exemption is set against property gains first, and property gains take the
// unused basic-rate band before other gains do.
type CapitalGainsCalculator struct{}

// NewCapitalGainsCalculator creates a new capital gains calculator
func NewCapitalGainsCalculator() *CapitalGainsCalculator {
	return &CapitalGainsCalculator{}
}

// Calculate splits gains across the exemption and the basic/higher bands.
// domesticTaxableIncome only decides how much basic-rate band remains.
func (c *CapitalGainsCalculator) Calculate(propertyGains, otherGains, domesticTaxableIncome decimal.Decimal, cfg *domain.TaxYearConfig) domain.CGTResult {
	rates := cfg.CGT
	totalGains := propertyGains.Add(otherGains)
	result := domain.CGTResult{
		TotalGains:    totalGains,
		ExemptionUsed: dec.NonNegative(decimal.Min(totalGains, rates.AnnualExemption)),
	}
	if totalGains.LessThanOrEqual(rates.AnnualExemption) {
		return result
	}

	totalTaxable := totalGains.Sub(rates.AnnualExemption)
	headroom := dec.NonNegative(cfg.BasicRateThreshold().Sub(domesticTaxableIncome))

	propertyTaxable := dec.NonNegative(propertyGains.Sub(rates.AnnualExemption))
	propertyInBasic := decimal.Min(propertyTaxable, headroom)
	propertyInHigher := propertyTaxable.Sub(propertyInBasic)
	propertyTax := propertyInBasic.Mul(rates.PropertyBasicRate).Add(propertyInHigher.Mul(rates.PropertyHigherRate))

	otherTaxable := totalTaxable.Sub(propertyTaxable)
	otherInBasic := decimal.Min(otherTaxable, headroom.Sub(propertyInBasic))
	otherInHigher := otherTaxable.Sub(otherInBasic)
	otherTax := otherInBasic.Mul(rates.BasicRate).Add(otherInHigher.Mul(rates.HigherRate))

	result.TaxableGains = totalTaxable
	result.PropertyInBasic = propertyInBasic
	result.PropertyInHigher = propertyInHigher
	result.OtherInBasic = otherInBasic
	result.OtherInHigher = otherInHigher
	result.PropertyTax = propertyTax
	result.OtherTax = otherTax
	result.TotalTax = propertyTax.Add(otherTax)
	return result
}
