package calculation

import (
	"github.com/rpgo/dta-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// testTaxYear mirrors the 2024-25 rate card
func testTaxYear() *domain.TaxYearConfig {
	return &domain.TaxYearConfig{
		Name:                    "2024-25",
		PersonalAllowance:       d("12570"),
		AllowanceTaperThreshold: d("100000"),
		AllowanceTaperRate:      d("0.5"),
		Bands: []domain.TaxBand{
			{Name: "basic", Threshold: dp("37700"), Rate: d("0.20")},
			{Name: "higher", Threshold: dp("125140"), Rate: d("0.40")},
			{Name: "additional", Rate: d("0.45")},
		},
		CGT: domain.CGTConfig{
			AnnualExemption:    d("3000"),
			BasicRate:          d("0.10"),
			HigherRate:         d("0.20"),
			PropertyBasicRate:  d("0.18"),
			PropertyHigherRate: d("0.24"),
		},
	}
}

func testReference() *domain.ReferenceData {
	return &domain.ReferenceData{
		ReportingCurrency: "GBP",
		TaxYears:          map[string]*domain.TaxYearConfig{"2024-25": testTaxYear()},
		ExchangeRates: map[string]decimal.Decimal{
			"EUR": d("0.85"),
			"USD": d("0.79"),
			"AED": d("0.22"),
		},
		Treaties: []domain.Treaty{
			{CountryCode: "FR", Country: "France", ReliefMethod: domain.ReliefCredit, MaxCreditPercentage: d("100")},
			{CountryCode: "US", Country: "United States", ReliefMethod: domain.ReliefCredit, MaxCreditPercentage: d("100")},
			{CountryCode: "IN", Country: "India", ReliefMethod: domain.ReliefCredit, MaxCreditPercentage: d("75")},
			{CountryCode: "CH", Country: "Switzerland", ReliefMethod: domain.ReliefHybrid, MaxCreditPercentage: d("100")},
			{CountryCode: "AE", Country: "United Arab Emirates", ReliefMethod: domain.ReliefExemption, MaxCreditPercentage: d("100")},
		},
	}
}

func gbpRecord(code string, income, tax string) domain.ForeignIncomeRecord {
	return domain.ForeignIncomeRecord{
		Country:         code,
		CountryCode:     code,
		IncomeType:      domain.IncomeInterest,
		ForeignIncome:   d(income),
		ForeignCurrency: "GBP",
		ForeignTaxPaid:  d(tax),
	}
}
