package output

import (
	"testing"

	"github.com/rpgo/dta-calculator/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1234.56", "GBP", "£1,234.56"},
		{"0", "GBP", "£0.00"},
		{"1234.565", "GBP", "£1,234.57"},
		{"-50", "GBP", "-£50.00"},
		{"99.5", "XYZ", "XYZ 99.50"},
	}
	for _, tt := range tests {
		t.Run(tt.amount+tt.currency, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(d(tt.amount), tt.currency))
		})
	}
}

func TestFormatPercentageAndRate(t *testing.T) {
	assert.Equal(t, "20.00%", FormatPercentage(d("20")))
	assert.Equal(t, "45.00%", FormatRate(d("0.45")))
}

func TestDescribeIssue(t *testing.T) {
	v := d("-100")
	text := DescribeIssue(domain.ValidationIssue{Code: domain.IssueInvalidIncome, RecordIndex: 0, Value: &v})
	assert.Contains(t, text, "Invalid income amount")
	assert.Contains(t, text, "-100.00")
	assert.Contains(t, text, "Record 1")

	for _, code := range []domain.IssueCode{
		domain.IssueMissingCountry, domain.IssueMissingCountryCode, domain.IssueNegativeForeignTax,
		domain.IssueHighEffectiveRate, domain.IssueLowEffectiveRate, domain.IssueNoTreaty,
		domain.IssueUnknownCurrency, domain.IssueNoExchangeRate, domain.IssueMissingIncomeType,
		domain.IssueInvalidRate, domain.IssueNegativeAmount,
	} {
		text := DescribeIssue(domain.ValidationIssue{Code: code, Country: "Brazil"})
		assert.NotContains(t, text, string(code), "code %s has no description", code)
	}
}

func TestDescribeIssue_Domestic(t *testing.T) {
	v := d("-50000")
	text := DescribeIssue(domain.ValidationIssue{
		Code: domain.IssueNegativeAmount, RecordIndex: domain.DomesticRecord,
		Field: "deductions.pension_contributions", Value: &v,
	})
	assert.Equal(t, "UK figures: deductions.pension_contributions cannot be negative (-50000.00); treated as zero", text)
	assert.NotContains(t, text, "Record")
}

func TestDescribeRecommendation(t *testing.T) {
	codes := []domain.RecommendationCode{
		domain.RecFileAllReturns, domain.RecSpecialistAdvice, domain.RecRemittanceBasis,
		domain.RecCorporateStructure, domain.RecVerifyWithholding, domain.RecPermanentEstablish,
		domain.RecExcessForeignTax, domain.RecLowForeignTaxReview,
	}
	for _, code := range codes {
		text := DescribeRecommendation(domain.Recommendation{Code: code, Country: "Japan", Amount: d("60000")}, "GBP")
		assert.NotEqual(t, string(code), text)
	}
	text := DescribeRecommendation(domain.Recommendation{Code: domain.RecPermanentEstablish, Country: "Japan", Amount: d("60000")}, "GBP")
	assert.Contains(t, text, "£60,000.00")
	assert.Contains(t, text, "Japan")
}

func TestDescribeAdvisory(t *testing.T) {
	text := DescribeAdvisory(domain.Advisory{
		Code: domain.AdvisoryExcessForeignTax, Country: "Germany",
		ForeignTax: d("3000"), UKTax: d("2000"), Amount: d("1000"),
	}, "GBP")
	assert.Contains(t, text, "£1,000.00")
	assert.Contains(t, text, "cannot be relieved")
}
