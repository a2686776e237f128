package output

import (
	"fmt"

	"github.com/rpgo/dta-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

func issueSubject(issue domain.ValidationIssue) string {
	if issue.RecordIndex == domain.DomesticRecord {
		return "UK figures"
	}
	if issue.Country != "" {
		return fmt.Sprintf("Record %d (%s)", issue.RecordIndex+1, issue.Country)
	}
	return fmt.Sprintf("Record %d", issue.RecordIndex+1)
}

func valueOr(v *decimal.Decimal, fallback string) string {
	if v == nil {
		return fallback
	}
	return v.StringFixed(2)
}

// DescribeIssue renders a validation finding as a sentence.
func DescribeIssue(issue domain.ValidationIssue) string {
	subject := issueSubject(issue)
	switch issue.Code {
	case domain.IssueMissingCountry:
		return subject + ": Country is required"
	case domain.IssueMissingCountryCode:
		return subject + ": Country code is required"
	case domain.IssueInvalidIncome:
		return fmt.Sprintf("%s: Invalid income amount %s; foreign income must be positive", subject, valueOr(issue.Value, ""))
	case domain.IssueNegativeForeignTax:
		return fmt.Sprintf("%s: Foreign tax paid cannot be negative (%s)", subject, valueOr(issue.Value, ""))
	case domain.IssueHighEffectiveRate:
		return fmt.Sprintf("%s: Unusually high effective foreign tax rate of %s%%", subject, valueOr(issue.Value, "?"))
	case domain.IssueLowEffectiveRate:
		return fmt.Sprintf("%s: Unusually low effective foreign tax rate of %s%%", subject, valueOr(issue.Value, "?"))
	case domain.IssueNoTreaty:
		return subject + ": No double taxation agreement found; unilateral credit relief assumed"
	case domain.IssueUnknownCurrency:
		return subject + ": Currency code is not a recognised ISO 4217 code"
	case domain.IssueNoExchangeRate:
		return subject + ": No exchange rate available; amounts are used unconverted"
	case domain.IssueMissingIncomeType:
		return subject + ": Income type not specified"
	case domain.IssueInvalidRate:
		return fmt.Sprintf("%s: Exchange rate %s is not positive; the reference rate is used instead", subject, valueOr(issue.Value, ""))
	case domain.IssueNegativeAmount:
		return fmt.Sprintf("%s: %s cannot be negative (%s); treated as zero", subject, issue.Field, valueOr(issue.Value, ""))
	}
	return fmt.Sprintf("%s: %s", subject, issue.Code)
}

// DescribeAdvisory renders an advisory raised during relief calculation.
func DescribeAdvisory(a domain.Advisory, currency string) string {
	switch a.Code {
	case domain.AdvisoryExcessForeignTax:
		return fmt.Sprintf("Foreign tax paid in %s (%s) exceeds UK tax (%s); the excess of %s cannot be relieved",
			a.Country, FormatMoney(a.ForeignTax, currency), FormatMoney(a.UKTax, currency), FormatMoney(a.Amount, currency))
	case domain.AdvisoryLowForeignTax:
		return fmt.Sprintf("Foreign tax paid in %s (%s) is less than half of UK tax (%s); consider tax planning opportunities",
			a.Country, FormatMoney(a.ForeignTax, currency), FormatMoney(a.UKTax, currency))
	}
	return string(a.Code)
}

// DescribeRecommendation renders a recommendation's suggestion text.
func DescribeRecommendation(r domain.Recommendation, currency string) string {
	switch r.Code {
	case domain.RecFileAllReturns:
		return fmt.Sprintf("Foreign income of %s: ensure returns are filed in every jurisdiction", FormatMoney(r.Amount, currency))
	case domain.RecSpecialistAdvice:
		return fmt.Sprintf("Income from %s jurisdictions: consider specialist international tax advice", r.Amount.String())
	case domain.RecRemittanceBasis:
		return "Consider whether the remittance basis of taxation is available"
	case domain.RecCorporateStructure:
		return fmt.Sprintf("Property income of %s in %s: consider a corporate holding structure", FormatMoney(r.Amount, currency), r.Country)
	case domain.RecVerifyWithholding:
		return fmt.Sprintf("Verify the dividend withholding tax rate applied in %s under the DTA", r.Country)
	case domain.RecPermanentEstablish:
		return fmt.Sprintf("Business income of %s in %s: review permanent establishment status", FormatMoney(r.Amount, currency), r.Country)
	case domain.RecExcessForeignTax:
		return fmt.Sprintf("Unrelieved foreign tax of %s in %s: check the treaty withholding rate and reclaim any overpayment", FormatMoney(r.Amount, currency), r.Country)
	case domain.RecLowForeignTaxReview:
		return fmt.Sprintf("Low foreign tax paid in %s: review planning opportunities", r.Country)
	}
	return string(r.Code)
}
