package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/dta-calculator/internal/domain"
)

// ConsoleFormatter renders a human-readable report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.TaxCalculationResult) ([]byte, error) {
	var buf bytes.Buffer
	cur := result.ReportingCurrency

	title := fmt.Sprintf("TAX CALCULATION %s (%s)", result.TaxYear, cur)
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("=", len(title)))

	s := result.Summary
	fmt.Fprintf(&buf, "UK Income:             %s\n", FormatMoney(s.TotalUKIncome, cur))
	fmt.Fprintf(&buf, "Foreign Income:        %s\n", FormatMoney(s.TotalForeignIncome, cur))
	fmt.Fprintf(&buf, "Total Income:          %s\n", FormatMoney(s.TotalIncome, cur))
	fmt.Fprintf(&buf, "Deductions:            %s\n", FormatMoney(s.Deductions, cur))
	fmt.Fprintln(&buf)

	it := result.IncomeTax
	fmt.Fprintln(&buf, "INCOME TAX")
	fmt.Fprintln(&buf, "----------")
	fmt.Fprintf(&buf, "Gross Income:          %s\n", FormatMoney(it.GrossIncome, cur))
	fmt.Fprintf(&buf, "Personal Allowance:    %s\n", FormatMoney(it.AllowanceUsed, cur))
	fmt.Fprintf(&buf, "Taxable Income:        %s\n", FormatMoney(it.TaxableIncome, cur))
	for _, b := range it.Bands {
		fmt.Fprintf(&buf, "  %-12s %s @ %s = %s\n", b.Band, FormatMoney(b.Amount, cur), FormatRate(b.Rate), FormatMoney(b.Tax, cur))
	}
	fmt.Fprintf(&buf, "Income Tax:            %s\n", FormatMoney(it.TotalTax, cur))
	fmt.Fprintf(&buf, "Marginal Rate:         %s\n", FormatRate(it.MarginalRate))
	fmt.Fprintln(&buf)

	cg := result.CapitalGains
	fmt.Fprintln(&buf, "CAPITAL GAINS TAX")
	fmt.Fprintln(&buf, "-----------------")
	fmt.Fprintf(&buf, "Total Gains:           %s\n", FormatMoney(cg.TotalGains, cur))
	fmt.Fprintf(&buf, "Annual Exemption:      %s\n", FormatMoney(cg.ExemptionUsed, cur))
	fmt.Fprintf(&buf, "Taxable Gains:         %s\n", FormatMoney(cg.TaxableGains, cur))
	fmt.Fprintf(&buf, "  Property:            %s basic / %s higher, tax %s\n",
		FormatMoney(cg.PropertyInBasic, cur), FormatMoney(cg.PropertyInHigher, cur), FormatMoney(cg.PropertyTax, cur))
	fmt.Fprintf(&buf, "  Other:               %s basic / %s higher, tax %s\n",
		FormatMoney(cg.OtherInBasic, cur), FormatMoney(cg.OtherInHigher, cur), FormatMoney(cg.OtherTax, cur))
	fmt.Fprintf(&buf, "Capital Gains Tax:     %s\n", FormatMoney(cg.TotalTax, cur))
	fmt.Fprintln(&buf)

	fr := result.ForeignRelief
	if len(fr.Entries) > 0 {
		fmt.Fprintf(&buf, "FOREIGN INCOME & DTA RELIEF (UK rate %s)\n", FormatRate(fr.UKTaxRate))
		fmt.Fprintln(&buf, "----------------------------------------")
		for _, e := range fr.Entries {
			treaty := e.ReliefType.String()
			if !e.TreatyFound {
				treaty += ", no treaty"
			}
			fmt.Fprintf(&buf, "%s [%s] %s (%s)\n", e.Country, e.CountryCode, e.IncomeType, treaty)
			fmt.Fprintf(&buf, "  Income %s  Foreign tax %s  UK tax %s  Relief %s  Net UK tax %s\n",
				FormatMoney(e.Income, cur), FormatMoney(e.ForeignTax, cur), FormatMoney(e.UKTax, cur),
				FormatMoney(e.Relief, cur), FormatMoney(e.UKTaxAfterRelief, cur))
		}
		fmt.Fprintf(&buf, "Total Relief:          %s\n", FormatMoney(fr.TotalRelief, cur))
		fmt.Fprintf(&buf, "Net UK Tax Due:        %s\n", FormatMoney(fr.NetUKTaxDue, cur))
		fmt.Fprintf(&buf, "Effective Rate:        %s\n", FormatPercentage(fr.EffectiveRate))
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, "SUMMARY")
	fmt.Fprintln(&buf, "-------")
	fmt.Fprintf(&buf, "Income Tax:            %s\n", FormatMoney(s.IncomeTax, cur))
	fmt.Fprintf(&buf, "Capital Gains Tax:     %s\n", FormatMoney(s.CapitalGainsTax, cur))
	fmt.Fprintf(&buf, "UK Tax on Foreign:     %s\n", FormatMoney(s.ForeignNetUKTaxDue, cur))
	fmt.Fprintf(&buf, "Total UK Liability:    %s\n", FormatMoney(s.TotalLiability, cur))
	fmt.Fprintf(&buf, "Foreign Tax Paid:      %s\n", FormatMoney(s.TotalForeignTaxPaid, cur))
	fmt.Fprintf(&buf, "Effective Rate:        %s\n", FormatPercentage(s.EffectiveRate))

	v := result.Validation
	if len(v.Errors) > 0 || len(v.Warnings) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "VALIDATION")
		fmt.Fprintln(&buf, "----------")
		for _, e := range v.Errors {
			fmt.Fprintf(&buf, "ERROR   %s\n", DescribeIssue(e))
		}
		for _, w := range v.Warnings {
			fmt.Fprintf(&buf, "WARNING %s\n", DescribeIssue(w))
		}
	}

	if len(fr.Advisories) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "ADVISORIES")
		fmt.Fprintln(&buf, "----------")
		for _, a := range fr.Advisories {
			fmt.Fprintf(&buf, "- %s\n", DescribeAdvisory(a, cur))
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "RECOMMENDATIONS")
		fmt.Fprintln(&buf, "---------------")
		for _, r := range result.Recommendations {
			line := fmt.Sprintf("[%s] %s: %s", strings.ToUpper(r.Priority.String()), r.Category, DescribeRecommendation(r, cur))
			if r.PotentialSaving != nil {
				line += fmt.Sprintf(" (potential saving %s)", FormatMoney(*r.PotentialSaving, cur))
			}
			fmt.Fprintln(&buf, line)
		}
	}
	return buf.Bytes(), nil
}
