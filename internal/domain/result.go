package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BandBreakdown is the tax charged within a single income-tax band
type BandBreakdown struct {
	Band   string          `json:"band"`
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"`
	Tax    decimal.Decimal `json:"tax"`
}

// IncomeTaxResult is the output of the progressive income tax calculation
type IncomeTaxResult struct {
	GrossIncome   decimal.Decimal `json:"gross_income"`
	AllowanceUsed decimal.Decimal `json:"allowance_used"`
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	Bands         []BandBreakdown `json:"bands"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	MarginalRate  decimal.Decimal `json:"marginal_rate"`
}

// CGTResult shows how gains were split across the exemption and rate bands
type CGTResult struct {
	TotalGains       decimal.Decimal `json:"total_gains"`
	ExemptionUsed    decimal.Decimal `json:"exemption_used"`
	TaxableGains     decimal.Decimal `json:"taxable_gains"`
	PropertyInBasic  decimal.Decimal `json:"property_in_basic"`
	PropertyInHigher decimal.Decimal `json:"property_in_higher"`
	OtherInBasic     decimal.Decimal `json:"other_in_basic"`
	OtherInHigher    decimal.Decimal `json:"other_in_higher"`
	PropertyTax      decimal.Decimal `json:"property_tax"`
	OtherTax         decimal.Decimal `json:"other_tax"`
	TotalTax         decimal.Decimal `json:"total_tax"`
}

// ReliefBreakdownEntry is the relief outcome for one foreign income record,
// with all amounts in the reporting currency
type ReliefBreakdownEntry struct {
	Country          string          `json:"country"`
	CountryCode      string          `json:"country_code"`
	IncomeType       IncomeType      `json:"income_type"`
	ExchangeRate     decimal.Decimal `json:"exchange_rate"`
	Income           decimal.Decimal `json:"income"`
	ForeignTax       decimal.Decimal `json:"foreign_tax"`
	UKTax            decimal.Decimal `json:"uk_tax"`
	Relief           decimal.Decimal `json:"relief"`
	UKTaxAfterRelief decimal.Decimal `json:"uk_tax_after_relief"`
	ReliefType       ReliefMethod    `json:"relief_type"`
	TreatyFound      bool            `json:"treaty_found"`
}

// AdvisoryCode identifies an observation raised while computing relief
type AdvisoryCode string

const (
	AdvisoryExcessForeignTax AdvisoryCode = "excess_foreign_tax"
	AdvisoryLowForeignTax    AdvisoryCode = "low_foreign_tax"
)

// Advisory is a structured note emitted by the relief pass
type Advisory struct {
	Code        AdvisoryCode    `json:"code"`
	Country     string          `json:"country"`
	CountryCode string          `json:"country_code"`
	ForeignTax  decimal.Decimal `json:"foreign_tax"`
	UKTax       decimal.Decimal `json:"uk_tax"`
	// Amount is the unrelievable excess for excess_foreign_tax, otherwise zero
	Amount decimal.Decimal `json:"amount"`
}

// DTAResult aggregates double taxation relief across all foreign records
type DTAResult struct {
	UKTaxRate          decimal.Decimal        `json:"uk_tax_rate"`
	Entries            []ReliefBreakdownEntry `json:"entries"`
	TotalForeignIncome decimal.Decimal        `json:"total_foreign_income"`
	TotalForeignTax    decimal.Decimal        `json:"total_foreign_tax"`
	TotalUKTax         decimal.Decimal        `json:"total_uk_tax"`
	TotalRelief        decimal.Decimal        `json:"total_relief"`
	NetUKTaxDue        decimal.Decimal        `json:"net_uk_tax_due"`
	TotalEffectiveTax  decimal.Decimal        `json:"total_effective_tax"`
	DTASavings         decimal.Decimal        `json:"dta_savings"`
	EffectiveRate      decimal.Decimal        `json:"effective_rate"` // percentage
	Advisories         []Advisory             `json:"advisories"`
}

// Severity separates blocking errors from warnings
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueCode identifies a validation finding
type IssueCode string

const (
	IssueMissingCountry     IssueCode = "missing_country"
	IssueMissingCountryCode IssueCode = "missing_country_code"
	IssueInvalidIncome      IssueCode = "invalid_income_amount"
	IssueNegativeForeignTax IssueCode = "negative_foreign_tax"
	IssueHighEffectiveRate  IssueCode = "high_effective_rate"
	IssueLowEffectiveRate   IssueCode = "low_effective_rate"
	IssueNoTreaty           IssueCode = "no_treaty"
	IssueUnknownCurrency    IssueCode = "unknown_currency"
	IssueNoExchangeRate     IssueCode = "no_exchange_rate"
	IssueMissingIncomeType  IssueCode = "missing_income_type"
	IssueInvalidRate        IssueCode = "invalid_exchange_rate"
	IssueNegativeAmount     IssueCode = "negative_amount"
)

// DomesticRecord is the RecordIndex of issues raised against UK figures rather
// than a foreign income record
const DomesticRecord = -1

// ValidationIssue is a single finding against one foreign income record
type ValidationIssue struct {
	Code        IssueCode        `json:"code"`
	Severity    Severity         `json:"severity"`
	RecordIndex int              `json:"record_index"`
	Country     string           `json:"country,omitempty"`
	Field       string           `json:"field,omitempty"`
	Value       *decimal.Decimal `json:"value,omitempty"`
}

// ValidationResult collects findings; IsValid is true when no errors were raised
type ValidationResult struct {
	IsValid  bool              `json:"is_valid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}

// HasErrorFor reports whether the record at index carries a blocking error
func (v ValidationResult) HasErrorFor(index int) bool {
	for _, e := range v.Errors {
		if e.RecordIndex == index {
			return true
		}
	}
	return false
}

// Priority orders recommendations; lower values sort first
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

var priorityNames = map[Priority]string{
	PriorityHigh:   "high",
	PriorityMedium: "medium",
	PriorityLow:    "low",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	needle := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range priorityNames {
		if v == needle {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("unknown priority %q", string(text))
}

// RecommendationCode identifies an advisory suggestion
type RecommendationCode string

const (
	RecFileAllReturns      RecommendationCode = "file_all_returns"
	RecSpecialistAdvice    RecommendationCode = "specialist_advice"
	RecRemittanceBasis     RecommendationCode = "remittance_basis"
	RecCorporateStructure  RecommendationCode = "corporate_structure"
	RecVerifyWithholding   RecommendationCode = "verify_withholding"
	RecPermanentEstablish  RecommendationCode = "permanent_establishment"
	RecExcessForeignTax    RecommendationCode = "excess_foreign_tax"
	RecLowForeignTaxReview RecommendationCode = "low_foreign_tax"
)

// Recommendation is a rule-derived suggestion. Text is rendered by the output layer.
type Recommendation struct {
	Priority        Priority           `json:"priority"`
	Category        string             `json:"category"`
	Code            RecommendationCode `json:"code"`
	Country         string             `json:"country,omitempty"`
	Amount          decimal.Decimal    `json:"amount"`
	PotentialSaving *decimal.Decimal   `json:"potential_saving,omitempty"`
}

// Summary carries the headline totals of a calculation
type Summary struct {
	TotalUKIncome       decimal.Decimal `json:"total_uk_income"`
	TotalForeignIncome  decimal.Decimal `json:"total_foreign_income"`
	TotalIncome         decimal.Decimal `json:"total_income"`
	Deductions          decimal.Decimal `json:"deductions"`
	IncomeTax           decimal.Decimal `json:"income_tax"`
	CapitalGainsTax     decimal.Decimal `json:"capital_gains_tax"`
	ForeignNetUKTaxDue  decimal.Decimal `json:"foreign_net_uk_tax_due"`
	TotalLiability      decimal.Decimal `json:"total_liability"`
	TotalForeignTaxPaid decimal.Decimal `json:"total_foreign_tax_paid"`
	EffectiveRate       decimal.Decimal `json:"effective_rate"` // percentage of total income
}

// TaxCalculationResult is the single output object of a calculation
type TaxCalculationResult struct {
	TaxYear           string           `json:"tax_year"`
	ReportingCurrency string           `json:"reporting_currency"`
	Summary           Summary          `json:"summary"`
	IncomeTax         IncomeTaxResult  `json:"income_tax"`
	CapitalGains      CGTResult        `json:"capital_gains"`
	ForeignRelief     DTAResult        `json:"foreign_relief"`
	Validation        ValidationResult `json:"validation"`
	Recommendations   []Recommendation `json:"recommendations"`
}
