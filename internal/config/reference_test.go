package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/dta-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestDefaultReferenceData(t *testing.T) {
	ref, err := NewInputParser().DefaultReferenceData()
	require.NoError(t, err)

	assert.Equal(t, "GBP", ref.ReportingCurrency)
	require.Contains(t, ref.TaxYears, "2024-25")
	require.Contains(t, ref.TaxYears, "2025-26")

	cfg := ref.TaxYears["2024-25"]
	assert.Equal(t, "2024-25", cfg.Name)
	assert.True(t, cfg.PersonalAllowance.Equal(decimal.NewFromInt(12570)))
	require.Len(t, cfg.Bands, 3)
	assert.True(t, cfg.BasicRateThreshold().Equal(decimal.NewFromInt(37700)))
	assert.True(t, cfg.Bands[2].Unbounded())
	assert.True(t, cfg.CGT.AnnualExemption.Equal(decimal.NewFromInt(3000)))

	assert.True(t, ref.ExchangeRates["EUR"].Equal(decimal.NewFromFloat(0.85)))

	var india domain.Treaty
	for _, tr := range ref.Treaties {
		if tr.CountryCode == "IN" {
			india = tr
		}
	}
	assert.Equal(t, domain.ReliefCredit, india.ReliefMethod)
	assert.True(t, india.MaxCreditPercentage.Equal(decimal.NewFromInt(75)))
}

const minimalReference = `
tax_years:
  "2024-25":
    personal_allowance: 0
    bands:
      - name: basic
        rate: 0.20
    cgt:
      annual_exemption: 0
      basic_rate: 0.10
      higher_rate: 0.20
      property_basic_rate: 0.18
      property_higher_rate: 0.24
`

func TestParseReferenceData_AppliesDefaults(t *testing.T) {
	ref, err := NewInputParser().ParseReferenceData([]byte(minimalReference))
	require.NoError(t, err)

	assert.Equal(t, "GBP", ref.ReportingCurrency)
	cfg := ref.TaxYears["2024-25"]
	assert.Equal(t, "2024-25", cfg.Name)
	assert.True(t, cfg.AllowanceTaperThreshold.Equal(decimal.NewFromInt(100000)))
	assert.True(t, cfg.AllowanceTaperRate.Equal(decimal.NewFromFloat(0.5)))
	assert.Nil(t, ref.AdvisoryThresholds)
	assert.Equal(t, domain.DefaultAdvisoryThresholds(), ref.Thresholds())
}

func TestParseReferenceData_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "no tax years",
			yaml: "reporting_currency: GBP\n",
		},
		{
			name: "bad tax year name",
			yaml: `
tax_years:
  "2024":
    bands:
      - name: basic
        rate: 0.2
`,
		},
		{
			name: "no bands",
			yaml: `
tax_years:
  "2024-25":
    personal_allowance: 12570
`,
		},
		{
			name: "thresholds not increasing",
			yaml: `
tax_years:
  "2024-25":
    bands:
      - name: basic
        threshold: 50000
        rate: 0.20
      - name: higher
        threshold: 40000
        rate: 0.40
      - name: additional
        rate: 0.45
`,
		},
		{
			name: "unbounded band not last",
			yaml: `
tax_years:
  "2024-25":
    bands:
      - name: basic
        rate: 0.20
      - name: higher
        threshold: 40000
        rate: 0.40
`,
		},
		{
			name: "last band bounded",
			yaml: `
tax_years:
  "2024-25":
    bands:
      - name: basic
        threshold: 37700
        rate: 0.20
`,
		},
		{
			name: "band rate above one",
			yaml: `
tax_years:
  "2024-25":
    bands:
      - name: basic
        rate: 20
`,
		},
		{
			name: "negative cgt rate",
			yaml: `
tax_years:
  "2024-25":
    bands:
      - name: basic
        rate: 0.2
    cgt:
      basic_rate: -0.1
`,
		},
		{
			name: "non-positive exchange rate",
			yaml: minimalReference + `
exchange_rates:
  EUR: 0
`,
		},
		{
			name: "duplicate treaty",
			yaml: minimalReference + `
treaties:
  - country_code: FR
    relief_method: credit
    max_credit_percentage: 100
  - country_code: fr
    relief_method: credit
    max_credit_percentage: 100
`,
		},
		{
			name: "treaty missing method",
			yaml: minimalReference + `
treaties:
  - country_code: FR
    max_credit_percentage: 100
`,
		},
		{
			name: "treaty percentage out of range",
			yaml: minimalReference + `
treaties:
  - country_code: FR
    relief_method: credit
    max_credit_percentage: 120
`,
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseReferenceData([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidReferenceData)
		})
	}
}

func TestParseReferenceData_UnknownReliefMethod(t *testing.T) {
	_, err := NewInputParser().ParseReferenceData([]byte(minimalReference + `
treaties:
  - country_code: FR
    relief_method: deduction
    max_credit_percentage: 100
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidReferenceData)
}

func TestLoadReferenceData_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalReference), 0o644))

	ref, err := NewInputParser().LoadReferenceData(path)
	require.NoError(t, err)
	assert.Contains(t, ref.TaxYears, "2024-25")

	_, err = NewInputParser().LoadReferenceData(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrInvalidReferenceData)
}
