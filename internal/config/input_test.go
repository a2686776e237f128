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

const sampleInput = `
tax_year: "2024-25"
uk_income:
  employment: 60000
  interest: 1200
capital_gains:
  shares: 5000
deductions:
  pension_contributions: 4000
uk_tax_rate: 0.40
foreign_income:
  - country: France
    country_code: FR
    income_type: property
    foreign_income: 10000
    foreign_currency: EUR
    foreign_tax_paid: 1500
  - country: United States
    country_code: US
    income_type: dividend
    foreign_income: "2500.50"
    foreign_currency: USD
    foreign_tax_paid: 375
    exchange_rate: 0.8
`

func TestParseInput_YAML(t *testing.T) {
	input, err := NewInputParser().ParseInput([]byte(sampleInput))
	require.NoError(t, err)

	assert.Equal(t, "2024-25", input.TaxYear)
	assert.True(t, input.UKIncome.Total().Equal(decimal.NewFromInt(61200)))
	assert.True(t, input.Deductions.Total().Equal(decimal.NewFromInt(4000)))
	require.NotNil(t, input.UKTaxRate)
	assert.True(t, input.UKTaxRate.Equal(decimal.NewFromFloat(0.4)))

	require.Len(t, input.ForeignIncome, 2)
	fr := input.ForeignIncome[0]
	assert.Equal(t, domain.IncomeProperty, fr.IncomeType)
	assert.True(t, fr.ForeignIncome.Equal(decimal.NewFromInt(10000)))
	assert.Nil(t, fr.ExchangeRate)

	us := input.ForeignIncome[1]
	assert.True(t, us.ForeignIncome.Equal(decimal.RequireFromString("2500.50")))
	require.NotNil(t, us.ExchangeRate)
	assert.True(t, us.ExchangeRate.Equal(decimal.NewFromFloat(0.8)))
}

func TestParseInput_JSON(t *testing.T) {
	body := `{"tax_year":"2024-25","uk_tax_rate":0.2,"foreign_income":[{"country":"Germany","country_code":"DE","income_type":"interest","foreign_income":1000,"foreign_currency":"EUR","foreign_tax_paid":250}]}`

	input, err := NewInputParser().ParseInput([]byte(body))
	require.NoError(t, err)
	require.Len(t, input.ForeignIncome, 1)
	assert.True(t, input.ForeignIncome[0].ForeignTaxPaid.Equal(decimal.NewFromInt(250)))
}

func TestParseInput_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "missing tax year",
			yaml:    "uk_income:\n  employment: 1000\n",
			wantErr: ErrMissingField,
		},
		{
			name: "missing foreign income amount",
			yaml: `
tax_year: "2024-25"
uk_tax_rate: 0.2
foreign_income:
  - country: France
    country_code: FR
    foreign_currency: EUR
    foreign_tax_paid: 10
`,
			wantErr: ErrMissingField,
		},
		{
			name: "non-numeric foreign tax",
			yaml: `
tax_year: "2024-25"
uk_tax_rate: 0.2
foreign_income:
  - country: France
    country_code: FR
    foreign_income: 100
    foreign_currency: EUR
    foreign_tax_paid: lots
`,
			wantErr: ErrInvalidNumber,
		},
		{
			name: "foreign income without uk rate",
			yaml: `
tax_year: "2024-25"
foreign_income:
  - country: France
    country_code: FR
    foreign_income: 100
    foreign_currency: EUR
    foreign_tax_paid: 10
`,
			wantErr: ErrMissingField,
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseInput([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseInput_UnknownIncomeType(t *testing.T) {
	_, err := NewInputParser().ParseInput([]byte(`
tax_year: "2024-25"
uk_tax_rate: 0.2
foreign_income:
  - country: France
    country_code: FR
    income_type: lottery
    foreign_income: 100
    foreign_currency: EUR
    foreign_tax_paid: 10
`))
	assert.Error(t, err)
}

func TestParseInput_KeepsNegativeDomesticAmounts(t *testing.T) {
	input, err := NewInputParser().ParseInput([]byte(`
tax_year: "2024-25"
uk_income:
  employment: 30000
capital_gains:
  property: -5000
  shares: 20000
deductions:
  pension_contributions: -50000
`))
	require.NoError(t, err)
	assert.True(t, input.Deductions.PensionContributions.Equal(decimal.NewFromInt(-50000)))

	var negative []string
	for _, a := range input.DomesticAmounts() {
		if a.Amount.IsNegative() {
			negative = append(negative, a.Field)
		}
	}
	assert.Equal(t, []string{"capital_gains.property", "deductions.pension_contributions"}, negative)

	cleaned := input.WithoutNegatives()
	assert.True(t, cleaned.Deductions.Total().IsZero())
	assert.True(t, cleaned.CapitalGains.Property.IsZero())
	assert.True(t, cleaned.CapitalGains.Shares.Equal(decimal.NewFromInt(20000)))
	assert.True(t, input.Deductions.PensionContributions.IsNegative(), "original input must not change")
}

func TestLoadInput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleInput), 0o644))

	input, err := NewInputParser().LoadInput(path)
	require.NoError(t, err)
	assert.Len(t, input.ForeignIncome, 2)

	_, err = NewInputParser().LoadInput(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestCreateExampleInput(t *testing.T) {
	parser := NewInputParser()
	example := parser.CreateExampleInput()
	require.NotNil(t, example)
	assert.NoError(t, parser.ValidateInput(example))
	assert.NotEmpty(t, example.ForeignIncome)

	ref, err := parser.DefaultReferenceData()
	require.NoError(t, err)
	assert.Contains(t, ref.TaxYears, example.TaxYear)
}
