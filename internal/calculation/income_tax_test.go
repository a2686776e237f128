package calculation

import (
	"encoding/json"
	"testing"

	"github.com/rpgo/dta-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBandTax_AllowanceAlreadyApplied(t *testing.T) {
	calc := NewIncomeTaxCalculator()
	bands := []domain.TaxBand{
		{Name: "basic", Threshold: dp("50270"), Rate: d("0.20")},
		{Name: "higher", Threshold: dp("125140"), Rate: d("0.40")},
		{Name: "additional", Rate: d("0.45")},
	}

	breakdown, total := calc.CalculateBandTax(d("40000"), bands)
	require.Len(t, breakdown, 1)
	assert.Equal(t, "basic", breakdown[0].Band)
	assert.True(t, total.Equal(d("8000")), "expected 8000, got %s", total)
}

func TestIncomeTaxCalculation(t *testing.T) {
	calc := NewIncomeTaxCalculator()
	cfg := testTaxYear()

	tests := []struct {
		name          string
		grossIncome   decimal.Decimal
		wantTaxable   decimal.Decimal
		wantTax       decimal.Decimal
		wantBandCount int
	}{
		{
			name:        "Zero income",
			grossIncome: decimal.Zero,
			wantTaxable: decimal.Zero,
			wantTax:     decimal.Zero,
		},
		{
			name:        "Negative income",
			grossIncome: d("-5000"),
			wantTaxable: decimal.Zero,
			wantTax:     decimal.Zero,
		},
		{
			name:        "At personal allowance",
			grossIncome: d("12570"),
			wantTaxable: decimal.Zero,
			wantTax:     decimal.Zero,
		},
		{
			name:          "Basic rate only",
			grossIncome:   d("30000"),
			wantTaxable:   d("17430"),
			wantTax:       d("3486"), // 17430 * 0.20
			wantBandCount: 1,
		},
		{
			name:          "At basic rate threshold",
			grossIncome:   d("50270"),
			wantTaxable:   d("37700"),
			wantTax:       d("7540"),
			wantBandCount: 1,
		},
		{
			name:          "Higher rate",
			grossIncome:   d("60000"),
			wantTaxable:   d("47430"),
			wantTax:       d("11432"), // 7540 + 9730*0.40
			wantBandCount: 2,
		},
		{
			name:          "Taper threshold keeps full allowance",
			grossIncome:   d("100000"),
			wantTaxable:   d("87430"),
			wantTax:       d("27432"), // 7540 + 49730*0.40
			wantBandCount: 2,
		},
		{
			name:          "Allowance fully tapered",
			grossIncome:   d("125140"),
			wantTaxable:   d("125140"),
			wantTax:       d("42516"), // 7540 + 87440*0.40
			wantBandCount: 2,
		},
		{
			name:          "Additional rate",
			grossIncome:   d("200000"),
			wantTaxable:   d("200000"),
			wantTax:       d("76203"), // 7540 + 87440*0.40 + 74860*0.45
			wantBandCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.Calculate(tt.grossIncome, cfg)
			assert.True(t, result.TaxableIncome.Equal(tt.wantTaxable), "taxable: want %s got %s", tt.wantTaxable, result.TaxableIncome)
			assert.True(t, result.TotalTax.Equal(tt.wantTax), "tax: want %s got %s", tt.wantTax, result.TotalTax)
			assert.Len(t, result.Bands, tt.wantBandCount)
		})
	}
}

func TestBandBreakdownSumsToTotal(t *testing.T) {
	calc := NewIncomeTaxCalculator()
	cfg := testTaxYear()

	incomes := []string{"0", "12570", "12571", "50270", "100000", "112570", "125140", "125141", "250000", "1000000"}
	for _, s := range incomes {
		t.Run(s, func(t *testing.T) {
			result := calc.Calculate(d(s), cfg)
			sum := decimal.Zero
			taxed := decimal.Zero
			for _, b := range result.Bands {
				sum = sum.Add(b.Tax)
				taxed = taxed.Add(b.Amount)
				assert.True(t, b.Tax.Equal(b.Amount.Mul(b.Rate)))
			}
			assert.True(t, sum.Equal(result.TotalTax), "band sum %s != total %s", sum, result.TotalTax)
			assert.True(t, taxed.Equal(result.TaxableIncome), "band amounts %s != taxable %s", taxed, result.TaxableIncome)
		})
	}
}

func TestPersonalAllowanceTaper(t *testing.T) {
	calc := NewIncomeTaxCalculator()
	cfg := testTaxYear()

	tests := []struct {
		gross string
		want  string
	}{
		{"50000", "12570"},
		{"100000", "12570"},
		{"110000", "7570"},
		{"125140", "0"},
		{"150000", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.gross, func(t *testing.T) {
			got := calc.Allowance(d(tt.gross), cfg)
			assert.True(t, got.Equal(d(tt.want)), "want %s got %s", tt.want, got)
		})
	}
}

func TestAllowanceUsedNeverExceedsIncome(t *testing.T) {
	result := NewIncomeTaxCalculator().Calculate(d("5000"), testTaxYear())
	assert.True(t, result.AllowanceUsed.Equal(d("5000")))
	assert.True(t, result.TaxableIncome.IsZero())
}

func TestCalculateZeroTaxableHasEmptyBands(t *testing.T) {
	result := NewIncomeTaxCalculator().Calculate(d("5000"), testTaxYear())
	require.NotNil(t, result.Bands)
	assert.Empty(t, result.Bands)

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bands":[]`)
}

func TestCalculateReportsMarginalRate(t *testing.T) {
	result := NewIncomeTaxCalculator().Calculate(d("60000"), testTaxYear())
	assert.True(t, result.MarginalRate.Equal(d("0.40")))
}

func TestMarginalRate(t *testing.T) {
	calc := NewIncomeTaxCalculator()
	cfg := testTaxYear()

	assert.True(t, calc.MarginalRate(d("0"), cfg).Equal(d("0.20")))
	assert.True(t, calc.MarginalRate(d("37699"), cfg).Equal(d("0.20")))
	assert.True(t, calc.MarginalRate(d("37700"), cfg).Equal(d("0.40")))
	assert.True(t, calc.MarginalRate(d("200000"), cfg).Equal(d("0.45")))
}
