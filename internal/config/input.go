package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rpgo/dta-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// LoadInput loads a calculation request from a YAML or JSON file
func (ip *InputParser) LoadInput(filename string) (*domain.TaxInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseInput(data)
}

// ParseInput decodes a calculation request. JSON is accepted as a YAML subset.
func (ip *InputParser) ParseInput(data []byte) (*domain.TaxInput, error) {
	var input domain.TaxInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	if err := ip.ValidateInput(&input); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	return &input, nil
}

// ValidateInput performs the structural checks that must hold before calculating.
// Plausibility of foreign records is left to the calculation validator.
func (ip *InputParser) ValidateInput(input *domain.TaxInput) error {
	input.TaxYear = strings.TrimSpace(input.TaxYear)
	if input.TaxYear == "" {
		return fmt.Errorf("%w: tax_year", ErrMissingField)
	}
	if len(input.ForeignIncome) > 0 && input.UKTaxRate == nil {
		return fmt.Errorf("%w: uk_tax_rate (required with foreign_income)", ErrMissingField)
	}
	if input.UKTaxRate != nil && !isFraction(*input.UKTaxRate) {
		return fmt.Errorf("uk_tax_rate must be between 0 and 1")
	}
	return nil
}

// CreateExampleInput creates an example calculation request
func (ip *InputParser) CreateExampleInput() *domain.TaxInput {
	rate := decimal.NewFromFloat(0.40)
	return &domain.TaxInput{
		TaxYear: "2024-25",
		UKIncome: domain.UKIncome{
			Employment: decimal.NewFromInt(85000),
			Dividends:  decimal.NewFromInt(2500),
			Interest:   decimal.NewFromInt(800),
		},
		CapitalGains: domain.CapitalGains{
			Property: decimal.NewFromInt(12000),
			Shares:   decimal.NewFromInt(4500),
		},
		Deductions: domain.Deductions{
			PensionContributions: decimal.NewFromInt(6000),
			CharitableDonations:  decimal.NewFromInt(500),
		},
		ForeignIncome: []domain.ForeignIncomeRecord{
			{
				Country:         "France",
				CountryCode:     "FR",
				IncomeType:      domain.IncomeProperty,
				ForeignIncome:   decimal.NewFromInt(18000),
				ForeignCurrency: "EUR",
				ForeignTaxPaid:  decimal.NewFromInt(3240),
			},
			{
				Country:         "United States",
				CountryCode:     "US",
				IncomeType:      domain.IncomeDividend,
				ForeignIncome:   decimal.NewFromInt(6000),
				ForeignCurrency: "USD",
				ForeignTaxPaid:  decimal.NewFromInt(900),
			},
			{
				Country:         "United Arab Emirates",
				CountryCode:     "AE",
				IncomeType:      domain.IncomeEmployment,
				ForeignIncome:   decimal.NewFromInt(40000),
				ForeignCurrency: "AED",
				ForeignTaxPaid:  decimal.Zero,
			},
		},
		UKTaxRate: &rate,
	}
}
