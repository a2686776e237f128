package calculation

import (
	"fmt"
	"sort"

	"github.com/rpgo/dta-calculator/internal/domain"
	dec "github.com/rpgo/dta-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// DefaultReportingCurrency is used when reference data does not name one
const DefaultReportingCurrency = "GBP"

// Engine orchestrates validation, domestic tax, capital gains, foreign relief and
// recommendations. It holds only read-only tables and is safe for concurrent use.
type Engine struct {
	Reference    *domain.ReferenceData
	Converter    *CurrencyConverter
	Treaties     *TreatyRegistry
	IncomeTax    *IncomeTaxCalculator
	CapitalGains *CapitalGainsCalculator
	Relief       *DTAReliefCalculator
	Validator    *Validator
	Recommender  *RecommendationEngine
	Logger       Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.SetLogger(l) }
}

// NewEngine creates a calculation engine over the given reference data
func NewEngine(ref *domain.ReferenceData, opts ...Option) (*Engine, error) {
	if ref == nil {
		return nil, ErrNilReferenceData
	}
	reporting := ref.ReportingCurrency
	if reporting == "" {
		reporting = DefaultReportingCurrency
	}

	logger := Logger(NopLogger{})
	converter := NewCurrencyConverter(reporting, ref.ExchangeRates)
	treaties := NewTreatyRegistry(ref.Treaties)
	engine := &Engine{
		Reference:    ref,
		Converter:    converter,
		Treaties:     treaties,
		IncomeTax:    NewIncomeTaxCalculator(),
		CapitalGains: NewCapitalGainsCalculator(),
		Relief:       NewDTAReliefCalculator(converter, treaties, logger),
		Validator:    NewValidator(converter, treaties),
		Recommender:  NewRecommendationEngine(ref.Thresholds()),
		Logger:       logger,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
	if e.Relief != nil {
		e.Relief.Logger = l
	}
}

// TaxYear returns the rate card for name
func (e *Engine) TaxYear(name string) (*domain.TaxYearConfig, error) {
	cfg, ok := e.Reference.TaxYears[name]
	if !ok || cfg == nil {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownTaxYear, name, e.TaxYears())
	}
	return cfg, nil
}

// TaxYears lists the configured tax years in order
func (e *Engine) TaxYears() []string {
	names := make([]string, 0, len(e.Reference.TaxYears))
	for name := range e.Reference.TaxYears {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate screens foreign income records without calculating anything
func (e *Engine) Validate(records []domain.ForeignIncomeRecord) domain.ValidationResult {
	return e.Validator.Validate(records)
}

// ValidateInput screens domestic figures and foreign records without calculating
func (e *Engine) ValidateInput(input domain.TaxInput) domain.ValidationResult {
	return e.Validator.ValidateInput(input)
}

// Calculate runs the full pipeline for one taxpayer and year. Errors are returned
// only for structural problems; data problems are reported in the result's
// validation section. Offending foreign records are left out of relief and
// negative domestic figures count as zero.
func (e *Engine) Calculate(input domain.TaxInput) (*domain.TaxCalculationResult, error) {
	cfg, err := e.TaxYear(input.TaxYear)
	if err != nil {
		return nil, err
	}
	if len(input.ForeignIncome) > 0 && input.UKTaxRate == nil {
		return nil, ErrMissingUKTaxRate
	}

	validation := e.ValidateInput(input)
	accepted := make([]domain.ForeignIncomeRecord, 0, len(input.ForeignIncome))
	for i, r := range input.ForeignIncome {
		if validation.HasErrorFor(i) {
			e.Logger.Warnf("excluding foreign record %d (%s) from relief: validation errors", i, r.CountryCode)
			continue
		}
		accepted = append(accepted, r)
	}

	if validation.HasErrorFor(domain.DomesticRecord) {
		e.Logger.Warnf("negative domestic amounts are treated as zero")
	}
	domestic := input.WithoutNegatives()

	ukIncome := domestic.UKIncome.Total()
	deductions := domestic.Deductions.Total()
	gross := ukIncome.Sub(deductions)
	e.Logger.Debugf("%s: uk income=%s deductions=%s gross=%s", cfg.Name, ukIncome.StringFixed(2), deductions.StringFixed(2), gross.StringFixed(2))

	incomeTax := e.IncomeTax.Calculate(gross, cfg)
	gains := e.CapitalGains.Calculate(domestic.CapitalGains.Property, domestic.CapitalGains.NonProperty(), incomeTax.TaxableIncome, cfg)

	ukTaxRate := decimal.Zero
	if input.UKTaxRate != nil {
		ukTaxRate = *input.UKTaxRate
	}
	relief := e.Relief.Calculate(accepted, ukTaxRate)
	recommendations := e.Recommender.Recommend(relief)

	liability := dec.Sum(incomeTax.TotalTax, gains.TotalTax, relief.NetUKTaxDue)
	totalIncome := ukIncome.Add(relief.TotalForeignIncome)
	summary := domain.Summary{
		TotalUKIncome:       ukIncome,
		TotalForeignIncome:  relief.TotalForeignIncome,
		TotalIncome:         totalIncome,
		Deductions:          deductions,
		IncomeTax:           incomeTax.TotalTax,
		CapitalGainsTax:     gains.TotalTax,
		ForeignNetUKTaxDue:  relief.NetUKTaxDue,
		TotalLiability:      liability,
		TotalForeignTaxPaid: relief.TotalForeignTax,
		EffectiveRate:       dec.Round(dec.AsPercent(dec.Ratio(liability.Add(relief.TotalForeignTax), totalIncome))),
	}
	e.Logger.Infof("%s: liability=%s foreign_relief=%s recommendations=%d", cfg.Name, liability.StringFixed(2), relief.TotalRelief.StringFixed(2), len(recommendations))

	return &domain.TaxCalculationResult{
		TaxYear:           cfg.Name,
		ReportingCurrency: e.Converter.ReportingCurrency(),
		Summary:           summary,
		IncomeTax:         incomeTax,
		CapitalGains:      gains,
		ForeignRelief:     relief,
		Validation:        validation,
		Recommendations:   recommendations,
	}, nil
}
