package calculation

import "errors"

var (
	// ErrUnknownTaxYear is returned when no rate card exists for the requested year
	ErrUnknownTaxYear = errors.New("unknown tax year")
	// ErrMissingUKTaxRate is returned when foreign records are supplied without a flat UK rate
	ErrMissingUKTaxRate = errors.New("uk_tax_rate is required when foreign income is present")
	// ErrNilReferenceData is returned when an engine is built without reference tables
	ErrNilReferenceData = errors.New("reference data is required")
)
