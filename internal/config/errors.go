package config

import (
	"errors"

	"github.com/rpgo/dta-calculator/internal/domain"
)

var (
	// ErrInvalidReferenceData reports reference tables that could not be loaded or break an invariant
	ErrInvalidReferenceData = errors.New("invalid reference data")
	// ErrMissingField reports a required input field that was absent
	ErrMissingField = domain.ErrMissingField
	// ErrInvalidNumber reports a numeric input field that could not be parsed
	ErrInvalidNumber = domain.ErrInvalidNumber
)
