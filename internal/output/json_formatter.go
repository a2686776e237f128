package output

import (
	"encoding/json"

	"github.com/rpgo/dta-calculator/internal/domain"
)

// JSONFormatter serializes the calculation result as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.TaxCalculationResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
