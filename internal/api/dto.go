package api

import (
	"github.com/rpgo/dta-calculator/internal/domain"
)

// ErrorResponse is the body of every 4xx/5xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ValidateRequest carries the records to screen.
type ValidateRequest struct {
	ForeignIncome []domain.ForeignIncomeRecord `json:"foreign_income"`
}

// TaxYearDTO describes one configured tax year.
type TaxYearDTO struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Current   bool   `json:"current"`
}

// TreatyDTO is a treaty as exposed over the API.
type TreatyDTO struct {
	CountryCode         string   `json:"country_code"`
	Country             string   `json:"country"`
	ReliefMethod        string   `json:"relief_method"`
	MaxCreditPercentage string   `json:"max_credit_percentage"`
	Provisions          []string `json:"provisions,omitempty"`
}

func toTreatyDTOs(treaties []domain.Treaty) []TreatyDTO {
	out := make([]TreatyDTO, 0, len(treaties))
	for _, t := range treaties {
		out = append(out, TreatyDTO{
			CountryCode:         t.CountryCode,
			Country:             t.Country,
			ReliefMethod:        t.ReliefMethod.String(),
			MaxCreditPercentage: t.MaxCreditPercentage.String(),
			Provisions:          t.Provisions,
		})
	}
	return out
}
