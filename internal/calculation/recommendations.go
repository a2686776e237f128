package calculation

import (
	"sort"

	"github.com/rpgo/dta-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// RecommendationEngine derives advisory suggestions from relief results
type RecommendationEngine struct {
	Thresholds domain.AdvisoryThresholds
}

// NewRecommendationEngine creates an engine with the given rule parameters
func NewRecommendationEngine(thresholds domain.AdvisoryThresholds) *RecommendationEngine {
	return &RecommendationEngine{Thresholds: thresholds}
}

// Recommend applies the rule table and returns suggestions ordered high to low
// priority. Within a priority, rules keep their declaration order.
func (e *RecommendationEngine) Recommend(relief domain.DTAResult) []domain.Recommendation {
	th := e.Thresholds
	recs := []domain.Recommendation{}
	total := relief.TotalForeignIncome

	if total.GreaterThan(th.MultiCountryFilingIncome) {
		recs = append(recs, domain.Recommendation{
			Priority: domain.PriorityHigh,
			Category: "compliance",
			Code:     domain.RecFileAllReturns,
			Amount:   total,
		})
	}

	if n := countJurisdictions(relief.Entries); n > th.SpecialistJurisdictions {
		recs = append(recs, domain.Recommendation{
			Priority: domain.PriorityMedium,
			Category: "advisory",
			Code:     domain.RecSpecialistAdvice,
			Amount:   decimal.NewFromInt(int64(n)),
		})
	}

	if total.GreaterThan(th.RemittanceBasisIncome) {
		saving := total.Mul(th.RemittanceSavingRate)
		recs = append(recs, domain.Recommendation{
			Priority:        domain.PriorityHigh,
			Category:        "planning",
			Code:            domain.RecRemittanceBasis,
			Amount:          total,
			PotentialSaving: &saving,
		})
	}

	for _, entry := range relief.Entries {
		switch entry.IncomeType {
		case domain.IncomeProperty:
			if entry.Income.GreaterThan(th.PropertyStructureIncome) {
				saving := entry.Income.Mul(th.PropertySavingRate)
				recs = append(recs, domain.Recommendation{
					Priority:        domain.PriorityMedium,
					Category:        "structure",
					Code:            domain.RecCorporateStructure,
					Country:         entry.Country,
					Amount:          entry.Income,
					PotentialSaving: &saving,
				})
			}
		case domain.IncomeDividend:
			if entry.Income.IsPositive() && entry.ForeignTax.Div(entry.Income).LessThan(th.DividendWithholdingRate) {
				recs = append(recs, domain.Recommendation{
					Priority: domain.PriorityLow,
					Category: "dta",
					Code:     domain.RecVerifyWithholding,
					Country:  entry.Country,
					Amount:   entry.Income,
				})
			}
		case domain.IncomeBusiness:
			if entry.Income.GreaterThan(th.BusinessPEIncome) {
				recs = append(recs, domain.Recommendation{
					Priority: domain.PriorityHigh,
					Category: "compliance",
					Code:     domain.RecPermanentEstablish,
					Country:  entry.Country,
					Amount:   entry.Income,
				})
			}
		}
	}

	for _, adv := range relief.Advisories {
		switch adv.Code {
		case domain.AdvisoryExcessForeignTax:
			recs = append(recs, domain.Recommendation{
				Priority: domain.PriorityMedium,
				Category: "dta",
				Code:     domain.RecExcessForeignTax,
				Country:  adv.Country,
				Amount:   adv.Amount,
			})
		case domain.AdvisoryLowForeignTax:
			recs = append(recs, domain.Recommendation{
				Priority: domain.PriorityLow,
				Category: "planning",
				Code:     domain.RecLowForeignTaxReview,
				Country:  adv.Country,
				Amount:   adv.ForeignTax,
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority < recs[j].Priority })
	return recs
}

func countJurisdictions(entries []domain.ReliefBreakdownEntry) int {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[normalizeCountry(e.CountryCode)] = struct{}{}
	}
	return len(seen)
}
