package calculation

import (
	"sort"
	"strings"

	"github.com/rpgo/dta-calculator/internal/domain"
)

// TreatyRegistry is a read-only index of double taxation agreements by country code
type TreatyRegistry struct {
	treaties map[string]domain.Treaty
}

// NewTreatyRegistry indexes treaties by upper-cased country code. Later entries
// for the same code replace earlier ones; the config loader rejects duplicates.
func NewTreatyRegistry(treaties []domain.Treaty) *TreatyRegistry {
	idx := make(map[string]domain.Treaty, len(treaties))
	for _, t := range treaties {
		t.Provisions = append([]string(nil), t.Provisions...)
		idx[normalizeCountry(t.CountryCode)] = t
	}
	return &TreatyRegistry{treaties: idx}
}

func normalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup returns the treaty for countryCode, if one exists
func (r *TreatyRegistry) Lookup(countryCode string) (domain.Treaty, bool) {
	t, ok := r.treaties[normalizeCountry(countryCode)]
	return t, ok
}

// Resolve returns the treaty for countryCode or the unilateral credit fallback
func (r *TreatyRegistry) Resolve(countryCode string) (domain.Treaty, bool) {
	if t, ok := r.Lookup(countryCode); ok {
		return t, true
	}
	return domain.DefaultTreaty(normalizeCountry(countryCode)), false
}

// Has reports whether a treaty exists for countryCode
func (r *TreatyRegistry) Has(countryCode string) bool {
	_, ok := r.Lookup(countryCode)
	return ok
}

// All returns the treaties sorted by country code
func (r *TreatyRegistry) All() []domain.Treaty {
	out := make([]domain.Treaty, 0, len(r.treaties))
	for _, t := range r.treaties {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountryCode < out[j].CountryCode })
	return out
}

// Len returns the number of registered treaties
func (r *TreatyRegistry) Len() int {
	return len(r.treaties)
}
