package adapters

import (
	"strings"

	"dealscout/internal/core/taxonomy"
	"dealscout/internal/services/sourcing/domain"
)

// BargainBay adapts intents for the bargainbay deals API
// The service has no server-side price filtering, so hard bounds stay with
// the aggregator and AppliedPriceFilter remains false
type BargainBay struct{}

// ProviderID implements domain.Adapter
func (BargainBay) ProviderID() string { return "bargainbay" }

// BuildQuery implements domain.Adapter
func (BargainBay) BuildQuery(in domain.SearchIntent) domain.ProviderQuery {
	q := domain.ProviderQuery{
		ProviderID:      "bargainbay",
		Query:           keywordQuery(in),
		Filters:         map[string]string{},
		TaxonomyVersion: in.TaxonomyVersion,
	}

	if path, ok := taxonomy.Resolve(in.Category, "bargainbay"); ok {
		q.CategoryPath = path
		// bargainbay takes only the leaf category as a keyword hint
		q.Filters["section"] = path[len(path)-1]
	}
	if terms := featureTerms(in); len(terms) > 0 {
		q.Query = q.Query + " " + strings.Join(terms, " ")
	}
	return q
}
