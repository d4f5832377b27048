package adapters

import (
	"strings"

	"dealscout/internal/core/taxonomy"
	"dealscout/internal/services/sourcing/domain"
)

// ShopStream adapts intents for the shopstream catalog API
// The service supports server-side price filtering, so hard bounds are
// pushed into the query and marked applied
type ShopStream struct{}

// ProviderID implements domain.Adapter
func (ShopStream) ProviderID() string { return "shopstream" }

// BuildQuery implements domain.Adapter
func (ShopStream) BuildQuery(in domain.SearchIntent) domain.ProviderQuery {
	q := domain.ProviderQuery{
		ProviderID:      "shopstream",
		Query:           keywordQuery(in),
		Filters:         map[string]string{},
		TaxonomyVersion: in.TaxonomyVersion,
	}

	if path, ok := taxonomy.Resolve(in.Category, "shopstream"); ok {
		q.CategoryPath = path
		q.Filters["category"] = strings.Join(path, "/")
	}
	if in.PriceMax != nil {
		q.Filters["price_max"] = ftoa(*in.PriceMax)
		q.AppliedPriceFilter = true
	}
	if in.PriceMin != nil {
		q.Filters["price_min"] = ftoa(*in.PriceMin)
	}
	if terms := featureTerms(in); len(terms) > 0 {
		q.Query = q.Query + " " + strings.Join(terms, " ")
	}
	return q
}
