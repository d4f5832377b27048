package adapters

import (
	"strings"

	"dealscout/internal/core/taxonomy"
	"dealscout/internal/services/sourcing/domain"
)

// Mercatus adapts intents for the mercatus marketplace API
// Marketplace search is keyword driven; it honors a maximum price parameter
// but not a minimum one
type Mercatus struct{}

// ProviderID implements domain.Adapter
func (Mercatus) ProviderID() string { return "mercatus" }

// BuildQuery implements domain.Adapter
func (Mercatus) BuildQuery(in domain.SearchIntent) domain.ProviderQuery {
	terms := append([]string{}, in.Keywords...)
	terms = append(terms, featureTerms(in)...)

	q := domain.ProviderQuery{
		ProviderID:      "mercatus",
		Query:           strings.Join(terms, " "),
		Filters:         map[string]string{},
		TaxonomyVersion: in.TaxonomyVersion,
	}

	if path, ok := taxonomy.Resolve(in.Category, "mercatus"); ok {
		q.CategoryPath = path
		q.Filters["category_id"] = path[0]
	}
	if in.PriceMax != nil {
		q.Filters["max_price"] = ftoa(*in.PriceMax)
		q.AppliedPriceFilter = true
	}
	return q
}
