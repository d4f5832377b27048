// Package intent turns free-text procurement requests into structured search intents
package intent

// SchemaVersion is persisted with offers so old rows can be traced to the
// extraction rules that produced them
const SchemaVersion = 2

// Intent is the immutable snapshot of one request
// Created once per search invocation and never mutated afterwards
type Intent struct {
	Query           string            `json:"query"`
	Category        string            `json:"category,omitempty"`
	CategoryPath    []string          `json:"category_path,omitempty"`
	TaxonomyVersion string            `json:"taxonomy_version"`
	PriceMin        *float64          `json:"price_min,omitempty"`
	PriceMax        *float64          `json:"price_max,omitempty"`
	Currency        string            `json:"currency"`
	Features        map[string]string `json:"features,omitempty"`
	Keywords        []string          `json:"keywords"`
	Version         int               `json:"version"`
}

// Constraints are caller-known bounds that override anything extracted
type Constraints struct {
	PriceMin *float64
	PriceMax *float64
	Category string
	Currency string
}

// apply overlays known constraints onto an extracted intent
func (c Constraints) apply(in Intent) Intent {
	if c.PriceMin != nil {
		in.PriceMin = c.PriceMin
	}
	if c.PriceMax != nil {
		in.PriceMax = c.PriceMax
	}
	if c.Category != "" {
		in.Category = c.Category
	}
	if c.Currency != "" {
		in.Currency = c.Currency
	}
	return in
}
