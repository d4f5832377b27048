// Package adapters maps search intents onto provider-native queries
// Every adapter is a pure function of the intent; adding a provider means
// registering one more Adapter here and nothing else
package adapters

import (
	"sort"
	"strconv"
	"strings"

	"dealscout/internal/services/sourcing/domain"
)

// Registry is a static provider id -> adapter lookup
type Registry struct {
	byID  map[string]domain.Adapter
	order []string
}

// NewRegistry builds a registry from the given adapters, preserving order
// Order doubles as provider priority for deterministic tie-breaking
func NewRegistry(as ...domain.Adapter) *Registry {
	r := &Registry{byID: make(map[string]domain.Adapter, len(as))}
	for _, a := range as {
		if _, dup := r.byID[a.ProviderID()]; dup {
			continue
		}
		r.byID[a.ProviderID()] = a
		r.order = append(r.order, a.ProviderID())
	}
	return r
}

// Default returns the registry with every built-in provider adapter
func Default() *Registry {
	return NewRegistry(ShopStream{}, BargainBay{}, Mercatus{})
}

// IDs returns provider ids in priority order
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the adapter for a provider id
func (r *Registry) Get(id string) (domain.Adapter, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// Priority returns a 0..1 signal for a provider, higher for earlier ids
func (r *Registry) Priority(id string) float64 {
	n := len(r.order)
	if n == 0 {
		return 0
	}
	for i, pid := range r.order {
		if pid == id {
			return float64(n-i) / float64(n)
		}
	}
	return 0
}

// BuildAll renders one query per registered provider, in priority order
func (r *Registry) BuildAll(in domain.SearchIntent) []domain.ProviderQuery {
	out := make([]domain.ProviderQuery, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].BuildQuery(in))
	}
	return out
}

// keywordQuery joins intent keywords into a provider search string
func keywordQuery(in domain.SearchIntent) string {
	return strings.Join(in.Keywords, " ")
}

// featureTerms renders the feature map as deterministic extra search terms
func featureTerms(in domain.SearchIntent) []string {
	if len(in.Features) == 0 {
		return nil
	}
	keys := make([]string, 0, len(in.Features))
	for k := range in.Features {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := in.Features[k]; v != "" {
			out = append(out, v)
		}
	}
	return out
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
