// Package score ranks normalized offers against a structured intent
// All functions are pure; weights come from configuration
package score

import (
	"math"
	"strings"

	"dealscout/internal/core/textfold"
)

// Weights blends the scoring components; they should sum to roughly 1.0
type Weights struct {
	Relevance float64
	PriceFit  float64
	Quality   float64
	Priority  float64
}

// DefaultWeights are the documented defaults used when config is silent
func DefaultWeights() Weights {
	return Weights{
		Relevance: 0.45,
		PriceFit:  0.20,
		Quality:   0.20,
		Priority:  0.15,
	}
}

// Query carries the intent fields scoring cares about
type Query struct {
	Keywords []string
	Features map[string]string
	PriceMin *float64
	PriceMax *float64
}

// Item is one candidate offer
type Item struct {
	Title       string
	Price       *float64
	Rating      *float64
	ReviewCount *int

	// ProviderPriority is a 0..1 signal derived from configured provider order
	ProviderPriority float64
}

// Breakdown records each component before weighting, for ranking transparency
type Breakdown struct {
	Relevance float64 `json:"relevance"`
	PriceFit  float64 `json:"price_fit"`
	Quality   float64 `json:"quality"`
	Priority  float64 `json:"priority"`
}

// Compute returns the weighted score and its component breakdown
func Compute(it Item, q Query, w Weights) (float64, Breakdown) {
	b := Breakdown{
		Relevance: relevance(it.Title, q),
		PriceFit:  priceFit(it.Price, q.PriceMin, q.PriceMax),
		Quality:   quality(it.Rating, it.ReviewCount),
		Priority:  clamp01(it.ProviderPriority),
	}
	total := b.Relevance*w.Relevance +
		b.PriceFit*w.PriceFit +
		b.Quality*w.Quality +
		b.Priority*w.Priority
	return total, b
}

// FitsHardBounds applies the intent's hard price constraints
// dropNull excludes unknown prices whenever a hard max is set
func FitsHardBounds(price, min, max *float64, dropNull bool) bool {
	if price == nil {
		if max != nil && dropNull {
			return false
		}
		return true
	}
	if max != nil && *price > *max {
		return false
	}
	if min != nil && *price < *min {
		return false
	}
	return true
}

// relevance is the fraction of intent keywords and features present in the title
func relevance(title string, q Query) float64 {
	total := len(q.Keywords) + len(q.Features)
	if total == 0 {
		return 0.5
	}
	folded := textfold.Fold(title)
	hits := 0
	for _, kw := range q.Keywords {
		if kw != "" && strings.Contains(folded, textfold.Fold(kw)) {
			hits++
		}
	}
	for k, v := range q.Features {
		if v != "" && strings.Contains(folded, textfold.Fold(v)) {
			hits++
		} else if k != "" && strings.Contains(folded, textfold.Fold(k)) {
			hits++
		}
	}
	return float64(hits) / float64(total)
}

// priceFit is 1.0 inside the bounds and decays with distance outside them
// Exceeding the max decays twice as fast as undershooting the min: an
// over-budget offer hurts more than a suspiciously cheap one
func priceFit(price, min, max *float64) float64 {
	if price == nil {
		// unknown price is neutral, not free
		return 0.5
	}
	p := *price
	if max != nil && p > *max && *max > 0 {
		over := (p - *max) / *max
		return 1 / (1 + 4*over)
	}
	if min != nil && p < *min && *min > 0 {
		// ranked candidates never arrive below the min bound; this branch
		// serves callers scoring outside the hard filter
		under := (*min - p) / *min
		return 1 / (1 + 2*under)
	}
	return 1.0
}

// quality blends rating with a log-scaled review count confidence
func quality(rating *float64, reviews *int) float64 {
	if rating == nil {
		return 0
	}
	r := clamp01(*rating / 5.0)
	conf := 0.3
	if reviews != nil && *reviews > 0 {
		conf = clamp01(math.Log10(1+float64(*reviews)) / 3.0)
		if conf < 0.3 {
			conf = 0.3
		}
	}
	return r * conf
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
