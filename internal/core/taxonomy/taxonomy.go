// Package taxonomy maps generic product categories onto provider vocabularies
// The table is versioned so persisted intents can be traced back to the
// vocabulary that produced them
package taxonomy

import "strings"

// Version identifies the active vocabulary table
const Version = "2024-07"

// node is one generic category with detection keywords and provider paths
type node struct {
	slug     string
	keywords []string
	// provider id -> provider-native category path
	paths map[string][]string
}

// table is the static vocabulary; order matters for detection ties
var table = []node{
	{
		slug:     "footwear",
		keywords: []string{"shoe", "shoes", "sneaker", "sneakers", "boot", "boots", "sandal", "trainer", "trainers", "running"},
		paths: map[string][]string{
			"shopstream": {"apparel", "shoes"},
			"bargainbay": {"fashion", "footwear"},
			"mercatus":   {"clothing-shoes", "shoes"},
		},
	},
	{
		slug:     "electronics",
		keywords: []string{"laptop", "phone", "smartphone", "headphones", "earbuds", "tablet", "monitor", "camera", "tv", "console"},
		paths: map[string][]string{
			"shopstream": {"electronics"},
			"bargainbay": {"tech", "electronics"},
			"mercatus":   {"electronics"},
		},
	},
	{
		slug:     "home",
		keywords: []string{"sofa", "chair", "table", "desk", "lamp", "mattress", "rug", "furniture", "kitchen"},
		paths: map[string][]string{
			"shopstream": {"home-garden"},
			"bargainbay": {"home", "furniture"},
			"mercatus":   {"home"},
		},
	},
	{
		slug:     "sports",
		keywords: []string{"bike", "bicycle", "dumbbell", "treadmill", "yoga", "tennis", "golf", "ski", "fitness"},
		paths: map[string][]string{
			"shopstream": {"sports-outdoors"},
			"bargainbay": {"sports"},
			"mercatus":   {"sporting-goods"},
		},
	},
	{
		slug:     "toys",
		keywords: []string{"lego", "toy", "toys", "puzzle", "doll", "boardgame", "game"},
		paths: map[string][]string{
			"shopstream": {"toys-games"},
			"bargainbay": {"kids", "toys"},
			"mercatus":   {"toys-hobbies"},
		},
	},
}

// Slugify turns a free-form category label into a table slug shape
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Detect resolves keywords to the best matching category slug
// Empty string means no category matched
func Detect(keywords []string) string {
	bestSlug := ""
	bestHits := 0
	for _, n := range table {
		hits := 0
		for _, kw := range keywords {
			kw = strings.ToLower(kw)
			for _, t := range n.keywords {
				if kw == t {
					hits++
					break
				}
			}
		}
		if hits > bestHits {
			bestHits = hits
			bestSlug = n.slug
		}
	}
	return bestSlug
}

// Resolve returns the provider-native category path for a generic slug
// ok=false when the provider has no mapping for that category
func Resolve(slug, providerID string) ([]string, bool) {
	for _, n := range table {
		if n.slug != slug {
			continue
		}
		p, ok := n.paths[providerID]
		if !ok {
			return nil, false
		}
		out := make([]string, len(p))
		copy(out, p)
		return out, true
	}
	return nil, false
}

// GenericPath returns the category as a single-segment generic path
func GenericPath(slug string) []string {
	if slug == "" {
		return nil
	}
	return []string{slug}
}
