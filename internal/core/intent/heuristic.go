package intent

import (
	"regexp"
	"strconv"

	"dealscout/internal/core/taxonomy"
	"dealscout/internal/core/textfold"
)

// price phrase patterns, checked in order: two-number range (a lone min or
// max keyword must not swallow half of one), explicit max, explicit min,
// bare dollar amount (read as a cap)
var (
	reBetween  = regexp.MustCompile(`(?i)between\s+\$?\s*(\d+(?:\.\d+)?)\s+and\s+\$?\s*(\d+(?:\.\d+)?)`)
	reRange    = regexp.MustCompile(`(?i)\$?\s*(\d+(?:\.\d+)?)\s*(?:-|–|to)\s*\$?\s*(\d+(?:\.\d+)?)`)
	rePriceMax = regexp.MustCompile(`(?i)(?:under|below|less\s+than|at\s+most|up\s+to|no\s+more\s+than|cheaper\s+than|max(?:imum)?)\s*\$?\s*(\d+(?:\.\d+)?)`)
	rePriceMin = regexp.MustCompile(`(?i)(?:over|above|at\s+least|more\s+than|starting\s+(?:at|from)|from|min(?:imum)?)\s*\$?\s*(\d+(?:\.\d+)?)`)
	reBare     = regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)`)

	reToken = regexp.MustCompile(`[a-z0-9]+`)
)

// stopwords are filler that carries no retrieval value
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "for": {}, "with": {},
	"of": {}, "in": {}, "on": {}, "to": {}, "at": {}, "by": {}, "me": {},
	"my": {}, "i": {}, "need": {}, "want": {}, "looking": {}, "find": {},
	"buy": {}, "get": {}, "some": {}, "please": {}, "cheap": {}, "best": {},
	"good": {}, "under": {}, "below": {}, "over": {}, "above": {}, "less": {},
	"more": {}, "than": {}, "most": {}, "least": {}, "up": {}, "max": {},
	"min": {}, "from": {}, "between": {}, "price": {}, "dollars": {}, "usd": {},
}

// Heuristic is the total fallback extractor: every input yields a usable
// intent with a non-empty keyword list
func Heuristic(query string, known Constraints) Intent {
	in := Intent{
		Query:           query,
		TaxonomyVersion: taxonomy.Version,
		Currency:        "USD",
		Version:         SchemaVersion,
	}

	in.PriceMin, in.PriceMax = extractPriceBounds(query)
	in.Keywords = Tokenize(query)
	if cat := taxonomy.Detect(in.Keywords); cat != "" {
		in.Category = cat
	}

	in = known.apply(in)
	if in.Category != "" {
		in.Category = taxonomy.Slugify(in.Category)
		in.CategoryPath = taxonomy.GenericPath(in.Category)
	}
	return in
}

// extractPriceBounds reads price phrasing out of the raw text
// Ranges win: "between $50 and $100" and "from 50 to 100" carry both bounds,
// and must not degrade into a lone cap or floor
func extractPriceBounds(q string) (min, max *float64) {
	for _, re := range []*regexp.Regexp{reBetween, reRange} {
		if m := re.FindStringSubmatch(q); m != nil {
			lo, hi := parseNum(m[1]), parseNum(m[2])
			if lo != nil && hi != nil && *lo > *hi {
				lo, hi = hi, lo
			}
			return lo, hi
		}
	}
	if m := rePriceMax.FindStringSubmatch(q); m != nil {
		max = parseNum(m[1])
	}
	if m := rePriceMin.FindStringSubmatch(q); m != nil {
		min = parseNum(m[1])
	}
	if min != nil || max != nil {
		return min, max
	}
	if m := reBare.FindStringSubmatch(q); m != nil {
		// a lone "$80" almost always means a budget cap
		return nil, parseNum(m[1])
	}
	return nil, nil
}

func parseNum(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Tokenize folds the query to its canonical form, splits on
// non-alphanumerics, and drops stopwords, bare numbers, and single
// characters while preserving first-seen order
// The result is never empty for non-degenerate input: the folded query
// itself backstops pathological cases
func Tokenize(q string) []string {
	folded := textfold.Fold(q)
	raw := reToken.FindAllString(folded, -1)

	seen := map[string]struct{}{}
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) <= 1 {
			continue
		}
		if _, stop := stopwords[t]; stop {
			continue
		}
		if isNumeric(t) {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		if folded != "" {
			return []string{folded}
		}
		return []string{"offers"}
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
