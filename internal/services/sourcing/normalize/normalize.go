// Package normalize maps raw provider payloads into canonical offer entries
// Per-entry failures are dropped and counted in the batch, never fatal for
// their siblings; an undecodable envelope surfaces as an error so the
// provider's status can reflect it
package normalize

import (
	"encoding/json"

	"dealscout/internal/core/canonical"
	"dealscout/internal/core/currency"
	"dealscout/internal/services/sourcing/domain"
)

// ForProvider returns the normalizer for a provider id
func ForProvider(id string) (domain.Normalizer, bool) {
	switch id {
	case "shopstream":
		return ShopStream{}, true
	case "bargainbay":
		return BargainBay{}, true
	case "mercatus":
		return Mercatus{}, true
	default:
		return nil, false
	}
}

// entry is the common assembly point every provider normalizer funnels into
type entry struct {
	Title       string
	ExternalID  string
	URL         string
	ImageURL    string
	Merchant    string
	Rating      *float64
	ReviewCount *int

	// price as the provider stated it; nil means unknown, zero means free
	Amount   *float64
	Currency string

	Source json.RawMessage
}

// build returns false when the listing has no title or no derivable
// canonical identity; callers count those in the batch's NoKey
func (e entry) build(providerID string) (domain.NormalizedResult, bool) {
	if e.Title == "" {
		return domain.NormalizedResult{}, false
	}
	key := canonical.Identity(providerID, e.ExternalID, e.URL, e.Title, e.Merchant)
	if key == "" {
		return domain.NormalizedResult{}, false
	}

	out := domain.NormalizedResult{
		Title:         e.Title,
		Currency:      "USD",
		Merchant:      e.Merchant,
		CanonicalKey:  key,
		URL:           e.URL,
		ImageURL:      e.ImageURL,
		Rating:        e.Rating,
		ReviewCount:   e.ReviewCount,
		ProviderID:    providerID,
		SourcePayload: e.Source,
	}

	if e.Amount != nil {
		code := e.Currency
		if code == "" {
			code = "USD"
		}
		if norm, ok := currency.Normalize(code); ok {
			if usd, ok := currency.ToUSD(*e.Amount, norm); ok {
				v := usd
				out.Price = &v
				if norm != "USD" {
					out.OriginalPrice = e.Amount
					out.OriginalCurrency = norm
				}
			}
		}
		// unknown currency leaves Price nil rather than guessing
	}

	return out, true
}

// ratingPtr clamps a provider rating onto the 0..5 scale, nil when absent
func ratingPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := *v
	if r < 0 || r > 5 {
		return nil
	}
	return &r
}

func reviewPtr(v *int) *int {
	if v == nil || *v < 0 {
		return nil
	}
	return v
}
