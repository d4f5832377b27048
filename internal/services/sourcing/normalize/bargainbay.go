package normalize

import (
	"encoding/json"
	"strings"

	"dealscout/internal/core/currency"
	perr "dealscout/internal/platform/errors"
	"dealscout/internal/services/sourcing/domain"
)

// BargainBay normalizes the bargainbay deals payload
// Prices arrive as display strings ("$79.99", "79,99 €"); anything that
// does not parse stays an unknown price rather than a zero
type BargainBay struct{}

type bargainBayEnvelope struct {
	Deals []json.RawMessage `json:"deals"`
}

type bargainBayDeal struct {
	Name       string   `json:"name"`
	SKU        string   `json:"sku"`
	PriceText  string   `json:"price_text"`
	Currency   string   `json:"currency"`
	Store      string   `json:"store"`
	Link       string   `json:"link"`
	Img        string   `json:"img"`
	Stars      *float64 `json:"stars"`
	NumReviews *int     `json:"num_reviews"`
}

// ProviderID implements domain.Normalizer
func (BargainBay) ProviderID() string { return "bargainbay" }

// Normalize implements domain.Normalizer
func (BargainBay) Normalize(raw domain.RawProviderResult) (domain.NormalizedBatch, error) {
	var env bargainBayEnvelope
	if err := json.Unmarshal(raw.Payload, &env); err != nil {
		return domain.NormalizedBatch{}, perr.Wrapf(err, perr.ErrorCodeJSON, "bargainbay envelope decode")
	}

	b := domain.NormalizedBatch{Entries: make([]domain.NormalizedResult, 0, len(env.Deals))}
	for _, deal := range env.Deals {
		var d bargainBayDeal
		if err := json.Unmarshal(deal, &d); err != nil {
			b.Malformed++
			continue
		}
		e := entry{
			Title:       d.Name,
			ExternalID:  d.SKU,
			URL:         d.Link,
			ImageURL:    d.Img,
			Merchant:    d.Store,
			Rating:      ratingPtr(d.Stars),
			ReviewCount: reviewPtr(d.NumReviews),
			Source:      deal,
		}
		if amt, ok := currency.ParseAmount(d.PriceText); ok {
			e.Amount = &amt
			e.Currency = d.Currency
			if e.Currency == "" {
				// a lone symbol in the display string is the only hint
				e.Currency = symbolHint(d.PriceText)
			}
		}
		res, ok := e.build("bargainbay")
		if !ok {
			b.NoKey++
			continue
		}
		b.Entries = append(b.Entries, res)
	}
	return b, nil
}

// symbolHint scans a display price for a known currency symbol
// R$ must be probed before $ so brazilian prices do not read as dollars
func symbolHint(s string) string {
	for _, sym := range []string{"R$", "$", "€", "£", "¥", "₹"} {
		if strings.Contains(s, sym) {
			if code := currency.FromSymbol(sym); code != "" {
				return code
			}
		}
	}
	return ""
}
