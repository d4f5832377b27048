package normalize

import (
	"encoding/json"

	"dealscout/internal/core/currency"
	perr "dealscout/internal/platform/errors"
	"dealscout/internal/services/sourcing/domain"
)

// Mercatus normalizes the mercatus marketplace payload
// Amounts arrive as locale-formatted strings with a separate currency code,
// so entries flow through both the amount parser and the FX table
type Mercatus struct{}

type mercatusEnvelope struct {
	Results []json.RawMessage `json:"results"`
}

type mercatusResult struct {
	Heading   string   `json:"heading"`
	ListingID string   `json:"listing_id"`
	Amount    string   `json:"amount"`
	Currency  string   `json:"currency"`
	Merchant  string   `json:"merchant"`
	Permalink string   `json:"permalink"`
	Thumbnail string   `json:"thumbnail"`
	Stars     *float64 `json:"stars"`
	Votes     *int     `json:"votes"`
}

// ProviderID implements domain.Normalizer
func (Mercatus) ProviderID() string { return "mercatus" }

// Normalize implements domain.Normalizer
func (Mercatus) Normalize(raw domain.RawProviderResult) (domain.NormalizedBatch, error) {
	var env mercatusEnvelope
	if err := json.Unmarshal(raw.Payload, &env); err != nil {
		return domain.NormalizedBatch{}, perr.Wrapf(err, perr.ErrorCodeJSON, "mercatus envelope decode")
	}

	b := domain.NormalizedBatch{Entries: make([]domain.NormalizedResult, 0, len(env.Results))}
	for _, res := range env.Results {
		var m mercatusResult
		if err := json.Unmarshal(res, &m); err != nil {
			b.Malformed++
			continue
		}
		e := entry{
			Title:       m.Heading,
			ExternalID:  m.ListingID,
			URL:         m.Permalink,
			ImageURL:    m.Thumbnail,
			Merchant:    m.Merchant,
			Rating:      ratingPtr(m.Stars),
			ReviewCount: reviewPtr(m.Votes),
			Source:      res,
		}
		if amt, ok := currency.ParseAmount(m.Amount); ok {
			e.Amount = &amt
			e.Currency = m.Currency
		}
		nr, ok := e.build("mercatus")
		if !ok {
			b.NoKey++
			continue
		}
		b.Entries = append(b.Entries, nr)
	}
	return b, nil
}
