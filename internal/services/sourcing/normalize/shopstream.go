package normalize

import (
	"encoding/json"

	perr "dealscout/internal/platform/errors"
	"dealscout/internal/services/sourcing/domain"
)

// ShopStream normalizes the shopstream catalog payload
// Prices arrive as a structured object with an explicit currency; a null
// price object means the listing has no fixed price
type ShopStream struct{}

type shopStreamEnvelope struct {
	Items []json.RawMessage `json:"items"`
}

type shopStreamItem struct {
	Title  string `json:"title"`
	ID     string `json:"id"`
	Seller string `json:"seller"`
	URL    string `json:"url"`
	Image  string `json:"image"`
	Price  *struct {
		Amount   *float64 `json:"amount"`
		Currency string   `json:"currency"`
	} `json:"price"`
	Rating  *float64 `json:"rating"`
	Reviews *int     `json:"reviews"`
}

// ProviderID implements domain.Normalizer
func (ShopStream) ProviderID() string { return "shopstream" }

// Normalize implements domain.Normalizer
func (ShopStream) Normalize(raw domain.RawProviderResult) (domain.NormalizedBatch, error) {
	var env shopStreamEnvelope
	if err := json.Unmarshal(raw.Payload, &env); err != nil {
		return domain.NormalizedBatch{}, perr.Wrapf(err, perr.ErrorCodeJSON, "shopstream envelope decode")
	}

	b := domain.NormalizedBatch{Entries: make([]domain.NormalizedResult, 0, len(env.Items))}
	for _, item := range env.Items {
		var it shopStreamItem
		if err := json.Unmarshal(item, &it); err != nil {
			b.Malformed++
			continue
		}
		e := entry{
			Title:       it.Title,
			ExternalID:  it.ID,
			URL:         it.URL,
			ImageURL:    it.Image,
			Merchant:    it.Seller,
			Rating:      ratingPtr(it.Rating),
			ReviewCount: reviewPtr(it.Reviews),
			Source:      item,
		}
		if it.Price != nil && it.Price.Amount != nil {
			e.Amount = it.Price.Amount
			e.Currency = it.Price.Currency
		}
		res, ok := e.build("shopstream")
		if !ok {
			b.NoKey++
			continue
		}
		b.Entries = append(b.Entries, res)
	}
	return b, nil
}
