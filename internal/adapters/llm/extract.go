package llm

import (
	"context"
	"encoding/json"
	"strings"

	"dealscout/internal/core/intent"
	perr "dealscout/internal/platform/errors"
)

const extractSystemPrompt = `You turn shopping requests into JSON.
Respond with a single JSON object using exactly these keys:
{"category": string, "price_min": number|null, "price_max": number|null,
"currency": string, "features": object, "keywords": [string]}.
Keywords are lowercase single words. Omit nothing; use null or empty values.`

// modelIntent is the wire shape the prompt asks for
type modelIntent struct {
	Category string            `json:"category"`
	PriceMin *float64          `json:"price_min"`
	PriceMax *float64          `json:"price_max"`
	Currency string            `json:"currency"`
	Features map[string]string `json:"features"`
	Keywords []string          `json:"keywords"`
}

// Extract implements intent.Model
func (c *Client) Extract(ctx context.Context, query string) (intent.Intent, error) {
	content, err := c.Complete(ctx, extractSystemPrompt, query)
	if err != nil {
		return intent.Intent{}, err
	}

	// models occasionally wrap JSON in code fences despite instructions
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var mi modelIntent
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &mi); err != nil {
		return intent.Intent{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "llm intent parse failed")
	}

	return intent.Intent{
		Category: mi.Category,
		PriceMin: mi.PriceMin,
		PriceMax: mi.PriceMax,
		Currency: mi.Currency,
		Features: mi.Features,
		Keywords: mi.Keywords,
	}, nil
}

var _ intent.Model = (*Client)(nil)
