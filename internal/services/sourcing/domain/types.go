// Package domain defines the sourcing pipeline types and ports
package domain

import (
	"encoding/json"
	"time"

	"dealscout/internal/core/intent"
	"dealscout/internal/core/score"
)

// SearchIntent is the immutable per-invocation snapshot of what the buyer wants
type SearchIntent = intent.Intent

// ProviderStatus classifies the outcome of one provider call
type ProviderStatus string

// Provider call outcomes
const (
	StatusOK          ProviderStatus = "ok"
	StatusTimeout     ProviderStatus = "timeout"
	StatusError       ProviderStatus = "error"
	StatusRateLimited ProviderStatus = "rate_limited"
	StatusExhausted   ProviderStatus = "exhausted"
)

// ProviderQuery is one provider's native rendition of a SearchIntent
// Derived deterministically; carries enough metadata to audit the translation
type ProviderQuery struct {
	ProviderID      string            `json:"provider_id"`
	Query           string            `json:"query"`
	Filters         map[string]string `json:"filters,omitempty"`
	CategoryPath    []string          `json:"category_path,omitempty"`
	TaxonomyVersion string            `json:"taxonomy_version"`

	// AppliedPriceFilter is true only when the provider applied the max
	// price bound server side; false defers the bound to the aggregator
	AppliedPriceFilter bool `json:"applied_price_filter"`
}

// ProviderStatusSnapshot reports one provider call's outcome
// Exactly one exists per configured provider per invocation
type ProviderStatusSnapshot struct {
	ProviderID  string         `json:"provider_id"`
	Status      ProviderStatus `json:"status"`
	ResultCount int            `json:"result_count"`
	LatencyMS   int64          `json:"latency_ms"`
	Message     string         `json:"message,omitempty"`
}

// RawProviderResult is the opaque payload one provider returned
// It lives only within one invocation; the payload rides along onto
// persisted offers as an audit trail
type RawProviderResult struct {
	ProviderID string
	Query      ProviderQuery
	Payload    []byte
}

// ScoreBreakdown exposes the scoring components for ranking transparency
type ScoreBreakdown = score.Breakdown

// NormalizedResult is the provider-neutral shape of one offer
// CanonicalKey is mandatory; entries without one never reach persistence
// Price is nil when unknown; zero is a valid free-listing price
type NormalizedResult struct {
	Title            string          `json:"title"`
	Price            *float64        `json:"price"`
	Currency         string          `json:"currency"`
	OriginalPrice    *float64        `json:"original_price,omitempty"`
	OriginalCurrency string          `json:"original_currency,omitempty"`
	Merchant         string          `json:"merchant,omitempty"`
	CanonicalKey     string          `json:"canonical_key"`
	URL              string          `json:"url"`
	ImageURL         string          `json:"image_url,omitempty"`
	Rating           *float64        `json:"rating,omitempty"`
	ReviewCount      *int            `json:"review_count,omitempty"`
	ProviderID       string          `json:"provider_id"`
	Score            float64         `json:"score"`
	ScoreParts       ScoreBreakdown  `json:"score_parts"`
	SourcePayload    json.RawMessage `json:"-"`
}

// NormalizedBatch is one provider's normalized output with its drop
// accounting. Malformed counts entries that failed to decode; NoKey counts
// entries rejected for missing a title or any derivable canonical identity
type NormalizedBatch struct {
	Entries   []NormalizedResult
	Malformed int
	NoKey     int
}

// Offer is the durable record, unique per (owner, canonical key, provider)
// The pipeline refreshes the normalized fields; liked/selected/comment belong
// to the buyer and survive every refresh
type Offer struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"owner_id"`
	CanonicalKey  string          `json:"canonical_key"`
	ProviderID    string          `json:"provider_id"`
	Title         string          `json:"title"`
	Price         *float64        `json:"price"`
	Currency      string          `json:"currency"`
	Merchant      string          `json:"merchant,omitempty"`
	URL           string          `json:"url"`
	ImageURL      string          `json:"image_url,omitempty"`
	Rating        *float64        `json:"rating,omitempty"`
	ReviewCount   *int            `json:"review_count,omitempty"`
	Score         float64         `json:"score"`
	SourcePayload json.RawMessage `json:"-"`
	IntentVersion int             `json:"intent_version"`
	NormalizedAt  time.Time       `json:"normalized_at"`

	Liked    bool       `json:"liked"`
	LikedAt  *time.Time `json:"liked_at,omitempty"`
	Selected bool       `json:"selected"`
	Comment  *string    `json:"comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SearchInput is what the inbound surface hands the pipeline
type SearchInput struct {
	Query    string   `json:"query" validate:"required,min=1,max=500"`
	MaxPrice *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	MinPrice *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	Category string   `json:"category,omitempty" validate:"omitempty,max=100"`
}

// SearchOutput pairs the ranked results with an honest status report
type SearchOutput struct {
	Results          []NormalizedResult       `json:"results"`
	ProviderStatuses []ProviderStatusSnapshot `json:"provider_statuses"`
	Intent           SearchIntent             `json:"intent"`
}
