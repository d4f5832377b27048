package module

import (
	"time"

	"dealscout/internal/platform/config"
)

// ProviderOptions configures one upstream catalog
type ProviderOptions struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Options controls the sourcing module
type Options struct {
	// Scoring
	WeightRelevance float64
	WeightPriceFit  float64
	WeightQuality   float64
	WeightPriority  float64

	NullPriceHardDrop bool

	// Fan-out
	CallTimeout time.Duration
	MaxInFlight int
	QPS         float64
	CacheTTL    time.Duration

	// Upstreams
	ShopStream ProviderOptions
	BargainBay ProviderOptions
	Mercatus   ProviderOptions

	// Intent extraction model; empty base URL disables the model path
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration
}

// FromConfig reads with SOURCING_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("SOURCING_")
	return Options{
		WeightRelevance: c.MayFloat64("WEIGHT_RELEVANCE", 0.45),
		WeightPriceFit:  c.MayFloat64("WEIGHT_PRICE_FIT", 0.20),
		WeightQuality:   c.MayFloat64("WEIGHT_QUALITY", 0.20),
		WeightPriority:  c.MayFloat64("WEIGHT_PRIORITY", 0.15),

		NullPriceHardDrop: c.MayBool("NULL_PRICE_HARD_DROP", true),

		CallTimeout: c.MayDuration("CALL_TIMEOUT", 8*time.Second),
		MaxInFlight: c.MayInt("MAX_IN_FLIGHT", 8),
		QPS:         c.MayFloat64("PROVIDER_QPS", 5),
		CacheTTL:    c.MayDuration("RAW_CACHE_TTL", 0),

		ShopStream: ProviderOptions{
			BaseURL: c.MayString("SHOPSTREAM_URL", ""),
			APIKey:  c.MayString("SHOPSTREAM_KEY", ""),
			Timeout: c.MayDuration("SHOPSTREAM_TIMEOUT", 0),
		},
		BargainBay: ProviderOptions{
			BaseURL: c.MayString("BARGAINBAY_URL", ""),
			APIKey:  c.MayString("BARGAINBAY_KEY", ""),
			Timeout: c.MayDuration("BARGAINBAY_TIMEOUT", 0),
		},
		Mercatus: ProviderOptions{
			BaseURL: c.MayString("MERCATUS_URL", ""),
			APIKey:  c.MayString("MERCATUS_KEY", ""),
			Timeout: c.MayDuration("MERCATUS_TIMEOUT", 0),
		},

		LLMBaseURL: c.MayString("LLM_URL", ""),
		LLMAPIKey:  c.MayString("LLM_KEY", ""),
		LLMModel:   c.MayString("LLM_MODEL", ""),
		LLMTimeout: c.MayDuration("LLM_TIMEOUT", 5*time.Second),
	}
}
