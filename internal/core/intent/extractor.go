package intent

import (
	"context"
	"time"

	"dealscout/internal/core/taxonomy"
	"dealscout/internal/platform/logger"
)

const defaultModelTimeout = 5 * time.Second

// Model is the structured extraction port, typically a language model
// behind HTTP. Implementations may fail freely; the extractor absorbs it
type Model interface {
	Extract(ctx context.Context, query string) (Intent, error)
}

// ExtractorConfig tunes the primary extraction path
type ExtractorConfig struct {
	Timeout time.Duration
}

// Extractor produces a complete Intent for every input
// The model path is best effort; the heuristic path is total
type Extractor struct {
	model Model
	cfg   ExtractorConfig
	log   logger.Logger
}

// NewExtractor constructs an Extractor; model may be nil to force heuristics
func NewExtractor(m Model, cfg ExtractorConfig) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultModelTimeout
	}
	return &Extractor{model: m, cfg: cfg, log: *logger.Named("intent")}
}

// Extract never fails the caller: any model trouble falls back to Heuristic
func (e *Extractor) Extract(ctx context.Context, query string, known Constraints) Intent {
	if e == nil || e.model == nil {
		return Heuristic(query, known)
	}

	tctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	got, err := e.model.Extract(tctx, query)
	if err != nil {
		e.log.Warn().Err(err).Msg("model extraction failed falling back to heuristic")
		return Heuristic(query, known)
	}

	return finalize(got, query, known)
}

// finalize backfills model omissions so downstream stages can rely on a
// complete intent regardless of which path produced it
func finalize(in Intent, query string, known Constraints) Intent {
	in.Query = query
	in.Version = SchemaVersion
	in.TaxonomyVersion = taxonomy.Version
	if len(in.Keywords) == 0 {
		in.Keywords = Tokenize(query)
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if in.Category == "" {
		in.Category = taxonomy.Detect(in.Keywords)
	}

	in = known.apply(in)
	if in.Category != "" {
		in.Category = taxonomy.Slugify(in.Category)
		in.CategoryPath = taxonomy.GenericPath(in.Category)
	}
	return in
}
