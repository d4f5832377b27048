package metrics

import (
	"context"

	"dealscout/internal/platform/store"
)

// CHSink batches finished runs into ClickHouse
// One row per run plus one row per provider call
type CHSink struct {
	ch store.Clickhouse
}

// NewCHSink wraps a ClickHouse seam; returns nil for a nil seam so callers
// can pass the result straight into NewCollector
func NewCHSink(ch store.Clickhouse) *CHSink {
	if ch == nil {
		return nil
	}
	return &CHSink{ch: ch}
}

// WriteRun implements Sink
func (s *CHSink) WriteRun(ctx context.Context, r Run) error {
	runRows := [][]any{{
		r.RunID,
		r.OwnerID,
		r.Query,
		uint16(r.ProvidersCalled),
		uint16(r.ProvidersSucceeded),
		uint16(r.ProvidersFailed),
		uint32(r.ResultsTotal),
		uint32(r.ResultsNoKey),
		uint32(r.ResultsMalformed),
		uint32(r.ResultsFiltered),
		uint32(r.OffersInserted),
		uint32(r.OffersUpdated),
		r.StartedAt,
		uint64(r.Duration.Milliseconds()),
	}}
	if err := s.ch.Insert(ctx, "sourcing_runs", runRows); err != nil {
		return err
	}

	if len(r.Providers) == 0 {
		return nil
	}
	provRows := make([][]any, 0, len(r.Providers))
	for _, p := range r.Providers {
		provRows = append(provRows, []any{
			r.RunID,
			p.ProviderID,
			string(p.Status),
			uint32(p.ResultCount),
			uint64(p.LatencyMS),
			p.Message,
		})
	}
	return s.ch.Insert(ctx, "sourcing_provider_calls", provRows)
}
