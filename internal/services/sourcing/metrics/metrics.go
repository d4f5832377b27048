// Package metrics tracks one sourcing invocation as an observed operation
// Strictly observational: recording failures are logged and swallowed so the
// pipeline's critical path never depends on this package succeeding
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"dealscout/internal/platform/logger"
	"dealscout/internal/services/sourcing/domain"
)

// Run is the flushed summary of one invocation
type Run struct {
	RunID   string
	OwnerID string
	Query   string

	ProvidersCalled    int
	ProvidersSucceeded int
	ProvidersFailed    int

	ResultsTotal     int
	ResultsNoKey     int
	ResultsMalformed int
	ResultsFiltered  int

	OffersInserted int
	OffersUpdated  int

	StartedAt time.Time
	Duration  time.Duration

	Providers []domain.ProviderStatusSnapshot
}

// Sink receives finished runs, typically backed by ClickHouse
type Sink interface {
	WriteRun(ctx context.Context, r Run) error
}

// Collector accumulates counters for one invocation
// Safe for concurrent provider completions
type Collector struct {
	mu   sync.Mutex
	run  Run
	sink Sink
	log  logger.Logger
}

// NewCollector opens a tracked operation; sink may be nil
func NewCollector(sink Sink, ownerID, query string) *Collector {
	c := &Collector{
		run: Run{
			RunID:     uuid.NewString(),
			OwnerID:   ownerID,
			Query:     query,
			StartedAt: time.Now(),
		},
		sink: sink,
		log:  *logger.Named("sourcing.metrics"),
	}
	c.log.Info().
		Str("run_id", c.run.RunID).
		Str("owner_id", ownerID).
		Msg("sourcing run started")
	return c
}

// RunID identifies this invocation in logs and the sink
func (c *Collector) RunID() string { return c.run.RunID }

// ProviderSettled records one provider's final snapshot
func (c *Collector) ProviderSettled(s domain.ProviderStatusSnapshot) {
	c.mu.Lock()
	c.run.Providers = append(c.run.Providers, s)
	c.run.ProvidersCalled++
	if s.Status == domain.StatusOK {
		c.run.ProvidersSucceeded++
	} else {
		c.run.ProvidersFailed++
	}
	c.mu.Unlock()

	c.log.Info().
		Str("run_id", c.run.RunID).
		Str("provider", s.ProviderID).
		Str("status", string(s.Status)).
		Int("results", s.ResultCount).
		Int64("latency_ms", s.LatencyMS).
		Msg("provider settled")
}

// Normalization records the merge-stage counters
func (c *Collector) Normalization(total, noKey, malformed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run.ResultsTotal = total
	c.run.ResultsNoKey = noKey
	c.run.ResultsMalformed = malformed
}

// Filtered records how many entries the hard constraints excluded
func (c *Collector) Filtered(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run.ResultsFiltered = n
}

// Persisted records the upsert outcome split
func (c *Collector) Persisted(inserted, updated int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run.OffersInserted = inserted
	c.run.OffersUpdated = updated
}

// Finish closes the tracked operation and flushes to the sink best effort
func (c *Collector) Finish(ctx context.Context) {
	c.mu.Lock()
	c.run.Duration = time.Since(c.run.StartedAt)
	run := c.run
	c.mu.Unlock()

	c.log.Info().
		Str("run_id", run.RunID).
		Int("providers_ok", run.ProvidersSucceeded).
		Int("providers_failed", run.ProvidersFailed).
		Int("results_total", run.ResultsTotal).
		Int("results_filtered", run.ResultsFiltered).
		Int("offers_inserted", run.OffersInserted).
		Int("offers_updated", run.OffersUpdated).
		Dur("duration", run.Duration).
		Msg("sourcing run finished")

	if c.sink == nil {
		return
	}
	if err := c.sink.WriteRun(ctx, run); err != nil {
		c.log.Warn().Err(err).Str("run_id", run.RunID).Msg("metrics sink write failed")
	}
}
