// Package executor fans one search out to every configured provider
// Each call runs under its own timeout; a slow or failing provider never
// blocks or cancels its siblings, and every provider yields exactly one
// status snapshot per invocation
package executor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"dealscout/internal/modkit/scope"
	perr "dealscout/internal/platform/errors"
	"dealscout/internal/platform/logger"
	"dealscout/internal/platform/store"
	"dealscout/internal/services/sourcing/domain"
)

const (
	defaultCallTimeout = 8 * time.Second
	defaultMaxInFlight = 8
	defaultQPS         = 5
)

// Config tunes the fan-out
type Config struct {
	// DefaultTimeout bounds one provider call; Timeouts overrides per provider
	DefaultTimeout time.Duration
	Timeouts       map[string]time.Duration

	// MaxInFlight bounds concurrent provider calls
	MaxInFlight int

	// QPS is the client-side per-provider rate budget
	QPS float64

	// CacheTTL enables raw payload caching when a KV seam is present
	CacheTTL time.Duration
}

// Executor runs provider queries concurrently and classifies outcomes
type Executor struct {
	callers  map[string]domain.Caller
	limiters map[string]*rate.Limiter
	cache    store.KV
	cfg      Config
	log      logger.Logger
}

// New constructs an Executor; cache may be nil
func New(cfg Config, cache store.KV, callers ...domain.Caller) *Executor {
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = defaultCallTimeout
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = defaultMaxInFlight
	}
	if cfg.QPS <= 0 {
		cfg.QPS = defaultQPS
	}
	e := &Executor{
		callers:  make(map[string]domain.Caller, len(callers)),
		limiters: make(map[string]*rate.Limiter, len(callers)),
		cache:    cache,
		cfg:      cfg,
		log:      *logger.Named("executor"),
	}
	for _, c := range callers {
		e.callers[c.ProviderID()] = c
		e.limiters[c.ProviderID()] = rate.NewLimiter(rate.Limit(cfg.QPS), 1)
	}
	return e
}

// Execute launches one call per query and waits for all to settle
// Results and snapshots come back in query order; the slice of snapshots
// always has exactly one entry per query
func (e *Executor) Execute(ctx context.Context, qs []domain.ProviderQuery) ([]domain.RawProviderResult, []domain.ProviderStatusSnapshot) {
	results := make([]domain.RawProviderResult, len(qs))
	snaps := make([]domain.ProviderStatusSnapshot, len(qs))

	sem := make(chan struct{}, e.cfg.MaxInFlight)
	var wg sync.WaitGroup

	for i, q := range qs {
		wg.Add(1)
		go func(i int, q domain.ProviderQuery) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], snaps[i] = e.callOne(ctx, q)
		}(i, q)
	}
	wg.Wait()

	return results, snaps
}

// callOne runs a single provider call under its own timeout and converts
// every failure mode into a status snapshot
func (e *Executor) callOne(ctx context.Context, q domain.ProviderQuery) (domain.RawProviderResult, domain.ProviderStatusSnapshot) {
	snap := domain.ProviderStatusSnapshot{ProviderID: q.ProviderID}
	start := time.Now()
	settle := func(st domain.ProviderStatus, msg string) domain.ProviderStatusSnapshot {
		snap.Status = st
		snap.Message = msg
		snap.LatencyMS = time.Since(start).Milliseconds()
		return snap
	}

	caller, ok := e.callers[q.ProviderID]
	if !ok {
		return domain.RawProviderResult{}, settle(domain.StatusError, "no caller configured")
	}

	if raw, hit := e.cacheGet(ctx, q); hit {
		return raw, settle(domain.StatusOK, "cache")
	}

	timeout := e.cfg.DefaultTimeout
	if t, ok := e.cfg.Timeouts[q.ProviderID]; ok && t > 0 {
		timeout = t
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if lim := e.limiters[q.ProviderID]; lim != nil {
		if err := lim.Wait(cctx); err != nil {
			return domain.RawProviderResult{}, settle(classify(cctx, err), "rate budget wait: "+err.Error())
		}
	}

	raw, err := caller.Call(cctx, q)
	if err != nil {
		st := classify(cctx, err)
		ev := e.log.Warn().
			Str("provider", q.ProviderID).
			Str("status", string(st)).
			Err(err)
		if run, ok := scope.Get(ctx, "run_id"); ok {
			ev = ev.Str("run_id", run)
		}
		ev.Msg("provider call settled with failure")
		return domain.RawProviderResult{}, settle(st, err.Error())
	}

	e.cacheSet(ctx, q, raw)
	return raw, settle(domain.StatusOK, "")
}

// classify maps a call error onto the snapshot status vocabulary
func classify(ctx context.Context, err error) domain.ProviderStatus {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return domain.StatusTimeout
	case perr.IsCode(err, perr.ErrorCodeTooManyRequests):
		return domain.StatusRateLimited
	case perr.IsCode(err, perr.ErrorCodeExhausted):
		return domain.StatusExhausted
	default:
		return domain.StatusError
	}
}

// cacheGet returns a cached raw payload when caching is enabled
// Cache trouble is logged and treated as a miss
func (e *Executor) cacheGet(ctx context.Context, q domain.ProviderQuery) (domain.RawProviderResult, bool) {
	if e.cache == nil || e.cfg.CacheTTL <= 0 {
		return domain.RawProviderResult{}, false
	}
	v, err := e.cache.Get(ctx, cacheKey(q))
	if err != nil {
		if !errors.Is(err, store.ErrKVMiss) {
			e.log.Warn().Err(err).Str("provider", q.ProviderID).Msg("raw cache get failed")
		}
		return domain.RawProviderResult{}, false
	}
	return domain.RawProviderResult{ProviderID: q.ProviderID, Query: q, Payload: []byte(v)}, true
}

func (e *Executor) cacheSet(ctx context.Context, q domain.ProviderQuery, raw domain.RawProviderResult) {
	if e.cache == nil || e.cfg.CacheTTL <= 0 || len(raw.Payload) == 0 {
		return
	}
	if err := e.cache.Set(ctx, cacheKey(q), string(raw.Payload), e.cfg.CacheTTL); err != nil {
		e.log.Warn().Err(err).Str("provider", q.ProviderID).Msg("raw cache set failed")
	}
}

// cacheKey hashes the full provider query so any change busts the entry
func cacheKey(q domain.ProviderQuery) string {
	b, _ := json.Marshal(q)
	sum := sha256.Sum256(b)
	return "sourcing:raw:" + q.ProviderID + ":" + hex.EncodeToString(sum[:16])
}
