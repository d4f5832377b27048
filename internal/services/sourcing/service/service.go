// Package service orchestrates the sourcing pipeline end to end:
// intent extraction, provider fan-out, normalization, scoring and
// persistence behind the SearcherPort and OffersPort contracts.
package service

import (
	"context"
	"sort"
	"time"

	"dealscout/internal/core/intent"
	"dealscout/internal/core/score"
	"dealscout/internal/modkit/repokit"
	"dealscout/internal/modkit/scope"
	perr "dealscout/internal/platform/errors"
	"dealscout/internal/platform/logger"
	"dealscout/internal/services/sourcing/adapters"
	"dealscout/internal/services/sourcing/domain"
	"dealscout/internal/services/sourcing/metrics"
	"dealscout/internal/services/sourcing/normalize"
	"dealscout/internal/services/sourcing/repo"
)

// Fanout is the provider execution seam, satisfied by executor.Executor
type Fanout interface {
	Execute(ctx context.Context, qs []domain.ProviderQuery) ([]domain.RawProviderResult, []domain.ProviderStatusSnapshot)
}

// Config for the sourcing service
type Config struct {
	Weights score.Weights

	// NullPriceHardDrop excludes unknown-price entries when a hard max is set
	NullPriceHardDrop bool
}

// Service implements domain.SearcherPort and domain.OffersPort
type Service struct {
	db       repokit.TxRunner
	binder   repokit.Binder[repo.Storage]
	extract  *intent.Extractor
	registry *adapters.Registry
	fanout   Fanout
	sink     metrics.Sink
	cfg      Config
	log      logger.Logger
}

// New constructs the sourcing service; sink may be nil
func New(
	db repokit.TxRunner,
	b repokit.Binder[repo.Storage],
	ex *intent.Extractor,
	reg *adapters.Registry,
	f Fanout,
	sink metrics.Sink,
	cfg Config,
) *Service {
	if cfg.Weights == (score.Weights{}) {
		cfg.Weights = score.DefaultWeights()
	}
	return &Service{
		db:       db,
		binder:   b,
		extract:  ex,
		registry: reg,
		fanout:   f,
		sink:     sink,
		cfg:      cfg,
		log:      *logger.Named("sourcing"),
	}
}

var (
	_ domain.SearcherPort = (*Service)(nil)
	_ domain.OffersPort   = (*Service)(nil)
)

// timeNow is a test seam
var timeNow = time.Now

// candidate pairs a normalized entry with its originating query so the
// aggregator knows whether the provider already applied the price bound
type candidate struct {
	entry   domain.NormalizedResult
	applied bool
}

// SearchAndPersist implements domain.SearcherPort
// Provider failures degrade the result set; only persistence failures are
// returned as errors
func (s *Service) SearchAndPersist(ctx context.Context, ownerID string, in domain.SearchInput) (domain.SearchOutput, error) {
	if ownerID == "" {
		return domain.SearchOutput{}, perr.InvalidArgf("owner id required")
	}
	if in.Query == "" {
		return domain.SearchOutput{}, perr.InvalidArgf("query required")
	}

	col := metrics.NewCollector(s.sink, ownerID, in.Query)
	defer col.Finish(ctx)

	// run id rides the context so downstream log lines correlate
	ctx = scope.With(ctx, map[string]string{"run_id": col.RunID()})

	it := s.extract.Extract(ctx, in.Query, intent.Constraints{
		PriceMin: in.MinPrice,
		PriceMax: in.MaxPrice,
		Category: in.Category,
	})

	queries := s.registry.BuildAll(it)
	raws, snaps := s.fanout.Execute(ctx, queries)

	// normalize per provider; result counts land on the ok snapshots
	var (
		cands     []candidate
		total     int
		noKey     int
		malformed int
	)
	for i := range snaps {
		if snaps[i].Status != domain.StatusOK {
			col.ProviderSettled(snaps[i])
			continue
		}
		n, ok := normalize.ForProvider(snaps[i].ProviderID)
		if !ok {
			snaps[i].Status = domain.StatusError
			snaps[i].Message = "no normalizer configured"
			col.ProviderSettled(snaps[i])
			continue
		}
		batch, err := n.Normalize(raws[i])
		if err != nil {
			// an undecodable body is a provider failure, not an empty result
			snaps[i].Status = domain.StatusError
			snaps[i].Message = err.Error()
			col.ProviderSettled(snaps[i])
			continue
		}
		total += len(batch.Entries) + batch.Malformed + batch.NoKey
		noKey += batch.NoKey
		malformed += batch.Malformed
		snaps[i].ResultCount = len(batch.Entries)
		col.ProviderSettled(snaps[i])

		for _, e := range batch.Entries {
			cands = append(cands, candidate{entry: e, applied: queries[i].AppliedPriceFilter})
		}
	}
	col.Normalization(total, noKey, malformed)

	ranked, filtered := s.rank(it, cands)
	col.Filtered(filtered)

	storage := s.binder.Bind(s.db)
	if err := storage.SaveIntent(ctx, ownerID, it); err != nil {
		return domain.SearchOutput{}, perr.Wrapf(err, perr.ErrorCodeDB, "persist intent")
	}

	var inserted, updated int
	for i := range ranked {
		ins, err := storage.UpsertOffer(ctx, offerFrom(ownerID, it, ranked[i]))
		if err != nil {
			return domain.SearchOutput{}, perr.Wrapf(err, perr.ErrorCodeDB, "persist offer %s", ranked[i].CanonicalKey)
		}
		if ins {
			inserted++
		} else {
			updated++
		}
	}
	col.Persisted(inserted, updated)

	return domain.SearchOutput{
		Results:          ranked,
		ProviderStatuses: snaps,
		Intent:           it,
	}, nil
}

// rank applies the hard price bounds, scores survivors and orders them
// deterministically: score desc, provider priority desc, then arrival order
func (s *Service) rank(it domain.SearchIntent, cands []candidate) ([]domain.NormalizedResult, int) {
	q := score.Query{
		Keywords: it.Keywords,
		Features: it.Features,
		PriceMin: it.PriceMin,
		PriceMax: it.PriceMax,
	}

	out := make([]domain.NormalizedResult, 0, len(cands))
	filtered := 0
	for _, c := range cands {
		// a provider that applied the max bound natively keeps its entries
		// even when conversion noise lands them past the bound
		max := it.PriceMax
		if c.applied {
			max = nil
		}
		if !score.FitsHardBounds(c.entry.Price, it.PriceMin, max, s.cfg.NullPriceHardDrop) {
			filtered++
			continue
		}

		e := c.entry
		e.Score, e.ScoreParts = score.Compute(score.Item{
			Title:            e.Title,
			Price:            e.Price,
			Rating:           e.Rating,
			ReviewCount:      e.ReviewCount,
			ProviderPriority: s.registry.Priority(e.ProviderID),
		}, q, s.cfg.Weights)
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		pi := s.registry.Priority(out[i].ProviderID)
		pj := s.registry.Priority(out[j].ProviderID)
		return pi > pj
	})
	return out, filtered
}

func offerFrom(ownerID string, it domain.SearchIntent, r domain.NormalizedResult) domain.Offer {
	return domain.Offer{
		OwnerID:       ownerID,
		CanonicalKey:  r.CanonicalKey,
		ProviderID:    r.ProviderID,
		Title:         r.Title,
		Price:         r.Price,
		Currency:      r.Currency,
		Merchant:      r.Merchant,
		URL:           r.URL,
		ImageURL:      r.ImageURL,
		Rating:        r.Rating,
		ReviewCount:   r.ReviewCount,
		Score:         r.Score,
		SourcePayload: r.SourcePayload,
		IntentVersion: it.Version,
		NormalizedAt:  timeNow(),
	}
}

// ListOffers implements domain.OffersPort
func (s *Service) ListOffers(ctx context.Context, ownerID string) ([]domain.Offer, error) {
	if ownerID == "" {
		return nil, perr.InvalidArgf("owner id required")
	}
	return s.binder.Bind(s.db).ListOffers(ctx, ownerID)
}

// ResetOffers implements domain.OffersPort
func (s *Service) ResetOffers(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, perr.InvalidArgf("owner id required")
	}
	return s.binder.Bind(s.db).ResetOffers(ctx, ownerID)
}

// SetLiked implements domain.OffersPort
func (s *Service) SetLiked(ctx context.Context, ownerID, offerID string, liked bool) error {
	if ownerID == "" || offerID == "" {
		return perr.InvalidArgf("owner and offer ids required")
	}
	return s.binder.Bind(s.db).SetLiked(ctx, ownerID, offerID, liked)
}

// SetSelected implements domain.OffersPort
func (s *Service) SetSelected(ctx context.Context, ownerID, offerID string, selected bool) error {
	if ownerID == "" || offerID == "" {
		return perr.InvalidArgf("owner and offer ids required")
	}
	return s.binder.Bind(s.db).SetSelected(ctx, ownerID, offerID, selected)
}

// SetComment implements domain.OffersPort
func (s *Service) SetComment(ctx context.Context, ownerID, offerID string, comment *string) error {
	if ownerID == "" || offerID == "" {
		return perr.InvalidArgf("owner and offer ids required")
	}
	return s.binder.Bind(s.db).SetComment(ctx, ownerID, offerID, comment)
}
