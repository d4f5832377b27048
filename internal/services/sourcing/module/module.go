// Package module wires the sourcing pipeline into HTTP via modkit
package module

import (
	"net/http"
	"time"

	"dealscout/internal/adapters/llm"
	"dealscout/internal/core/intent"
	"dealscout/internal/core/score"
	"dealscout/internal/modkit"
	"dealscout/internal/modkit/httpkit"
	"dealscout/internal/platform/strings"
	"dealscout/internal/services/sourcing/adapters"
	"dealscout/internal/services/sourcing/domain"
	"dealscout/internal/services/sourcing/executor"
	"dealscout/internal/services/sourcing/metrics"
	"dealscout/internal/services/sourcing/providers"
	"dealscout/internal/services/sourcing/repo"
	"dealscout/internal/services/sourcing/service"

	sourcinghttp "dealscout/internal/services/sourcing/http"
)

// Ports exposes the pipeline contracts for cross-module lookups
type Ports struct {
	Searcher domain.SearcherPort
	Offers   domain.OffersPort
}

// Module implements the sourcing module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     Ports
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *service.Service
}

// New constructs the sourcing module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("sourcing"), modkit.WithPrefix("/sourcing")}, opts...)...)

	o := FromConfig(deps.Cfg)

	// model path is optional; a nil client forces the heuristic extractor
	var model intent.Model
	if c := llm.NewClient(llm.Options{
		BaseURL: o.LLMBaseURL,
		APIKey:  o.LLMAPIKey,
		Model:   o.LLMModel,
		Timeout: o.LLMTimeout,
	}); c != nil {
		model = c
	}
	ex := intent.NewExtractor(model, intent.ExtractorConfig{Timeout: o.LLMTimeout})

	reg := adapters.Default()
	callers := buildCallers(o)

	fan := executor.New(executor.Config{
		DefaultTimeout: o.CallTimeout,
		Timeouts:       providerTimeouts(o),
		MaxInFlight:    o.MaxInFlight,
		QPS:            o.QPS,
		CacheTTL:       o.CacheTTL,
	}, deps.Redis, callers...)

	var sink metrics.Sink
	if s := metrics.NewCHSink(deps.CH); s != nil {
		sink = s
	}

	svc := service.New(deps.PG, repo.NewPG(), ex, reg, fan, sink, service.Config{
		Weights: score.Weights{
			Relevance: o.WeightRelevance,
			PriceFit:  o.WeightPriceFit,
			Quality:   o.WeightQuality,
			Priority:  o.WeightPriority,
		},
		NullPriceHardDrop: o.NullPriceHardDrop,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Searcher: svc, Offers: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		sourcinghttp.Register(r, m.svc, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// buildCallers constructs one caller per configured upstream
// Providers without a base URL stay registered for query building but every
// call settles as an error snapshot
func buildCallers(o Options) []domain.Caller {
	specs := []struct {
		id string
		po ProviderOptions
	}{
		{"shopstream", o.ShopStream},
		{"bargainbay", o.BargainBay},
		{"mercatus", o.Mercatus},
	}
	var out []domain.Caller
	for _, s := range specs {
		c := providers.New(providers.Options{
			ID:      s.id,
			BaseURL: s.po.BaseURL,
			APIKey:  s.po.APIKey,
			Timeout: s.po.Timeout,
		})
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func providerTimeouts(o Options) map[string]time.Duration {
	out := map[string]time.Duration{}
	if o.ShopStream.Timeout > 0 {
		out["shopstream"] = o.ShopStream.Timeout
	}
	if o.BargainBay.Timeout > 0 {
		out["bargainbay"] = o.BargainBay.Timeout
	}
	if o.Mercatus.Timeout > 0 {
		out["mercatus"] = o.Mercatus.Timeout
	}
	return out
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name is the module name
func (m *Module) Name() string { return strings.MustString(m.name, "module name") }

// Prefix is the module route prefix
func (m *Module) Prefix() string { return strings.MustPrefix(m.prefix) }

// Middlewares is the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
