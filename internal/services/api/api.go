// Package api provides the HTTP API for the application
package api

import (
	"dealscout/internal/platform/config"
	"dealscout/internal/platform/logger"
	phttp "dealscout/internal/platform/net/http"
	"dealscout/internal/platform/store"

	"dealscout/internal/modkit"
	"dealscout/internal/modkit/httpkit"
	"dealscout/internal/modkit/module"
	"dealscout/internal/modkit/swaggerkit"

	metamod "dealscout/internal/services/api/meta/module"
	sourcingmod "dealscout/internal/services/sourcing/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:   opt.Config,
		PG:    opt.Store.PG,
		CH:    opt.Store.CH,
		Redis: opt.Store.Redis,
	}

	mods := []module.Module{
		metamod.New(deps),
		sourcingmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
