package api

import (
	"github.com/JaimeStill/accord/internal/alignments"
	"github.com/JaimeStill/accord/internal/config"
	"github.com/JaimeStill/accord/internal/infrastructure"
	"github.com/JaimeStill/accord/pkg/heatmap"
	"github.com/JaimeStill/accord/pkg/pagination"
	"github.com/JaimeStill/accord/pkg/votes"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Columns    votes.Columns
	Alignment  alignments.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Columns:    cfg.Alignment.Columns,
		Alignment: alignments.Config{
			Workers:  cfg.Alignment.Workers,
			CacheTTL: cfg.Alignment.CacheTTLDuration(),
			Heatmap: heatmap.Options{
				Title:     cfg.Alignment.HeatmapTitle,
				PlotlyURL: cfg.Alignment.PlotlyURL,
			},
		},
	}
}
