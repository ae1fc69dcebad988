package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/accord/pkg/votes"
)

const (
	EnvAlignmentWorkers      = "ACCORD_ALIGNMENT_WORKERS"
	EnvAlignmentItemColumn   = "ACCORD_ALIGNMENT_ITEM_COLUMN"
	EnvAlignmentVoterColumn  = "ACCORD_ALIGNMENT_VOTER_COLUMN"
	EnvAlignmentVoteColumn   = "ACCORD_ALIGNMENT_VOTE_COLUMN"
	EnvAlignmentCacheTTL     = "ACCORD_ALIGNMENT_CACHE_TTL"
	EnvAlignmentHeatmapTitle = "ACCORD_ALIGNMENT_HEATMAP_TITLE"
	EnvAlignmentPlotlyURL    = "ACCORD_ALIGNMENT_PLOTLY_URL"
)

// AlignmentConfig holds vote CSV layout and computation settings.
// Workers of zero lets the engine pick from GOMAXPROCS.
type AlignmentConfig struct {
	Workers      int           `toml:"workers"`
	Columns      votes.Columns `toml:"columns"`
	CacheTTL     string        `toml:"cache_ttl"`
	HeatmapTitle string        `toml:"heatmap_title"`
	PlotlyURL    string        `toml:"plotly_url"`
}

// CacheTTLDuration returns CacheTTL as a time.Duration.
func (c *AlignmentConfig) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AlignmentConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AlignmentConfig) Merge(overlay *AlignmentConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.Columns.Item != "" {
		c.Columns.Item = overlay.Columns.Item
	}
	if overlay.Columns.Voter != "" {
		c.Columns.Voter = overlay.Columns.Voter
	}
	if overlay.Columns.Vote != "" {
		c.Columns.Vote = overlay.Columns.Vote
	}
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
	if overlay.HeatmapTitle != "" {
		c.HeatmapTitle = overlay.HeatmapTitle
	}
	if overlay.PlotlyURL != "" {
		c.PlotlyURL = overlay.PlotlyURL
	}
}

func (c *AlignmentConfig) loadDefaults() {
	defaults := votes.DefaultColumns()
	if c.Columns.Item == "" {
		c.Columns.Item = defaults.Item
	}
	if c.Columns.Voter == "" {
		c.Columns.Voter = defaults.Voter
	}
	if c.Columns.Vote == "" {
		c.Columns.Vote = defaults.Vote
	}
	if c.CacheTTL == "" {
		c.CacheTTL = "10m"
	}
}

func (c *AlignmentConfig) loadEnv() error {
	if v := os.Getenv(EnvAlignmentWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", EnvAlignmentWorkers, v)
		}
		c.Workers = n
	}
	if v := os.Getenv(EnvAlignmentItemColumn); v != "" {
		c.Columns.Item = v
	}
	if v := os.Getenv(EnvAlignmentVoterColumn); v != "" {
		c.Columns.Voter = v
	}
	if v := os.Getenv(EnvAlignmentVoteColumn); v != "" {
		c.Columns.Vote = v
	}
	if v := os.Getenv(EnvAlignmentCacheTTL); v != "" {
		c.CacheTTL = v
	}
	if v := os.Getenv(EnvAlignmentHeatmapTitle); v != "" {
		c.HeatmapTitle = v
	}
	if v := os.Getenv(EnvAlignmentPlotlyURL); v != "" {
		c.PlotlyURL = v
	}
	return nil
}

func (c *AlignmentConfig) validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers: %d", c.Workers)
	}
	ttl, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return fmt.Errorf("invalid cache_ttl: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("invalid cache_ttl: %s must be positive", c.CacheTTL)
	}
	cols := c.Columns
	if cols.Item == cols.Voter || cols.Item == cols.Vote || cols.Voter == cols.Vote {
		return fmt.Errorf("columns must be distinct")
	}
	return nil
}
