// Package alignments implements the alignment domain: pairwise agreement
// matrices computed from stored datasets, persisted in Postgres, and served
// as JSON results or heatmap pages.
package alignments

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/accord/pkg/heatmap"
	"github.com/JaimeStill/accord/pkg/votes"
)

// Alignment describes a computed matrix. The matrix itself is loaded
// separately through System.Result.
type Alignment struct {
	ID         uuid.UUID       `json:"id"`
	DatasetID  uuid.UUID       `json:"dataset_id"`
	Voters     []string        `json:"voters"`
	VoterCount int             `json:"voter_count"`
	ItemCount  int             `json:"item_count"`
	Selection  votes.Selection `json:"selection"`
	DurationMS int64           `json:"duration_ms"`
	ComputedAt time.Time       `json:"computed_at"`
	Filename   string          `json:"filename"`
}

// Config tunes computation and rendering.
type Config struct {
	// Workers bounds concurrent row computation. Zero uses one per CPU.
	Workers int
	// CacheTTL is how long assembled results stay in memory.
	CacheTTL time.Duration
	Heatmap  heatmap.Options
}
