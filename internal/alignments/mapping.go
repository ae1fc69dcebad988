package alignments

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/accord/pkg/query"
	"github.com/JaimeStill/accord/pkg/repository"
	"github.com/JaimeStill/accord/pkg/votes"
)

var projection = query.
	NewProjectionMap("public", "alignments", "a").
	Project("id", "ID").
	Project("dataset_id", "DatasetID").
	Project("voters", "Voters").
	Project("voter_count", "VoterCount").
	Project("item_count", "ItemCount").
	Project("selection", "Selection").
	Project("duration_ms", "DurationMS").
	Project("computed_at", "ComputedAt").
	Join("public", "datasets", "d", "JOIN", "d.id = a.dataset_id").
	Project("filename", "Filename")

var defaultSort = query.SortField{
	Field:      "ComputedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for alignment queries.
// Filename matches the source dataset, case-insensitive contains.
type Filters struct {
	DatasetID *uuid.UUID `json:"dataset_id,omitempty"`
	Filename  *string    `json:"filename,omitempty"`
	MinVoters *int       `json:"min_voters,omitempty"`
	MaxVoters *int       `json:"max_voters,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DatasetID", f.DatasetID).
		WhereContains("Filename", f.Filename).
		WhereAtLeast("VoterCount", f.MinVoters).
		WhereAtMost("VoterCount", f.MaxVoters)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("dataset_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.DatasetID = &id
		}
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if v := values.Get("min_voters"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.MinVoters = &n
		}
	}

	if v := values.Get("max_voters"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.MaxVoters = &n
		}
	}

	return f
}

func scanAlignment(s repository.Scanner) (Alignment, error) {
	var a Alignment
	var voters repository.JSON[[]string]
	var sel repository.JSON[votes.Selection]
	err := s.Scan(
		&a.ID,
		&a.DatasetID,
		&voters,
		&a.VoterCount,
		&a.ItemCount,
		&sel,
		&a.DurationMS,
		&a.ComputedAt,
		&a.Filename,
	)
	a.Voters = voters.V
	a.Selection = sel.V
	return a, err
}
