package datasets

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/accord/pkg/query"
	"github.com/JaimeStill/accord/pkg/repository"
	"github.com/JaimeStill/accord/pkg/votes"
)

var projection = query.
	NewProjectionMap("public", "datasets", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("size_bytes", "SizeBytes").
	Project("record_count", "RecordCount").
	Project("item_count", "ItemCount").
	Project("voter_count", "VoterCount").
	Project("columns", "Columns").
	Project("storage_key", "StorageKey").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for dataset queries.
// Nil fields are ignored. Filename uses case-insensitive contains matching;
// the Min and Max fields are inclusive bounds.
type Filters struct {
	Filename  *string `json:"filename,omitempty"`
	MinVoters *int    `json:"min_voters,omitempty"`
	MaxVoters *int    `json:"max_voters,omitempty"`
	MinItems  *int    `json:"min_items,omitempty"`
	MaxItems  *int    `json:"max_items,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Filename", f.Filename).
		WhereAtLeast("VoterCount", f.MinVoters).
		WhereAtMost("VoterCount", f.MaxVoters).
		WhereAtLeast("ItemCount", f.MinItems).
		WhereAtMost("ItemCount", f.MaxItems)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Malformed numbers are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	f.MinVoters = intParam(values, "min_voters")
	f.MaxVoters = intParam(values, "max_voters")
	f.MinItems = intParam(values, "min_items")
	f.MaxItems = intParam(values, "max_items")

	return f
}

func intParam(values url.Values, key string) *int {
	s := values.Get(key)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func scanDataset(s repository.Scanner) (Dataset, error) {
	var d Dataset
	var cols repository.JSON[votes.Columns]
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.SizeBytes,
		&d.RecordCount,
		&d.ItemCount,
		&d.VoterCount,
		&cols,
		&d.StorageKey,
		&d.UploadedAt,
		&d.UpdatedAt,
	)
	d.Columns = cols.V
	return d, err
}
