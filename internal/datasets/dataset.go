// Package datasets implements the dataset domain: uploaded vote CSVs kept in
// blob storage and registered in Postgres with their shape counts.
package datasets

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/accord/pkg/votes"
)

// Dataset is a registered vote CSV. Counts describe the table built from it
// when it was uploaded.
type Dataset struct {
	ID          uuid.UUID     `json:"id"`
	Filename    string        `json:"filename"`
	SizeBytes   int64         `json:"size_bytes"`
	RecordCount int           `json:"record_count"`
	ItemCount   int           `json:"item_count"`
	VoterCount  int           `json:"voter_count"`
	Columns     votes.Columns `json:"columns"`
	StorageKey  string        `json:"storage_key"`
	UploadedAt  time.Time     `json:"uploaded_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CreateCommand carries the raw CSV bytes and original filename of an upload.
type CreateCommand struct {
	Data     []byte
	Filename string
}
