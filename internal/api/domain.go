package api

import (
	"github.com/JaimeStill/accord/internal/alignments"
	"github.com/JaimeStill/accord/internal/datasets"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Datasets   datasets.System
	Alignments alignments.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	datasetsSystem := datasets.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
		runtime.Columns,
	)

	alignmentsSystem := alignments.New(
		runtime.Database.Connection(),
		datasetsSystem,
		runtime.Logger,
		runtime.Pagination,
		runtime.Alignment,
	)

	return &Domain{
		Datasets:   datasetsSystem,
		Alignments: alignmentsSystem,
	}
}
