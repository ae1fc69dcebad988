package alignments

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/accord/pkg/alignment"
	"github.com/JaimeStill/accord/pkg/pagination"
	"github.com/JaimeStill/accord/pkg/votes"
)

// System defines the public contract for alignment domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Alignment], error)

	Find(ctx context.Context, id uuid.UUID) (*Alignment, error)

	// Compute builds and stores the matrix for the selected subset of a dataset.
	// An empty selection covers every voter and item.
	Compute(ctx context.Context, datasetID uuid.UUID, sel votes.Selection) (*Alignment, error)

	// Result returns the assembled, labelled matrix for a stored alignment.
	Result(ctx context.Context, id uuid.UUID) (*alignment.Result, error)

	// Heatmap writes the heatmap page for a stored alignment.
	Heatmap(ctx context.Context, id uuid.UUID, w io.Writer) error

	Delete(ctx context.Context, id uuid.UUID) error
}
