package datasets

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/accord/pkg/pagination"
	"github.com/JaimeStill/accord/pkg/votes"
)

// System defines the public contract for dataset domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Dataset], error)

	Find(ctx context.Context, id uuid.UUID) (*Dataset, error)
	Create(ctx context.Context, cmd CreateCommand) (*Dataset, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Records reads the stored CSV and returns its records in file order.
	Records(ctx context.Context, id uuid.UUID) ([]votes.Record, error)
	// Voters returns the distinct voters of the dataset in ascending order.
	Voters(ctx context.Context, id uuid.UUID) ([]string, error)
	// Items returns the distinct items of the dataset in first-seen order.
	Items(ctx context.Context, id uuid.UUID) ([]string, error)
	// Export writes the rows matching sel, with every source column, as CSV.
	Export(ctx context.Context, id uuid.UUID, sel votes.Selection, w io.Writer) error
}
