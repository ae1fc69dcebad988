package alignments

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/accord/internal/datasets"
	"github.com/JaimeStill/accord/pkg/alignment"
	"github.com/JaimeStill/accord/pkg/votes"
)

// Domain errors for alignment operations.
var (
	ErrNotFound         = errors.New("alignment not found")
	ErrDuplicate        = errors.New("alignment already exists")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidSelection = errors.New("invalid selection")
)

// MapHTTPStatus maps alignment and upstream dataset errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, datasets.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidSelection),
		errors.Is(err, datasets.ErrInvalidVotes),
		errors.Is(err, votes.ErrEmptyInput),
		errors.Is(err, votes.ErrMissingColumn),
		errors.Is(err, alignment.ErrInvalidVoteTable):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
