package datasets

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/accord/pkg/storage"
	"github.com/JaimeStill/accord/pkg/votes"
)

// Domain errors for dataset operations.
var (
	ErrNotFound     = errors.New("dataset not found")
	ErrDuplicate    = errors.New("dataset already exists")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
	ErrInvalidVotes = errors.New("invalid vote data")
)

// MapHTTPStatus maps dataset domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidVotes),
		errors.Is(err, votes.ErrEmptyInput),
		errors.Is(err, votes.ErrMissingColumn):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
