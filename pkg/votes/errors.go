package votes

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates no vote records were supplied.
	ErrEmptyInput = errors.New("no vote records")
	// ErrMissingColumn indicates a record or header lacks a required field.
	ErrMissingColumn = errors.New("missing required column")
)

// MissingColumnError identifies the record and column that failed validation.
// Index is the zero-based record position, or -1 when the column is absent
// from a CSV header. Line is the 1-based CSV line when the record came from a
// file, zero otherwise.
type MissingColumnError struct {
	Index  int
	Line   int
	Column string
}

func (e *MissingColumnError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("%s: %q not found in header", ErrMissingColumn, e.Column)
	case e.Line > 0:
		return fmt.Sprintf("%s: line %d has no %s", ErrMissingColumn, e.Line, e.Column)
	}
	return fmt.Sprintf("%s: record %d has no %s", ErrMissingColumn, e.Index, e.Column)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}
