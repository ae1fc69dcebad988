package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/accord/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")
	checkViolation := &pgconn.PgError{Code: "23514"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("find: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, errNotFound},
		{"other pg error", checkViolation, checkViolation},
		{"passthrough", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			if got != tt.want {
				t.Errorf("MapError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

type cell struct {
	Agree   int     `json:"agree"`
	Percent float64 `json:"percent"`
}

func TestJSONValueScan(t *testing.T) {
	in := repository.JSON[[][]cell]{V: [][]cell{{{Agree: 1, Percent: 33.3}}}}

	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}

	var out repository.JSON[[][]cell]
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if out.V[0][0] != in.V[0][0] {
		t.Errorf("round trip: got %+v, want %+v", out.V, in.V)
	}
}

func TestJSONScan(t *testing.T) {
	t.Run("string source", func(t *testing.T) {
		var j repository.JSON[[]string]
		if err := j.Scan(`["Austria","Brazil"]`); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if len(j.V) != 2 || j.V[1] != "Brazil" {
			t.Errorf("got %v", j.V)
		}
	})

	t.Run("null", func(t *testing.T) {
		j := repository.JSON[[]string]{V: []string{"stale"}}
		if err := j.Scan(nil); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if j.V != nil {
			t.Errorf("got %v, want nil", j.V)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		var j repository.JSON[[]string]
		if err := j.Scan(42); err == nil {
			t.Error("expected error for int source")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		var j repository.JSON[[]string]
		if err := j.Scan([]byte("{")); err == nil {
			t.Error("expected error for malformed json")
		}
	})
}
