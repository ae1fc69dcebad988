package alignments_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/accord/internal/alignments"
	"github.com/JaimeStill/accord/internal/datasets"
	"github.com/JaimeStill/accord/pkg/alignment"
	"github.com/JaimeStill/accord/pkg/pagination"
	"github.com/JaimeStill/accord/pkg/votes"
)

type mockSystem struct {
	listFn    func(ctx context.Context, page pagination.PageRequest, filters alignments.Filters) (*pagination.PageResult[alignments.Alignment], error)
	findFn    func(ctx context.Context, id uuid.UUID) (*alignments.Alignment, error)
	computeFn func(ctx context.Context, datasetID uuid.UUID, sel votes.Selection) (*alignments.Alignment, error)
	resultFn  func(ctx context.Context, id uuid.UUID) (*alignment.Result, error)
	heatmapFn func(ctx context.Context, id uuid.UUID, w io.Writer) error
	deleteFn  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler() *alignments.Handler {
	return alignments.NewHandler(
		m,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters alignments.Filters) (*pagination.PageResult[alignments.Alignment], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*alignments.Alignment, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Compute(ctx context.Context, datasetID uuid.UUID, sel votes.Selection) (*alignments.Alignment, error) {
	return m.computeFn(ctx, datasetID, sel)
}

func (m *mockSystem) Result(ctx context.Context, id uuid.UUID) (*alignment.Result, error) {
	return m.resultFn(ctx, id)
}

func (m *mockSystem) Heatmap(ctx context.Context, id uuid.UUID, w io.Writer) error {
	return m.heatmapFn(ctx, id, w)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	group := sys.Handler().Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

var (
	alignmentID = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	datasetID   = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
)

func sampleAlignment() alignments.Alignment {
	return alignments.Alignment{
		ID:         alignmentID,
		DatasetID:  datasetID,
		Voters:     []string{"BRAZIL", "FRANCE"},
		VoterCount: 2,
		ItemCount:  3,
		DurationMS: 1,
		ComputedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		Filename:   "unga_2023.csv",
	}
}

func TestHandlerList(t *testing.T) {
	a := sampleAlignment()
	var captured alignments.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, f alignments.Filters) (*pagination.PageResult[alignments.Alignment], error) {
			captured = f
			result := pagination.NewPageResult([]alignments.Alignment{a}, 1, 1, 20)
			return &result, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("GET", "/alignments?dataset_id="+datasetID.String(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result pagination.PageResult[alignments.Alignment]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Data) != 1 || result.Data[0].Filename != "unga_2023.csv" {
		t.Errorf("data = %+v", result.Data)
	}
	if captured.DatasetID == nil || *captured.DatasetID != datasetID {
		t.Errorf("dataset filter = %v", captured.DatasetID)
	}
}

func TestHandlerFind(t *testing.T) {
	a := sampleAlignment()
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*alignments.Alignment, error) {
			if id == alignmentID {
				return &a, nil
			}
			return nil, alignments.ErrNotFound
		},
	}
	mux := setupMux(sys)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"found", "/alignments/" + alignmentID.String(), http.StatusOK},
		{"not found", "/alignments/" + uuid.New().String(), http.StatusNotFound},
		{"invalid uuid", "/alignments/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerResult(t *testing.T) {
	sys := &mockSystem{
		resultFn: func(context.Context, uuid.UUID) (*alignment.Result, error) {
			return &alignment.Result{
				Voters: []string{"A"},
				Cells:  [][]alignment.ResultCell{{{Label: "Voter X: A"}}},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("GET", "/alignments/"+alignmentID.String()+"/result", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res alignment.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Cells[0][0].Label != "Voter X: A" {
		t.Errorf("label = %q", res.Cells[0][0].Label)
	}
}

func TestHandlerHeatmap(t *testing.T) {
	t.Run("serves html", func(t *testing.T) {
		sys := &mockSystem{
			heatmapFn: func(_ context.Context, _ uuid.UUID, w io.Writer) error {
				_, err := io.WriteString(w, "<html>heatmap</html>")
				return err
			},
		}

		rec := httptest.NewRecorder()
		setupMux(sys).ServeHTTP(rec, httptest.NewRequest("GET", "/alignments/"+alignmentID.String()+"/heatmap", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("content type = %q", ct)
		}
		if rec.Body.String() != "<html>heatmap</html>" {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		sys := &mockSystem{
			heatmapFn: func(context.Context, uuid.UUID, io.Writer) error {
				return alignments.ErrNotFound
			},
		}

		rec := httptest.NewRecorder()
		setupMux(sys).ServeHTTP(rec, httptest.NewRequest("GET", "/alignments/"+alignmentID.String()+"/heatmap", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerCompute(t *testing.T) {
	a := sampleAlignment()
	var capturedDataset uuid.UUID
	var capturedSel votes.Selection
	sys := &mockSystem{
		computeFn: func(_ context.Context, id uuid.UUID, sel votes.Selection) (*alignments.Alignment, error) {
			capturedDataset = id
			capturedSel = sel
			return &a, nil
		},
	}
	mux := setupMux(sys)
	path := "/alignments/" + datasetID.String()

	t.Run("empty body selects everything", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", path, nil))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if capturedDataset != datasetID {
			t.Errorf("dataset = %v", capturedDataset)
		}
		if !capturedSel.IsEmpty() {
			t.Errorf("selection = %+v, want empty", capturedSel)
		}
	})

	t.Run("selection body", func(t *testing.T) {
		body := `{"voters": ["FRANCE", "BRAZIL"], "items": ["R1"]}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", path, strings.NewReader(body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if len(capturedSel.Voters) != 2 || capturedSel.Items[0] != "R1" {
			t.Errorf("selection = %+v", capturedSel)
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", path, strings.NewReader(`{"voters": 1}`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing dataset returns 404", func(t *testing.T) {
		sys.computeFn = func(context.Context, uuid.UUID, votes.Selection) (*alignments.Alignment, error) {
			return nil, datasets.ErrNotFound
		}
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("unknown voter returns 422", func(t *testing.T) {
		sys.computeFn = func(context.Context, uuid.UUID, votes.Selection) (*alignments.Alignment, error) {
			return nil, alignments.ErrInvalidSelection
		}
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", path, strings.NewReader(`{"voters": ["ATLANTIS"]}`)))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})
}

func TestHandlerSearch(t *testing.T) {
	var captured alignments.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f alignments.Filters) (*pagination.PageResult[alignments.Alignment], error) {
			captured = f
			result := pagination.NewPageResult([]alignments.Alignment{}, 0, page.Page, page.PageSize)
			return &result, nil
		},
	}

	body := `{"page": 1, "min_voters": 5}`
	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("POST", "/alignments/search", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.MinVoters == nil || *captured.MinVoters != 5 {
		t.Errorf("min_voters = %v", captured.MinVoters)
	}
}

func TestHandlerDelete(t *testing.T) {
	sys := &mockSystem{
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			if id != alignmentID {
				return alignments.ErrNotFound
			}
			return nil
		},
	}
	mux := setupMux(sys)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/alignments/"+alignmentID.String(), nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/alignments/"+uuid.New().String(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerRoutes(t *testing.T) {
	group := (&mockSystem{}).Handler().Routes()

	if group.Prefix != "/alignments" {
		t.Errorf("prefix = %q, want /alignments", group.Prefix)
	}
	if len(group.Routes) != 7 {
		t.Fatalf("route count = %d, want 7", len(group.Routes))
	}
	for _, name := range []string{"Alignment", "AlignmentPage", "AlignmentResult"} {
		if _, ok := group.Schemas[name]; !ok {
			t.Errorf("schema %s missing", name)
		}
	}
}
