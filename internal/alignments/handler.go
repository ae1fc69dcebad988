package alignments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/accord/pkg/handlers"
	"github.com/JaimeStill/accord/pkg/pagination"
	"github.com/JaimeStill/accord/pkg/routes"
	"github.com/JaimeStill/accord/pkg/votes"
)

// Handler provides HTTP endpoints for alignment operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "alignments"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for alignment endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/alignments",
		Tags:        []string{"Alignments"},
		Description: "Pairwise voting alignment matrices",
		Schemas:     schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: ops.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: ops.Find},
			{Method: "GET", Pattern: "/{id}/result", Handler: h.Result, OpenAPI: ops.Result},
			{Method: "GET", Pattern: "/{id}/heatmap", Handler: h.Heatmap, OpenAPI: ops.Heatmap},
			{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: ops.Search},
			{Method: "POST", Pattern: "/{datasetId}", Handler: h.Compute, OpenAPI: ops.Compute},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: ops.Delete},
		},
	}
}

// List returns a paginated list of alignments with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns alignment metadata by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	a, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}

// Result returns the labelled matrix for an alignment.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	res, err := h.sys.Result(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, res)
}

// Heatmap serves the heatmap page for an alignment.
func (h *Handler) Heatmap(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.sys.Heatmap(r.Context(), id, &buf); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondHTML(w, http.StatusOK, buf.Bytes())
}

// Search accepts a JSON body with pagination and filter criteria and returns matching alignments.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Compute computes and stores an alignment for a dataset. The body is an
// optional JSON selection; an empty body covers the whole dataset.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	datasetID, ok := h.pathID(w, r, "datasetId")
	if !ok {
		return
	}

	var sel votes.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
		return
	}

	a, err := h.sys.Compute(r.Context(), datasetID, sel)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, a)
}

// Delete removes an alignment by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: invalid %s", ErrInvalidRequest, name))
		return uuid.Nil, false
	}
	return id, true
}
