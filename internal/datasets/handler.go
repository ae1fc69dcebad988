package datasets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/accord/pkg/handlers"
	"github.com/JaimeStill/accord/pkg/pagination"
	"github.com/JaimeStill/accord/pkg/routes"
	"github.com/JaimeStill/accord/pkg/votes"
)

// UploadField is the multipart form field holding the CSV file.
const UploadField = "csvFile"

// Handler provides HTTP endpoints for dataset operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "datasets"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for dataset endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/datasets",
		Tags:        []string{"Datasets"},
		Description: "Uploaded vote tables",
		Schemas:     schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: ops.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: ops.Find},
			{Method: "GET", Pattern: "/{id}/voters", Handler: h.Voters, OpenAPI: ops.Voters},
			{Method: "GET", Pattern: "/{id}/items", Handler: h.Items, OpenAPI: ops.Items},
			{Method: "GET", Pattern: "/{id}/export", Handler: h.Export, OpenAPI: ops.Export},
			{Method: "POST", Pattern: "", Handler: h.Upload, OpenAPI: ops.Upload},
			{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: ops.Search},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: ops.Delete},
		},
	}
}

// List returns a paginated list of datasets with optional query parameter filters.
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

// Find returns a single dataset by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	d, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, d)
}

// Voters returns the distinct voters of a dataset.
func (h *Handler) Voters(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	voters, err := h.sys.Voters(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, voters)
}

// Items returns the distinct items of a dataset.
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	items, err := h.sys.Items(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Export downloads the dataset rows matching the repeated voter and item
// query parameters as a CSV attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	d, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	sel := SelectionFromQuery(r.URL.Query())

	var buf bytes.Buffer
	if err := h.sys.Export(r.Context(), id, sel, &buf); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(d.Filename)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Search accepts a JSON body with pagination and filter criteria and returns matching datasets.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidFile, err))
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

// Upload registers a vote CSV sent as the csvFile multipart field.
// Only files with a .csv extension are accepted.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	cmd, err := ReadUpload(w, r, h.maxUploadSize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	d, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, d)
}

// Delete removes a dataset by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: invalid id", ErrInvalidFile))
		return uuid.Nil, false
	}
	return id, true
}

// ReadUpload extracts the CSV upload from a multipart request, limiting the
// body to maxSize bytes.
func ReadUpload(w http.ResponseWriter, r *http.Request, maxSize int64) (CreateCommand, error) {
	if r.ContentLength > maxSize {
		return CreateCommand{}, ErrFileTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return CreateCommand{}, ErrFileTooLarge
		}
		return CreateCommand{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		return CreateCommand{}, fmt.Errorf("%w: no file uploaded", ErrInvalidFile)
	}
	defer file.Close()

	if header.Filename == "" {
		return CreateCommand{}, fmt.Errorf("%w: no file selected", ErrInvalidFile)
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		return CreateCommand{}, fmt.Errorf("%w: please upload a CSV file", ErrInvalidFile)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return CreateCommand{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	return CreateCommand{Data: data, Filename: header.Filename}, nil
}

// SelectionFromQuery reads repeated voter and item query parameters. Values
// are not split on commas since voter names may contain them.
func SelectionFromQuery(values url.Values) votes.Selection {
	return votes.Selection{
		Voters: nonEmpty(values["voter"]),
		Items:  nonEmpty(values["item"]),
	}
}

func nonEmpty(raw []string) []string {
	var out []string
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func exportFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		base = "votes"
	}
	return base + "_filtered.csv"
}
