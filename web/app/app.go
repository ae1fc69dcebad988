// Package app serves the upload page that turns a vote CSV into an
// alignment heatmap.
package app

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/accord/internal/alignments"
	"github.com/JaimeStill/accord/internal/datasets"
	"github.com/JaimeStill/accord/pkg/module"
	"github.com/JaimeStill/accord/pkg/pagination"
	"github.com/JaimeStill/accord/pkg/votes"
	"github.com/JaimeStill/accord/pkg/web"
)

//go:embed layouts/*.html views/*.html static/*
var assets embed.FS

const recentLimit = 10

var (
	uploadView   = web.ViewDef{Route: "/{$}", Template: "upload.html", Title: "Upload"}
	notFoundView = web.ViewDef{Route: "", Template: "not-found.html", Title: "Not Found"}
)

// Datasets stores uploaded vote files.
type Datasets interface {
	Create(ctx context.Context, cmd datasets.CreateCommand) (*datasets.Dataset, error)
}

// Alignments computes and lists stored alignments.
type Alignments interface {
	List(ctx context.Context, page pagination.PageRequest, filters alignments.Filters) (*pagination.PageResult[alignments.Alignment], error)
	Compute(ctx context.Context, datasetID uuid.UUID, sel votes.Selection) (*alignments.Alignment, error)
}

// Config holds the app module's mount point and the API paths it links to.
type Config struct {
	BasePath      string
	APIBasePath   string
	MaxUploadSize int64
}

type pageData struct {
	APIBase string
	Recent  []alignments.Alignment
}

type app struct {
	cfg        Config
	datasets   Datasets
	alignments Alignments
	views      *web.TemplateSet
	logger     *slog.Logger
}

// NewModule creates the app module mounted at cfg.BasePath.
func NewModule(cfg Config, ds Datasets, al Alignments, logger *slog.Logger) (*module.Module, error) {
	views, err := web.NewTemplateSet(
		web.Templates{FS: assets, Layouts: "layouts/*.html", Views: "views", Layout: "app"},
		cfg.BasePath,
		uploadView, notFoundView,
	)
	if err != nil {
		return nil, fmt.Errorf("app templates: %w", err)
	}

	a := &app{
		cfg:        cfg,
		datasets:   ds,
		alignments: al,
		views:      views,
		logger:     logger.With("module", "app"),
	}

	static, err := web.DistServer(assets, "static", "/static/")
	if err != nil {
		return nil, err
	}

	router := web.NewRouter()
	router.HandleFunc("GET "+uploadView.Route, a.index)
	router.HandleFunc("POST /upload", a.upload)
	router.Handle("GET /static/", static)
	router.SetFallback(a.notFound)

	return module.New(cfg.BasePath, router)
}

func (a *app) index(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "")
}

// upload stores the file, computes the alignment over every voter and item,
// and redirects to its heatmap.
func (a *app) upload(w http.ResponseWriter, r *http.Request) {
	cmd, err := datasets.ReadUpload(w, r, a.cfg.MaxUploadSize)
	if err != nil {
		a.fail(w, r, datasets.MapHTTPStatus(err), err)
		return
	}

	ds, err := a.datasets.Create(r.Context(), cmd)
	if err != nil {
		a.fail(w, r, datasets.MapHTTPStatus(err), err)
		return
	}

	al, err := a.alignments.Compute(r.Context(), ds.ID, votes.Selection{})
	if err != nil {
		a.fail(w, r, alignments.MapHTTPStatus(err), err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("%s/alignments/%s/heatmap", a.cfg.APIBasePath, al.ID), http.StatusSeeOther)
}

func (a *app) notFound(w http.ResponseWriter, r *http.Request) {
	data := a.views.Data(notFoundView, nil)
	if err := a.views.Render(w, http.StatusNotFound, notFoundView, data); err != nil {
		a.logger.Error("render failed", "view", notFoundView.Template, "error", err)
		http.NotFound(w, r)
	}
}

func (a *app) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		a.logger.Error("upload failed", "error", err)
		a.render(w, r, status, "Something went wrong while processing the file.")
		return
	}
	a.logger.Warn("upload rejected", "status", status, "error", err)
	a.render(w, r, status, err.Error())
}

func (a *app) render(w http.ResponseWriter, r *http.Request, status int, msg string) {
	page := pageData{APIBase: a.cfg.APIBasePath}

	recent, err := a.alignments.List(
		r.Context(),
		pagination.PageRequest{Page: 1, PageSize: recentLimit},
		alignments.Filters{},
	)
	if err != nil {
		a.logger.Warn("recent alignments unavailable", "error", err)
	} else {
		page.Recent = recent.Data
	}

	data := a.views.Data(uploadView, page)
	data.Error = msg

	if err := a.views.Render(w, status, uploadView, data); err != nil {
		a.logger.Error("render failed", "view", uploadView.Template, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
