package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/accord/internal/api"
	"github.com/JaimeStill/accord/internal/config"
	"github.com/JaimeStill/accord/internal/infrastructure"
	"github.com/JaimeStill/accord/pkg/database"
	"github.com/JaimeStill/accord/pkg/middleware"
	"github.com/JaimeStill/accord/pkg/openapi"
	"github.com/JaimeStill/accord/pkg/pagination"
	"github.com/JaimeStill/accord/pkg/storage"
	"github.com/JaimeStill/accord/pkg/votes"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=accordstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/accordstore;"

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "accord",
			User:            "accord",
			Password:        "accord",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "datasets",
			ConnectionString: azuriteConnString,
		},
		API: config.APIConfig{
			BasePath:      "/api",
			MaxUploadSize: "50MB",
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
			OpenAPI: openapi.Config{
				Title:       "Accord API",
				Description: "test",
			},
		},
		Alignment: config.AlignmentConfig{
			Workers:      2,
			Columns:      votes.DefaultColumns(),
			CacheTTL:     "10m",
			HeatmapTitle: "UN votes",
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	m, domain, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
	if domain.Datasets == nil || domain.Alignments == nil {
		t.Error("domain systems not initialized")
	}
}

func TestNewModuleServesOpenAPI(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	m, _, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api"+api.SpecPath, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var spec openapi.Spec
	if err := json.NewDecoder(rec.Body).Decode(&spec); err != nil {
		t.Fatalf("decode spec: %v", err)
	}

	if spec.Info.Version != "0.1.0" {
		t.Errorf("version: got %s, want 0.1.0", spec.Info.Version)
	}
	for _, path := range []string{
		"/datasets",
		"/datasets/{id}/export",
		"/alignments/{id}/heatmap",
		"/alignments/{datasetId}",
	} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("spec missing path %s", path)
		}
	}
	if _, ok := spec.Components.Schemas["Dataset"]; !ok {
		t.Error("spec missing Dataset schema")
	}
	if _, ok := spec.Components.Schemas["AlignmentResult"]; !ok {
		t.Error("spec missing AlignmentResult schema")
	}
}

func TestNewModuleRejectsBadRequests(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	m, _, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api/alignments/not-a-uuid", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max page size: got %d, want 100", runtime.Pagination.MaxPageSize)
	}
	if runtime.Alignment.Workers != 2 {
		t.Errorf("alignment workers: got %d, want 2", runtime.Alignment.Workers)
	}
	if runtime.Alignment.CacheTTL.String() != "10m0s" {
		t.Errorf("cache ttl: got %s, want 10m0s", runtime.Alignment.CacheTTL)
	}
	if runtime.Alignment.Heatmap.Title != "UN votes" {
		t.Errorf("heatmap title: got %s, want UN votes", runtime.Alignment.Heatmap.Title)
	}
	if runtime.Columns != votes.DefaultColumns() {
		t.Errorf("columns: got %+v", runtime.Columns)
	}
	if runtime.Logger == nil {
		t.Error("runtime logger is nil")
	}
	if runtime.Database == nil {
		t.Error("runtime database is nil")
	}
	if runtime.Storage == nil {
		t.Error("runtime storage is nil")
	}
	if runtime.Lifecycle == nil {
		t.Error("runtime lifecycle is nil")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)
	runtime := api.NewRuntime(cfg, infra)

	domain := api.NewDomain(runtime)
	if domain == nil {
		t.Fatal("NewDomain() returned nil")
	}
}
