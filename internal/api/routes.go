package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/accord/internal/config"
	"github.com/JaimeStill/accord/pkg/openapi"
	"github.com/JaimeStill/accord/pkg/routes"
)

// SpecPath is the module-relative path of the generated OpenAPI document.
const SpecPath = "/openapi.json"

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version)
	spec.AddServer(cfg.API.BasePath)

	routes.Register(
		mux,
		spec,
		domain.Datasets.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Alignments.Handler().Routes(),
	)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET "+SpecPath, openapi.ServeSpec(specBytes))

	return nil
}
