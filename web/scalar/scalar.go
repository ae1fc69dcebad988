// Package scalar serves the Scalar API reference page for the generated
// OpenAPI document.
package scalar

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/accord/pkg/module"
)

// DefaultBundleURL is the Scalar API reference bundle loaded by the page.
const DefaultBundleURL = "https://cdn.jsdelivr.net/npm/@scalar/api-reference@1.25.0"

//go:embed index.html
var pageFS embed.FS

var page = template.Must(template.ParseFS(pageFS, "index.html"))

// Config locates the OpenAPI document and the Scalar bundle.
type Config struct {
	BasePath  string
	SpecURL   string
	BundleURL string
}

// NewModule creates a module that serves the API reference at cfg.BasePath.
func NewModule(cfg Config) (*module.Module, error) {
	if cfg.BundleURL == "" {
		cfg.BundleURL = DefaultBundleURL
	}
	return module.New(cfg.BasePath, buildRouter(cfg))
}

func buildRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := page.Execute(&buf, cfg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		buf.WriteTo(w)
	})

	return mux
}
