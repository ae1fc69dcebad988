package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/accord/internal/api"
	"github.com/JaimeStill/accord/internal/config"
	"github.com/JaimeStill/accord/internal/infrastructure"
	"github.com/JaimeStill/accord/pkg/middleware"
	"github.com/JaimeStill/accord/pkg/module"
	"github.com/JaimeStill/accord/web/app"
	"github.com/JaimeStill/accord/web/scalar"
)

const (
	appBasePath    = "/app"
	scalarBasePath = "/scalar"
)

type Modules struct {
	API    *module.Module
	App    *module.Module
	Scalar *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, domain, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule(
		app.Config{
			BasePath:      appBasePath,
			APIBasePath:   cfg.API.BasePath,
			MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
		},
		domain.Datasets,
		domain.Alignments,
		infra.Logger,
	)
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.Logger(infra.Logger))

	scalarModule, err := scalar.NewModule(scalar.Config{
		BasePath: scalarBasePath,
		SpecURL:  cfg.API.BasePath + api.SpecPath,
	})
	if err != nil {
		return nil, err
	}
	scalarModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:    apiModule,
		App:    appModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) error {
	for _, mod := range []*module.Module{m.API, m.App, m.Scalar} {
		if err := router.Mount(mod); err != nil {
			return err
		}
	}
	return nil
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, appBasePath+"/", http.StatusFound)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
