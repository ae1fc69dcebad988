// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/JaimeStill/accord/internal/config"
	"github.com/JaimeStill/accord/internal/infrastructure"
	"github.com/JaimeStill/accord/pkg/middleware"
	"github.com/JaimeStill/accord/pkg/module"
)

const discoveryTimeout = 10 * time.Second

// NewModule creates the API module with all domain handlers and middleware.
// It also returns the domain so other modules can share its systems.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg); err != nil {
		return nil, nil, err
	}

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, nil, err
	}
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	if cfg.API.Auth.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), discoveryTimeout)
		defer cancel()

		verifier, err := middleware.NewVerifier(ctx, &cfg.API.Auth)
		if err != nil {
			return nil, nil, fmt.Errorf("auth init failed: %w", err)
		}
		// exempt paths are relative to the module prefix
		exempt := append([]string{SpecPath}, cfg.API.Auth.Exempt...)
		m.Use(middleware.Auth(verifier, runtime.Logger, exempt...))
	}

	return m, domain, nil
}
