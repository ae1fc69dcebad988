package main

import (
	"fmt"
	"time"

	"github.com/JaimeStill/accord/internal/config"
	"github.com/JaimeStill/accord/internal/infrastructure"
)

// Server ties the HTTP listener to the shared infrastructure it serves from.
type Server struct {
	infra *infrastructure.Infrastructure
	http  *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, fmt.Errorf("build modules: %w", err)
	}

	router := buildRouter(infra)
	if err := modules.Mount(router); err != nil {
		return nil, fmt.Errorf("mount modules: %w", err)
	}

	infra.Logger.Info(
		"server configured",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"modules", router.Prefixes(),
	)

	return &Server{
		infra: infra,
		http:  newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start opens the database and storage connections, then begins listening.
// Readiness flips once every startup hook has finished.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return fmt.Errorf("start infrastructure: %w", err)
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("accord ready")
	}()
	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("shutting down", "timeout", timeout)
	if err := s.infra.Shutdown(timeout); err != nil {
		return err
	}
	s.infra.Logger.Info("accord stopped")
	return nil
}
