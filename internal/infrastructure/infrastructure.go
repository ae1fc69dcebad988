// Package infrastructure wires the shared systems behind every accord module:
// the lifecycle coordinator, the root logger, PostgreSQL and blob storage.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/accord/internal/config"
	"github.com/JaimeStill/accord/pkg/database"
	"github.com/JaimeStill/accord/pkg/lifecycle"
	"github.com/JaimeStill/accord/pkg/storage"
)

type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New builds every system without contacting PostgreSQL or Azure.
// Connections are made by the hooks Start registers.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := cfg.Logging.NewLogger(os.Stderr).With("version", cfg.Version)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		db.Connection().Close()
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
	}, nil
}

func (i *Infrastructure) Start() error {
	starters := []struct {
		name  string
		start func(*lifecycle.Coordinator) error
	}{
		{"database", i.Database.Start},
		{"storage", i.Storage.Start},
	}
	for _, s := range starters {
		if err := s.start(i.Lifecycle); err != nil {
			return fmt.Errorf("%s start failed: %w", s.name, err)
		}
	}
	return nil
}

// Ready is what /readyz reports: startup finished, the database answered its
// ping and the blob container exists.
func (i *Infrastructure) Ready() bool {
	return lifecycle.AllReady(i.Lifecycle, i.Database, i.Storage)
}

func (i *Infrastructure) Shutdown(timeout time.Duration) error {
	return i.Lifecycle.Shutdown(timeout)
}
