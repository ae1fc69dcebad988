// Package database opens the PostgreSQL pool that backs dataset and alignment records.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/accord/pkg/lifecycle"
)

const (
	firstRetry = 250 * time.Millisecond
	maxRetry   = 2 * time.Second
)

// System exposes the pool and reports readiness once PostgreSQL answers a ping.
type System interface {
	lifecycle.ReadinessChecker
	Connection() *sql.DB
	// Start registers the startup ping and the shutdown close with lc.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn    *sql.DB
	logger  *slog.Logger
	timeout time.Duration
	ready   atomic.Bool
}

// New configures the pool without dialing. The first connection is made by
// the startup hook registered in Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:    db,
		logger:  logger.With("system", "database"),
		timeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ready() bool {
	return d.ready.Load()
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), d.timeout)
		defer cancel()

		attempts, err := d.ping(ctx)
		if err != nil {
			d.logger.Error("database unreachable", "attempts", attempts, "error", err)
			return
		}
		d.ready.Store(true)
		d.logger.Info("database connected", "attempts", attempts)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.ready.Store(false)

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database closed")
	})

	return nil
}

// ping retries with doubling backoff until the server answers or ctx ends.
func (d *database) ping(ctx context.Context) (int, error) {
	wait := firstRetry
	for attempt := 1; ; attempt++ {
		err := d.conn.PingContext(ctx)
		if err == nil {
			return attempt, nil
		}

		select {
		case <-ctx.Done():
			return attempt, err
		case <-time.After(wait):
		}
		wait = min(wait*2, maxRetry)
	}
}
