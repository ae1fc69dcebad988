// Command migrate applies the embedded PostgreSQL schema migrations.
package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/accord/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "ACCORD_DB_DSN"

// migrator is the subset of *migrate.Migrate the commands use.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
	Version() (uint, bool, error)
}

type command struct {
	dsn     string
	up      bool
	down    bool
	steps   int
	version bool
	force   int
	forced  bool
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error("load .env", "error", err)
		os.Exit(1)
	}

	cmd, err := parseCommand(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	dsn, err := resolveDSN(cmd.dsn)
	if err != nil {
		logger.Error("resolve database", "error", err)
		os.Exit(1)
	}

	m, err := open(dsn)
	if err != nil {
		logger.Error("open migrator", "error", err)
		os.Exit(1)
	}
	err = cmd.run(m, logger)
	m.Close()
	if err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func parseCommand(args []string, output io.Writer) (*command, error) {
	var cmd command
	set := flag.NewFlagSet("migrate", flag.ContinueOnError)
	set.SetOutput(output)
	set.StringVar(&cmd.dsn, "dsn", "", "database URL (default: $ACCORD_DB_DSN, then ACCORD_DB_* settings)")
	set.BoolVar(&cmd.up, "up", false, "apply all pending migrations")
	set.BoolVar(&cmd.down, "down", false, "revert all migrations")
	set.IntVar(&cmd.steps, "steps", 0, "apply n migrations, or revert -n")
	set.BoolVar(&cmd.version, "version", false, "print the current schema version")
	set.IntVar(&cmd.force, "force", -1, "set the schema version without migrating")

	if err := set.Parse(args); err != nil {
		return nil, err
	}
	set.Visit(func(f *flag.Flag) {
		if f.Name == "force" {
			cmd.forced = true
		}
	})

	if !cmd.version && !cmd.forced && !cmd.up && !cmd.down && cmd.steps == 0 {
		set.Usage()
		return nil, errors.New("one of -up, -down, -steps, -version or -force is required")
	}
	return &cmd, nil
}

func (c *command) run(m migrator, logger *slog.Logger) error {
	switch {
	case c.version:
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("no migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		logger.Info("schema version", "version", v, "dirty", dirty)
	case c.forced:
		if err := m.Force(c.force); err != nil {
			return fmt.Errorf("force version %d: %w", c.force, err)
		}
		logger.Warn("schema version forced", "version", c.force)
	case c.up:
		return apply(logger, "up", m.Up)
	case c.down:
		return apply(logger, "down", m.Down)
	default:
		return apply(logger, fmt.Sprintf("steps %d", c.steps), func() error { return m.Steps(c.steps) })
	}
	return nil
}

func apply(logger *slog.Logger, name string, step func() error) error {
	err := step()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("schema already current", "migration", name)
		return nil
	case err != nil:
		return fmt.Errorf("%s: %w", name, err)
	}
	logger.Info("migrations applied", "migration", name)
	return nil
}

func open(dsn string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", source, dsn)
}

// resolveDSN prefers the flag, then ACCORD_DB_DSN, then a URL assembled
// from the same ACCORD_DB_* variables the server reads.
func resolveDSN(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}
	db, err := config.DatabaseFromEnv()
	if err != nil {
		return "", err
	}
	return db.URL(), nil
}
