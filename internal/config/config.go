package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/accord/pkg/database"
	"github.com/JaimeStill/accord/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvAccordEnv             = "ACCORD_ENV"
	EnvAccordShutdownTimeout = "ACCORD_SHUTDOWN_TIMEOUT"
	EnvAccordVersion         = "ACCORD_VERSION"

	defaultEnv             = "local"
	defaultShutdownTimeout = "30s"
	defaultVersion         = "0.1.0"
)

var databaseEnv = &database.Env{
	Host:            "ACCORD_DB_HOST",
	Port:            "ACCORD_DB_PORT",
	Name:            "ACCORD_DB_NAME",
	User:            "ACCORD_DB_USER",
	Password:        "ACCORD_DB_PASSWORD",
	SSLMode:         "ACCORD_DB_SSL_MODE",
	MaxOpenConns:    "ACCORD_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "ACCORD_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "ACCORD_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "ACCORD_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "ACCORD_STORAGE_CONTAINER_NAME",
	ConnectionString: "ACCORD_STORAGE_CONNECTION_STRING",
	AccountURL:       "ACCORD_STORAGE_ACCOUNT_URL",
}

// DatabaseFromEnv builds a database config from defaults and ACCORD_DB_*
// variables alone, for tools that run without the service config files.
func DatabaseFromEnv() (*database.Config, error) {
	var c database.Config
	if err := c.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return &c, nil
}

// Config is the root configuration for the accord service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Alignment       AlignmentConfig `toml:"alignment"`
	Logging         LoggingConfig   `toml:"logging"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env names the deployment environment that selects the overlay file.
func (c *Config) Env() string {
	return cmp.Or(os.Getenv(EnvAccordEnv), defaultEnv)
}

func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load is LoadFile on config.toml in the working directory.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile decodes base when it exists, merges config.<ACCORD_ENV>.toml from
// the same directory when that exists, then finalizes every section. With
// neither file present the result comes from defaults and the environment.
func LoadFile(base string) (*Config, error) {
	cfg := &Config{}
	if err := decodeIfPresent(base, cfg); err != nil {
		return nil, err
	}

	if env := os.Getenv(EnvAccordEnv); env != "" {
		path := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
		var overlay Config
		if err := decodeIfPresent(path, &overlay); err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(&overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Merge copies every non-zero overlay value into c.
func (c *Config) Merge(overlay *Config) {
	c.ShutdownTimeout = cmp.Or(overlay.ShutdownTimeout, c.ShutdownTimeout)
	c.Version = cmp.Or(overlay.Version, c.Version)

	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Alignment.Merge(&overlay.Alignment)
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) finalize() error {
	c.ShutdownTimeout = cmp.Or(os.Getenv(EnvAccordShutdownTimeout), c.ShutdownTimeout, defaultShutdownTimeout)
	c.Version = cmp.Or(os.Getenv(EnvAccordVersion), c.Version, defaultVersion)

	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"alignment", c.Alignment.Finalize},
		{"logging", c.Logging.Finalize},
	}
	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// decodeIfPresent leaves dst untouched when path does not exist.
func decodeIfPresent(path string, dst *Config) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(dst); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}
