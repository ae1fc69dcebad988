package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "ACCORD_SERVER_HOST"
	EnvServerPort              = "ACCORD_SERVER_PORT"
	EnvServerReadTimeout       = "ACCORD_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "ACCORD_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "ACCORD_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout   = "ACCORD_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds the HTTP listener settings. Timeouts are Go duration strings.
// WriteTimeout has to cover an alignment computed inside the request.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return mustDuration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.WriteTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// Finalize fills defaults, applies ACCORD_SERVER_* overrides, and validates.
func (c *ServerConfig) Finalize() error {
	defaults := map[*string]string{
		&c.Host:              "0.0.0.0",
		&c.ReadTimeout:       "1m",
		&c.ReadHeaderTimeout: "10s",
		&c.WriteTimeout:      "15m",
		&c.ShutdownTimeout:   "30s",
	}
	for dst, v := range defaults {
		if *dst == "" {
			*dst = v
		}
	}
	if c.Port == 0 {
		c.Port = 8080
	}

	overrides := map[string]*string{
		EnvServerHost:              &c.Host,
		EnvServerReadTimeout:       &c.ReadTimeout,
		EnvServerReadHeaderTimeout: &c.ReadHeaderTimeout,
		EnvServerWriteTimeout:      &c.WriteTimeout,
		EnvServerShutdownTimeout:   &c.ShutdownTimeout,
	}
	for key, dst := range overrides {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a port number", EnvServerPort, v)
		}
		c.Port = port
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for name, v := range map[string]string{
		"read_timeout":        c.ReadTimeout,
		"read_header_timeout": c.ReadHeaderTimeout,
		"write_timeout":       c.WriteTimeout,
		"shutdown_timeout":    c.ShutdownTimeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.ReadTimeout != "" {
		c.ReadTimeout = overlay.ReadTimeout
	}
	if overlay.ReadHeaderTimeout != "" {
		c.ReadHeaderTimeout = overlay.ReadHeaderTimeout
	}
	if overlay.WriteTimeout != "" {
		c.WriteTimeout = overlay.WriteTimeout
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
}

// mustDuration parses a value Finalize has already validated.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
