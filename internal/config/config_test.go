package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/accord/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "accord"
user = "accord"
password = "accord"
max_open_conns = 25
max_idle_conns = 5

[storage]
container_name = "votes"
connection_string = "DefaultEndpointsProtocol=http;AccountName=accordstore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/accordstore;"

[api]
base_path = "/api"

[api.pagination]
default_page_size = 25
max_page_size = 50

[alignment]
workers = 4
cache_ttl = "5m"
heatmap_title = "UN General Assembly"

[alignment.columns]
item = "rcid"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[alignment.columns]
voter = "country"
`

func writeConfig(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
	return path
}

func load(t *testing.T, content string) *config.Config {
	t.Helper()
	path := writeConfig(t, t.TempDir(), config.BaseConfigFile, content)
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := load(t, baseConfig)

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.ContainerName != "votes" {
		t.Errorf("storage container: got %s, want votes", cfg.Storage.ContainerName)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.Alignment.Workers != 4 {
		t.Errorf("alignment workers: got %d, want 4", cfg.Alignment.Workers)
	}
	if cfg.Alignment.Columns.Item != "rcid" {
		t.Errorf("item column: got %s, want rcid", cfg.Alignment.Columns.Item)
	}
	if cfg.Alignment.Columns.Voter != "ms_name" {
		t.Errorf("voter column default: got %s, want ms_name", cfg.Alignment.Columns.Voter)
	}
	if cfg.Alignment.HeatmapTitle != "UN General Assembly" {
		t.Errorf("heatmap title: got %s", cfg.Alignment.HeatmapTitle)
	}
	if d := cfg.Alignment.CacheTTLDuration(); d != 5*time.Minute {
		t.Errorf("cache ttl: got %v, want 5m", d)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)

	t.Setenv(config.EnvAccordEnv, "staging")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Alignment.Columns.Item != "rcid" || cfg.Alignment.Columns.Voter != "country" {
		t.Errorf("columns: got %+v", cfg.Alignment.Columns)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	t.Setenv("ACCORD_VERSION", "2.0.0")
	t.Setenv(config.EnvServerPort, "3000")
	t.Setenv(config.EnvAlignmentWorkers, "8")
	t.Setenv(config.EnvAlignmentVoteColumn, "vote")
	t.Setenv("ACCORD_STORAGE_CONTAINER_NAME", "uploads")

	cfg := load(t, baseConfig)

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Alignment.Workers != 8 {
		t.Errorf("workers: got %d, want 8", cfg.Alignment.Workers)
	}
	if cfg.Alignment.Columns.Vote != "vote" {
		t.Errorf("vote column: got %s, want vote", cfg.Alignment.Columns.Vote)
	}
	if cfg.Storage.ContainerName != "uploads" {
		t.Errorf("container: got %s, want uploads", cfg.Storage.ContainerName)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	t.Setenv("ACCORD_DB_NAME", "testdb")
	t.Setenv("ACCORD_STORAGE_ACCOUNT_URL", "https://accord.blob.core.windows.net")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), config.BaseConfigFile))
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if !cfg.Storage.UsesCredential() {
		t.Error("expected credential storage mode from account url")
	}
	if cfg.Storage.ContainerName != "datasets" {
		t.Errorf("container default: got %s, want datasets", cfg.Storage.ContainerName)
	}
	if cfg.API.OpenAPI.Title != "Accord API" {
		t.Errorf("openapi title default: got %s", cfg.API.OpenAPI.Title)
	}
	if cfg.Alignment.CacheTTL != "10m" {
		t.Errorf("cache ttl default: got %s, want 10m", cfg.Alignment.CacheTTL)
	}
	if cfg.Alignment.Workers != 0 {
		t.Errorf("workers default: got %d, want 0", cfg.Alignment.Workers)
	}
}

func TestAlignmentWorkersEnvInvalid(t *testing.T) {
	t.Setenv(config.EnvAlignmentWorkers, "four")

	path := writeConfig(t, t.TempDir(), config.BaseConfigFile, baseConfig)
	_, err := config.LoadFile(path)
	if err == nil {
		t.Fatal("expected error for non-numeric workers override")
	}
	if !strings.Contains(err.Error(), config.EnvAlignmentWorkers) {
		t.Errorf("error %q does not name %s", err, config.EnvAlignmentWorkers)
	}
}

func TestLoadMissingOverlay(t *testing.T) {
	path := writeConfig(t, t.TempDir(), config.BaseConfigFile, baseConfig)
	t.Setenv(config.EnvAccordEnv, "qa")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), config.BaseConfigFile, `[server`)
	if _, err := config.LoadFile(path); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnv(t *testing.T) {
	cfg := load(t, baseConfig)
	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}

	t.Setenv(config.EnvAccordEnv, "production")
	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestDurations(t *testing.T) {
	cfg := load(t, baseConfig)

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
	if d := cfg.Server.WriteTimeoutDuration(); d != 15*time.Minute {
		t.Errorf("write timeout: got %v, want 15m", d)
	}
	if d := cfg.Server.ReadHeaderTimeoutDuration(); d != 10*time.Second {
		t.Errorf("read header timeout: got %v, want 10s", d)
	}
	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
}

func TestServerPortEnvInvalid(t *testing.T) {
	t.Setenv(config.EnvServerPort, "http")

	path := writeConfig(t, t.TempDir(), config.BaseConfigFile, baseConfig)
	if _, err := config.LoadFile(path); err == nil {
		t.Error("expected error for non-numeric port override")
	}
}

func TestAuthFromEnv(t *testing.T) {
	t.Setenv("ACCORD_AUTH_ENABLED", "true")
	t.Setenv("ACCORD_AUTH_ISSUER", "https://login.example.com")
	t.Setenv("ACCORD_AUTH_AUDIENCE", "accord")
	t.Setenv("ACCORD_AUTH_EXEMPT", "/openapi.json")

	cfg := load(t, baseConfig)

	auth := cfg.API.Auth
	if !auth.Enabled || auth.Issuer != "https://login.example.com" || auth.Audience != "accord" {
		t.Errorf("auth: got %+v", auth)
	}
	if len(auth.Exempt) != 1 || auth.Exempt[0] != "/openapi.json" {
		t.Errorf("exempt: got %v", auth.Exempt)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 50MB", "50MB", 50 * 1024 * 1024},
		{"valid 10MiB", "10MiB", 10 * 1024 * 1024},
		{"invalid falls back to 50MB", "bad", 50 * 1024 * 1024},
		{"empty falls back to 50MB", "", 50 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			if got := cfg.MaxUploadSizeBytes(); got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	const storage = `
[storage]
connection_string = "conn"
`
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{"invalid port", "[server]\nport = 99999\n" + storage, "invalid port"},
		{"invalid read_timeout", "[server]\nread_timeout = \"bad\"\n" + storage, "invalid read_timeout"},
		{"invalid shutdown_timeout", "shutdown_timeout = \"soon\"\n" + storage, "invalid shutdown_timeout"},
		{"missing storage", "[server]\nport = 8080\n", "connection_string or account_url required"},
		{"invalid upload size", "[api]\nmax_upload_size = \"big\"\n" + storage, "invalid max_upload_size"},
		{"auth without issuer", "[api.auth]\nenabled = true\naudience = \"accord\"\n" + storage, "issuer required"},
		{"negative workers", "[alignment]\nworkers = -1\n" + storage, "invalid workers"},
		{"bad cache ttl", "[alignment]\ncache_ttl = \"forever\"\n" + storage, "invalid cache_ttl"},
		{"zero cache ttl", "[alignment]\ncache_ttl = \"0s\"\n" + storage, "invalid cache_ttl"},
		{"duplicate columns", "[alignment.columns]\nitem = \"ms_name\"\n" + storage, "columns must be distinct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), config.BaseConfigFile, tt.config)
			_, err := config.LoadFile(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRepositoryConfig(t *testing.T) {
	t.Setenv(config.EnvAccordEnv, "")

	cfg, err := config.LoadFile(filepath.Join("..", "..", config.BaseConfigFile))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.ContainerName != "datasets" {
		t.Errorf("container: got %s, want datasets", cfg.Storage.ContainerName)
	}
	if cfg.Alignment.Columns.Voter != "ms_name" {
		t.Errorf("voter column: got %s, want ms_name", cfg.Alignment.Columns.Voter)
	}
	if cfg.API.MaxUploadSizeBytes() != 50*1024*1024 {
		t.Errorf("max upload: got %d", cfg.API.MaxUploadSizeBytes())
	}
}

func TestLogging(t *testing.T) {
	cfg := load(t, baseConfig)
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging defaults: got %+v", cfg.Logging)
	}

	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvLogFormat, "json")
	cfg = load(t, baseConfig)

	var buf bytes.Buffer
	cfg.Logging.NewLogger(&buf).Debug("probe", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"probe"`) {
		t.Errorf("expected json debug record, got %q", buf.String())
	}
}

func TestLoggingInvalid(t *testing.T) {
	for _, tt := range []struct{ key, value string }{
		{config.EnvLogLevel, "verbose"},
		{config.EnvLogFormat, "xml"},
	} {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			path := writeConfig(t, t.TempDir(), config.BaseConfigFile, baseConfig)
			if _, err := config.LoadFile(path); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
