package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/accord/pkg/formatting"
	"github.com/JaimeStill/accord/pkg/middleware"
	"github.com/JaimeStill/accord/pkg/openapi"
	"github.com/JaimeStill/accord/pkg/pagination"
)

const (
	EnvAPIBasePath      = "ACCORD_API_BASE_PATH"
	EnvAPIMaxUploadSize = "ACCORD_API_MAX_UPLOAD_SIZE"

	defaultMaxUploadBytes = 50 * 1024 * 1024
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "ACCORD_CORS_ENABLED",
	Origins:          "ACCORD_CORS_ORIGINS",
	AllowedMethods:   "ACCORD_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "ACCORD_CORS_ALLOWED_HEADERS",
	AllowCredentials: "ACCORD_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "ACCORD_CORS_MAX_AGE",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "ACCORD_AUTH_ENABLED",
	Issuer:   "ACCORD_AUTH_ISSUER",
	Audience: "ACCORD_AUTH_AUDIENCE",
	Exempt:   "ACCORD_AUTH_EXEMPT",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "ACCORD_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "ACCORD_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "ACCORD_OPENAPI_TITLE",
	Description: "ACCORD_OPENAPI_DESCRIPTION",
	License:     "ACCORD_OPENAPI_LICENSE",
}

// APIConfig holds API routing, CORS, auth, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Auth          middleware.AuthConfig `toml:"auth"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return defaultMaxUploadBytes
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	return nil
}
