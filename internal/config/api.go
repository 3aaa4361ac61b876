package config

import (
	"fmt"
	"os"

	"github.com/argus-osint/argus/pkg/formatting"
	"github.com/argus-osint/argus/pkg/middleware"
	"github.com/argus-osint/argus/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "ARGUS_CORS_ENABLED",
	Origins:          "ARGUS_CORS_ORIGINS",
	AllowedMethods:   "ARGUS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "ARGUS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "ARGUS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "ARGUS_CORS_MAX_AGE",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "ARGUS_AUTH_ENABLED",
	Issuer:   "ARGUS_AUTH_ISSUER",
	ClientID: "ARGUS_AUTH_CLIENT_ID",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "ARGUS_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "ARGUS_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, auth, and pagination settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxIngestSize string                `toml:"max_ingest_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Auth          middleware.AuthConfig `toml:"auth"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxIngestSizeBytes returns the ingest body limit in bytes.
func (c *APIConfig) MaxIngestSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxIngestSize)
	if err != nil {
		return 4 * 1024 * 1024 // 4MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS, auth, and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxIngestSize != "" {
		c.MaxIngestSize = overlay.MaxIngestSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxIngestSize == "" {
		c.MaxIngestSize = "4MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("ARGUS_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("ARGUS_API_MAX_INGEST_SIZE"); v != "" {
		c.MaxIngestSize = v
	}
}
