package storage

import (
	"fmt"
	"os"
	"strconv"
)

// Auth mode values for Config.AuthMode.
const (
	AuthConnectionString = "connection_string"
	AuthManagedIdentity  = "managed_identity"
)

// Config holds Azure Blob Storage connection parameters for the report archive.
// AuthMode selects between connection-string auth and DefaultAzureCredential;
// AccountURL is required only for managed identity.
type Config struct {
	ContainerName    string `toml:"container_name"`
	AuthMode         string `toml:"auth_mode"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
	MaxListSize      int32  `toml:"max_list_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	AuthMode         string
	ConnectionString string
	AccountURL       string
	MaxListSize      string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.AuthMode != "" {
		c.AuthMode = overlay.AuthMode
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
	if overlay.MaxListSize != 0 {
		c.MaxListSize = overlay.MaxListSize
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "reports"
	}
	if c.AuthMode == "" {
		c.AuthMode = AuthConnectionString
	}
	if c.MaxListSize == 0 {
		c.MaxListSize = 50
	}
	if c.MaxListSize > MaxListCap {
		c.MaxListSize = MaxListCap
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ContainerName != "" {
		if v := os.Getenv(env.ContainerName); v != "" {
			c.ContainerName = v
		}
	}
	if env.AuthMode != "" {
		if v := os.Getenv(env.AuthMode); v != "" {
			c.AuthMode = v
		}
	}
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.AccountURL != "" {
		if v := os.Getenv(env.AccountURL); v != "" {
			c.AccountURL = v
		}
	}
	if env.MaxListSize != "" {
		if v := os.Getenv(env.MaxListSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxListSize = min(int32(n), MaxListCap)
			}
		}
	}
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}

	switch c.AuthMode {
	case AuthConnectionString:
		if c.ConnectionString == "" {
			return fmt.Errorf("connection_string required")
		}
	case AuthManagedIdentity:
		if c.AccountURL == "" {
			return fmt.Errorf("account_url required for managed identity")
		}
	default:
		return fmt.Errorf("unknown auth_mode: %q", c.AuthMode)
	}

	return nil
}
