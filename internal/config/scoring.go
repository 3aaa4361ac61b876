package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvScoringTaxonomyPath = "ARGUS_SCORING_TAXONOMY_PATH"
	EnvScoringTopScored    = "ARGUS_SCORING_TOP_SCORED"
	EnvScoringWorkers      = "ARGUS_SCORING_WORKERS"
)

// ScoringConfig holds classifier settings: the taxonomy document path,
// the summary top-N size, and the scoring worker bound.
type ScoringConfig struct {
	TaxonomyPath string `toml:"taxonomy_path"`
	TopScored    int    `toml:"top_scored"`
	Workers      int    `toml:"workers"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ScoringConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ScoringConfig) Merge(overlay *ScoringConfig) {
	if overlay.TaxonomyPath != "" {
		c.TaxonomyPath = overlay.TaxonomyPath
	}
	if overlay.TopScored != 0 {
		c.TopScored = overlay.TopScored
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
}

func (c *ScoringConfig) loadDefaults() {
	if c.TaxonomyPath == "" {
		c.TaxonomyPath = "taxonomy.yaml"
	}
	if c.TopScored == 0 {
		c.TopScored = 10
	}
}

func (c *ScoringConfig) loadEnv() {
	if v := os.Getenv(EnvScoringTaxonomyPath); v != "" {
		c.TaxonomyPath = v
	}
	if v := os.Getenv(EnvScoringTopScored); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TopScored = n
		}
	}
	if v := os.Getenv(EnvScoringWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}

func (c *ScoringConfig) validate() error {
	if c.TaxonomyPath == "" {
		return fmt.Errorf("taxonomy_path must not be empty")
	}
	if c.TopScored < 1 {
		return fmt.Errorf("invalid top_scored: %d", c.TopScored)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers: %d", c.Workers)
	}
	return nil
}
