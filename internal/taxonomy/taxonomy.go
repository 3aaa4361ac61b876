// Package taxonomy holds the configured keyword categories and the location
// gazetteer used by the scorer. The taxonomy is loaded from a YAML document,
// validated once, and immutable afterwards; refining detection means editing
// the document, not the scorer.
package taxonomy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// KeywordCategory is a named group of trigger phrases with a single weight.
// A category contributes its weight at most once per post regardless of how
// many of its phrases match.
type KeywordCategory struct {
	Name    string   `yaml:"name" json:"name"`
	Weight  int      `yaml:"weight" json:"weight"`
	Phrases []string `yaml:"phrases" json:"phrases"`
}

// LocationEntry is a sensitive place name with aliases and a bonus weight.
// Only the single highest-weight matching location contributes to a score.
type LocationEntry struct {
	Name        string   `yaml:"name" json:"name"`
	Aliases     []string `yaml:"aliases" json:"aliases"`
	BonusWeight int      `yaml:"bonus_weight" json:"bonus_weight"`
}

type document struct {
	Categories []KeywordCategory `yaml:"categories"`
	Locations  []LocationEntry   `yaml:"locations"`
}

// Taxonomy is the validated, immutable scoring configuration.
// Category and location order follows document order; the scorer iterates
// categories in this order to produce deterministic match sequences.
type Taxonomy struct {
	version    string
	categories []KeywordCategory
	locations  []LocationEntry
}

// Load reads and parses a taxonomy document from the given path.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates a taxonomy document and returns the immutable Taxonomy.
// Returns a *ConfigError naming the offending category or field when the
// document is malformed; no partial taxonomy is ever produced.
func Parse(data []byte) (*Taxonomy, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}

	if err := validate(&doc); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)

	return &Taxonomy{
		version:    hex.EncodeToString(sum[:])[:12],
		categories: doc.Categories,
		locations:  doc.Locations,
	}, nil
}

// Version returns a deterministic content hash of the source document.
// Score results record it so rescoring after a taxonomy change is auditable.
func (t *Taxonomy) Version() string {
	return t.version
}

// Categories returns the categories in document order.
// The returned slice is a copy; the Taxonomy itself is never mutated.
func (t *Taxonomy) Categories() []KeywordCategory {
	return slices.Clone(t.categories)
}

// Locations returns the gazetteer entries in document order.
func (t *Taxonomy) Locations() []LocationEntry {
	return slices.Clone(t.locations)
}

func validate(doc *document) error {
	if len(doc.Categories) == 0 {
		return &ConfigError{Field: "categories", Reason: "at least one category required"}
	}

	names := make(map[string]struct{}, len(doc.Categories))
	for _, cat := range doc.Categories {
		if cat.Name == "" {
			return &ConfigError{Field: "categories", Reason: "category name must not be empty"}
		}
		if _, exists := names[cat.Name]; exists {
			return &ConfigError{Field: cat.Name, Reason: "duplicate category name"}
		}
		names[cat.Name] = struct{}{}

		if cat.Weight <= 0 {
			return &ConfigError{Field: cat.Name, Reason: fmt.Sprintf("weight must be positive, got %d", cat.Weight)}
		}
		if len(cat.Phrases) == 0 {
			return &ConfigError{Field: cat.Name, Reason: "phrase list must not be empty"}
		}
		for _, phrase := range cat.Phrases {
			if phrase == "" {
				return &ConfigError{Field: cat.Name, Reason: "phrases must not be empty strings"}
			}
		}
	}

	locNames := make(map[string]struct{}, len(doc.Locations))
	for _, loc := range doc.Locations {
		if loc.Name == "" {
			return &ConfigError{Field: "locations", Reason: "location name must not be empty"}
		}
		if _, exists := locNames[loc.Name]; exists {
			return &ConfigError{Field: loc.Name, Reason: "duplicate location name"}
		}
		locNames[loc.Name] = struct{}{}

		if loc.BonusWeight < 0 {
			return &ConfigError{Field: loc.Name, Reason: fmt.Sprintf("bonus_weight must not be negative, got %d", loc.BonusWeight)}
		}
	}

	return nil
}
