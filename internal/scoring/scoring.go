// Package scoring implements the deterministic recruitment-likelihood
// scorer. Scoring is a pure function over a post's text and a loaded
// taxonomy: no I/O, no shared state, identical inputs produce identical
// results apart from the computation timestamp.
package scoring

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/argus-osint/argus/internal/taxonomy"
)

// Tier is the severity band derived from a final score.
type Tier string

// Severity tiers in ascending order.
const (
	TierLow      Tier = "LOW"
	TierMedium   Tier = "MEDIUM"
	TierHigh     Tier = "HIGH"
	TierCritical Tier = "CRITICAL"
)

// Tier thresholds. Lower bounds are inclusive.
const (
	thresholdMedium   = 20
	thresholdHigh     = 40
	thresholdCritical = 70
)

// MaxScore caps the final score regardless of how many categories match.
const MaxScore = 100

// TierForScore maps a final score to its severity tier.
func TierForScore(score int) Tier {
	switch {
	case score >= thresholdCritical:
		return TierCritical
	case score >= thresholdHigh:
		return TierHigh
	case score >= thresholdMedium:
		return TierMedium
	default:
		return TierLow
	}
}

// CategoryMatch records one taxonomy category that contributed to a score.
type CategoryMatch struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// Result is the outcome of scoring one post against one taxonomy version.
// Results are immutable once computed; rescoring after a taxonomy change
// produces a new Result instead of editing the old one.
type Result struct {
	PostID            uuid.UUID       `json:"post_id"`
	RawScore          int             `json:"raw_score"`
	FinalScore        int             `json:"final_score"`
	MatchedCategories []CategoryMatch `json:"matched_categories"`
	MatchedLocation   string          `json:"matched_location,omitempty"`
	LocationBonus     int             `json:"location_bonus"`
	Tier              Tier            `json:"tier"`
	TaxonomyVersion   string          `json:"taxonomy_version"`
	ComputedAt        time.Time       `json:"computed_at"`
}

// Scorer scores post text against a single taxonomy. It is safe for
// concurrent use: the taxonomy is immutable and the scorer holds no
// mutable state.
type Scorer struct {
	tax *taxonomy.Taxonomy
	now func() time.Time
}

// NewScorer creates a Scorer bound to the given taxonomy.
func NewScorer(tax *taxonomy.Taxonomy) *Scorer {
	return NewScorerWithClock(tax, time.Now)
}

// NewScorerWithClock creates a Scorer that stamps ComputedAt from the
// given clock instead of time.Now.
func NewScorerWithClock(tax *taxonomy.Taxonomy, now func() time.Time) *Scorer {
	return &Scorer{
		tax: tax,
		now: now,
	}
}

// Score evaluates one post's text and returns its score result.
// Returns ErrEmptyText when the text is empty or whitespace only;
// callers are expected to filter such posts before scoring.
func (s *Scorer) Score(postID uuid.UUID, text string) (*Result, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return nil, ErrEmptyText
	}

	raw := 0
	matched := make([]CategoryMatch, 0, 4)

	for _, cat := range s.tax.Categories() {
		for _, phrase := range cat.Phrases {
			if strings.Contains(normalized, Normalize(phrase)) {
				raw += cat.Weight
				matched = append(matched, CategoryMatch{
					Name:   cat.Name,
					Weight: cat.Weight,
				})
				break
			}
		}
	}

	location, bonus := s.locationBonus(normalized)
	raw += bonus

	final := raw
	if final > MaxScore {
		final = MaxScore
	}
	if final < 0 {
		final = 0
	}

	return &Result{
		PostID:            postID,
		RawScore:          raw,
		FinalScore:        final,
		MatchedCategories: matched,
		MatchedLocation:   location,
		LocationBonus:     bonus,
		Tier:              TierForScore(final),
		TaxonomyVersion:   s.tax.Version(),
		ComputedAt:        s.now().UTC(),
	}, nil
}

// locationBonus returns the name and bonus weight of the highest-weighted
// gazetteer location mentioned in the normalized text. Multiple location
// hits still contribute only the single highest bonus.
func (s *Scorer) locationBonus(normalized string) (string, int) {
	name := ""
	bonus := 0

	for _, loc := range s.tax.Locations() {
		if !locationMatches(loc, normalized) {
			continue
		}
		if loc.BonusWeight > bonus {
			name = loc.Name
			bonus = loc.BonusWeight
		}
	}

	return name, bonus
}

func locationMatches(loc taxonomy.LocationEntry, normalized string) bool {
	if strings.Contains(normalized, Normalize(loc.Name)) {
		return true
	}
	for _, alias := range loc.Aliases {
		if strings.Contains(normalized, Normalize(alias)) {
			return true
		}
	}
	return false
}

// Normalize lowercases text and collapses all whitespace runs to single
// spaces. Matching is plain substring containment over the normalized
// form; no stemming or tokenization, so the rule is language-agnostic.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
