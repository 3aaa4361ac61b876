// Package scores implements the persisted classification domain: stored
// score results, classification runs, and the batch classify operation
// that drives the scorer over stored posts.
package scores

import (
	"time"

	"github.com/google/uuid"

	"github.com/argus-osint/argus/internal/posts"
	"github.com/argus-osint/argus/internal/runner"
	"github.com/argus-osint/argus/internal/scoring"
)

// ScoreResult is a persisted scoring outcome for one post. Rows are
// immutable after insert; rescoring under a new taxonomy version adds
// new rows so the scoring history of a post stays auditable.
type ScoreResult struct {
	ID                uuid.UUID               `json:"id"`
	RunID             uuid.UUID               `json:"run_id"`
	PostID            uuid.UUID               `json:"post_id"`
	RawScore          int                     `json:"raw_score"`
	FinalScore        int                     `json:"final_score"`
	MatchedCategories []scoring.CategoryMatch `json:"matched_categories"`
	MatchedLocation   string                  `json:"matched_location,omitempty"`
	LocationBonus     int                     `json:"location_bonus"`
	Tier              scoring.Tier            `json:"tier"`
	TaxonomyVersion   string                  `json:"taxonomy_version"`
	ComputedAt        time.Time               `json:"computed_at"`
}

// ClassificationRun records one batch classification invocation.
type ClassificationRun struct {
	ID              uuid.UUID `json:"id"`
	TaxonomyVersion string    `json:"taxonomy_version"`
	TotalPosts      int       `json:"total_posts"`
	SkippedCount    int       `json:"skipped_count"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}

// ClassifyCommand selects which posts a classification run scores and
// how many top results the summary retains.
type ClassifyCommand struct {
	Filters   posts.Filters `json:"filters"`
	TopScored int           `json:"top_scored"`
}

// RunReport is the response of one classify call: the persisted run row
// plus the in-memory batch summary.
type RunReport struct {
	Run     ClassificationRun `json:"run"`
	Summary *runner.Summary   `json:"summary"`
}

// ScoreSummary aggregates persisted score results: totals, the tier
// histogram, and the highest-scoring rows. Unlike a RunReport it is
// computed from stored rows, so it can span runs or honor filters.
type ScoreSummary struct {
	TotalResults int                  `json:"total_results"`
	CountByTier  map[scoring.Tier]int `json:"count_by_tier"`
	TopScored    []ScoreResult        `json:"top_scored"`
}
