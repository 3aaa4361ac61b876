package scores

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/argus-osint/argus/internal/scoring"
	"github.com/argus-osint/argus/pkg/query"
	"github.com/argus-osint/argus/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "score_results", "s").
	Project("id", "ID").
	Project("run_id", "RunID").
	Project("post_id", "PostID").
	Project("raw_score", "RawScore").
	Project("final_score", "FinalScore").
	Project("matched_categories", "MatchedCategories").
	Project("matched_location", "MatchedLocation").
	Project("location_bonus", "LocationBonus").
	Project("tier", "Tier").
	Project("taxonomy_version", "TaxonomyVersion").
	Project("computed_at", "ComputedAt")

var defaultSort = query.SortField{
	Field:      "ComputedAt",
	Descending: true,
}

var runProjection = query.
	NewProjectionMap("public", "classification_runs", "r").
	Project("id", "ID").
	Project("taxonomy_version", "TaxonomyVersion").
	Project("total_posts", "TotalPosts").
	Project("skipped_count", "SkippedCount").
	Project("started_at", "StartedAt").
	Project("finished_at", "FinishedAt")

var runDefaultSort = query.SortField{
	Field:      "StartedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for score queries.
// Nil fields are ignored. MinScore filters on final_score inclusive.
type Filters struct {
	Tier            *string    `json:"tier,omitempty"`
	PostID          *uuid.UUID `json:"post_id,omitempty"`
	RunID           *uuid.UUID `json:"run_id,omitempty"`
	MinScore        *int       `json:"min_score,omitempty"`
	TaxonomyVersion *string    `json:"taxonomy_version,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Tier", f.Tier).
		WhereEquals("PostID", f.PostID).
		WhereEquals("RunID", f.RunID).
		WhereGte("FinalScore", f.MinScore).
		WhereEquals("TaxonomyVersion", f.TaxonomyVersion)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if t := values.Get("tier"); t != "" {
		f.Tier = &t
	}

	if p := values.Get("post_id"); p != "" {
		if id, err := uuid.Parse(p); err == nil {
			f.PostID = &id
		}
	}

	if r := values.Get("run_id"); r != "" {
		if id, err := uuid.Parse(r); err == nil {
			f.RunID = &id
		}
	}

	if m := values.Get("min_score"); m != "" {
		n, err := strconv.Atoi(m)
		if err != nil {
			return f, fmt.Errorf("%w: %q", ErrInvalidScore, m)
		}
		f.MinScore = &n
	}

	if v := values.Get("taxonomy_version"); v != "" {
		f.TaxonomyVersion = &v
	}

	return f, nil
}

func scanScore(s repository.Scanner) (ScoreResult, error) {
	var r ScoreResult
	var categoriesRaw []byte
	var location *string

	err := s.Scan(
		&r.ID,
		&r.RunID,
		&r.PostID,
		&r.RawScore,
		&r.FinalScore,
		&categoriesRaw,
		&location,
		&r.LocationBonus,
		&r.Tier,
		&r.TaxonomyVersion,
		&r.ComputedAt,
	)

	if err != nil {
		return r, err
	}

	if location != nil {
		r.MatchedLocation = *location
	}

	if len(categoriesRaw) > 0 {
		if err := json.Unmarshal(categoriesRaw, &r.MatchedCategories); err != nil {
			return r, fmt.Errorf("unmarshal matched_categories: %w", err)
		}
	}

	if r.MatchedCategories == nil {
		r.MatchedCategories = []scoring.CategoryMatch{}
	}

	return r, nil
}

func scanRun(s repository.Scanner) (ClassificationRun, error) {
	var r ClassificationRun

	err := s.Scan(
		&r.ID,
		&r.TaxonomyVersion,
		&r.TotalPosts,
		&r.SkippedCount,
		&r.StartedAt,
		&r.FinishedAt,
	)

	return r, err
}
