package api

import (
	"fmt"

	"github.com/argus-osint/argus/internal/posts"
	"github.com/argus-osint/argus/internal/reports"
	"github.com/argus-osint/argus/internal/scores"
	"github.com/argus-osint/argus/internal/scoring"
	"github.com/argus-osint/argus/internal/taxonomy"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Posts   posts.System
	Scores  scores.System
	Reports reports.System
}

// NewDomain loads the taxonomy and creates all domain systems from the
// API runtime. A malformed taxonomy fails startup here, before any
// request can reach the classifier.
func NewDomain(runtime *Runtime) (*Domain, error) {
	tax, err := taxonomy.Load(runtime.Scoring.TaxonomyPath)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	runtime.Logger.Info("taxonomy loaded",
		"path", runtime.Scoring.TaxonomyPath,
		"version", tax.Version(),
		"categories", len(tax.Categories()),
		"locations", len(tax.Locations()),
	)

	postSystem := posts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	scoreSystem := scores.New(
		runtime.Database.Connection(),
		postSystem,
		scoring.NewScorer(tax),
		runtime.Scoring.Workers,
		runtime.Logger,
		runtime.Pagination,
	)

	reportSystem := reports.New(
		scoreSystem,
		runtime.Storage,
		runtime.Logger,
	)

	return &Domain{
		Posts:   postSystem,
		Scores:  scoreSystem,
		Reports: reportSystem,
	}, nil
}
