package scores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/argus-osint/argus/internal/posts"
	"github.com/argus-osint/argus/internal/runner"
	"github.com/argus-osint/argus/internal/scoring"
	"github.com/argus-osint/argus/pkg/pagination"
	"github.com/argus-osint/argus/pkg/query"
	"github.com/argus-osint/argus/pkg/repository"
)

type repo struct {
	db         *sql.DB
	posts      posts.System
	scorer     *scoring.Scorer
	workers    int
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a score repository implementing the System interface.
// The scorer carries the loaded taxonomy; workers bounds classify
// parallelism (zero sizes the pool from the batch and CPU count).
func New(
	db *sql.DB,
	postSys posts.System,
	scorer *scoring.Scorer,
	workers int,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		posts:      postSys,
		scorer:     scorer,
		workers:    workers,
		logger:     logger.With("system", "scores"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[ScoreResult], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count score results: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanScore)
	if err != nil {
		return nil, fmt.Errorf("query score results: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*ScoreResult, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanScore)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

// FindLatestByPost returns the most recently computed score for a post,
// spanning all runs and taxonomy versions.
func (r *repo) FindLatestByPost(ctx context.Context, postID uuid.UUID) (*ScoreResult, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("PostID", postID).
		BuildSingleOrNull()

	s, err := repository.QueryOne(ctx, r.db, q, args, scanScore)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

// Summarize aggregates persisted score results matching the filters:
// total count, per-tier histogram, and the topScored highest-scoring
// rows (final score desc, computed at desc on ties).
func (r *repo) Summarize(
	ctx context.Context,
	filters Filters,
	topScored int,
) (*ScoreSummary, error) {
	if topScored <= 0 {
		topScored = runner.DefaultTopScored
	}

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count score results: %w", err)
	}

	counts := make(map[scoring.Tier]int)
	for _, tier := range []scoring.Tier{
		scoring.TierLow,
		scoring.TierMedium,
		scoring.TierHigh,
		scoring.TierCritical,
	} {
		tqb := query.NewBuilder(projection, defaultSort)
		filters.Apply(tqb)
		tqb.WhereEquals("Tier", string(tier))

		tierSQL, tierArgs := tqb.BuildCount()
		var n int
		if err := r.db.QueryRowContext(ctx, tierSQL, tierArgs...).Scan(&n); err != nil {
			return nil, fmt.Errorf("count tier %s: %w", tier, err)
		}
		counts[tier] = n
	}

	topQB := query.NewBuilder(
		projection,
		query.SortField{Field: "FinalScore", Descending: true},
		query.SortField{Field: "ComputedAt", Descending: true},
	)
	filters.Apply(topQB)

	topSQL, topArgs := topQB.BuildPage(1, topScored)
	top, err := repository.QueryMany(ctx, r.db, topSQL, topArgs, scanScore)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}

	return &ScoreSummary{
		TotalResults: total,
		CountByTier:  counts,
		TopScored:    top,
	}, nil
}

// Classify loads the posts matching the command's filters, scores them
// as one batch, and persists the run row plus one score row per scored
// post in a single transaction.
func (r *repo) Classify(ctx context.Context, cmd ClassifyCommand) (*RunReport, error) {
	batch, err := r.posts.ListAll(ctx, cmd.Filters)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	if len(batch) == 0 {
		return nil, ErrEmptyBatch
	}

	startedAt := time.Now().UTC()

	results, summary, err := runner.ClassifyBatch(ctx, batch, r.scorer, runner.Options{
		TopScored: cmd.TopScored,
		Workers:   r.workers,
	})
	if err != nil {
		return nil, fmt.Errorf("classify batch: %w", err)
	}

	run, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ClassificationRun, error) {
		return r.persistRun(ctx, tx, results, summary, startedAt)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("classification run complete",
		"run_id", run.ID,
		"taxonomy_version", run.TaxonomyVersion,
		"total_posts", run.TotalPosts,
		"skipped", run.SkippedCount,
	)

	return &RunReport{Run: run, Summary: summary}, nil
}

func (r *repo) persistRun(
	ctx context.Context,
	tx *sql.Tx,
	results []scoring.Result,
	summary *runner.Summary,
	startedAt time.Time,
) (ClassificationRun, error) {
	runQ := `
		INSERT INTO classification_runs(id, taxonomy_version, total_posts, skipped_count, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, taxonomy_version, total_posts, skipped_count, started_at, finished_at`

	runArgs := []any{
		uuid.New(),
		summary.TaxonomyVersion,
		summary.TotalPosts,
		summary.SkippedCount,
		startedAt,
		time.Now().UTC(),
	}

	run, err := repository.QueryOne(ctx, tx, runQ, runArgs, scanRun)
	if err != nil {
		return ClassificationRun{}, fmt.Errorf("insert run: %w", err)
	}

	scoreQ := `
		INSERT INTO score_results(
			id, run_id, post_id, raw_score, final_score, matched_categories,
			matched_location, location_bonus, tier, taxonomy_version, computed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, res := range results {
		categoriesJSON, err := json.Marshal(res.MatchedCategories)
		if err != nil {
			return ClassificationRun{}, fmt.Errorf("marshal matched categories: %w", err)
		}

		var location *string
		if res.MatchedLocation != "" {
			location = &res.MatchedLocation
		}

		if err := repository.ExecExpectOne(
			ctx, tx, scoreQ,
			uuid.New(),
			run.ID,
			res.PostID,
			res.RawScore,
			res.FinalScore,
			categoriesJSON,
			location,
			res.LocationBonus,
			string(res.Tier),
			res.TaxonomyVersion,
			res.ComputedAt,
		); err != nil {
			return ClassificationRun{}, fmt.Errorf("insert score result: %w", err)
		}
	}

	return run, nil
}

func (r *repo) ListRuns(
	ctx context.Context,
	page pagination.PageRequest,
) (*pagination.PageResult[ClassificationRun], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(runProjection, runDefaultSort)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) FindRun(ctx context.Context, id uuid.UUID) (*ClassificationRun, error) {
	q, args := query.NewBuilder(runProjection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrRunNotFound, ErrDuplicate)
	}
	return &run, nil
}
