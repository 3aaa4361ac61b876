// Package runner drives batch classification: it maps the scorer over a
// collection of posts in parallel, then reduces the results into an
// aggregate summary. The scorer is pure, so posts are scored with no
// coordination beyond bounded fan-out; only the reduction is sequential.
package runner

import (
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/argus-osint/argus/internal/posts"
	"github.com/argus-osint/argus/internal/scoring"
)

// DefaultTopScored is the number of top results kept in a summary when
// Options does not override it.
const DefaultTopScored = 10

// Options configures a classification batch.
type Options struct {
	// TopScored is the number of highest-scoring results retained in
	// the summary. Zero or negative falls back to DefaultTopScored.
	TopScored int

	// Workers bounds scoring parallelism. Zero or negative sizes the
	// pool from the batch size and available CPUs.
	Workers int
}

// Summary aggregates one classification batch.
type Summary struct {
	TotalPosts      int                  `json:"total_posts"`
	SkippedCount    int                  `json:"skipped_count"`
	CountByTier     map[scoring.Tier]int `json:"count_by_tier"`
	TopScoredPosts  []scoring.Result     `json:"top_scored_posts"`
	TaxonomyVersion string               `json:"taxonomy_version"`
}

// ClassifyBatch scores every post and builds the batch summary.
// Results preserve input post order. Posts with empty or whitespace-only
// text are skipped and counted in SkippedCount; they are excluded from
// the summary's TotalPosts denominator.
func ClassifyBatch(
	ctx context.Context,
	batch []posts.Post,
	scorer *scoring.Scorer,
	opts Options,
) ([]scoring.Result, *Summary, error) {
	topScored := opts.TopScored
	if topScored <= 0 {
		topScored = DefaultTopScored
	}

	scored := make([]*scoring.Result, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(batch), opts.Workers))

	for i := range batch {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			if scoring.Normalize(batch[i].Text) == "" {
				return nil
			}

			result, err := scorer.Score(batch[i].ID, batch[i].Text)
			if err != nil {
				return err
			}

			scored[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	results := make([]scoring.Result, 0, len(batch))
	for _, r := range scored {
		if r != nil {
			results = append(results, *r)
		}
	}

	summary := summarize(results, len(batch), topScored)
	return results, summary, nil
}

func summarize(results []scoring.Result, batchSize, topScored int) *Summary {
	summary := &Summary{
		TotalPosts:   len(results),
		SkippedCount: batchSize - len(results),
		CountByTier:  make(map[scoring.Tier]int),
	}

	for _, r := range results {
		summary.CountByTier[r.Tier]++
		summary.TaxonomyVersion = r.TaxonomyVersion
	}

	top := slices.Clone(results)
	slices.SortStableFunc(top, func(a, b scoring.Result) int {
		if a.FinalScore != b.FinalScore {
			return b.FinalScore - a.FinalScore
		}
		return b.ComputedAt.Compare(a.ComputedAt)
	})

	if len(top) > topScored {
		top = top[:topScored]
	}
	summary.TopScoredPosts = top

	return summary
}

func workerCount(batchSize, configured int) int {
	if configured > 0 {
		return max(min(configured, batchSize), 1)
	}
	return max(min(runtime.NumCPU(), batchSize), 1)
}
