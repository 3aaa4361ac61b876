package runner_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/argus-osint/argus/internal/posts"
	"github.com/argus-osint/argus/internal/runner"
	"github.com/argus-osint/argus/internal/scoring"
	"github.com/argus-osint/argus/internal/taxonomy"
)

const batchDoc = `
categories:
  - name: recruitment
    weight: 30
    phrases: ["zoeken vrijwilligers"]
  - name: payment
    weight: 20
    phrases: ["bitcoin"]
locations:
  - name: Schiphol
    aliases: []
    bonus_weight: 20
`

func batchScorer(t *testing.T) *scoring.Scorer {
	t.Helper()
	tax, err := taxonomy.Parse([]byte(batchDoc))
	if err != nil {
		t.Fatalf("parse taxonomy: %v", err)
	}
	return scoring.NewScorer(tax)
}

func post(text string) posts.Post {
	return posts.Post{
		ID:       uuid.New(),
		Platform: posts.PlatformTelegram,
		Channel:  "osint-nl",
		Text:     text,
	}
}

func TestClassifyBatchPreservesOrder(t *testing.T) {
	scorer := batchScorer(t)
	batch := []posts.Post{
		post("zoeken vrijwilligers bij schiphol"),
		post("niets bijzonders"),
		post("betaald in bitcoin"),
	}

	results, summary, err := runner.ClassifyBatch(context.Background(), batch, scorer, runner.Options{})
	if err != nil {
		t.Fatalf("ClassifyBatch() error = %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.PostID != batch[i].ID {
			t.Errorf("results[%d].PostID = %s, want %s (input order)", i, r.PostID, batch[i].ID)
		}
	}
	if summary.TotalPosts != 3 {
		t.Errorf("TotalPosts = %d, want 3", summary.TotalPosts)
	}
	if summary.SkippedCount != 0 {
		t.Errorf("SkippedCount = %d, want 0", summary.SkippedCount)
	}
}

func TestClassifyBatchSkipsEmptyText(t *testing.T) {
	scorer := batchScorer(t)
	batch := []posts.Post{
		post("betaald in bitcoin"),
		post(""),
		post("   \n\t"),
		post("zoeken vrijwilligers"),
	}

	results, summary, err := runner.ClassifyBatch(context.Background(), batch, scorer, runner.Options{})
	if err != nil {
		t.Fatalf("ClassifyBatch() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].PostID != batch[0].ID || results[1].PostID != batch[3].ID {
		t.Errorf("results do not preserve the order of scoreable posts")
	}
	if summary.TotalPosts != 2 {
		t.Errorf("TotalPosts = %d, want 2", summary.TotalPosts)
	}
	if summary.SkippedCount != 2 {
		t.Errorf("SkippedCount = %d, want 2", summary.SkippedCount)
	}
}

func TestClassifyBatchCountByTier(t *testing.T) {
	scorer := batchScorer(t)
	batch := []posts.Post{
		post("zoeken vrijwilligers bij schiphol, bitcoin"), // 70 CRITICAL
		post("zoeken vrijwilligers en bitcoin"),            // 50 HIGH
		post("betaald in bitcoin"),                         // 20 MEDIUM
		post("niets bijzonders"),                           // 0 LOW
		post("ook niets"),                                  // 0 LOW
	}

	_, summary, err := runner.ClassifyBatch(context.Background(), batch, scorer, runner.Options{})
	if err != nil {
		t.Fatalf("ClassifyBatch() error = %v", err)
	}

	want := map[scoring.Tier]int{
		scoring.TierCritical: 1,
		scoring.TierHigh:     1,
		scoring.TierMedium:   1,
		scoring.TierLow:      2,
	}
	for tier, count := range want {
		if summary.CountByTier[tier] != count {
			t.Errorf("CountByTier[%s] = %d, want %d", tier, summary.CountByTier[tier], count)
		}
	}
}

func TestClassifyBatchTopScored(t *testing.T) {
	scorer := batchScorer(t)
	batch := []posts.Post{
		post("niets"),
		post("betaald in bitcoin"),
		post("zoeken vrijwilligers bij schiphol, bitcoin"),
		post("zoeken vrijwilligers"),
	}

	_, summary, err := runner.ClassifyBatch(context.Background(), batch, scorer, runner.Options{TopScored: 2})
	if err != nil {
		t.Fatalf("ClassifyBatch() error = %v", err)
	}

	if len(summary.TopScoredPosts) != 2 {
		t.Fatalf("got %d top posts, want 2", len(summary.TopScoredPosts))
	}
	if summary.TopScoredPosts[0].PostID != batch[2].ID {
		t.Errorf("top post = %s, want the 70-point post %s", summary.TopScoredPosts[0].PostID, batch[2].ID)
	}
	if summary.TopScoredPosts[1].PostID != batch[3].ID {
		t.Errorf("second post = %s, want the 30-point post %s", summary.TopScoredPosts[1].PostID, batch[3].ID)
	}
	if summary.TopScoredPosts[0].FinalScore < summary.TopScoredPosts[1].FinalScore {
		t.Errorf("top posts not sorted by descending score")
	}
}

func TestClassifyBatchTopScoredDefault(t *testing.T) {
	scorer := batchScorer(t)
	batch := make([]posts.Post, 15)
	for i := range batch {
		batch[i] = post("betaald in bitcoin")
	}

	_, summary, err := runner.ClassifyBatch(context.Background(), batch, scorer, runner.Options{})
	if err != nil {
		t.Fatalf("ClassifyBatch() error = %v", err)
	}

	if len(summary.TopScoredPosts) != runner.DefaultTopScored {
		t.Errorf("got %d top posts, want %d", len(summary.TopScoredPosts), runner.DefaultTopScored)
	}
}

func TestClassifyBatchTaxonomyVersion(t *testing.T) {
	scorer := batchScorer(t)
	tax, err := taxonomy.Parse([]byte(batchDoc))
	if err != nil {
		t.Fatalf("parse taxonomy: %v", err)
	}

	_, summary, err := runner.ClassifyBatch(
		context.Background(),
		[]posts.Post{post("betaald in bitcoin")},
		scorer,
		runner.Options{},
	)
	if err != nil {
		t.Fatalf("ClassifyBatch() error = %v", err)
	}

	if summary.TaxonomyVersion != tax.Version() {
		t.Errorf("TaxonomyVersion = %s, want %s", summary.TaxonomyVersion, tax.Version())
	}
}

func TestClassifyBatchEmpty(t *testing.T) {
	scorer := batchScorer(t)

	results, summary, err := runner.ClassifyBatch(context.Background(), nil, scorer, runner.Options{})
	if err != nil {
		t.Fatalf("ClassifyBatch() error = %v", err)
	}

	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if summary.TotalPosts != 0 || summary.SkippedCount != 0 {
		t.Errorf("summary = %+v, want zero totals", summary)
	}
}

func TestClassifyBatchCancelledContext(t *testing.T) {
	scorer := batchScorer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := make([]posts.Post, 100)
	for i := range batch {
		batch[i] = post("betaald in bitcoin")
	}

	_, _, err := runner.ClassifyBatch(ctx, batch, scorer, runner.Options{Workers: 1})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestClassifyBatchWorkerBounds(t *testing.T) {
	scorer := batchScorer(t)
	batch := []posts.Post{
		post("betaald in bitcoin"),
		post("zoeken vrijwilligers"),
	}

	for _, workers := range []int{-1, 0, 1, 8} {
		results, _, err := runner.ClassifyBatch(context.Background(), batch, scorer, runner.Options{Workers: workers})
		if err != nil {
			t.Fatalf("ClassifyBatch(workers=%d) error = %v", workers, err)
		}
		if len(results) != 2 {
			t.Errorf("ClassifyBatch(workers=%d) returned %d results, want 2", workers, len(results))
		}
	}
}
