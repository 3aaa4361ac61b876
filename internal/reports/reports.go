// Package reports archives classification run reports to blob storage
// so the dashboard and analysts can retrieve past summaries without
// recomputing them.
package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/argus-osint/argus/internal/scores"
	"github.com/argus-osint/argus/pkg/formatting"
	"github.com/argus-osint/argus/pkg/pagination"
	"github.com/argus-osint/argus/pkg/storage"
)

// ArchivedReport describes one archived run report blob.
type ArchivedReport struct {
	Key        string    `json:"key"`
	RunID      uuid.UUID `json:"run_id"`
	ArchivedAt time.Time `json:"archived_at"`
}

// Export is the JSON document written to storage for one run: the run
// row, its batch summary, and the full result set at export time.
type Export struct {
	Run        scores.ClassificationRun `json:"run"`
	Results    []scores.ScoreResult     `json:"results"`
	ExportedAt time.Time                `json:"exported_at"`
}

// System defines the public contract for report archive operations.
type System interface {
	Handler() *Handler
	Archive(ctx context.Context, runID uuid.UUID) (*ArchivedReport, error)
	ArchiveLatest(ctx context.Context) (*ArchivedReport, error)
}

type system struct {
	scores scores.System
	store  storage.System
	logger *slog.Logger
}

// New creates the report archive system.
func New(scoreSys scores.System, store storage.System, logger *slog.Logger) System {
	return &system{
		scores: scoreSys,
		store:  store,
		logger: logger.With("system", "reports"),
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.store, s.logger)
}

// Archive serializes a run's full report and uploads it to blob storage
// under reports/<run-id>.json.
func (s *system) Archive(ctx context.Context, runID uuid.UUID) (*ArchivedReport, error) {
	run, err := s.scores.FindRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	results, err := s.collectResults(ctx, runID)
	if err != nil {
		return nil, err
	}

	export := Export{
		Run:        *run,
		Results:    results,
		ExportedAt: time.Now().UTC(),
	}

	body, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	key := ReportKey(runID)
	if err := s.store.Upload(ctx, key, bytes.NewReader(body), "application/json"); err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}

	s.logger.Info("run report archived",
		"run_id", runID,
		"key", key,
		"size", formatting.FormatBytes(int64(len(body)), 1),
	)

	return &ArchivedReport{
		Key:        key,
		RunID:      runID,
		ArchivedAt: export.ExportedAt,
	}, nil
}

// ArchiveLatest archives the most recently started classification run.
func (s *system) ArchiveLatest(ctx context.Context) (*ArchivedReport, error) {
	runs, err := s.scores.ListRuns(ctx, pagination.PageRequest{Page: 1, PageSize: 1})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	if len(runs.Data) == 0 {
		return nil, scores.ErrRunNotFound
	}

	return s.Archive(ctx, runs.Data[0].ID)
}

// collectResults pages through every score result of a run.
func (s *system) collectResults(ctx context.Context, runID uuid.UUID) ([]scores.ScoreResult, error) {
	var all []scores.ScoreResult
	filters := scores.Filters{RunID: &runID}

	for page := 1; ; page++ {
		result, err := s.scores.List(ctx, scoresPage(page), filters)
		if err != nil {
			return nil, fmt.Errorf("list run results: %w", err)
		}

		all = append(all, result.Data...)
		if page >= result.TotalPages || len(result.Data) == 0 {
			break
		}
	}

	return all, nil
}

// exportPageSize bounds each page fetched while collecting a run's results.
const exportPageSize = 200

func scoresPage(page int) pagination.PageRequest {
	return pagination.PageRequest{Page: page, PageSize: exportPageSize}
}

// ReportKey returns the blob key for a run's archived report.
func ReportKey(runID uuid.UUID) string {
	return fmt.Sprintf("reports/%s.json", runID)
}
