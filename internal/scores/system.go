package scores

import (
	"context"

	"github.com/google/uuid"

	"github.com/argus-osint/argus/pkg/pagination"
)

// System defines the public contract for score domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[ScoreResult], error)

	Find(ctx context.Context, id uuid.UUID) (*ScoreResult, error)
	FindLatestByPost(ctx context.Context, postID uuid.UUID) (*ScoreResult, error)
	Summarize(ctx context.Context, filters Filters, topScored int) (*ScoreSummary, error)
	Classify(ctx context.Context, cmd ClassifyCommand) (*RunReport, error)
	ListRuns(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[ClassificationRun], error)
	FindRun(ctx context.Context, id uuid.UUID) (*ClassificationRun, error)
}
