package posts

import (
	"context"

	"github.com/google/uuid"

	"github.com/argus-osint/argus/pkg/pagination"
)

// System defines the public contract for post domain operations.
type System interface {
	Handler(maxIngestSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Post], error)

	Find(ctx context.Context, id uuid.UUID) (*Post, error)
	ListAll(ctx context.Context, filters Filters) ([]Post, error)
	Ingest(ctx context.Context, cmd IngestCommand) (*Post, error)
	IngestBatch(ctx context.Context, cmds []IngestCommand) []BatchResult
	Delete(ctx context.Context, id uuid.UUID) error
}
