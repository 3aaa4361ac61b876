package posts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/argus-osint/argus/pkg/pagination"
	"github.com/argus-osint/argus/pkg/query"
	"github.com/argus-osint/argus/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a post repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "posts"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxIngestSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxIngestSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Post], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Text", "Channel", "Author")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPost)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// ListAll returns every post matching the filters in ingest order.
// Used by the classification run, which scores the full matching set
// rather than a page.
func (r *repo) ListAll(ctx context.Context, filters Filters) ([]Post, error) {
	qb := query.NewBuilder(projection, query.SortField{Field: "IngestedAt"})
	filters.Apply(qb)

	q, args := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, q, args, scanPost)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}

	return items, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Post, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPost)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Ingest(ctx context.Context, cmd IngestCommand) (*Post, error) {
	platform, err := ParsePlatform(cmd.Platform)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cmd.Channel) == "" {
		return nil, ErrEmptyChannel
	}

	q := `
		INSERT INTO posts(id, source_id, platform, channel, author, body, language, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, source_id, platform, channel, author, body, language, posted_at, ingested_at`

	insertArgs := []any{
		uuid.New(),
		cmd.SourceID,
		string(platform),
		cmd.Channel,
		cmd.Author,
		cmd.Text,
		cmd.Language,
		cmd.PostedAt,
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Post, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanPost)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("post ingested",
		"id", p.ID,
		"platform", p.Platform,
		"channel", p.Channel,
	)
	return &p, nil
}

// IngestBatch registers each command independently. Failed commands do not
// abort the batch; each outcome is reported in its BatchResult.
func (r *repo) IngestBatch(ctx context.Context, cmds []IngestCommand) []BatchResult {
	results := make([]BatchResult, 0, len(cmds))

	for i, cmd := range cmds {
		p, err := r.Ingest(ctx, cmd)
		if err != nil {
			results = append(results, BatchResult{Index: i, Error: err.Error()})
			continue
		}
		results = append(results, BatchResult{Index: i, Post: p})
	}

	return results
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM posts WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("post deleted", "id", id)
	return nil
}
