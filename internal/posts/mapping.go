package posts

import (
	"net/url"

	"github.com/argus-osint/argus/pkg/query"
	"github.com/argus-osint/argus/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "posts", "p").
	Project("id", "ID").
	Project("source_id", "SourceID").
	Project("platform", "Platform").
	Project("channel", "Channel").
	Project("author", "Author").
	Project("body", "Text").
	Project("language", "Language").
	Project("posted_at", "PostedAt").
	Project("ingested_at", "IngestedAt")

var defaultSort = query.SortField{
	Field:      "IngestedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for post queries.
// Nil fields are ignored. Platform, Language, and Author use exact matching;
// Channel uses case-insensitive contains matching.
type Filters struct {
	Platform *string `json:"platform,omitempty"`
	Channel  *string `json:"channel,omitempty"`
	Author   *string `json:"author,omitempty"`
	Language *string `json:"language,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Platform", f.Platform).
		WhereContains("Channel", f.Channel).
		WhereEquals("Author", f.Author).
		WhereEquals("Language", f.Language)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if p := values.Get("platform"); p != "" {
		f.Platform = &p
	}

	if c := values.Get("channel"); c != "" {
		f.Channel = &c
	}

	if a := values.Get("author"); a != "" {
		f.Author = &a
	}

	if l := values.Get("language"); l != "" {
		f.Language = &l
	}

	return f
}

func scanPost(s repository.Scanner) (Post, error) {
	var p Post
	err := s.Scan(
		&p.ID,
		&p.SourceID,
		&p.Platform,
		&p.Channel,
		&p.Author,
		&p.Text,
		&p.Language,
		&p.PostedAt,
		&p.IngestedAt,
	)
	return p, err
}
