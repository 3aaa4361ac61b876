// Package posts implements the scraped-post domain for Argus.
// It provides types, data access, and business logic for ingesting,
// querying, and deleting posts collected by the external scrapers.
package posts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Platform identifies the origin platform of a post. It is a closed
// enumeration: unrecognized values are rejected at ingest rather than
// carried as free-form strings.
type Platform string

// Supported platforms.
const (
	PlatformTelegram Platform = "telegram"
	PlatformReddit   Platform = "reddit"
	PlatformForum    Platform = "forum"
	PlatformOther    Platform = "other"
)

// Platforms returns all valid platforms in canonical order.
func Platforms() []Platform {
	return []Platform{PlatformTelegram, PlatformReddit, PlatformForum, PlatformOther}
}

// ParsePlatform validates a platform string and returns the typed value.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	switch p {
	case PlatformTelegram, PlatformReddit, PlatformForum, PlatformOther:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPlatform, s)
}

// Post represents one scraped message with its metadata.
// Text is immutable after ingest; scoring never mutates a post.
type Post struct {
	ID         uuid.UUID  `json:"id"`
	SourceID   string     `json:"source_id"`
	Platform   Platform   `json:"platform"`
	Channel    string     `json:"channel"`
	Author     string     `json:"author"`
	Text       string     `json:"text"`
	Language   string     `json:"language,omitempty"`
	PostedAt   *time.Time `json:"posted_at"`
	IngestedAt time.Time  `json:"ingested_at"`
}

// IngestCommand carries the data needed to register one scraped post.
// SourceID is the origin-assigned identifier when the scraper has one;
// an empty SourceID is allowed and the post is identified by its UUID only.
type IngestCommand struct {
	SourceID string     `json:"source_id"`
	Platform string     `json:"platform"`
	Channel  string     `json:"channel"`
	Author   string     `json:"author"`
	Text     string     `json:"text"`
	Language string     `json:"language"`
	PostedAt *time.Time `json:"posted_at"`
}

// BatchResult reports the outcome of a single post within a batch ingest.
// On success, Post is populated and Error is empty.
// On failure, Error describes the problem and Post is nil.
type BatchResult struct {
	Post  *Post  `json:"post,omitempty"`
	Index int    `json:"index"`
	Error string `json:"error,omitempty"`
}
