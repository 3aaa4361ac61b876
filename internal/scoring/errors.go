package scoring

import "errors"

// ErrEmptyText is returned when a post with empty or whitespace-only
// text reaches the scorer. Batch callers skip such posts instead of
// surfacing this error.
var ErrEmptyText = errors.New("post text is empty")
