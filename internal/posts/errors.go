package posts

import (
	"errors"
	"net/http"
)

// Domain errors for post operations.
var (
	ErrNotFound        = errors.New("post not found")
	ErrDuplicate       = errors.New("post already exists")
	ErrInvalidPlatform = errors.New("unknown platform")
	ErrEmptyChannel    = errors.New("channel must not be empty")
)

// MapHTTPStatus maps post domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidPlatform) || errors.Is(err, ErrEmptyChannel) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
