package scores

import (
	"errors"
	"net/http"
)

// Domain errors for score operations.
var (
	ErrNotFound     = errors.New("score result not found")
	ErrRunNotFound  = errors.New("classification run not found")
	ErrDuplicate    = errors.New("score result already exists")
	ErrEmptyBatch   = errors.New("no posts matched the classification filters")
	ErrInvalidScore = errors.New("invalid score filter")
)

// MapHTTPStatus maps score domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrRunNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyBatch) || errors.Is(err, ErrInvalidScore) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
