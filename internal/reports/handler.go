package reports

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/google/uuid"

	"github.com/argus-osint/argus/internal/scores"
	"github.com/argus-osint/argus/pkg/handlers"
	"github.com/argus-osint/argus/pkg/routes"
	"github.com/argus-osint/argus/pkg/storage"
)

// Handler provides HTTP endpoints for the report archive.
type Handler struct {
	sys    System
	store  storage.System
	logger *slog.Logger
}

var errInvalidRunID = errors.New("invalid run id")

// NewHandler creates a Handler with the given system, storage backend, and logger.
func NewHandler(sys System, store storage.System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		store:  store,
		logger: logger.With("handler", "reports"),
	}
}

// Routes returns the route group definition for report endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/reports",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/download/{key...}", Handler: h.Download},
			{Method: "POST", Pattern: "", Handler: h.ArchiveLatest},
			{Method: "POST", Pattern: "/runs/{id}", Handler: h.Archive},
		},
	}
}

// Archive exports a run report to blob storage.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRunID)
		return
	}

	report, err := h.sys.Archive(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, mapStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, report)
}

// ArchiveLatest exports the most recent run's report to blob storage.
func (h *Handler) ArchiveLatest(w http.ResponseWriter, r *http.Request) {
	report, err := h.sys.ArchiveLatest(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, mapStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, report)
}

// List returns archived report blobs, optionally continued from a marker.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	marker := r.URL.Query().Get("marker")

	maxResults, err := storage.ParseMaxResults(
		r.URL.Query().Get("max_results"),
		storage.MaxListCap,
	)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.store.List(r.Context(), "reports/", marker, maxResults)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Download streams an archived report blob back to the caller.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)

	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, result.Body)
}

func mapStatus(err error) int {
	if status := storage.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return scores.MapHTTPStatus(err)
}
