package api

import (
	"net/http"

	"github.com/argus-osint/argus/internal/config"
	"github.com/argus-osint/argus/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Posts.Handler(cfg.API.MaxIngestSizeBytes()).Routes(),
	)
	routes.Register(
		mux,
		domain.Scores.Handler().Routes(),
	)
	routes.Register(
		mux,
		domain.Reports.Handler().Routes(),
	)
}
