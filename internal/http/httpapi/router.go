package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"adgen/internal/http/handlers"
	"adgen/internal/infra"
	"adgen/internal/middleware"
)

// NewRouter builds the service router. lookup may be nil when no GeoIP
// database is configured.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.I18N(cfg.DefaultLocale, lookup),
	)

	r.Get("/v1/healthz", app.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
		r.Post("/v1/pipeline/runs", app.PipelineRun)
	})

	r.Route("/v1/runs", func(r chi.Router) {
		r.Get("/", app.RunsList)
		r.Get("/{run_id}", app.RunGet)
	})

	return r
}
