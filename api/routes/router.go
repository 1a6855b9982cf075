package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tilestudio-il/tilestudio-backend/api/controllers"
	"github.com/tilestudio-il/tilestudio-backend/api/middleware"
	"github.com/tilestudio-il/tilestudio-backend/internal/catalog"
	"github.com/tilestudio-il/tilestudio-backend/internal/content"
	"github.com/tilestudio-il/tilestudio-backend/internal/quotes"
	"github.com/tilestudio-il/tilestudio-backend/pkg/config"
	"github.com/tilestudio-il/tilestudio-backend/pkg/logger"
	"github.com/tilestudio-il/tilestudio-backend/pkg/metrics"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	CatalogService *catalog.Service
	QuoteService   *quotes.Service
	QuoteRepo      *quotes.FileRepository
	ContentService *content.Service
	RateLimitStore middleware.RateLimitStore
	HTTPMetrics    *metrics.HTTPMetrics
	PromGatherer   prometheus.Gatherer
	StartedAt      time.Time
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	quotePolicy := middleware.NewRateLimitPolicy(
		"quote",
		cfg.Quotes.RateWindow,
		cfg.Quotes.RateLimit,
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health-check", controllers.HealthCheck(cfg, deps.StartedAt))

		r.Route("/photos", func(r chi.Router) {
			r.Get("/", controllers.PhotoList(deps.CatalogService, logg))
			r.Post("/upload", controllers.PhotoUpload(deps.CatalogService, logg))
			r.Get("/{photoId}", controllers.PhotoGet(deps.CatalogService, logg))
			r.Patch("/{photoId}", controllers.PhotoPatch(deps.CatalogService, logg))
			r.Delete("/{photoId}", controllers.PhotoDelete(deps.CatalogService, logg))
		})

		r.With(middleware.RateLimit(quotePolicy, deps.RateLimitStore, cfg.App.TrustProxy, logg)).
			Post("/submit-quote-form", controllers.QuoteSubmit(deps.QuoteService, cfg.App.TrustProxy, logg))

		r.Get("/projects", controllers.Projects(deps.ContentService, logg))
		r.Get("/testimonials", controllers.Testimonials(deps.ContentService, logg))

		if deps.QuoteRepo != nil {
			r.Get("/admin/submissions", controllers.SubmissionList(deps.QuoteRepo, logg))
		}
	})

	if deps.PromGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromGatherer, promhttp.HandlerOpts{}))
	}

	return r
}
