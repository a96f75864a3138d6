package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/internal/service"
	"github.com/moviecatalog/catalog/pkg/health"
	"github.com/moviecatalog/catalog/pkg/middleware"
)

// Services groups the business services exposed over HTTP.
type Services struct {
	Accounts *service.AccountService
	Movies   *service.MovieService
	Ratings  *service.RatingService
	Reports  *service.ReportService
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(
	services Services,
	healthHandler *health.Handler,
	logger *slog.Logger,
	serviceName string,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	accountHandler := NewAccountHandler(services.Accounts, logger)
	movieHandler := NewMovieHandler(services.Movies, logger)
	ratingHandler := NewRatingHandler(services.Ratings, logger)
	reportHandler := NewReportHandler(services.Reports, logger)

	requireAuth := middleware.Auth(tokenValidator(services.Accounts))

	// Account endpoints (public)
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/register/", accountHandler.Register)
		r.Post("/login/", accountHandler.Login)
		r.Post("/token/refresh/", accountHandler.Refresh)
	})

	// Movie reads are public.
	r.Get("/movies/", movieHandler.List)
	r.Get("/movie/{id}/", movieHandler.Get)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/movie-create/", movieHandler.Create)
		r.Put("/movie/{id}/", movieHandler.Replace)
		r.Patch("/movie/{id}/", movieHandler.Patch)
		r.Delete("/movie/{id}/", movieHandler.Delete)

		r.Get("/{movieId}/rating/", ratingHandler.List)
		r.Post("/{movieId}/rating-create/", ratingHandler.Create)
		r.Get("/rating/{id}/", ratingHandler.Get)
		r.Put("/rating/{id}/", ratingHandler.Update)
		r.Patch("/rating/{id}/", ratingHandler.Update)
		r.Delete("/rating/{id}/", ratingHandler.Delete)

		r.Get("/{movieId}/report/", reportHandler.List)
		r.Post("/{movieId}/report-create/", reportHandler.Create)
		r.Get("/report/{id}/", reportHandler.Get)
		r.Put("/report/{id}/", reportHandler.Update)
		r.Patch("/report/{id}/", reportHandler.Update)
		r.Delete("/report/{id}/", reportHandler.Delete)
	})

	// Moderation endpoints (admin only)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(middleware.RequireRole(domain.RoleAdmin))

		r.Get("/admin-report/", reportHandler.ListAll)
		r.Put("/report-approve/{id}/", reportHandler.Approve)
		r.Patch("/report-approve/{id}/", reportHandler.Approve)
		r.Put("/report-reject/{id}/", reportHandler.Reject)
		r.Patch("/report-reject/{id}/", reportHandler.Reject)
		r.Get("/report-status/", reportHandler.StatusCounts)
	})

	return r
}
