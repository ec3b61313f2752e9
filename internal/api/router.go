package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/compass-assess/compass/internal/config"
	"github.com/compass-assess/compass/internal/events"
	"github.com/compass-assess/compass/internal/store"
)

func NewRouter(s store.Store, ev events.Client, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.API.RateLimitPerMinute))

	assessments := NewAssessmentsHandler(s, ev, cfg.API.DefaultPageSize)
	results := NewResultsHandler(s)
	schemes := NewSchemesHandler(s, ev)
	templates := NewTemplatesHandler(s)
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/assessments", assessments.Create)
		r.Get("/assessments", assessments.List)
		r.Get("/assessments/{id}", assessments.Get)
		r.Put("/assessments/{id}/scores", assessments.ReplaceScores)
		r.Patch("/assessments/{id}/scheme", assessments.SetScheme)
		r.Get("/assessments/{id}/results", results.Get)

		r.Get("/templates/{sector}", templates.Get)
		r.Get("/schemes", schemes.List)
		r.Get("/schemes/{id}", schemes.Get)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Put("/templates/{sector}", templates.Put)
			r.Post("/schemes", schemes.Create)
			r.Delete("/schemes/{id}", schemes.Delete)
			r.Post("/schemes/{id}/default", schemes.SetDefault)
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
