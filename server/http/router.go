package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Abinayasri1011/noolsakaa/internal/catalog/handler"
	"github.com/Abinayasri1011/noolsakaa/internal/config"
	"github.com/Abinayasri1011/noolsakaa/internal/middleware"
	"github.com/Abinayasri1011/noolsakaa/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, h *handler.Handler) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit -> metrics
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))
	r.Use(middleware.Metrics)

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}
		r.Get("/catalog", h.Catalog)
		r.Get("/suggest", h.Suggest)
		r.Post("/resolve", h.Resolve)
		r.Post("/recommend", h.Recommend)
		r.Post("/recommend/export", h.Export)
	})

	return r
}
