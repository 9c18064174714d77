// Package api provides the HTTP API for catchmap.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/catchmap/catchmap/internal/api/handler"
	"github.com/catchmap/catchmap/internal/api/middleware"
	"github.com/catchmap/catchmap/internal/store"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version    string
	BuildTime  string
	Logger     zerolog.Logger
	RoutingURL string
	Repository store.Repository
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime)
	catchmentHandler := handler.NewCatchmentHandler(cfg.RoutingURL, cfg.Repository, cfg.Logger)

	generationRateLimit := middleware.RateLimitByIP(middleware.GenerationRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		r.With(generationRateLimit).Post("/catchments", catchmentHandler.GenerateCatchments)

		if cfg.Repository != nil {
			runsHandler := handler.NewRunsHandler(cfg.Repository, cfg.Logger)
			r.Route("/runs", func(r chi.Router) {
				r.Use(standardRateLimit)
				r.Get("/", runsHandler.ListRuns)
				r.Get("/{runId}", runsHandler.GetRun)
			})
		}
	})

	return r
}
