package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"searchlog/internal/handlers"
	"searchlog/internal/handlers/api"
	"searchlog/internal/terms"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(svc *terms.Service) {
	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(svc, s.Cfg)
	probeHandler := handlers.NewProbeHandler(svc, s.Cfg.Store)
	apiSearchHandler := api.NewSearchHandler(svc)

	// Probes and metrics
	s.App.Get("/livez", probeHandler.Liveness)
	s.App.Get("/healthz", probeHandler.Readiness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Search API
	s.App.Post("/searches", apiSearchHandler.Create)
	s.App.Get("/searches/suggestions", apiSearchHandler.Suggestions)
	s.App.Get("/searches/analytics", apiSearchHandler.Analytics)

	// Dashboard
	s.App.Get("/", searchHandler.Index)
	s.App.Get("/searches", searchHandler.Index)
}
