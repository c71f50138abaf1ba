package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"searchlog/internal/config"
	"searchlog/internal/middleware"
	"searchlog/internal/terms"
)

// SearchHandler renders the search analytics pages.
type SearchHandler struct {
	svc *terms.Service
	cfg *config.Config
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(svc *terms.Service, cfg *config.Config) *SearchHandler {
	return &SearchHandler{svc: svc, cfg: cfg}
}

// Index renders the dashboard with the search box and the analytics views.
func (h *SearchHandler) Index(c fiber.Ctx) error {
	origin := middleware.Origin(c)

	data := MergeBranding(fiber.Map{
		"Title": "Searches",
	}, h.cfg)

	// A failing view leaves its panel empty rather than failing the page.
	if records, err := h.svc.MostFrequentGlobal(c.Context()); err == nil {
		data["MostFrequent"] = records
	} else {
		slog.Warn("failed to load dashboard view", "view", "most_frequent", "error", err)
	}
	if records, err := h.svc.MostFrequentByOrigin(c.Context(), origin); err == nil {
		data["YourMostFrequent"] = records
	} else {
		slog.Warn("failed to load dashboard view", "view", "your_most_frequent", "origin", origin, "error", err)
	}
	if records, err := h.svc.MostRecentByOrigin(c.Context(), origin); err == nil {
		data["YourMostRecent"] = records
	} else {
		slog.Warn("failed to load dashboard view", "view", "your_most_recent", "origin", origin, "error", err)
	}

	return c.Render("index", data)
}
