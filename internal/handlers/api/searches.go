package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"searchlog/internal/middleware"
	"searchlog/internal/models"
	"searchlog/internal/terms"
	"searchlog/internal/validation"
)

// SearchHandler handles search logging and analytics via JSON API.
type SearchHandler struct {
	svc *terms.Service
}

// NewSearchHandler creates a new API search handler.
func NewSearchHandler(svc *terms.Service) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Create logs one search query for the calling origin.
func (h *SearchHandler) Create(c fiber.Ctx) error {
	var body models.IngestRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	term := validation.NormalizeTerm(body.Term)
	if valid, msg := validation.ValidateTerm(term); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	if err := h.svc.LogSearch(c.Context(), term, middleware.Origin(c)); err != nil {
		if terms.IsValidation(err) {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to log search")
	}

	return jsonSuccess(c, fiber.Map{"term": term})
}

// Suggestions returns distinct stored terms containing the query.
func (h *SearchHandler) Suggestions(c fiber.Ctx) error {
	records, err := h.svc.Suggestions(c.Context(), c.Query("term"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load suggestions")
	}

	// The same term may be stored once per origin.
	seen := make(map[string]struct{}, len(records))
	suggestions := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Term]; ok {
			continue
		}
		seen[rec.Term] = struct{}{}
		suggestions = append(suggestions, rec.Term)
	}

	return jsonSuccess(c, models.SuggestionsResponse{Suggestions: suggestions})
}

// Analytics returns the global and per-origin views.
func (h *SearchHandler) Analytics(c fiber.Ctx) error {
	resp, err := loadAnalytics(c, h.svc)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load analytics")
	}
	return jsonSuccess(c, resp)
}

// loadAnalytics gathers the three analytics views for the caller's origin.
// Empty views are returned as empty lists, never null.
func loadAnalytics(c fiber.Ctx, svc *terms.Service) (models.AnalyticsResponse, error) {
	origin := middleware.Origin(c)

	global, err := svc.MostFrequentGlobal(c.Context())
	if err != nil {
		return models.AnalyticsResponse{}, err
	}
	frequent, err := svc.MostFrequentByOrigin(c.Context(), origin)
	if err != nil {
		return models.AnalyticsResponse{}, err
	}
	recent, err := svc.MostRecentByOrigin(c.Context(), origin)
	if err != nil {
		return models.AnalyticsResponse{}, err
	}

	return models.AnalyticsResponse{
		MostFrequent:     nonNil(global),
		YourMostFrequent: nonNil(frequent),
		YourMostRecent:   nonNil(recent),
	}, nil
}

func nonNil(records []models.SearchRecord) []models.SearchRecord {
	if records == nil {
		return []models.SearchRecord{}
	}
	return records
}
