package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"searchlog/internal/models"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	store   Pinger
	backend string
	timeout time.Duration
}

// NewProbeHandler creates a new probe handler. backend names the configured
// store in readiness responses.
func NewProbeHandler(store Pinger, backend string) *ProbeHandler {
	return &ProbeHandler{store: store, backend: backend, timeout: 2 * time.Second}
}

// Liveness handles the /livez endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /healthz and /readyz endpoints.
// Returns 200 OK if the search store is reachable.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	resp := models.HealthResponse{Status: "ok", Store: h.backend}
	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "error"
		resp.Error = "store unavailable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}

	return c.JSON(resp)
}
