// Package health serves liveness, readiness and breaker status.
package health

import (
	"context"
	"net/http"
	"time"

	"voip-metrics-service/internal/resilience"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
)

const readyTimeout = 2 * time.Second

type Pinger interface {
	PingContext(ctx context.Context) error
}

type BreakerSource interface {
	Snapshots() []resilience.Snapshot
}

type Handler struct {
	db       Pinger
	breakers BreakerSource
	clock    clockwork.Clock
}

func NewHandler(db Pinger, breakers BreakerSource, clock clockwork.Clock) *Handler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Handler{db: db, breakers: breakers, clock: clock}
}

type StatusResponse struct {
	Status          string                `json:"status" example:"healthy"`
	Time            time.Time             `json:"time"`
	CircuitBreakers []resilience.Snapshot `json:"circuit_breakers"`
}

type ReadyResponse struct {
	Status string `json:"status" example:"ready"`
	Error  string `json:"error,omitempty"`
}

// Health godoc
// @Summary Service status with circuit breaker states
// @Tags Health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /health [get]
func (h *Handler) Health(c *fiber.Ctx) error {
	snaps := h.breakers.Snapshots()
	if snaps == nil {
		snaps = []resilience.Snapshot{}
	}
	return c.Status(http.StatusOK).JSON(StatusResponse{
		Status:          "healthy",
		Time:            h.clock.Now().UTC(),
		CircuitBreakers: snaps,
	})
}

// Live godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /health/live [get]
func (h *Handler) Live(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(ReadyResponse{Status: "alive"})
}

// Ready godoc
// @Summary Readiness probe, pings the database
// @Tags Health
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /health/ready [get]
func (h *Handler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(ReadyResponse{Status: "not_ready", Error: err.Error()})
	}
	return c.Status(http.StatusOK).JSON(ReadyResponse{Status: "ready"})
}
