package fiber

import (
	"errors"
	"net/http"
	"time"

	"voip-metrics-service/internal/jobs/core/domain"
	"voip-metrics-service/internal/jobs/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type ReportQueue interface {
	Enqueue(p domain.ReportParams) (string, error)
	Get(id string) (*domain.Job, error)
	Stats() domain.Stats
}

type JobHandler struct {
	queue ReportQueue
}

func NewJobHandler(queue ReportQueue) *JobHandler {
	return &JobHandler{queue: queue}
}

type EnqueueReportRequest struct {
	Customer string `json:"customer" example:"acme"`
	Supplier string `json:"supplier" example:"carrier-1"`
	Hours    int    `json:"hours" example:"24"`
}

type EnqueueReportResponse struct {
	TaskID string `json:"task_id" example:"0b9d7d1e-4a8e-4f61-9a55-0c8f3c8b9a11"`
}

type JobResponse struct {
	TaskID     string     `json:"task_id"`
	Status     string     `json:"status" example:"complete"`
	Result     any        `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"hours must be between 1 and 168"`
}

// EnqueueReport godoc
// @Summary Queue a background report
// @Description Builds the comparison report for the last N hours on a worker pool.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body EnqueueReportRequest true "Report parameters"
// @Success 202 {object} EnqueueReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/jobs/report [post]
func (h *JobHandler) EnqueueReport(c *fiber.Ctx) error {
	var req EnqueueReportRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_json", Message: err.Error()})
		}
	}

	id, err := h.queue.Enqueue(domain.ReportParams{
		Customer: req.Customer,
		Supplier: req.Supplier,
		Hours:    req.Hours,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusAccepted).JSON(EnqueueReportResponse{TaskID: id})
}

// GetJob godoc
// @Summary Get the status of a background report
// @Tags Jobs
// @Produce json
// @Param id path string true "Task id"
// @Success 200 {object} JobResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/jobs/{id} [get]
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	j, err := h.queue.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(JobResponse{
		TaskID:     j.ID,
		Status:     string(j.Status),
		Result:     j.Result,
		Error:      j.Error,
		CreatedAt:  j.CreatedAt,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
	})
}

// Stats godoc
// @Summary Job counters
// @Tags Jobs
// @Produce json
// @Success 200 {object} domain.Stats
// @Router /api/jobs/stats [get]
func (h *JobHandler) Stats(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(h.queue.Stats())
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidHours):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_request", Message: err.Error()})
	case errors.Is(err, usecase.ErrJobNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, usecase.ErrQueueClosed):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{Error: "unavailable", Message: err.Error()})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: "internal_server_error"})
	}
}
