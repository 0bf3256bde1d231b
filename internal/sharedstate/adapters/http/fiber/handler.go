package fiber

import (
	"context"
	"errors"
	"net/http"

	"voip-metrics-service/internal/sharedstate/core/domain"
	"voip-metrics-service/internal/sharedstate/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type SharedStateUseCase interface {
	Save(ctx context.Context, payload []byte) (string, error)
	Load(ctx context.Context, id string) (*domain.State, error)
}

type StateHandler struct {
	uc SharedStateUseCase
}

func NewStateHandler(uc SharedStateUseCase) *StateHandler {
	return &StateHandler{uc: uc}
}

type SaveStateResponse struct {
	ID string `json:"id" example:"aB3dE6gH"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_state"`
	Message string `json:"message,omitempty" example:"state must be a JSON object"`
}

// SaveState godoc
// @Summary Save a UI state behind a short link
// @Tags State
// @Accept json
// @Produce json
// @Param request body object true "Any JSON object"
// @Success 201 {object} SaveStateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/state [post]
func (h *StateHandler) SaveState(c *fiber.Ctx) error {
	id, err := h.uc.Save(c.UserContext(), c.Body())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(SaveStateResponse{ID: id})
}

// LoadState godoc
// @Summary Load a saved UI state
// @Tags State
// @Produce json
// @Param id path string true "Short id"
// @Success 200 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/state/{id} [get]
func (h *StateHandler) LoadState(c *fiber.Ctx) error {
	s, err := h.uc.Load(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(http.StatusOK).Send(s.Payload)
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidState):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_state", Message: err.Error()})
	case errors.Is(err, usecase.ErrInvalidID):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_id", Message: err.Error()})
	case errors.Is(err, usecase.ErrStateNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{Error: "not_found", Message: err.Error()})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: "internal_server_error"})
	}
}
