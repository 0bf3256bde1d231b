package fiber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"voip-metrics-service/internal/records/core/usecase"
	"voip-metrics-service/internal/timeutil"

	"github.com/gofiber/fiber/v2"
)

type StoreRecordUseCase interface {
	Execute(ctx context.Context, in usecase.StoreRecordInput) (int64, error)
	BulkCreateRecords(ctx context.Context, in []usecase.StoreRecordInput) (usecase.BulkCreateRecordsResult, error)
	DeleteRecord(ctx context.Context, id int64) error
}

type RecordHandler struct {
	storeUC StoreRecordUseCase
}

func NewRecordHandler(storeUC StoreRecordUseCase) *RecordHandler {
	return &RecordHandler{storeUC: storeUC}
}

// CreateRecord godoc
// @Summary Create a record
// @Description Stores a single CDR rollup row and invalidates cached reports
// @Tags Records
// @Accept json
// @Produce json
// @Param request body CreateRecordRequest true "Record payload"
// @Success 201 {object} CreateRecordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/records [post]
func (h *RecordHandler) CreateRecord(c *fiber.Ctx) error {
	var req CreateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_json"})
	}

	in, err := toInput(req)
	if err != nil {
		return invalid(c, err)
	}

	id, err := h.storeUC.Execute(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(CreateRecordResponse{ID: id, Status: "created"})
}

// BulkCreateRecords godoc
// @Summary Bulk create records
// @Description Validates every record, then stores them in one statement
// @Tags Records
// @Accept json
// @Produce json
// @Param request body BulkCreateRecordsRequest true "Bulk record payload"
// @Success 201 {object} BulkCreateRecordsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/records/bulk [post]
func (h *RecordHandler) BulkCreateRecords(c *fiber.Ctx) error {
	var req BulkCreateRecordsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_json"})
	}

	if len(req.Records) == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "records_list_required"})
	}

	inputs := make([]usecase.StoreRecordInput, len(req.Records))
	for i, r := range req.Records {
		in, err := toInput(r)
		if err != nil {
			return invalid(c, fmt.Errorf("record %d: %w", i, err))
		}
		inputs[i] = in
	}

	result, err := h.storeUC.BulkCreateRecords(c.UserContext(), inputs)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(BulkCreateRecordsResponse{
		Created: result.Created,
		IDs:     result.IDs,
	})
}

// DeleteRecord godoc
// @Summary Delete a record
// @Tags Records
// @Param id path int true "Record id"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/records/{id} [delete]
func (h *RecordHandler) DeleteRecord(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return invalid(c, errors.New("id must be an integer"))
	}

	if err := h.storeUC.DeleteRecord(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func toInput(r CreateRecordRequest) (usecase.StoreRecordInput, error) {
	ts, err := timeutil.Parse(r.Time)
	if err != nil {
		return usecase.StoreRecordInput{}, err
	}
	return usecase.StoreRecordInput{
		Time:         ts,
		Customer:     r.Customer,
		Supplier:     r.Supplier,
		Destination:  r.Destination,
		Seconds:      r.Seconds,
		Success:      r.StartNuber,
		Attempts:     r.StartAttempt,
		UniqAttempts: r.StartUniqAttempt,
		AnswerTime:   r.AnswerTime,
		PDD:          r.PDD,
	}, nil
}

func invalid(c *fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_record",
		Message: err.Error(),
	})
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidRecord),
		errors.Is(err, usecase.ErrFutureTime),
		errors.Is(err, usecase.ErrNegativeValue),
		errors.Is(err, usecase.ErrEmptyBatch):
		return invalid(c, err)
	case errors.Is(err, usecase.ErrRecordNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
