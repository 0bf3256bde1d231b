package fiber

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"voip-metrics-service/internal/metrics/core/domain"
	"voip-metrics-service/internal/metrics/core/usecase"
	"voip-metrics-service/internal/resilience"
	"voip-metrics-service/internal/timeutil"

	"github.com/gofiber/fiber/v2"
)

type GetMetricsUseCase interface {
	Execute(ctx context.Context, in usecase.GetMetricsInput) (*domain.Report, error)
}

type ListRowsUseCase interface {
	Execute(ctx context.Context, in usecase.ListRowsInput) (*domain.RowPage, error)
}

type SuggestUseCase interface {
	Execute(ctx context.Context, in usecase.SuggestInput) ([]string, error)
}

type MetricsHandler struct {
	report  GetMetricsUseCase
	rows    ListRowsUseCase
	suggest SuggestUseCase
}

func NewMetricsHandler(report GetMetricsUseCase, rows ListRowsUseCase, suggest SuggestUseCase) *MetricsHandler {
	return &MetricsHandler{report: report, rows: rows, suggest: suggest}
}

// GetMetrics godoc
// @Summary Day-over-day call metrics
// @Description Aggregates the window and the same window one day earlier, grouped by main, peer and time bucket
// @Tags Metrics
// @Produce json
// @Param customer query string false "Customer, % and _ act as wildcards"
// @Param supplier query string false "Supplier, % and _ act as wildcards"
// @Param destination query string false "Destination, % and _ act as wildcards"
// @Param from query string true "Window start (RFC3339 or YYYY-MM-DDTHH:MM[:SS] UTC)"
// @Param to query string true "Window end (RFC3339 or YYYY-MM-DDTHH:MM[:SS] UTC)"
// @Param reverse query bool false "Group by supplier instead of customer"
// @Param granularity query string false "5m | 1h | both (default)"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/metrics [get]
func (h *MetricsHandler) GetMetrics(c *fiber.Ctx) error {
	from, err := timeutil.Parse(c.Query("from"))
	if err != nil || from.IsZero() {
		return badRequest(c, "from is required and must be a valid time")
	}
	to, err := timeutil.Parse(c.Query("to"))
	if err != nil || to.IsZero() {
		return badRequest(c, "to is required and must be a valid time")
	}

	in := usecase.GetMetricsInput{
		Customer:    c.Query("customer"),
		Supplier:    c.Query("supplier"),
		Destination: c.Query("destination"),
		From:        from,
		To:          to,
		Reverse:     c.QueryBool("reverse", false),
		Granularity: c.Query("granularity"),
	}

	res, err := h.report.Execute(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(NewReportResponse(res))
}

// GetPage godoc
// @Summary Raw rows with cursor pagination
// @Description Newest first. Follow next_cursor for older rows and prev_cursor for newer ones
// @Tags Metrics
// @Produce json
// @Param customer query string false "Customer"
// @Param supplier query string false "Supplier"
// @Param destination query string false "Destination"
// @Param from query string false "Window start"
// @Param to query string false "Window end"
// @Param limit query int false "Page size, 1..1000" default(100)
// @Param next_cursor query string false "Cursor towards older rows"
// @Param prev_cursor query string false "Cursor towards newer rows"
// @Success 200 {object} PageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/metrics/page [get]
func (h *MetricsHandler) GetPage(c *fiber.Ctx) error {
	from, err := timeutil.Parse(c.Query("from"))
	if err != nil {
		return badRequest(c, "invalid 'from' parameter")
	}
	to, err := timeutil.Parse(c.Query("to"))
	if err != nil {
		return badRequest(c, "invalid 'to' parameter")
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, "invalid 'limit' parameter")
	}

	in := usecase.ListRowsInput{
		Customer:    c.Query("customer"),
		Supplier:    c.Query("supplier"),
		Destination: c.Query("destination"),
		From:        from,
		To:          to,
		Limit:       limit,
		NextCursor:  c.Query("next_cursor"),
		PrevCursor:  c.Query("prev_cursor"),
	}

	page, err := h.rows.Execute(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(toPageResponse(page))
}

// Suggest godoc
// @Summary Autocomplete filter values
// @Tags Metrics
// @Produce json
// @Param kind path string true "customer | supplier | destination"
// @Param q query string false "Prefix"
// @Param limit query int false "Max values, 1..100" default(20)
// @Success 200 {object} SuggestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/suggest/{kind} [get]
func (h *MetricsHandler) Suggest(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, "invalid 'limit' parameter")
	}

	kind := c.Params("kind")
	values, err := h.suggest.Execute(c.UserContext(), usecase.SuggestInput{
		Kind:   kind,
		Prefix: c.Query("q"),
		Limit:  limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(SuggestResponse{Kind: strings.ToLower(kind), Values: values})
}

func writeError(c *fiber.Ctx, err error) error {
	var open *resilience.OpenError
	switch {
	case errors.Is(err, usecase.ErrInvalidTimeRange),
		errors.Is(err, usecase.ErrInvalidGranularity),
		errors.Is(err, usecase.ErrInvalidLimit),
		errors.Is(err, usecase.ErrInvalidCursor),
		errors.Is(err, usecase.ErrInvalidSuggestKind):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	case errors.As(err, &open):
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(open.RetryAfter.Seconds()))))
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "service_unavailable",
			Message: fmt.Sprintf("%s is unavailable, retry later", open.Name),
		})
	case errors.Is(err, resilience.ErrOpen), errors.Is(err, resilience.ErrTimeout):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "service_unavailable",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_query",
		Message: msg,
	})
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
