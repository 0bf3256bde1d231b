package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voip-metrics-service/internal/observability"
	"voip-metrics-service/internal/resilience"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	app := fiber.New()
	app.Use(observability.Middleware())
	app.Get("/api/things/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusTeapot) })

	before := testutil.ToFloat64(observability.HTTPRequestsTotal.WithLabelValues("GET", "/api/things/:id", "418"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/things/42", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", resp.StatusCode)
	}

	after := testutil.ToFloat64(observability.HTTPRequestsTotal.WithLabelValues("GET", "/api/things/:id", "418"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestMiddleware_ErrorStatus(t *testing.T) {
	app := fiber.New()
	app.Use(observability.Middleware())
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusBadGateway, "upstream") })

	before := testutil.ToFloat64(observability.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "502"))
	if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil)); err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	after := testutil.ToFloat64(observability.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "502"))
	if after-before != 1 {
		t.Fatalf("expected 502 to be recorded, got delta %v", after-before)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	observability.ObserveBreaker("postgres", resilience.StateClosed, resilience.StateOpen)
	observability.ObserveCache("report", true)

	app := fiber.New()
	app.Get("/metrics", observability.Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`voip_metrics_circuit_breaker_state{name="postgres"} 1`,
		`voip_metrics_cache_requests_total{cache="report",result="hit"}`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected exposition to contain %q", want)
		}
	}
}
