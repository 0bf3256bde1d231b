package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voip-metrics-service/internal/health"
	"voip-metrics-service/internal/resilience"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
)

type fakePinger struct {
	PingFn func(ctx context.Context) error
	called bool
}

func (f *fakePinger) PingContext(ctx context.Context) error {
	f.called = true
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("ping without deadline")
	}
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	return nil
}

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func setupApp(db health.Pinger) (*fiber.App, *resilience.Registry) {
	reg := resilience.NewRegistry(resilience.BreakerConfig{})
	reg.Get("postgres")

	h := health.NewHandler(db, reg, clockwork.NewFakeClockAt(now))
	app := fiber.New()
	app.Get("/health", h.Health)
	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)
	return app, reg
}

func get(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func TestHealth_ReportsBreakers(t *testing.T) {
	app, _ := setupApp(&fakePinger{})

	resp, body := get(t, app, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got health.StatusResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "healthy" || !got.Time.Equal(now) {
		t.Fatalf("unexpected body: %s", body)
	}
	if len(got.CircuitBreakers) != 1 || got.CircuitBreakers[0].Name != "postgres" || got.CircuitBreakers[0].State != "closed" {
		t.Fatalf("unexpected breakers: %+v", got.CircuitBreakers)
	}
}

func TestLive(t *testing.T) {
	db := &fakePinger{}
	app, _ := setupApp(db)

	resp, _ := get(t, app, "/health/live")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if db.called {
		t.Fatalf("liveness must not touch the database")
	}
}

func TestReady(t *testing.T) {
	db := &fakePinger{}
	app, _ := setupApp(db)

	resp, body := get(t, app, "/health/ready")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !db.called {
		t.Fatalf("expected readiness to ping the database")
	}
}

func TestReady_DatabaseDown(t *testing.T) {
	db := &fakePinger{PingFn: func(ctx context.Context) error {
		return errors.New("connection refused")
	}}
	app, _ := setupApp(db)

	resp, body := get(t, app, "/health/ready")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}

	var got health.ReadyResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "not_ready" || got.Error != "connection refused" {
		t.Fatalf("unexpected body: %s", body)
	}
}
