package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"voip-metrics-service/internal/cache"
	"voip-metrics-service/internal/metrics/core/domain"
	"voip-metrics-service/internal/metrics/core/ports"
	"voip-metrics-service/internal/metrics/core/usecase"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

func rawRow(ts time.Time, seconds, success, attempts int64) domain.RawRow {
	return domain.RawRow{
		Time:         ts,
		Customer:     "acme",
		Supplier:     "carrier",
		Destination:  "DE",
		Seconds:      i64(seconds),
		Success:      i64(success),
		Attempts:     i64(attempts),
		UniqAttempts: i64(attempts),
		PDD:          f64(2000),
		AnswerTime:   f64(30),
	}
}

// fakeRowSource answers by window start so today and yesterday can be told apart.
type fakeRowSource struct {
	mu      sync.Mutex
	FetchFn func(ctx context.Context, f ports.RowFilter) ([]domain.RawRow, error)
	filters []ports.RowFilter
}

func (f *fakeRowSource) FetchRows(ctx context.Context, flt ports.RowFilter) ([]domain.RawRow, error) {
	f.mu.Lock()
	f.filters = append(f.filters, flt)
	f.mu.Unlock()
	if f.FetchFn != nil {
		return f.FetchFn(ctx, flt)
	}
	return nil, nil
}

func (f *fakeRowSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.filters)
}

var (
	dayStart = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	dayEnd   = time.Date(2024, 5, 2, 23, 59, 59, 0, time.UTC)
)

func twoDaySource() *fakeRowSource {
	return &fakeRowSource{
		FetchFn: func(ctx context.Context, f ports.RowFilter) ([]domain.RawRow, error) {
			if f.From.Equal(dayStart) {
				return []domain.RawRow{rawRow(dayStart.Add(10*time.Hour), 600, 10, 20)}, nil
			}
			return []domain.RawRow{rawRow(dayStart.Add(-14*time.Hour), 300, 5, 10)}, nil
		},
	}
}

// ------------------------------------------------------------
// SUCCESS
// ------------------------------------------------------------

func TestGetMetrics_ComparesWithYesterday(t *testing.T) {
	src := twoDaySource()
	uc := usecase.NewGetMetricsUseCase(src, usecase.ReportConfig{Logger: quietLog})

	out, err := uc.Execute(context.Background(), usecase.GetMetricsInput{
		Customer: "acme",
		From:     dayStart,
		To:       dayEnd,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.calls() != 2 {
		t.Fatalf("expected 2 fetches, got %d", src.calls())
	}
	for _, f := range src.filters {
		if f.Customer != "acme" {
			t.Fatalf("expected customer filter to be forwarded, got %+v", f)
		}
		if !f.From.Equal(dayStart) && !f.From.Equal(dayStart.Add(-24*time.Hour)) {
			t.Fatalf("unexpected window: %+v", f)
		}
	}

	if out.Today.Min != 10 || out.Yesterday.Min != 5 {
		t.Fatalf("unexpected totals: today=%+v yesterday=%+v", out.Today, out.Yesterday)
	}

	if len(out.MainRows) != 1 {
		t.Fatalf("expected 1 main row, got %d", len(out.MainRows))
	}
	m := out.MainRows[0]
	if m.Main != "acme" || m.Destination != "DE" || m.Peer != "" {
		t.Fatalf("unexpected main key: %+v", m)
	}
	if m.Min != 10 || m.YMin != 5 || m.MinDelta != 100 {
		t.Fatalf("unexpected main minutes: %+v", m)
	}
	if m.ASR != 50 || m.YASR != 50 || m.ASRDelta != 0 {
		t.Fatalf("unexpected main ASR: %+v", m)
	}

	if len(out.PeerRows) != 1 || out.PeerRows[0].Peer != "carrier" {
		t.Fatalf("unexpected peer rows: %+v", out.PeerRows)
	}

	// yesterday's 10:00 bucket lines up with today's 10:00 bucket
	if len(out.HourlyRows) != 1 {
		t.Fatalf("expected 1 hourly row, got %d", len(out.HourlyRows))
	}
	h := out.HourlyRows[0]
	if h.Time != "2024-05-02 10:00" || h.Slot != "10:00" || h.YMin != 5 || h.YSCall != 5 {
		t.Fatalf("unexpected hourly row: %+v", h)
	}
	// the default granularity fills both time series
	if len(out.FiveMinRows) != 1 {
		t.Fatalf("expected 1 five minute row, got %d", len(out.FiveMinRows))
	}
	if f := out.FiveMinRows[0]; f.Time != "2024-05-02 10:00" || f.YMin != 5 {
		t.Fatalf("unexpected five minute row: %+v", f)
	}

	if len(out.Labels.ASR) != 1 || len(out.Labels.ASR[0].Values) != 1 || out.Labels.ASR[0].Values[0] != 50 {
		t.Fatalf("unexpected ASR labels: %+v", out.Labels.ASR)
	}
}

func TestGetMetrics_FiveMinuteGranularity(t *testing.T) {
	uc := usecase.NewGetMetricsUseCase(twoDaySource(), usecase.ReportConfig{Logger: quietLog})

	out, err := uc.Execute(context.Background(), usecase.GetMetricsInput{
		From:        dayStart,
		To:          dayEnd,
		Granularity: usecase.Granularity5m,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.HourlyRows) != 0 || len(out.FiveMinRows) != 1 {
		t.Fatalf("expected only five minute rows, got hourly=%d five=%d", len(out.HourlyRows), len(out.FiveMinRows))
	}
	if out.FiveMinRows[0].YTCall != 10 {
		t.Fatalf("expected yesterday's bucket to join, got %+v", out.FiveMinRows[0])
	}
}

func TestGetMetrics_ReverseSwapsMainAndPeer(t *testing.T) {
	uc := usecase.NewGetMetricsUseCase(twoDaySource(), usecase.ReportConfig{Logger: quietLog})

	out, err := uc.Execute(context.Background(), usecase.GetMetricsInput{
		From:    dayStart,
		To:      dayEnd,
		Reverse: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.MainRows[0].Main != "carrier" || out.PeerRows[0].Peer != "acme" {
		t.Fatalf("expected supplier as main, got %+v / %+v", out.MainRows[0], out.PeerRows[0])
	}
}

func TestGetMetrics_ReportsSkippedRows(t *testing.T) {
	src := &fakeRowSource{
		FetchFn: func(ctx context.Context, f ports.RowFilter) ([]domain.RawRow, error) {
			return []domain.RawRow{{Customer: "acme"}}, nil
		},
	}
	skipped := 0
	uc := usecase.NewGetMetricsUseCase(src, usecase.ReportConfig{
		Logger:        quietLog,
		OnRowsSkipped: func(n int) { skipped += n },
	})

	out, err := uc.Execute(context.Background(), usecase.GetMetricsInput{From: dayStart, To: dayEnd})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Skipped != 2 || skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got report=%d hook=%d", out.Skipped, skipped)
	}
}

// ------------------------------------------------------------
// CACHE
// ------------------------------------------------------------

func TestGetMetrics_ServesFromCache(t *testing.T) {
	src := twoDaySource()
	c := cache.New[*domain.Report]("report", time.Minute, 0, nil)
	uc := usecase.NewGetMetricsUseCase(src, usecase.ReportConfig{Cache: c, Logger: quietLog})

	in := usecase.GetMetricsInput{From: dayStart, To: dayEnd}
	first, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.calls() != 2 {
		t.Fatalf("expected the second call to be cached, got %d fetches", src.calls())
	}
	if first != second {
		t.Fatalf("expected the cached report to be returned")
	}

	c.InvalidatePrefix(usecase.ReportCachePrefix)
	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.calls() != 4 {
		t.Fatalf("expected a refetch after invalidation, got %d fetches", src.calls())
	}
}

// ------------------------------------------------------------
// VALIDATION ERRORS
// ------------------------------------------------------------

func TestGetMetrics_InvalidTimeRange(t *testing.T) {
	src := &fakeRowSource{}
	uc := usecase.NewGetMetricsUseCase(src, usecase.ReportConfig{Logger: quietLog})

	cases := []usecase.GetMetricsInput{
		{},
		{From: dayStart},
		{From: dayEnd, To: dayStart},
		{From: dayStart, To: dayStart},
	}
	for _, in := range cases {
		_, err := uc.Execute(context.Background(), in)
		if !errors.Is(err, usecase.ErrInvalidTimeRange) {
			t.Fatalf("expected ErrInvalidTimeRange for %+v, got %v", in, err)
		}
	}
	if src.calls() != 0 {
		t.Fatalf("source must not be called on validation errors")
	}
}

func TestGetMetrics_GranularityIsNormalized(t *testing.T) {
	uc := usecase.NewGetMetricsUseCase(twoDaySource(), usecase.ReportConfig{Logger: quietLog})

	cases := []struct {
		in         string
		wantHourly int
		wantFive   int
	}{
		{"5M", 0, 1},
		{" both ", 1, 1},
		{"1H", 1, 0},
	}
	for _, tc := range cases {
		out, err := uc.Execute(context.Background(), usecase.GetMetricsInput{
			From:        dayStart,
			To:          dayEnd,
			Granularity: tc.in,
		})
		if err != nil {
			t.Fatalf("granularity %q: unexpected error: %v", tc.in, err)
		}
		if len(out.HourlyRows) != tc.wantHourly || len(out.FiveMinRows) != tc.wantFive {
			t.Fatalf("granularity %q: got %d hourly and %d five minute rows",
				tc.in, len(out.HourlyRows), len(out.FiveMinRows))
		}
	}
}

func TestGetMetrics_InvalidGranularity(t *testing.T) {
	src := &fakeRowSource{}
	uc := usecase.NewGetMetricsUseCase(src, usecase.ReportConfig{Logger: quietLog})

	_, err := uc.Execute(context.Background(), usecase.GetMetricsInput{
		From:        dayStart,
		To:          dayEnd,
		Granularity: "15m",
	})
	if !errors.Is(err, usecase.ErrInvalidGranularity) {
		t.Fatalf("expected ErrInvalidGranularity, got %v", err)
	}
	if src.calls() != 0 {
		t.Fatalf("source must not be called on validation errors")
	}
}

// ------------------------------------------------------------
// SOURCE ERROR
// ------------------------------------------------------------

func TestGetMetrics_SourceError(t *testing.T) {
	backendErr := errors.New("db down")
	src := &fakeRowSource{
		FetchFn: func(ctx context.Context, f ports.RowFilter) ([]domain.RawRow, error) {
			return nil, backendErr
		},
	}
	c := cache.New[*domain.Report]("report", time.Minute, 0, nil)
	uc := usecase.NewGetMetricsUseCase(src, usecase.ReportConfig{Cache: c, Logger: quietLog})

	_, err := uc.Execute(context.Background(), usecase.GetMetricsInput{From: dayStart, To: dayEnd})
	if !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("failed reports must not be cached")
	}
}
