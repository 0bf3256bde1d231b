package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voip-metrics-service/internal/cache"
	"voip-metrics-service/internal/metrics/core/aggregate"
	"voip-metrics-service/internal/metrics/core/compare"
	"voip-metrics-service/internal/metrics/core/domain"
	"voip-metrics-service/internal/metrics/core/labels"
	"voip-metrics-service/internal/metrics/core/ports"

	"github.com/alitto/pond/v2"
)

var (
	ErrInvalidTimeRange   = errors.New("invalid time range")
	ErrInvalidGranularity = errors.New("invalid granularity")
)

const (
	Granularity5m   = "5m"
	Granularity1h   = "1h"
	GranularityBoth = "both"

	// ReportCachePrefix prefixes every cached report key.
	ReportCachePrefix = "report:"

	comparisonOffset = 24 * time.Hour
)

type GetMetricsInput struct {
	Customer    string
	Supplier    string
	Destination string
	From        time.Time
	To          time.Time
	Reverse     bool
	Granularity string // "5m", "1h" or "both" (default)
}

type ReportCache interface {
	Get(key string) (*domain.Report, bool)
	Set(key string, r *domain.Report)
}

type ReportConfig struct {
	// Pool runs the today and yesterday fetches side by side.
	Pool   pond.ResultPool[[]domain.RawRow]
	Cache  ReportCache // optional
	Logger *slog.Logger
	// OnRowsSkipped is told how many rows were dropped for bad data.
	OnRowsSkipped func(n int)
}

type GetMetricsUseCase struct {
	source ports.RowSource
	cfg    ReportConfig
}

func NewGetMetricsUseCase(source ports.RowSource, cfg ReportConfig) *GetMetricsUseCase {
	if cfg.Pool == nil {
		cfg.Pool = pond.NewResultPool[[]domain.RawRow](2)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &GetMetricsUseCase{source: source, cfg: cfg}
}

// Execute validates the input, fetches today's window and the same window
// one day earlier, and assembles the comparison report.
func (uc *GetMetricsUseCase) Execute(ctx context.Context, in GetMetricsInput) (*domain.Report, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	key := cache.Key(ReportCachePrefix, in)
	if uc.cfg.Cache != nil {
		if r, ok := uc.cfg.Cache.Get(key); ok {
			return r, nil
		}
	}

	today := ports.RowFilter{
		Customer:    in.Customer,
		Supplier:    in.Supplier,
		Destination: in.Destination,
		From:        in.From,
		To:          in.To,
	}
	yesterday := today
	yesterday.From = in.From.Add(-comparisonOffset)
	yesterday.To = in.To.Add(-comparisonOffset)

	group := uc.cfg.Pool.NewGroupContext(ctx)
	for _, f := range []ports.RowFilter{today, yesterday} {
		group.SubmitErr(func() ([]domain.RawRow, error) {
			return uc.source.FetchRows(ctx, f)
		})
	}

	results, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}

	report := uc.build(results[0], results[1], in)

	if uc.cfg.Cache != nil {
		uc.cfg.Cache.Set(key, report)
	}
	return report, nil
}

func (uc *GetMetricsUseCase) build(todayRows, yesterdayRows []domain.RawRow, in GetMetricsInput) *domain.Report {
	opts := aggregate.Options{
		Reverse: in.Reverse,
		Units:   unitsFor(in.Granularity),
		Logger:  uc.cfg.Logger,
	}
	t := aggregate.Aggregate(todayRows, opts)
	y := aggregate.Aggregate(yesterdayRows, opts)

	skipped := t.Skipped + y.Skipped
	if skipped > 0 {
		uc.cfg.Logger.Warn("rows skipped while aggregating", "count", skipped)
		if uc.cfg.OnRowsSkipped != nil {
			uc.cfg.OnRowsSkipped(skipped)
		}
	}

	report := &domain.Report{
		Today:     t.Totals(),
		Yesterday: y.Totals(),
		MainRows:  compare.Enrich(t.MainRows(), y.MainRows(), domain.MainKey...),
		PeerRows:  compare.Enrich(t.PeerRows(), y.PeerRows(), domain.PeerKey...),
		HourlyRows: compare.Enrich(t.HourlyRows(),
			compare.ShiftTime(y.HourlyRows(), comparisonOffset), domain.TimeKey...),
		FiveMinRows: compare.Enrich(t.FiveMinuteRows(),
			compare.ShiftTime(y.FiveMinuteRows(), comparisonOffset), domain.TimeKey...),
		Skipped: skipped,
	}

	if in.Granularity == Granularity5m {
		report.Labels = labels.Build(t.FiveMinuteRows(), labels.FiveMinutes, uc.cfg.Logger)
	} else {
		report.Labels = labels.Build(t.HourlyRows(), labels.Hourly, uc.cfg.Logger)
	}
	return report
}

func normalize(in GetMetricsInput) (GetMetricsInput, error) {
	if in.From.IsZero() || in.To.IsZero() || !in.To.After(in.From) {
		return in, ErrInvalidTimeRange
	}
	in.From = in.From.UTC()
	in.To = in.To.UTC()

	in.Granularity = strings.ToLower(strings.TrimSpace(in.Granularity))
	switch in.Granularity {
	case "":
		in.Granularity = GranularityBoth
	case Granularity5m, Granularity1h, GranularityBoth:
	default:
		return in, fmt.Errorf("%w: %q", ErrInvalidGranularity, in.Granularity)
	}
	return in, nil
}

func unitsFor(g string) aggregate.Unit {
	switch g {
	case Granularity5m:
		return aggregate.UnitFiveMinute
	case GranularityBoth:
		return aggregate.UnitBoth
	default:
		return aggregate.UnitHour
	}
}
