// Package aggregate groups raw rows into per-key sums in a single pass
// and derives metric rows from them.
package aggregate

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"voip-metrics-service/internal/metrics/core/domain"
)

// Unit selects which time-bucketed maps are built.
type Unit uint8

const (
	UnitHour Unit = 1 << iota
	UnitFiveMinute

	UnitNone Unit = 0
	UnitBoth      = UnitHour | UnitFiveMinute
)

const (
	hourLayout = "2006-01-02 15:00"
	minLayout  = "2006-01-02 15:04"
)

// Key is the composite grouping key. Unused parts stay empty.
type Key struct {
	Main        string
	Peer        string
	Destination string
	Time        string
}

func (k Key) compare(o Key) int {
	return cmp.Or(
		cmp.Compare(k.Time, o.Time),
		cmp.Compare(k.Main, o.Main),
		cmp.Compare(k.Peer, o.Peer),
		cmp.Compare(k.Destination, o.Destination),
	)
}

type Options struct {
	// Reverse swaps the grouping so supplier is the main dimension.
	Reverse bool
	Units   Unit
	Logger  *slog.Logger
}

type Result struct {
	Main       map[Key]*Bucket
	Peer       map[Key]*Bucket
	Hourly     map[Key]*Bucket // nil unless UnitHour was requested
	FiveMinute map[Key]*Bucket // nil unless UnitFiveMinute was requested
	Total      Bucket
	Skipped    int
}

// Aggregate accumulates rows into main, peer and the requested time
// buckets. Rows without a usable time are skipped and counted.
func Aggregate(rows []domain.RawRow, opts Options) *Result {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	res := &Result{
		Main: make(map[Key]*Bucket),
		Peer: make(map[Key]*Bucket),
	}
	if opts.Units&UnitHour != 0 {
		res.Hourly = make(map[Key]*Bucket)
	}
	if opts.Units&UnitFiveMinute != 0 {
		res.FiveMinute = make(map[Key]*Bucket)
	}

	for i := range rows {
		r := rows[i]
		if r.Time.IsZero() {
			res.Skipped++
			log.Warn("skipping row without valid time",
				"index", i, "customer", r.Customer, "supplier", r.Supplier)
			continue
		}

		main, peer := r.Customer, r.Supplier
		if opts.Reverse {
			main, peer = r.Supplier, r.Customer
		}

		add(res.Peer, Key{Main: main, Peer: peer, Destination: r.Destination}, r)
		add(res.Main, Key{Main: main, Destination: r.Destination}, r)
		res.Total.Add(r)

		ts := r.Time.UTC()
		if res.Hourly != nil {
			add(res.Hourly, Key{Main: main, Peer: peer, Destination: r.Destination, Time: HourLabel(ts)}, r)
		}
		if res.FiveMinute != nil {
			add(res.FiveMinute, Key{Main: main, Peer: peer, Destination: r.Destination, Time: FiveMinuteLabel(ts)}, r)
		}
	}

	return res
}

func add(m map[Key]*Bucket, k Key, r domain.RawRow) {
	b, ok := m[k]
	if !ok {
		b = &Bucket{}
		m[k] = b
	}
	b.Add(r)
}

// HourLabel truncates to the hour: "YYYY-MM-DD HH:00".
func HourLabel(t time.Time) string {
	return t.UTC().Format(hourLayout)
}

// FiveMinuteLabel floors the minute to a multiple of five.
func FiveMinuteLabel(t time.Time) string {
	t = t.UTC()
	floored := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()-t.Minute()%5, 0, 0, time.UTC)
	return floored.Format(minLayout)
}

func (r *Result) MainRows() []domain.MetricRow       { return rowsOf(r.Main) }
func (r *Result) PeerRows() []domain.MetricRow       { return rowsOf(r.Peer) }
func (r *Result) HourlyRows() []domain.MetricRow     { return rowsOf(r.Hourly) }
func (r *Result) FiveMinuteRows() []domain.MetricRow { return rowsOf(r.FiveMinute) }

func (r *Result) Totals() domain.Totals {
	return r.Total.Totals()
}

// rowsOf derives metric rows sorted by time then key, for stable output.
func rowsOf(m map[Key]*Bucket) []domain.MetricRow {
	if m == nil {
		return nil
	}
	keys := make([]Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, Key.compare)

	out := make([]domain.MetricRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k].Metrics(k))
	}
	return out
}
