// Package labels derives compact chart labels from time-bucketed rows.
package labels

import (
	"log/slog"
	"slices"
	"time"

	"voip-metrics-service/internal/metrics/core/domain"
	"voip-metrics-service/internal/metrics/core/formula"

	"github.com/shopspring/decimal"
)

type Granularity string

const (
	FiveMinutes Granularity = "5m"
	Hourly      Granularity = "1h"
)

// Step is the bucket width in milliseconds. Unknown values mean hourly.
func (g Granularity) Step() int64 {
	if g == FiveMinutes {
		return (5 * time.Minute).Milliseconds()
	}
	return time.Hour.Milliseconds()
}

// clusterGap is the widest distance between neighbours in one cluster.
var clusterGap = decimal.RequireFromString("0.1")

var timeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

type peerKey struct {
	center int64
	peer   string
}

type acc struct {
	asr, acd decimal.Decimal
	n        int64
}

// Build groups rows by bucket center and peer, averages each peer and
// merges near-identical peer averages within a bucket.
func Build(rows []domain.MetricRow, g Granularity, log *slog.Logger) domain.Labels {
	if log == nil {
		log = slog.Default()
	}
	step := g.Step()

	perPeer := make(map[peerKey]*acc)
	for _, r := range rows {
		if r.Peer == "" {
			log.Debug("label row without peer skipped", "time", r.Time)
			continue
		}
		ts, ok := parseTime(r.Time)
		if !ok {
			log.Debug("label row with unparsable time skipped", "time", r.Time, "peer", r.Peer)
			continue
		}

		k := peerKey{center: center(ts.UnixMilli(), step), peer: r.Peer}
		a, ok := perPeer[k]
		if !ok {
			a = &acc{}
			perPeer[k] = a
		}
		a.asr = a.asr.Add(formula.Dec(r.ASR))
		a.acd = a.acd.Add(formula.Dec(r.ACD))
		a.n++
	}

	asr := make(map[int64][]decimal.Decimal)
	acd := make(map[int64][]decimal.Decimal)
	for k, a := range perPeer {
		n := decimal.NewFromInt(a.n)
		asr[k.center] = append(asr[k.center], a.asr.Div(n))
		acd[k.center] = append(acd[k.center], a.acd.Div(n))
	}

	return domain.Labels{
		ASR: series(asr),
		ACD: series(acd),
	}
}

func series(byCenter map[int64][]decimal.Decimal) domain.LabelSeries {
	centers := make([]int64, 0, len(byCenter))
	for c := range byCenter {
		centers = append(centers, c)
	}
	slices.Sort(centers)

	out := make(domain.LabelSeries, 0, len(centers))
	for _, c := range centers {
		out = append(out, domain.LabelBucket{
			TS:     floorDiv(c, 1000),
			Values: Dedupe(byCenter[c]),
		})
	}
	return out
}

// Dedupe sorts values and merges neighbours at most 0.1 apart. Each
// cluster is reported as its mean rounded to one decimal.
func Dedupe(values []decimal.Decimal) []float64 {
	if len(values) == 0 {
		return []float64{}
	}
	sorted := slices.Clone(values)
	slices.SortFunc(sorted, decimal.Decimal.Cmp)

	var out []float64
	cluster := []decimal.Decimal{sorted[0]}
	for _, v := range sorted[1:] {
		last := cluster[len(cluster)-1]
		if v.Sub(last).Abs().LessThanOrEqual(clusterGap) {
			cluster = append(cluster, v)
			continue
		}
		out = append(out, mean(cluster))
		cluster = []decimal.Decimal{v}
	}
	return append(out, mean(cluster))
}

func mean(vs []decimal.Decimal) float64 {
	sum := decimal.Zero
	for _, v := range vs {
		sum = sum.Add(v)
	}
	return formula.Round1(sum.Div(decimal.NewFromInt(int64(len(vs)))))
}

func center(tsMs, step int64) int64 {
	return floorDiv(tsMs, step)*step + step/2
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
