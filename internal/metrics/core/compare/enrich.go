// Package compare joins today's metric rows with yesterday's.
package compare

import (
	"strings"
	"time"

	"voip-metrics-service/internal/metrics/core/domain"
	"voip-metrics-service/internal/metrics/core/formula"
)

const labelLayout = "2006-01-02 15:04"

// Enrich attaches yesterday's values and deltas to every row of today.
// Rows only present yesterday are not emitted.
func Enrich(today, yesterday []domain.MetricRow, keys ...domain.KeyField) []domain.EnrichedRow {
	prev := make(map[string]domain.MetricRow, len(yesterday))
	for _, r := range yesterday {
		prev[project(r, keys)] = r
	}

	out := make([]domain.EnrichedRow, 0, len(today))
	for _, cur := range today {
		y := prev[project(cur, keys)]
		out = append(out, domain.EnrichedRow{
			Main:        cur.Main,
			Peer:        cur.Peer,
			Destination: cur.Destination,
			Time:        cur.Time,
			Slot:        cur.Slot,

			Min:      cur.Min,
			YMin:     y.Min,
			MinDelta: formula.DeltaPercent(cur.Min, y.Min),

			ACD:      cur.ACD,
			YACD:     y.ACD,
			ACDDelta: formula.DeltaPercent(cur.ACD, y.ACD),

			ASR:      cur.ASR,
			YASR:     y.ASR,
			ASRDelta: formula.DeltaPercent(cur.ASR, y.ASR),

			PDD:      cur.PDD,
			YPDD:     y.PDD,
			PDDDelta: formula.DeltaPercent(cur.PDD, y.PDD),

			ATime:      cur.ATime,
			YATime:     y.ATime,
			ATimeDelta: formula.DeltaPercent(cur.ATime, y.ATime),

			SCall:      cur.SCall,
			YSCall:     y.SCall,
			SCallDelta: formula.DeltaPercent(float64(cur.SCall), float64(y.SCall)),

			TCall:      cur.TCall,
			YTCall:     y.TCall,
			TCallDelta: formula.DeltaPercent(float64(cur.TCall), float64(y.TCall)),
		})
	}
	return out
}

func project(r domain.MetricRow, keys []domain.KeyField) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(k.Value(r))
	}
	return b.String()
}

// ShiftTime moves the bucket label of every row by d so that yesterday's
// buckets line up with today's on the time key. Rows whose label does
// not parse are returned unchanged.
func ShiftTime(rows []domain.MetricRow, d time.Duration) []domain.MetricRow {
	out := make([]domain.MetricRow, len(rows))
	for i, r := range rows {
		if ts, err := time.Parse(labelLayout, r.Time); err == nil {
			r.Time = ts.Add(d).Format(labelLayout)
		}
		out[i] = r
	}
	return out
}
