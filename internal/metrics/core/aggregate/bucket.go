package aggregate

import (
	"voip-metrics-service/internal/metrics/core/domain"
	"voip-metrics-service/internal/metrics/core/formula"

	"github.com/shopspring/decimal"
)

// Bucket holds running sums for one composite key. Weighted sums are
// kept as decimals so that adding rows in any order gives the same value.
type Bucket struct {
	Attempts       int64
	UniqAttempts   int64
	Success        int64
	Seconds        int64
	PDDWeighted    decimal.Decimal // Σ pdd·uniq_attempt, ms
	AnswerWeighted decimal.Decimal // Σ answer_time·success, s
}

func (b *Bucket) Add(r domain.RawRow) {
	uniq := intOrZero(r.UniqAttempts)
	success := intOrZero(r.Success)

	b.Attempts += intOrZero(r.Attempts)
	b.UniqAttempts += uniq
	b.Success += success
	b.Seconds += intOrZero(r.Seconds)
	b.PDDWeighted = b.PDDWeighted.Add(floatOrZero(r.PDD).Mul(decimal.NewFromInt(uniq)))
	b.AnswerWeighted = b.AnswerWeighted.Add(floatOrZero(r.AnswerTime).Mul(decimal.NewFromInt(success)))
}

// Merge returns the sum of two buckets.
func (b Bucket) Merge(o Bucket) Bucket {
	return Bucket{
		Attempts:       b.Attempts + o.Attempts,
		UniqAttempts:   b.UniqAttempts + o.UniqAttempts,
		Success:        b.Success + o.Success,
		Seconds:        b.Seconds + o.Seconds,
		PDDWeighted:    b.PDDWeighted.Add(o.PDDWeighted),
		AnswerWeighted: b.AnswerWeighted.Add(o.AnswerWeighted),
	}
}

// Equal compares sums exactly.
func (b Bucket) Equal(o Bucket) bool {
	return b.Attempts == o.Attempts &&
		b.UniqAttempts == o.UniqAttempts &&
		b.Success == o.Success &&
		b.Seconds == o.Seconds &&
		b.PDDWeighted.Equal(o.PDDWeighted) &&
		b.AnswerWeighted.Equal(o.AnswerWeighted)
}

// Metrics derives the report figures for the bucket.
func (b Bucket) Metrics(key Key) domain.MetricRow {
	return domain.MetricRow{
		Main:        key.Main,
		Peer:        key.Peer,
		Destination: key.Destination,
		Time:        key.Time,
		Slot:        slotOf(key.Time),

		Min:   formula.Minutes(float64(b.Seconds)),
		TCall: b.Attempts,
		SCall: b.Success,
		ASR:   formula.ASR(float64(b.Success), float64(b.Attempts)),
		ACD:   formula.ACD(float64(b.Seconds), float64(b.Success)),
		PDD:   formula.PDDWeighted(b.PDDWeighted, float64(b.UniqAttempts)),
		ATime: formula.ATimeWeighted(b.AnswerWeighted, float64(b.Success)),
	}
}

// Totals derives the report summary for the bucket.
func (b Bucket) Totals() domain.Totals {
	return domain.Totals{
		Min:   formula.Minutes(float64(b.Seconds)),
		ACD:   formula.ACD(float64(b.Seconds), float64(b.Success)),
		ASR:   formula.ASR(float64(b.Success), float64(b.Attempts)),
		PDD:   formula.PDDWeighted(b.PDDWeighted, float64(b.UniqAttempts)),
		ATime: formula.ATimeWeighted(b.AnswerWeighted, float64(b.Success)),
		SCall: b.Success,
		TCall: b.Attempts,
		UCall: b.UniqAttempts,
	}
}

func intOrZero(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func floatOrZero(p *float64) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return formula.Dec(*p)
}

// slotOf returns the "HH:MM" part of a bucket label.
func slotOf(label string) string {
	if len(label) < len("2006-01-02 15:04") {
		return ""
	}
	return label[11:16]
}
