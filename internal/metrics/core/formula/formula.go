// Package formula holds the arithmetic every report figure goes through.
// All functions are total: a zero denominator yields 0, NaN and Inf
// inputs count as 0. Results are rounded to one decimal, half away
// from zero, on exact decimal values.
package formula

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	sixty   = decimal.NewFromInt(60)
	hundred = decimal.NewFromInt(100)
	milli   = decimal.NewFromInt(1000)
)

// Dec converts a float to a decimal, mapping NaN and Inf to zero.
func Dec(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(d decimal.Decimal) float64 {
	f, _ := d.Round(1).Float64()
	return f
}

func ratio(num, den decimal.Decimal) (decimal.Decimal, bool) {
	if den.IsZero() {
		return decimal.Zero, false
	}
	return num.Div(den), true
}

// Minutes converts call seconds to minutes.
func Minutes(seconds float64) float64 {
	return Round1(Dec(seconds).Div(sixty))
}

// ACD is the average call duration in minutes.
func ACD(seconds, success float64) float64 {
	r, ok := ratio(Dec(seconds), Dec(success))
	if !ok {
		return 0
	}
	return Round1(r.Div(sixty))
}

// ASR is the answer seizure ratio in percent, capped at 100.
func ASR(success, attempts float64) float64 {
	r, ok := ratio(Dec(success), Dec(attempts))
	if !ok {
		return 0
	}
	return math.Min(100, Round1(r.Mul(hundred)))
}

// PDD converts a millisecond post-dial delay total to average seconds.
func PDD(totalMs, divisor float64) float64 {
	return PDDWeighted(Dec(totalMs), divisor)
}

// PDDWeighted takes a numerator already weighted as Σ pdd·weight.
func PDDWeighted(weightedMs decimal.Decimal, weight float64) float64 {
	r, ok := ratio(weightedMs, Dec(weight))
	if !ok {
		return 0
	}
	return Round1(r.Div(milli))
}

// ATime is the average answer time in seconds.
func ATime(total, divisor float64) float64 {
	return ATimeWeighted(Dec(total), divisor)
}

func ATimeWeighted(weighted decimal.Decimal, weight float64) float64 {
	r, ok := ratio(weighted, Dec(weight))
	if !ok {
		return 0
	}
	return Round1(r)
}

// DeltaPercent is the percent change from previous to current.
// A zero previous value reports 100 for any growth and 0 otherwise.
func DeltaPercent(current, previous float64) float64 {
	c, p := Dec(current), Dec(previous)
	if p.IsZero() {
		if c.IsPositive() {
			return 100
		}
		return 0
	}
	return Round1(c.Sub(p).Div(p).Mul(hundred))
}
