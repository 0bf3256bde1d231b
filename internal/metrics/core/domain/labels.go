package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// LabelBucket holds the deduplicated values for one bucket center.
type LabelBucket struct {
	TS     int64 // bucket center, epoch seconds
	Values []float64
}

// LabelSeries is ordered by TS ascending and marshals as a JSON object
// keyed by the epoch-second string, preserving numeric key order.
type LabelSeries []LabelBucket

func (s LabelSeries) Get(ts string) ([]float64, bool) {
	n, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, false
	}
	for _, b := range s {
		if b.TS == n {
			return b.Values, true
		}
	}
	return nil, false
}

func (s LabelSeries) Keys() []string {
	out := make([]string, 0, len(s))
	for _, b := range s {
		out = append(out, strconv.FormatInt(b.TS, 10))
	}
	return out
}

func (s LabelSeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.FormatInt(b.TS, 10)))
		buf.WriteByte(':')
		vals := b.Values
		if vals == nil {
			vals = []float64{}
		}
		enc, err := json.Marshal(vals)
		if err != nil {
			return nil, err
		}
		buf.Write(enc)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Labels are the chart axis labels for ASR and ACD.
type Labels struct {
	ASR LabelSeries `json:"ASR"`
	ACD LabelSeries `json:"ACD"`
}
