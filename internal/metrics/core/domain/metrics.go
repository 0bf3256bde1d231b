package domain

import "time"

// RawRow is one call-detail aggregation row as stored in the source table.
// Numeric columns are nullable; nil is read as zero by the aggregator.
type RawRow struct {
	Time        time.Time // zero when missing or unparsable
	Customer    string
	Supplier    string
	Destination string

	Seconds      *int64
	Success      *int64 // start_nuber
	Attempts     *int64 // start_attempt
	UniqAttempts *int64 // start_uniq_attempt
	AnswerTime   *float64
	PDD          *float64 // milliseconds
}

// MetricRow is a derived metric row. Time and Slot are set only for
// hourly and five-minute rows, Peer is empty for main rows.
type MetricRow struct {
	Main        string
	Peer        string
	Destination string
	Time        string // "YYYY-MM-DD HH:MM"
	Slot        string // "HH:MM"

	Min   float64
	TCall int64
	SCall int64
	ASR   float64
	ACD   float64
	PDD   float64
	ATime float64
}

// Totals summarises a whole row set.
type Totals struct {
	Min   float64 `json:"Min"`
	ACD   float64 `json:"ACD"`
	ASR   float64 `json:"ASR"`
	PDD   float64 `json:"PDD"`
	ATime float64 `json:"ATime"`
	SCall int64   `json:"SCall"`
	TCall int64   `json:"TCall"`
	UCall int64   `json:"UCall"`
}

// Report is the day-over-day comparison for one filter window.
type Report struct {
	Today       Totals
	Yesterday   Totals
	MainRows    []EnrichedRow
	PeerRows    []EnrichedRow
	HourlyRows  []EnrichedRow
	FiveMinRows []EnrichedRow
	Labels      Labels
	Skipped     int
}

// RowPage is one cursor window over raw rows, newest first.
type RowPage struct {
	Rows       []RawRow
	NextCursor *string
	PrevCursor *string
}
