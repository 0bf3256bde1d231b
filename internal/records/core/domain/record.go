package domain

import "time"

// Record is one writable CDR rollup row in the metrics table.
type Record struct {
	ID          int64
	Time        time.Time
	Customer    string
	Supplier    string
	Destination string

	Seconds      *int64
	Success      *int64 // start_nuber
	Attempts     *int64 // start_attempt
	UniqAttempts *int64 // start_uniq_attempt
	AnswerTime   *float64
	PDD          *float64
}
