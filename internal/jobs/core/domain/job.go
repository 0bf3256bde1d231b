package domain

import "time"

type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
	StatusFailed     Status = "failed"
)

// ReportParams asks for a report over the last Hours hours.
type ReportParams struct {
	Customer string `json:"customer,omitempty"`
	Supplier string `json:"supplier,omitempty"`
	Hours    int    `json:"hours"`
}

// Job is an immutable snapshot; every status change stores a new value.
type Job struct {
	ID         string
	Status     Status
	Params     ReportParams
	Result     any
	Error      string
	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}

type Stats struct {
	Queued   int64 `json:"queued"`
	Started  int64 `json:"started"`
	Finished int64 `json:"finished"`
	Failed   int64 `json:"failed"`
}
