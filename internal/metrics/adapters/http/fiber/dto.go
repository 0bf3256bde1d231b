package fiber

import (
	"time"

	"voip-metrics-service/internal/metrics/core/domain"
)

type ReportResponse struct {
	TodayMetrics     domain.Totals        `json:"today_metrics"`
	YesterdayMetrics domain.Totals        `json:"yesterday_metrics"`
	MainRows         []domain.EnrichedRow `json:"main_rows"`
	PeerRows         []domain.EnrichedRow `json:"peer_rows"`
	HourlyRows       []domain.EnrichedRow `json:"hourly_rows"`
	FiveMinRows      []domain.EnrichedRow `json:"five_min_rows"`
	Labels           LabelsResponse       `json:"labels"`
}

type LabelsResponse struct {
	ASR domain.LabelSeries `json:"ASR" swaggertype:"object"`
	ACD domain.LabelSeries `json:"ACD" swaggertype:"object"`
}

// RawRowResponse keeps NULL columns as JSON null.
type RawRowResponse struct {
	Time             *time.Time `json:"time"`
	Customer         string     `json:"customer"`
	Supplier         string     `json:"supplier"`
	Destination      string     `json:"destination"`
	Seconds          *int64     `json:"seconds"`
	StartNuber       *int64     `json:"start_nuber"`
	StartAttempt     *int64     `json:"start_attempt"`
	StartUniqAttempt *int64     `json:"start_uniq_attempt"`
	AnswerTime       *float64   `json:"answer_time"`
	PDD              *float64   `json:"pdd"`
}

type PageResponse struct {
	Rows       []RawRowResponse `json:"rows"`
	NextCursor *string          `json:"next_cursor"`
	PrevCursor *string          `json:"prev_cursor"`
}

type SuggestResponse struct {
	Kind   string   `json:"kind" example:"customer"`
	Values []string `json:"values"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message" example:"to must be after from"`
}

// NewReportResponse renders a report in its wire shape.
func NewReportResponse(r *domain.Report) ReportResponse {
	return ReportResponse{
		TodayMetrics:     r.Today,
		YesterdayMetrics: r.Yesterday,
		MainRows:         r.MainRows,
		PeerRows:         r.PeerRows,
		HourlyRows:       r.HourlyRows,
		FiveMinRows:      r.FiveMinRows,
		Labels:           LabelsResponse{ASR: r.Labels.ASR, ACD: r.Labels.ACD},
	}
}

func toRawRowResponse(r domain.RawRow) RawRowResponse {
	out := RawRowResponse{
		Customer:         r.Customer,
		Supplier:         r.Supplier,
		Destination:      r.Destination,
		Seconds:          r.Seconds,
		StartNuber:       r.Success,
		StartAttempt:     r.Attempts,
		StartUniqAttempt: r.UniqAttempts,
		AnswerTime:       r.AnswerTime,
		PDD:              r.PDD,
	}
	if !r.Time.IsZero() {
		t := r.Time.UTC()
		out.Time = &t
	}
	return out
}

func toPageResponse(p *domain.RowPage) PageResponse {
	out := PageResponse{
		Rows:       make([]RawRowResponse, 0, len(p.Rows)),
		NextCursor: p.NextCursor,
		PrevCursor: p.PrevCursor,
	}
	for _, r := range p.Rows {
		out.Rows = append(out.Rows, toRawRowResponse(r))
	}
	return out
}
