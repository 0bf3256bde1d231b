package fiber

// CreateRecordRequest is one CDR rollup row.
// @Description Record creation DTO
type CreateRecordRequest struct {
	Time             string   `json:"time" example:"2024-05-01T10:05:00Z"`
	Customer         string   `json:"customer" example:"acme"`
	Supplier         string   `json:"supplier" example:"carrier"`
	Destination      string   `json:"destination" example:"DE"`
	Seconds          *int64   `json:"seconds"`
	StartNuber       *int64   `json:"start_nuber"`
	StartAttempt     *int64   `json:"start_attempt"`
	StartUniqAttempt *int64   `json:"start_uniq_attempt"`
	AnswerTime       *float64 `json:"answer_time"`
	PDD              *float64 `json:"pdd"`
}

type CreateRecordResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type BulkCreateRecordsRequest struct {
	Records []CreateRecordRequest `json:"records"`
}

type BulkCreateRecordsResponse struct {
	Created int     `json:"created"`
	IDs     []int64 `json:"ids"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_record"`
	Message string `json:"message" example:"customer, supplier, destination and time are required"`
}
