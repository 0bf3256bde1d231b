package domain

// KeyField names one component of the composite join key.
type KeyField int

const (
	FieldMain KeyField = iota
	FieldPeer
	FieldDestination
	FieldTime
)

// Value projects the field out of a row.
func (f KeyField) Value(r MetricRow) string {
	switch f {
	case FieldMain:
		return r.Main
	case FieldPeer:
		return r.Peer
	case FieldDestination:
		return r.Destination
	case FieldTime:
		return r.Time
	default:
		return ""
	}
}

// Standard join keys used by the report.
var (
	MainKey = []KeyField{FieldMain, FieldDestination}
	PeerKey = []KeyField{FieldMain, FieldPeer, FieldDestination}
	TimeKey = []KeyField{FieldMain, FieldPeer, FieldDestination, FieldTime}
)

// EnrichedRow is a MetricRow joined with yesterday's values for the
// same key. Y-prefixed fields hold yesterday, *Delta the percent change.
type EnrichedRow struct {
	Main        string `json:"main"`
	Peer        string `json:"peer,omitempty"`
	Destination string `json:"destination"`
	Time        string `json:"time,omitempty"`
	Slot        string `json:"slot,omitempty"`

	Min      float64 `json:"Min"`
	YMin     float64 `json:"YMin"`
	MinDelta float64 `json:"Min_delta"`

	ACD      float64 `json:"ACD"`
	YACD     float64 `json:"YACD"`
	ACDDelta float64 `json:"ACD_delta"`

	ASR      float64 `json:"ASR"`
	YASR     float64 `json:"YASR"`
	ASRDelta float64 `json:"ASR_delta"`

	PDD      float64 `json:"PDD"`
	YPDD     float64 `json:"YPDD"`
	PDDDelta float64 `json:"PDD_delta"`

	ATime      float64 `json:"ATime"`
	YATime     float64 `json:"YATime"`
	ATimeDelta float64 `json:"ATime_delta"`

	SCall      int64   `json:"SCall"`
	YSCall     int64   `json:"YSCall"`
	SCallDelta float64 `json:"SCall_delta"`

	TCall      int64   `json:"TCall"`
	YTCall     int64   `json:"YTCall"`
	TCallDelta float64 `json:"TCall_delta"`
}
