package ports

import (
	"context"
	"time"

	"voip-metrics-service/internal/metrics/core/domain"
)

// RowFilter narrows the source table. Empty strings mean no filter;
// values containing % or _ are matched as ILIKE patterns.
type RowFilter struct {
	Customer    string
	Supplier    string
	Destination string
	From        time.Time
	To          time.Time
}

// PageQuery selects one window of rows. At most one of Before/After is set.
type PageQuery struct {
	Filter RowFilter
	Limit  int
	Before *time.Time // time < Before, newest first
	After  *time.Time // time > After, oldest first
}

type RowSource interface {
	// FetchRows returns rows within the filter ordered by time ascending.
	FetchRows(ctx context.Context, f RowFilter) ([]domain.RawRow, error)
}

type PageReader interface {
	FetchPage(ctx context.Context, q PageQuery) ([]domain.RawRow, error)
}

type SuggestKind string

const (
	SuggestCustomer    SuggestKind = "customer"
	SuggestSupplier    SuggestKind = "supplier"
	SuggestDestination SuggestKind = "destination"
)

type SuggestReader interface {
	Suggest(ctx context.Context, kind SuggestKind, prefix string, limit int) ([]string, error)
}
