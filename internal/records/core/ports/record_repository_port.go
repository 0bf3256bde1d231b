package ports

import (
	"context"

	"voip-metrics-service/internal/records/core/domain"
)

type RecordRepositoryPort interface {
	// InsertRecords stores all records atomically and returns their ids in
	// input order.
	InsertRecords(ctx context.Context, recs []*domain.Record) ([]int64, error)
	// DeleteRecord reports false when no row had the id.
	DeleteRecord(ctx context.Context, id int64) (bool, error)
}
