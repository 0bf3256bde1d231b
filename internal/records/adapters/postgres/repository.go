package postgres

import (
	"context"
	"fmt"
	"strings"

	"voip-metrics-service/internal/records/core/domain"
	"voip-metrics-service/internal/records/core/ports"
)

type RecordRepository struct {
	db DB
}

func NewRecordRepository(db DB) *RecordRepository {
	return &RecordRepository{db: db}
}

var _ ports.RecordRepositoryPort = (*RecordRepository)(nil)

const recordColumns = 10

const insertRecordsPrefix = `
INSERT INTO metrics (
    time,
    customer,
    supplier,
    destination,
    seconds,
    start_nuber,
    start_attempt,
    start_uniq_attempt,
    answer_time,
    pdd
) VALUES `

const deleteRecordSQL = `DELETE FROM metrics WHERE id = $1`

// InsertRecords writes the batch as one multi-row statement, so either
// every record lands or none does.
func (r *RecordRepository) InsertRecords(ctx context.Context, recs []*domain.Record) ([]int64, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(insertRecordsPrefix)
	args := make([]any, 0, len(recs)*recordColumns)
	for i, rec := range recs {
		if i > 0 {
			sb.WriteString(",\n    ")
		}
		base := i * recordColumns
		sb.WriteString("(")
		for j := 1; j <= recordColumns; j++ {
			if j > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", base+j)
		}
		sb.WriteString(")")

		args = append(args,
			rec.Time,
			rec.Customer,
			rec.Supplier,
			rec.Destination,
			nullable(rec.Seconds),
			nullable(rec.Success),
			nullable(rec.Attempts),
			nullable(rec.UniqAttempts),
			nullable(rec.AnswerTime),
			nullable(rec.PDD),
		)
	}
	sb.WriteString("\nRETURNING id")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0, len(recs))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) != len(recs) {
		return nil, fmt.Errorf("inserted %d records, got %d ids", len(recs), len(ids))
	}

	for i, rec := range recs {
		rec.ID = ids[i]
	}
	return ids, nil
}

func (r *RecordRepository) DeleteRecord(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteRecordSQL, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// nullable turns a nil pointer into SQL NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
