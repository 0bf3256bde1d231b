package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"voip-metrics-service/internal/records/core/domain"
	"voip-metrics-service/internal/records/core/ports"

	"github.com/jonboulle/clockwork"
)

var (
	ErrInvalidRecord  = errors.New("invalid record")
	ErrFutureTime     = errors.New("timestamp cannot be in the future")
	ErrNegativeValue  = errors.New("counts and durations cannot be negative")
	ErrEmptyBatch     = errors.New("records list is empty")
	ErrRecordNotFound = errors.New("record not found")
)

type StoreRecordInput struct {
	Time        time.Time
	Customer    string
	Supplier    string
	Destination string

	Seconds      *int64
	Success      *int64
	Attempts     *int64
	UniqAttempts *int64
	AnswerTime   *float64
	PDD          *float64
}

type BulkCreateRecordsResult struct {
	Created int
	IDs     []int64
}

type StoreRecordUseCase struct {
	repo    ports.RecordRepositoryPort
	clock   clockwork.Clock
	log     *slog.Logger
	onWrite []func()
}

// NewStoreRecordUseCase; onWrite hooks run after every successful write,
// typically to drop cached reports built from the old data.
func NewStoreRecordUseCase(repo ports.RecordRepositoryPort, clock clockwork.Clock, log *slog.Logger, onWrite ...func()) *StoreRecordUseCase {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &StoreRecordUseCase{repo: repo, clock: clock, log: log, onWrite: onWrite}
}

func (uc *StoreRecordUseCase) Execute(ctx context.Context, in StoreRecordInput) (int64, error) {
	res, err := uc.BulkCreateRecords(ctx, []StoreRecordInput{in})
	if err != nil {
		return 0, err
	}
	return res.IDs[0], nil
}

// BulkCreateRecords validates every record before inserting any of them.
func (uc *StoreRecordUseCase) BulkCreateRecords(ctx context.Context, in []StoreRecordInput) (BulkCreateRecordsResult, error) {
	var res BulkCreateRecordsResult
	if len(in) == 0 {
		return res, ErrEmptyBatch
	}

	now := uc.clock.Now()
	recs := make([]*domain.Record, 0, len(in))
	for i, r := range in {
		if err := validate(r, now); err != nil {
			if len(in) > 1 {
				return res, fmt.Errorf("record %d: %w", i, err)
			}
			return res, err
		}
		recs = append(recs, &domain.Record{
			Time:         r.Time.UTC(),
			Customer:     r.Customer,
			Supplier:     r.Supplier,
			Destination:  r.Destination,
			Seconds:      r.Seconds,
			Success:      r.Success,
			Attempts:     r.Attempts,
			UniqAttempts: r.UniqAttempts,
			AnswerTime:   r.AnswerTime,
			PDD:          r.PDD,
		})
	}

	ids, err := uc.repo.InsertRecords(ctx, recs)
	if err != nil {
		return res, fmt.Errorf("insert records: %w", err)
	}

	uc.written()
	uc.log.Info("records stored", "count", len(ids))

	res.Created = len(ids)
	res.IDs = ids
	return res, nil
}

func (uc *StoreRecordUseCase) DeleteRecord(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidRecord)
	}

	found, err := uc.repo.DeleteRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	if !found {
		return ErrRecordNotFound
	}

	uc.written()
	uc.log.Info("record deleted", "id", id)
	return nil
}

func (uc *StoreRecordUseCase) written() {
	for _, fn := range uc.onWrite {
		fn()
	}
}

func validate(in StoreRecordInput, now time.Time) error {
	if in.Customer == "" || in.Supplier == "" || in.Destination == "" || in.Time.IsZero() {
		return fmt.Errorf("%w: customer, supplier, destination and time are required", ErrInvalidRecord)
	}
	if in.Time.After(now) {
		return ErrFutureTime
	}
	for _, v := range []*int64{in.Seconds, in.Success, in.Attempts, in.UniqAttempts} {
		if v != nil && *v < 0 {
			return ErrNegativeValue
		}
	}
	for _, v := range []*float64{in.AnswerTime, in.PDD} {
		if v != nil && *v < 0 {
			return ErrNegativeValue
		}
	}
	return nil
}
