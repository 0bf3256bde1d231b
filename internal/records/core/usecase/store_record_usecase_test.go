package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"voip-metrics-service/internal/records/core/domain"
	"voip-metrics-service/internal/records/core/usecase"

	"github.com/jonboulle/clockwork"
)

// Fake repository implementing RecordRepositoryPort
type fakeRecordRepo struct {
	InsertFn func(ctx context.Context, recs []*domain.Record) ([]int64, error)
	DeleteFn func(ctx context.Context, id int64) (bool, error)

	inserted [][]*domain.Record
	deleted  []int64
}

func (f *fakeRecordRepo) InsertRecords(ctx context.Context, recs []*domain.Record) ([]int64, error) {
	f.inserted = append(f.inserted, recs)
	if f.InsertFn != nil {
		return f.InsertFn(ctx, recs)
	}
	ids := make([]int64, len(recs))
	for i := range recs {
		ids[i] = int64(i + 1)
	}
	return ids, nil
}

func (f *fakeRecordRepo) DeleteRecord(ctx context.Context, id int64) (bool, error) {
	f.deleted = append(f.deleted, id)
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return true, nil
}

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func i64(v int64) *int64 { return &v }

func validInput() usecase.StoreRecordInput {
	return usecase.StoreRecordInput{
		Time:        now.Add(-time.Hour),
		Customer:    "acme",
		Supplier:    "carrier",
		Destination: "DE",
		Seconds:     i64(600),
		Success:     i64(10),
		Attempts:    i64(20),
	}
}

func newUC(repo *fakeRecordRepo, hooks ...func()) *usecase.StoreRecordUseCase {
	return usecase.NewStoreRecordUseCase(repo, clockwork.NewFakeClockAt(now), quietLog, hooks...)
}

// ------------------------------------------------------------
// SUCCESS
// ------------------------------------------------------------

func TestStoreRecord_Success(t *testing.T) {
	repo := &fakeRecordRepo{
		InsertFn: func(ctx context.Context, recs []*domain.Record) ([]int64, error) {
			return []int64{42}, nil
		},
	}
	invalidated := 0
	uc := newUC(repo, func() { invalidated++ })

	id, err := uc.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
	if len(repo.inserted) != 1 || len(repo.inserted[0]) != 1 {
		t.Fatalf("expected one insert with one record, got %+v", repo.inserted)
	}
	rec := repo.inserted[0][0]
	if rec.Customer != "acme" || *rec.Seconds != 600 || rec.PDD != nil {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if invalidated != 1 {
		t.Fatalf("expected caches to be invalidated once, got %d", invalidated)
	}
}

func TestStoreRecord_TimeIsNormalisedToUTC(t *testing.T) {
	repo := &fakeRecordRepo{}
	uc := newUC(repo)

	in := validInput()
	in.Time = in.Time.In(time.FixedZone("TRT", 3*3600))
	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.inserted[0][0].Time.Location() != time.UTC {
		t.Fatalf("expected UTC time, got %s", repo.inserted[0][0].Time.Location())
	}
}

// ------------------------------------------------------------
// VALIDATION ERRORS
// ------------------------------------------------------------

func TestStoreRecord_ValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(in *usecase.StoreRecordInput)
		want   error
	}{
		{"missing customer", func(in *usecase.StoreRecordInput) { in.Customer = "" }, usecase.ErrInvalidRecord},
		{"missing supplier", func(in *usecase.StoreRecordInput) { in.Supplier = "" }, usecase.ErrInvalidRecord},
		{"missing destination", func(in *usecase.StoreRecordInput) { in.Destination = "" }, usecase.ErrInvalidRecord},
		{"missing time", func(in *usecase.StoreRecordInput) { in.Time = time.Time{} }, usecase.ErrInvalidRecord},
		{"future time", func(in *usecase.StoreRecordInput) { in.Time = now.Add(time.Minute) }, usecase.ErrFutureTime},
		{"negative seconds", func(in *usecase.StoreRecordInput) { in.Seconds = i64(-1) }, usecase.ErrNegativeValue},
		{"negative pdd", func(in *usecase.StoreRecordInput) { v := -0.5; in.PDD = &v }, usecase.ErrNegativeValue},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			repo := &fakeRecordRepo{}
			uc := newUC(repo)

			in := validInput()
			c.mutate(&in)

			_, err := uc.Execute(context.Background(), in)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
			if len(repo.inserted) != 0 {
				t.Fatalf("repository must not be called on validation errors")
			}
		})
	}
}

// ------------------------------------------------------------
// REPOSITORY ERROR
// ------------------------------------------------------------

func TestStoreRecord_RepoError(t *testing.T) {
	repoErr := errors.New("db down")
	repo := &fakeRecordRepo{
		InsertFn: func(ctx context.Context, recs []*domain.Record) ([]int64, error) {
			return nil, repoErr
		},
	}
	invalidated := 0
	uc := newUC(repo, func() { invalidated++ })

	if _, err := uc.Execute(context.Background(), validInput()); !errors.Is(err, repoErr) {
		t.Fatalf("expected repo error, got %v", err)
	}
	if invalidated != 0 {
		t.Fatalf("caches must not be invalidated when the write fails")
	}
}

// ------------------------------------------------------------
// DELETE
// ------------------------------------------------------------

func TestDeleteRecord(t *testing.T) {
	repo := &fakeRecordRepo{}
	invalidated := 0
	uc := newUC(repo, func() { invalidated++ })

	if err := uc.DeleteRecord(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 7 || invalidated != 1 {
		t.Fatalf("unexpected delete state: deleted=%v invalidated=%d", repo.deleted, invalidated)
	}
}

func TestDeleteRecord_NotFound(t *testing.T) {
	repo := &fakeRecordRepo{
		DeleteFn: func(ctx context.Context, id int64) (bool, error) { return false, nil },
	}
	invalidated := 0
	uc := newUC(repo, func() { invalidated++ })

	if err := uc.DeleteRecord(context.Background(), 7); !errors.Is(err, usecase.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if invalidated != 0 {
		t.Fatalf("nothing was written, caches must stay")
	}
}

func TestDeleteRecord_InvalidID(t *testing.T) {
	repo := &fakeRecordRepo{}
	uc := newUC(repo)

	if err := uc.DeleteRecord(context.Background(), 0); !errors.Is(err, usecase.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("repository must not be called")
	}
}
