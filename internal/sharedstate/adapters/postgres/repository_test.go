package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"voip-metrics-service/internal/sharedstate/core/domain"
	"voip-metrics-service/internal/sharedstate/core/ports"

	"github.com/lib/pq"
)

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, errors.New("not implemented") }
func (fakeResult) RowsAffected() (int64, error) { return 1, nil }

type fakeRows struct {
	payload []byte
	created time.Time
	n       int
}

func (f *fakeRows) Next() bool {
	f.n--
	return f.n >= 0
}

func (f *fakeRows) Scan(dest ...any) error {
	if len(dest) != 2 {
		return errors.New("dest length mismatch")
	}
	*dest[0].(*[]byte) = f.payload
	*dest[1].(*time.Time) = f.created
	return nil
}

func (f *fakeRows) Err() error   { return nil }
func (f *fakeRows) Close() error { return nil }

type fakeDB struct {
	ExecFn    func(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryFn   func(ctx context.Context, query string, args ...any) (RowScanner, error)
	lastQuery string
	lastArgs  []any
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.lastQuery, f.lastArgs = query, args
	if f.ExecFn != nil {
		return f.ExecFn(ctx, query, args...)
	}
	return fakeResult{}, nil
}

func (f *fakeDB) QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error) {
	f.lastQuery, f.lastArgs = query, args
	if f.QueryFn != nil {
		return f.QueryFn(ctx, query, args...)
	}
	return &fakeRows{}, nil
}

func TestStateRepository_Save(t *testing.T) {
	db := &fakeDB{}
	repo := NewStateRepository(db)

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := repo.Save(context.Background(), &domain.State{ID: "aB3dE6gH", Payload: []byte(`{"a":1}`), CreatedAt: created})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.lastQuery, "INSERT INTO shared_state") {
		t.Fatalf("unexpected query: %s", db.lastQuery)
	}
	if db.lastArgs[0] != "aB3dE6gH" || db.lastArgs[1] != `{"a":1}` {
		t.Fatalf("unexpected args: %v", db.lastArgs)
	}
}

func TestStateRepository_Save_Duplicate(t *testing.T) {
	db := &fakeDB{ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
		return nil, &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
	}}
	repo := NewStateRepository(db)

	err := repo.Save(context.Background(), &domain.State{ID: "aB3dE6gH", Payload: []byte(`{}`)})
	if !errors.Is(err, ports.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestStateRepository_Load(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{QueryFn: func(ctx context.Context, query string, args ...any) (RowScanner, error) {
		return &fakeRows{payload: []byte(`{"a":1}`), created: created, n: 1}, nil
	}}
	repo := NewStateRepository(db)

	s, err := repo.Load(context.Background(), "aB3dE6gH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == nil || s.ID != "aB3dE6gH" || string(s.Payload) != `{"a":1}` || !s.CreatedAt.Equal(created) {
		t.Fatalf("unexpected state: %+v", s)
	}
}

func TestStateRepository_Load_Missing(t *testing.T) {
	repo := NewStateRepository(&fakeDB{})

	s, err := repo.Load(context.Background(), "aB3dE6gH")
	if err != nil || s != nil {
		t.Fatalf("expected nil, nil for a missing id, got %+v, %v", s, err)
	}
}
