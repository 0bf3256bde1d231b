package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"voip-metrics-service/internal/sharedstate/core/domain"
	"voip-metrics-service/internal/sharedstate/core/ports"

	"github.com/lib/pq"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type StateRepository struct {
	db DB
}

func NewStateRepository(db DB) *StateRepository {
	return &StateRepository{db: db}
}

var _ ports.StateRepositoryPort = (*StateRepository)(nil)

const insertStateSQL = `
INSERT INTO shared_state (id, state, created_at)
VALUES ($1, $2, $3)`

const selectStateSQL = `
SELECT state, created_at
FROM shared_state
WHERE id = $1`

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

func (r *StateRepository) Save(ctx context.Context, s *domain.State) error {
	_, err := r.db.ExecContext(ctx, insertStateSQL, s.ID, string(s.Payload), s.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ports.ErrDuplicateID
		}
		return err
	}
	return nil
}

func (r *StateRepository) Load(ctx context.Context, id string) (*domain.State, error) {
	rows, err := r.db.QueryContext(ctx, selectStateSQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var (
		payload   []byte
		createdAt time.Time
	)
	if err := rows.Scan(&payload, &createdAt); err != nil {
		return nil, err
	}
	return &domain.State{ID: id, Payload: payload, CreatedAt: createdAt.UTC()}, nil
}
