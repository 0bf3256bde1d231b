package ports

import (
	"context"
	"errors"

	"voip-metrics-service/internal/sharedstate/core/domain"
)

// ErrDuplicateID is returned by Save when the id is already taken.
var ErrDuplicateID = errors.New("state id already exists")

type StateRepositoryPort interface {
	Save(ctx context.Context, s *domain.State) error
	// Load returns nil, nil when no state has the id.
	Load(ctx context.Context, id string) (*domain.State, error)
}
