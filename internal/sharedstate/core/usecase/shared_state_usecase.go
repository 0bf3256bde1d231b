package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"voip-metrics-service/internal/sharedstate/core/domain"
	"voip-metrics-service/internal/sharedstate/core/ports"

	"github.com/jonboulle/clockwork"
)

var (
	ErrInvalidState  = errors.New("state must be a JSON object")
	ErrInvalidID     = errors.New("invalid state id")
	ErrStateNotFound = errors.New("state not found")
)

const saveAttempts = 3

type SharedStateUseCase struct {
	repo  ports.StateRepositoryPort
	clock clockwork.Clock
	log   *slog.Logger
	newID func() (string, error)
}

func NewSharedStateUseCase(repo ports.StateRepositoryPort, clock clockwork.Clock, log *slog.Logger) *SharedStateUseCase {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &SharedStateUseCase{repo: repo, clock: clock, log: log, newID: NewShortID}
}

// Save stores payload under a fresh short id. An id collision is retried
// with a new id a few times before giving up.
func (uc *SharedStateUseCase) Save(ctx context.Context, payload []byte) (string, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return "", ErrInvalidState
	}

	var lastErr error
	for i := 0; i < saveAttempts; i++ {
		id, err := uc.newID()
		if err != nil {
			return "", err
		}

		s := &domain.State{
			ID:        id,
			Payload:   json.RawMessage(trimmed),
			CreatedAt: uc.clock.Now().UTC(),
		}
		err = uc.repo.Save(ctx, s)
		if err == nil {
			uc.log.Info("shared state saved", "id", id, "bytes", len(trimmed))
			return id, nil
		}
		if !errors.Is(err, ports.ErrDuplicateID) {
			return "", fmt.Errorf("save state: %w", err)
		}
		uc.log.Warn("shared state id collision", "id", id)
		lastErr = err
	}
	return "", fmt.Errorf("save state after %d attempts: %w", saveAttempts, lastErr)
}

func (uc *SharedStateUseCase) Load(ctx context.Context, id string) (*domain.State, error) {
	if !validShortID(id) {
		return nil, ErrInvalidID
	}

	s, err := uc.repo.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", id, err)
	}
	if s == nil {
		return nil, ErrStateNotFound
	}
	return s, nil
}
