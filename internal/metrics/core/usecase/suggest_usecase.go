package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voip-metrics-service/internal/metrics/core/ports"
)

var ErrInvalidSuggestKind = errors.New("invalid suggest kind")

const (
	DefaultSuggestLimit = 20
	MaxSuggestLimit     = 100
)

type SuggestInput struct {
	Kind   string
	Prefix string
	Limit  int
}

type SuggestUseCase struct {
	reader ports.SuggestReader
}

func NewSuggestUseCase(reader ports.SuggestReader) *SuggestUseCase {
	return &SuggestUseCase{reader: reader}
}

// Execute lists distinct customer, supplier or destination names that
// start with the prefix.
func (uc *SuggestUseCase) Execute(ctx context.Context, in SuggestInput) ([]string, error) {
	kind := ports.SuggestKind(strings.ToLower(strings.TrimSpace(in.Kind)))
	switch kind {
	case ports.SuggestCustomer, ports.SuggestSupplier, ports.SuggestDestination:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSuggestKind, in.Kind)
	}

	limit := in.Limit
	if limit == 0 {
		limit = DefaultSuggestLimit
	}
	if limit < 1 || limit > MaxSuggestLimit {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidLimit, MaxSuggestLimit)
	}

	out, err := uc.reader.Suggest(ctx, kind, strings.TrimSpace(in.Prefix), limit)
	if err != nil {
		return nil, fmt.Errorf("suggest %s: %w", kind, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
