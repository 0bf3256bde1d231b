package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"voip-metrics-service/internal/cache"
	"voip-metrics-service/internal/metrics/core/cursor"
	"voip-metrics-service/internal/metrics/core/domain"
	"voip-metrics-service/internal/metrics/core/ports"
)

var (
	ErrInvalidLimit  = errors.New("invalid limit")
	ErrInvalidCursor = cursor.ErrInvalidCursor
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000

	PageCachePrefix = "page:"
)

type ListRowsInput struct {
	Customer    string
	Supplier    string
	Destination string
	From        time.Time // optional
	To          time.Time // optional
	Limit       int
	NextCursor  string
	PrevCursor  string
}

type PageCache interface {
	Get(key string) (*domain.RowPage, bool)
	Set(key string, p *domain.RowPage)
}

type ListRowsUseCase struct {
	reader ports.PageReader
	cache  PageCache
}

// NewListRowsUseCase; cache may be nil.
func NewListRowsUseCase(reader ports.PageReader, cache PageCache) *ListRowsUseCase {
	return &ListRowsUseCase{reader: reader, cache: cache}
}

// Execute returns one page of raw rows, newest first. A next cursor walks
// towards older rows and a prev cursor back towards newer ones; when both
// are given the next cursor wins.
func (uc *ListRowsUseCase) Execute(ctx context.Context, in ListRowsInput) (*domain.RowPage, error) {
	if in.Limit == 0 {
		in.Limit = DefaultPageLimit
	}
	if in.Limit < 1 || in.Limit > MaxPageLimit {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidLimit, MaxPageLimit)
	}
	if !in.From.IsZero() && !in.To.IsZero() && !in.To.After(in.From) {
		return nil, ErrInvalidTimeRange
	}

	q := ports.PageQuery{
		Filter: ports.RowFilter{
			Customer:    in.Customer,
			Supplier:    in.Supplier,
			Destination: in.Destination,
			From:        in.From,
			To:          in.To,
		},
		Limit: in.Limit,
	}

	backwards := false
	switch {
	case in.NextCursor != "":
		t, err := cursor.Decode(in.NextCursor)
		if err != nil {
			return nil, err
		}
		q.Before = &t
	case in.PrevCursor != "":
		t, err := cursor.Decode(in.PrevCursor)
		if err != nil {
			return nil, err
		}
		q.After = &t
		backwards = true
	}

	key := cache.Key(PageCachePrefix, in)
	if uc.cache != nil {
		if p, ok := uc.cache.Get(key); ok {
			return p, nil
		}
	}

	rows, err := uc.reader.FetchPage(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	if backwards {
		slices.Reverse(rows)
	}
	if rows == nil {
		rows = []domain.RawRow{}
	}

	page := &domain.RowPage{Rows: rows}
	if len(rows) > 0 {
		page.NextCursor = cursor.EncodePtr(rows[len(rows)-1].Time)
		page.PrevCursor = cursor.EncodePtr(rows[0].Time)
	}

	if uc.cache != nil {
		uc.cache.Set(key, page)
	}
	return page, nil
}
