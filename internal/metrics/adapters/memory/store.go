// Package memory keeps raw rows in process with the same filter semantics
// as the Postgres adapter. The usecase tests run against it.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"voip-metrics-service/internal/metrics/core/domain"
	"voip-metrics-service/internal/metrics/core/ports"
)

type Store struct {
	mu   sync.RWMutex
	rows []domain.RawRow
}

func NewStore(rows ...domain.RawRow) *Store {
	s := &Store{}
	s.Add(rows...)
	return s
}

func (s *Store) Add(rows ...domain.RawRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func (s *Store) FetchRows(ctx context.Context, f ports.RowFilter) ([]domain.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := s.match(f)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func (s *Store) FetchPage(ctx context.Context, q ports.PageQuery) ([]domain.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := s.match(q.Filter)

	var out []domain.RawRow
	if q.After != nil {
		for _, r := range rows {
			if r.Time.After(*q.After) {
				out = append(out, r)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	} else {
		for _, r := range rows {
			if q.Before == nil || r.Time.Before(*q.Before) {
				out = append(out, r)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Time.After(out[j].Time) })
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) Suggest(ctx context.Context, kind ports.SuggestKind, prefix string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	p := strings.ToLower(prefix)
	for _, r := range s.rows {
		var v string
		switch kind {
		case ports.SuggestCustomer:
			v = r.Customer
		case ports.SuggestSupplier:
			v = r.Supplier
		case ports.SuggestDestination:
			v = r.Destination
		}
		if v != "" && strings.HasPrefix(strings.ToLower(v), p) {
			seen[v] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) match(f ports.RowFilter) []domain.RawRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.RawRow
	for _, r := range s.rows {
		if !f.From.IsZero() && r.Time.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && r.Time.After(f.To) {
			continue
		}
		if !matches(f.Customer, r.Customer) || !matches(f.Supplier, r.Supplier) || !matches(f.Destination, r.Destination) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matches mirrors the SQL adapter: patterns with % or _ behave like ILIKE,
// anything else is an exact comparison.
func matches(filter, value string) bool {
	if filter == "" {
		return true
	}
	if !strings.ContainsAny(filter, "%_") {
		return filter == value
	}
	return like(strings.ToLower(filter), strings.ToLower(value))
}

func like(pattern, s string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '%':
			pattern = pattern[1:]
			if pattern == "" {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if like(pattern, s[i:]) {
					return true
				}
			}
			return false
		case '_':
			if s == "" {
				return false
			}
			_, size := utf8.DecodeRuneInString(s)
			pattern, s = pattern[1:], s[size:]
		default:
			if s == "" || s[0] != pattern[0] {
				return false
			}
			pattern, s = pattern[1:], s[1:]
		}
	}
	return s == ""
}
