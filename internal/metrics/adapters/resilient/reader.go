// Package resilient guards a row backend with a circuit breaker, retries
// and a per-attempt timeout.
package resilient

import (
	"context"
	"time"

	"voip-metrics-service/internal/metrics/core/domain"
	"voip-metrics-service/internal/metrics/core/ports"
	"voip-metrics-service/internal/resilience"
)

type Backend interface {
	ports.RowSource
	ports.PageReader
	ports.SuggestReader
}

type Options struct {
	Breaker *resilience.Breaker
	Retry   resilience.RetryPolicy
	// Timeout bounds each attempt. Zero disables it.
	Timeout time.Duration
}

type Reader struct {
	backend Backend
	opts    Options
}

func NewReader(backend Backend, opts Options) *Reader {
	return &Reader{backend: backend, opts: opts}
}

func (r *Reader) FetchRows(ctx context.Context, f ports.RowFilter) ([]domain.RawRow, error) {
	return guard(ctx, r.opts, func(ctx context.Context) ([]domain.RawRow, error) {
		return r.backend.FetchRows(ctx, f)
	})
}

func (r *Reader) FetchPage(ctx context.Context, q ports.PageQuery) ([]domain.RawRow, error) {
	return guard(ctx, r.opts, func(ctx context.Context) ([]domain.RawRow, error) {
		return r.backend.FetchPage(ctx, q)
	})
}

func (r *Reader) Suggest(ctx context.Context, kind ports.SuggestKind, prefix string, limit int) ([]string, error) {
	return guard(ctx, r.opts, func(ctx context.Context) ([]string, error) {
		return r.backend.Suggest(ctx, kind, prefix, limit)
	})
}

// guard counts one breaker outcome per call, after retries are spent.
func guard[T any](ctx context.Context, o Options, fn func(ctx context.Context) (T, error)) (T, error) {
	attempt := fn
	if o.Timeout > 0 {
		attempt = func(ctx context.Context) (T, error) {
			return resilience.WithTimeout(ctx, o.Timeout, fn)
		}
	}
	retried := func(ctx context.Context) (T, error) {
		return resilience.Retry(ctx, o.Retry, attempt)
	}
	if o.Breaker == nil {
		return retried(ctx)
	}
	return resilience.Execute(ctx, o.Breaker, retried)
}
