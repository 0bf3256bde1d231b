package resilience

import (
	"slices"
	"strings"
	"sync"
)

// Registry hands out one breaker per dependency name. Breakers created
// through it share the defaults given at construction.
type Registry struct {
	defaults BreakerConfig

	mu       sync.Mutex
	breakers map[string]*Breaker
}

func NewRegistry(defaults BreakerConfig) *Registry {
	return &Registry{
		defaults: defaults,
		breakers: make(map[string]*Breaker),
	}
}

func (r *Registry) Get(name string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.breakers[name]; ok {
		return b
	}
	cfg := r.defaults
	cfg.Name = name
	b := NewBreaker(cfg)
	r.breakers[name] = b
	return b
}

// Reset closes the named breaker. It reports false for unknown names.
func (r *Registry) Reset(name string) bool {
	r.mu.Lock()
	b, ok := r.breakers[name]
	r.mu.Unlock()
	if !ok {
		return false
	}
	b.Reset()
	return true
}

func (r *Registry) ResetAll() {
	for _, b := range r.all() {
		b.Reset()
	}
}

// Snapshots returns the state of every breaker sorted by name.
func (r *Registry) Snapshots() []Snapshot {
	all := r.all()
	out := make([]Snapshot, 0, len(all))
	for _, b := range all {
		out = append(out, b.Snapshot())
	}
	return out
}

func (r *Registry) all() []*Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Breaker, 0, len(r.breakers))
	for _, b := range r.breakers {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b *Breaker) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}
