// Package cache wraps ttlcache with hit/miss accounting, hashed keys and
// prefix invalidation.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Observer is told about every lookup.
type Observer func(cache string, hit bool)

type TTL[V any] struct {
	name    string
	ttl     time.Duration
	items   *ttlcache.Cache[string, V]
	observe Observer
}

// New creates a cache whose entries expire ttl after being set. Reads do
// not extend the lifetime of an entry. A zero capacity means unbounded.
func New[V any](name string, ttl time.Duration, capacity uint64, observe Observer) *TTL[V] {
	opts := []ttlcache.Option[string, V]{
		ttlcache.WithTTL[string, V](ttl),
		ttlcache.WithDisableTouchOnHit[string, V](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, V](capacity))
	}
	return &TTL[V]{
		name:    name,
		ttl:     ttl,
		items:   ttlcache.New(opts...),
		observe: observe,
	}
}

func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V
	item := c.items.Get(key)
	hit := item != nil
	if c.observe != nil {
		c.observe(c.name, hit)
	}
	if !hit {
		return zero, false
	}
	return item.Value(), true
}

func (c *TTL[V]) Set(key string, v V) {
	c.items.Set(key, v, ttlcache.DefaultTTL)
}

// InvalidatePrefix removes every key starting with prefix.
func (c *TTL[V]) InvalidatePrefix(prefix string) int {
	removed := 0
	for _, k := range c.items.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.items.Delete(k)
			removed++
		}
	}
	return removed
}

func (c *TTL[V]) Clear() { c.items.DeleteAll() }

func (c *TTL[V]) Len() int { return c.items.Len() }

// Start runs the expiry loop until Stop is called.
func (c *TTL[V]) Start() { go c.items.Start() }

func (c *TTL[V]) Stop() { c.items.Stop() }

// Key derives a stable cache key from prefix and the JSON form of parts.
func Key(prefix string, parts any) string {
	b, err := json.Marshal(parts)
	if err != nil {
		return prefix
	}
	sum := sha256.Sum256(b)
	return prefix + hex.EncodeToString(sum[:])
}
