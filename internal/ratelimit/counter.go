// Package ratelimit admits requests per client with a sliding-window
// counter: the previous window's count is weighted by how much of it
// still overlaps the sliding window.
package ratelimit

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type window struct {
	prev  int
	curr  int
	start int64 // window index
}

type SlidingWindowCounter struct {
	size  time.Duration
	max   int
	clock clockwork.Clock

	mu      sync.Mutex
	windows map[string]*window
}

func NewSlidingWindowCounter(size time.Duration, maxRequests int, clock clockwork.Clock) *SlidingWindowCounter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if size <= 0 {
		size = time.Minute
	}
	return &SlidingWindowCounter{
		size:    size,
		max:     maxRequests,
		clock:   clock,
		windows: make(map[string]*window),
	}
}

func (c *SlidingWindowCounter) Max() int { return c.max }

// IsAllowed records a request for key and reports whether it is within
// the limit, along with the remaining allowance.
func (c *SlidingWindowCounter) IsAllowed(key string) (bool, int) {
	now := c.clock.Now().UnixNano()
	size := c.size.Nanoseconds()
	current := floorDiv(now, size)

	c.mu.Lock()
	w, ok := c.windows[key]
	switch {
	case !ok:
		w = &window{curr: 1, start: current}
		c.windows[key] = w
	case w.start < current-1:
		w.prev, w.curr, w.start = 0, 1, current
	case w.start < current:
		w.prev, w.curr, w.start = w.curr, 1, current
	default:
		w.curr++
	}
	prev, curr := w.prev, w.curr
	c.mu.Unlock()

	weight := float64(now-current*size) / float64(size)
	weighted := float64(prev)*(1-weight) + float64(curr)

	remaining := int(float64(c.max) - weighted)
	if remaining < 0 {
		remaining = 0
	}
	return weighted <= float64(c.max), remaining
}

// Cleanup drops keys whose last window is older than maxAge and returns
// how many were removed.
func (c *SlidingWindowCounter) Cleanup(maxAge time.Duration) int {
	current := floorDiv(c.clock.Now().UnixNano(), c.size.Nanoseconds())
	maxWindows := int64(maxAge / c.size)

	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, w := range c.windows {
		if current-w.start > maxWindows {
			delete(c.windows, k)
			removed++
		}
	}
	return removed
}

func (c *SlidingWindowCounter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.windows)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
