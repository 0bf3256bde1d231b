package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
)

const (
	LimiterAPI     = "api"
	LimiterGeneral = "general"
)

type Config struct {
	APILimit        int           // requests per window under /api/
	GeneralLimit    int           // requests per window elsewhere
	Window          time.Duration
	CleanupInterval time.Duration
	MaxAge          time.Duration
	SkipPaths       []string // exact paths or prefixes ending in "/"
	Clock           clockwork.Clock
	Logger          *slog.Logger
	OnReject        func(limiter string)
}

func (c *Config) withDefaults() {
	if c.APILimit <= 0 {
		c.APILimit = 60
	}
	if c.GeneralLimit <= 0 {
		c.GeneralLimit = 100
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = 5 * time.Minute
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 5 * time.Minute
	}
	if c.SkipPaths == nil {
		c.SkipPaths = []string{"/health", "/health/", "/metrics"}
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// RateLimitResponse is the body of a 429 reply.
type RateLimitResponse struct {
	Error      string `json:"error" example:"rate_limit_exceeded"`
	Message    string `json:"message" example:"Too many requests. Please slow down."`
	RetryAfter int    `json:"retry_after" example:"60"`
}

// Limiter applies a stricter limit to API routes than to the rest.
type Limiter struct {
	cfg     Config
	api     *SlidingWindowCounter
	general *SlidingWindowCounter

	// retryAfter is the window length in whole seconds, rounded up
	retryAfter int

	mu          sync.Mutex
	lastCleanup time.Time
}

func New(cfg Config) *Limiter {
	cfg.withDefaults()
	return &Limiter{
		cfg:         cfg,
		api:         NewSlidingWindowCounter(cfg.Window, cfg.APILimit, cfg.Clock),
		general:     NewSlidingWindowCounter(cfg.Window, cfg.GeneralLimit, cfg.Clock),
		retryAfter:  max(1, int(math.Ceil(cfg.Window.Seconds()))),
		lastCleanup: cfg.Clock.Now(),
	}
}

func (l *Limiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if l.skip(path) {
			return c.Next()
		}

		l.maybeCleanup()

		name, counter := LimiterGeneral, l.general
		if strings.HasPrefix(path, "/api/") {
			name, counter = LimiterAPI, l.api
		}

		key := ClientKey(c)
		allowed, remaining := counter.IsAllowed(key)

		c.Set("X-RateLimit-Limit", strconv.Itoa(counter.Max()))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			l.cfg.Logger.Warn("rate limit exceeded", "client", key, "path", path, "limiter", name)
			if l.cfg.OnReject != nil {
				l.cfg.OnReject(name)
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(l.retryAfter))
			return c.Status(http.StatusTooManyRequests).JSON(RateLimitResponse{
				Error:      "rate_limit_exceeded",
				Message:    "Too many requests. Please slow down.",
				RetryAfter: l.retryAfter,
			})
		}

		return c.Next()
	}
}

func (l *Limiter) skip(path string) bool {
	for _, p := range l.cfg.SkipPaths {
		if path == p || (strings.HasSuffix(p, "/") && strings.HasPrefix(path, p)) {
			return true
		}
	}
	return false
}

func (l *Limiter) maybeCleanup() {
	now := l.cfg.Clock.Now()

	l.mu.Lock()
	if now.Sub(l.lastCleanup) < l.cfg.CleanupInterval {
		l.mu.Unlock()
		return
	}
	l.lastCleanup = now
	l.mu.Unlock()

	removed := l.api.Cleanup(l.cfg.MaxAge) + l.general.Cleanup(l.cfg.MaxAge)
	if removed > 0 {
		l.cfg.Logger.Debug("rate limiter cleanup", "removed", removed)
	}
}

// ClientKey identifies the caller: first X-Forwarded-For entry, then
// X-Real-IP, then the peer address.
func ClientKey(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(c.Get("X-Real-IP")); real != "" {
		return real
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}
