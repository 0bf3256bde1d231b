// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingDSN = errors.New("POSTGRES_DSN is not set")

type Config struct {
	PostgresDSN string
	HTTPAddr    string
	LogLevel    string
	SourceTable string

	ReportCacheTTL time.Duration
	PageCacheTTL   time.Duration

	RateLimitAPI     int
	RateLimitGeneral int
	RateLimitWindow  time.Duration

	BreakerFailureThreshold int
	BreakerRecoveryTimeout  time.Duration
	BreakerSuccessThreshold int

	QueryTimeout   time.Duration
	RetryMax       int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	FetchWorkers int
	JobWorkers   int
	JobResultTTL time.Duration
}

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from environment variables only.
func FromEnv() (*Config, error) {
	p := &parser{}

	cfg := &Config{
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SourceTable: getEnv("SOURCE_TABLE", "sonus_aggregation_new"),

		ReportCacheTTL: p.getDuration("REPORT_CACHE_TTL", 60*time.Second),
		PageCacheTTL:   p.getDuration("PAGE_CACHE_TTL", 30*time.Second),

		RateLimitAPI:     p.getInt("RATE_LIMIT_API", 60),
		RateLimitGeneral: p.getInt("RATE_LIMIT_GENERAL", 100),
		RateLimitWindow:  p.getDuration("RATE_LIMIT_WINDOW", time.Minute),

		BreakerFailureThreshold: p.getInt("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerRecoveryTimeout:  p.getDuration("BREAKER_RECOVERY_TIMEOUT", 30*time.Second),
		BreakerSuccessThreshold: p.getInt("BREAKER_SUCCESS_THRESHOLD", 2),

		QueryTimeout:   p.getDuration("QUERY_TIMEOUT", 10*time.Second),
		RetryMax:       p.getInt("RETRY_MAX", 3),
		RetryBaseDelay: p.getDuration("RETRY_BASE_DELAY", time.Second),
		RetryMaxDelay:  p.getDuration("RETRY_MAX_DELAY", 30*time.Second),

		FetchWorkers: p.getInt("FETCH_WORKERS", 8),
		JobWorkers:   p.getInt("JOB_WORKERS", 4),
		JobResultTTL: p.getDuration("JOB_RESULT_TTL", time.Hour),
	}

	if err := p.err(); err != nil {
		return nil, err
	}
	if cfg.PostgresDSN == "" {
		return nil, ErrMissingDSN
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// parser collects every malformed value instead of stopping at the first.
type parser struct {
	errs []error
}

func (p *parser) getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}

func (p *parser) getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// bare numbers are seconds
		secs, nerr := strconv.Atoi(v)
		if nerr != nil {
			p.errs = append(p.errs, fmt.Errorf("%s: invalid duration %q", key, v))
			return def
		}
		d = time.Duration(secs) * time.Second
	}
	return d
}

func (p *parser) err() error {
	return errors.Join(p.errs...)
}
