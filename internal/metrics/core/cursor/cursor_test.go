package cursor_test

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"voip-metrics-service/internal/metrics/core/cursor"
)

func TestCursor_RoundTrip(t *testing.T) {
	cases := []time.Time{
		time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC),
		time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
		time.Date(1, 1, 1, 0, 0, 0, 1, time.UTC),
		time.Date(1969, 12, 31, 23, 59, 59, 999999999, time.UTC),
		time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC),
		time.Date(12000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Unix(0, 0),
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		cases = append(cases, time.Unix(rng.Int63n(1<<40)-(1<<39), rng.Int63n(1e9)))
	}

	for _, tc := range cases {
		enc := cursor.Encode(tc)
		if strings.ContainsAny(enc, "+/=") {
			t.Fatalf("expected url-safe cursor, got %q", enc)
		}
		got, err := cursor.Decode(enc)
		if err != nil {
			t.Fatalf("decode %v: unexpected error: %v", tc, err)
		}
		if !got.Equal(tc) {
			t.Fatalf("round trip mismatch: want %v got %v", tc, got)
		}
	}
}

func TestCursor_DecodeInvalid(t *testing.T) {
	for _, in := range []string{"!!!", "", "aGVsbG8"} {
		_, err := cursor.Decode(in)
		if err == nil {
			t.Fatalf("expected error for %q", in)
		}
		if !errors.Is(err, cursor.ErrInvalidCursor) {
			t.Fatalf("expected ErrInvalidCursor, got %v", err)
		}
	}
}

func TestCursor_EncodePtrZero(t *testing.T) {
	if cursor.EncodePtr(time.Time{}) != nil {
		t.Fatalf("expected nil cursor for zero time")
	}
	if cursor.EncodePtr(time.Now()) == nil {
		t.Fatalf("expected cursor for non-zero time")
	}
}
