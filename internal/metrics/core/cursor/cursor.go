// Package cursor encodes row timestamps as opaque page cursors.
package cursor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Encode returns a URL-safe token for t. The instant is preserved
// exactly; the location is normalised to UTC.
func Encode(t time.Time) string {
	b, _ := t.UTC().MarshalBinary() // UTC never fails
	return base64.RawURLEncoding.EncodeToString(b)
}

func Decode(s string) (time.Time, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var t time.Time
	if err := t.UnmarshalBinary(b); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return t.UTC(), nil
}

// EncodePtr encodes t, returning nil for the zero time.
func EncodePtr(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := Encode(t)
	return &s
}
