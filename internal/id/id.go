package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FixedTermPrefix marks account numbers generated for fixed-term deposits,
// keeping them disjoint from ordinary account numbers.
const FixedTermPrefix = "PF-"

// NewFixedTermNumber derives a fixed-term account number from a timestamp,
// e.g. "PF-1735689600123456789". Nanosecond resolution keeps numbers unique
// for any two distinct creation instants.
func NewFixedTermNumber(t time.Time) string {
	return fmt.Sprintf("%s%d", FixedTermPrefix, t.UnixNano())
}

// IsFixedTermNumber reports whether a number carries the fixed-term prefix.
func IsFixedTermNumber(number string) bool {
	return strings.HasPrefix(number, FixedTermPrefix)
}

// ParseFixedTermNumber recovers the creation timestamp from a generated
// fixed-term number.
func ParseFixedTermNumber(number string) (time.Time, error) {
	if !IsFixedTermNumber(number) {
		return time.Time{}, fmt.Errorf("not a fixed-term number: %q", number)
	}
	nanos, err := strconv.ParseInt(strings.TrimPrefix(number, FixedTermPrefix), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid fixed-term number %q: %w", number, err)
	}
	return time.Unix(0, nanos), nil
}
