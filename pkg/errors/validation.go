package errors

import (
	"strconv"
	"strings"
)

// ParseSeed parses a decimal or 0x-prefixed hexadecimal seed.
func ParseSeed(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, New(ErrCodeInvalidSeed, "seed cannot be empty")
	}
	seed, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidSeed, err, "invalid seed %q", s)
	}
	return seed, nil
}

// ValidateCount bounds batch sizes accepted by the CLI and the server.
func ValidateCount(n, limit int) error {
	if n < 1 {
		return New(ErrCodeInvalidInput, "count must be at least 1, got %d", n)
	}
	if n > limit {
		return New(ErrCodeInvalidInput, "count %d exceeds limit %d", n, limit)
	}
	return nil
}
