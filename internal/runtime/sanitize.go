package runtime

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxQuerySize bounds the accepted query length in bytes. Oversized input
// is rejected rather than truncated so the persisted state always matches
// what the caller sent.
const MaxQuerySize = 16384

var (
	ErrQueryTooLarge = errors.New("query exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("query contains invalid UTF-8 sequences")
)

// SanitizeQuery enforces the size limit, validates UTF-8 and strips control
// characters other than newline, tab and carriage return. Stripping keeps
// ANSI escape sequences and NUL bytes out of logs and stored snapshots.
func SanitizeQuery(input string) (string, error) {
	if len(input) > MaxQuerySize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrQueryTooLarge, len(input), MaxQuerySize)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}
