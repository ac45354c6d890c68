package runner

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize is 4KB (conservative default)
const DefaultMaxInputSize = 4096

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

var maxInputSize atomic.Int64

func init() {
	maxInputSize.Store(DefaultMaxInputSize)
}

// SetMaxInputSize overrides the size limit enforced by SanitizeInput.
// Non-positive values restore the default.
func SetMaxInputSize(n int) {
	if n <= 0 {
		n = DefaultMaxInputSize
	}
	maxInputSize.Store(int64(n))
}

// MaxInputSize returns the size limit enforced by SanitizeInput.
func MaxInputSize() int {
	return int(maxInputSize.Load())
}

// SanitizeInput cleans participant input by enforcing size limits,
// validating UTF-8, and stripping dangerous control characters.
// Every transport (terminal, HTTP, WebSocket, MCP) runs submissions through it.
func SanitizeInput(input string) (string, error) {
	// 1. Enforce Size Limit
	limit := MaxInputSize()
	if len(input) > limit {
		// Rejected rather than truncated: a cut argument is not what counsel said.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	// 2. Validate UTF-8
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// 3. Strip Control Characters
	// Newline, tab and carriage return survive; ESC, NULL, BEL etc. do not.
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

// IsExitCommand reports whether the participant asked to leave the hearing.
func IsExitCommand(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "exit", "quit":
		return true
	}
	return false
}
