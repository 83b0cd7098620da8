package utils

import (
	"errors"
	"strings"
)

// ErrEmptyInput is returned when the input is empty after trimming.
var ErrEmptyInput = errors.New("input is empty")

// NormalizeInput trims surrounding whitespace from a user-entered URL and
// rejects inputs that are empty afterwards. It deliberately performs no
// URL-syntax validation: the classifier is the authority on what a valid
// URL is, and the client stays permissive.
func NormalizeInput(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyInput
	}
	return trimmed, nil
}

// Excerpt returns s truncated to at most max bytes, with an ellipsis marker
// when truncation happened. Used to keep diagnostic messages bounded.
func Excerpt(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
