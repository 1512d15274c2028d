package utils

import (
	"strings"
	"unicode/utf8"
)

func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Truncate shortens s to at most maxRunes runes for log previews.
// Blank input yields "<empty>".
func Truncate(s string, maxRunes int) string {
	if strings.TrimSpace(s) == "" {
		return "<empty>"
	}

	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}

// Collapse replaces every run of whitespace with a single space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
