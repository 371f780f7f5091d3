package service

import "strings"

// MaxMessageLen is the maximum number of characters accepted in a single
// chat message. Longer input is truncated, never rejected.
const MaxMessageLen = 1000

// Sanitize prepares raw user input for the generation pipeline: control
// characters are removed, runs of whitespace collapse to a single space,
// leading/trailing whitespace is trimmed, and the result is truncated to
// MaxMessageLen characters. Returns "" for input with no usable content.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		if r == 0x7F {
			return -1
		}
		return r
	}, text)

	// Fields splits on any whitespace, so this also trims and collapses
	// tabs/newlines left in place above.
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	runes := []rune(cleaned)
	if len(runes) > MaxMessageLen {
		cleaned = string(runes[:MaxMessageLen])
	}

	return cleaned
}
