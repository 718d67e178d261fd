package services

import (
	"strings"
	"unicode/utf8"
)

// ellipsis marks truncated text.
const ellipsis = "..."

// boundaryFraction is how close to the limit the last whitespace must be
// for the cut to move back to it. Cutting at a boundary far before the
// limit would throw away too much text.
const boundaryFraction = 0.8

// Truncate shortens text to at most max bytes, appending an ellipsis
// marker when it cuts. If the last whitespace inside the prefix sits at
// or beyond 80% of max, the cut happens there to avoid splitting a word;
// otherwise the cut is at max, backed up so it never splits a rune.
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	prefix := text[:cut]
	boundary := strings.LastIndexAny(prefix, " \t\n")
	if boundary >= 0 && float64(boundary) >= boundaryFraction*float64(max) {
		return strings.TrimRight(prefix[:boundary], " \t\n") + ellipsis
	}
	return prefix + ellipsis
}
