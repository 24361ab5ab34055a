package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds text to NFKC and removes every whitespace rune.
// An empty or all-whitespace input yields "".
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	folded := norm.NFKC.String(text)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Contains reports whether needle occurs verbatim in text. A blank needle
// never matches.
func Contains(text, needle string) bool {
	if strings.TrimSpace(needle) == "" {
		return false
	}
	return strings.Contains(text, needle)
}

// ContainsNormalized is Contains over the normalized forms of text and needle.
func ContainsNormalized(text, needle string) bool {
	return Contains(Normalize(text), Normalize(needle))
}

// Excerpt returns the first limit runes of text for log output.
func Excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}
