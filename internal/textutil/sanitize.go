package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// pathSeparatorReplacer replaces characters that would split a path segment.
var pathSeparatorReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
)

// SanitizePathSegment makes a title usable as part of a file name. Path
// separators become dashes and control characters become spaces; everything
// else, including non-ASCII text and punctuation, is kept as is.
func SanitizePathSegment(name string) string {
	name = pathSeparatorReplacer.Replace(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	switch name {
	case ".", "..":
		return strings.Repeat("_", len(name))
	}
	return name
}

// TruncateBytes shortens s to at most limit bytes without splitting a rune.
func TruncateBytes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}

// NormalizeText trims surrounding whitespace and converts text to Unicode NFC
// so visually identical strings compare equal.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
