package helpers

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	unsafeFileRe    = regexp.MustCompile(`[^a-zA-Z0-9-_]`)
	repeatedScoreRe = regexp.MustCompile(`_+`)
)

// FormatCarNameForURL lowercases a car name and turns spaces into path
// separators, e.g. "Toyota Camry" -> "toyota/camry". The target site keys
// its search path on this format.
func FormatCarNameForURL(carName string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(carName)), "/")
}

// FormatCarNameForFile lowercases a car name and turns spaces and slashes
// into underscores for use in export file names.
func FormatCarNameForFile(carName string) string {
	s := whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(carName)), "_")
	return strings.ReplaceAll(s, "/", "_")
}

// SanitizeFileName strips characters unsafe for file names and caps the
// length at 100 runes.
func SanitizeFileName(str string) string {
	s := unsafeFileRe.ReplaceAllString(str, "_")
	s = repeatedScoreRe.ReplaceAllString(s, "_")
	runes := []rune(s)
	if len(runes) > 100 {
		runes = runes[:100]
	}
	return string(runes)
}

// CollapseWhitespace trims a string and collapses internal whitespace runs
// to single spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
