// Package util provides string helpers for command arguments.
package util

import "strings"

// TrimQuotes removes one pair of surrounding double quotes from a string.
// A string that is not quoted on both ends is returned unchanged.
func TrimQuotes(s string) string {
	if len(s) < 2 || !strings.HasPrefix(s, `"`) || !strings.HasSuffix(s, `"`) {
		return s
	}
	return s[1 : len(s)-1]
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanArg normalizes a raw command argument: surrounding whitespace and
// quotes are dropped and escaped quotes are unescaped.
func CleanArg(s string) string {
	return FixEscapeQuotes(TrimQuotes(strings.TrimSpace(s)))
}
