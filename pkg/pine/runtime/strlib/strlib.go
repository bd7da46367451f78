// Package strlib implements the PineScript str.* built-ins (spec.md §6.3).
package strlib

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString renders v the way PineScript's str.tostring does for a plain
// numeric value.
func ToString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Format renders a printf-style template against the given values, mapping
// PineScript's "{0}"-style placeholders are expected to already have been
// rewritten to Go verbs by the caller; this passes through to fmt.Sprintf
// for the common case of a literal format string.
func Format(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// Length returns the rune length of s.
func Length(s string) float64 {
	return float64(len([]rune(s)))
}

// Upper returns s upper-cased.
func Upper(s string) string { return strings.ToUpper(s) }

// Lower returns s lower-cased.
func Lower(s string) string { return strings.ToLower(s) }

// Contains reports whether s contains substr.
func Contains(s, substr string) bool { return strings.Contains(s, substr) }
