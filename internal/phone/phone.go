// Package phone validates and normalizes Indonesian mobile numbers.
package phone

import (
	"regexp"
	"strings"
)

var (
	separators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
	mobile     = regexp.MustCompile(`^(\+62|62|0)8[1-9][0-9]{6,11}$`)
	nonDigit   = regexp.MustCompile(`[^0-9]`)
)

// Clean strips the separators customers commonly type.
func Clean(raw string) string {
	return separators.Replace(strings.TrimSpace(raw))
}

// Valid reports whether raw looks like an Indonesian mobile number
// (08xx, 628xx or +628xx, 9 to 14 digits after the prefix).
func Valid(raw string) bool {
	return mobile.MatchString(Clean(raw))
}

// Normalize converts raw to a digits-only, country-coded form:
// a leading "0" becomes countryCode, numbers already starting with
// countryCode are kept, anything else gets countryCode prefixed.
func Normalize(raw, countryCode string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	switch {
	case digits == "":
		return ""
	case strings.HasPrefix(digits, "0"):
		return countryCode + digits[1:]
	case strings.HasPrefix(digits, countryCode):
		return digits
	default:
		return countryCode + digits
	}
}
