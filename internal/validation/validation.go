package validation

import (
	"strings"
	"unicode/utf8"
)

// MaxTermLength bounds a logged search term, in runes.
const MaxTermLength = 500

// MaxOriginLength bounds an origin key, in bytes.
const MaxOriginLength = 255

// NormalizeTerm trims surrounding whitespace and lowercases a search term so
// storage and lookups are case-insensitive.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// ValidateTerm checks a normalized search term.
func ValidateTerm(term string) (bool, string) {
	if term == "" {
		return false, "term is required"
	}
	if !utf8.ValidString(term) {
		return false, "term must be valid UTF-8"
	}
	if utf8.RuneCountInString(term) > MaxTermLength {
		return false, "term is too long"
	}
	return true, ""
}

// OriginFromHeader extracts the client origin from a forwarding header value.
// For comma-separated lists (X-Forwarded-For) the first, client-most entry
// wins.
func OriginFromHeader(value string) string {
	first, _, _ := strings.Cut(value, ",")
	return strings.TrimSpace(first)
}

// ValidateOriginKey checks an origin key.
func ValidateOriginKey(origin string) bool {
	return origin != "" && len(origin) <= MaxOriginLength
}
