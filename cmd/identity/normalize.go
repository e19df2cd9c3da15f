package identity

import "strings"

// CanonicalEmail trims surrounding whitespace.
// Matching is deliberately exact and case-sensitive: the store's unique
// constraint is the single authority on what counts as a duplicate.
func CanonicalEmail(s string) string {
	return strings.TrimSpace(s)
}

// CanonicalUsername trims surrounding whitespace.
func CanonicalUsername(s string) string {
	return strings.TrimSpace(s)
}
