// Package chatkey derives the identifier of a two-party chat session
// from its participants. The key is deterministic and order-independent
// so both sides address the same session record no matter who opens the
// conversation first, and it doubles as the natural unique constraint
// that makes concurrent session creation idempotent.
package chatkey

import "strings"

// Separator joins the sorted participant ids.
const Separator = "_"

// Derive returns the session key for the unordered pair {a, b}.
// Derive(a, b) == Derive(b, a). Ids are assumed to be non-empty opaque
// identifiers that do not contain the separator.
func Derive(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + Separator + b
}

// Participants splits a key back into its sorted participant pair.
// The second return value is false for a malformed key.
func Participants(key string) (string, string, bool) {
	one, two, ok := strings.Cut(key, Separator)
	if !ok || one == "" || two == "" {
		return "", "", false
	}
	return one, two, true
}

// Other returns the peer of self within the session identified by key.
func Other(key, self string) (string, bool) {
	one, two, ok := Participants(key)
	if !ok {
		return "", false
	}
	switch self {
	case one:
		return two, true
	case two:
		return one, true
	}
	return "", false
}
