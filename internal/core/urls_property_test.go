package core

import (
	"testing"

	"pgregory.net/rapid"
)

// TestProperty01_NormalizeKeyIdempotent verifies normalization is a
// projection: applying it twice gives the same result as once.
func TestProperty01_NormalizeKeyIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		scheme := rapid.SampledFrom([]string{"http", "https"}).Draw(t, "scheme")
		host := rapid.StringMatching(`(www\.)?[a-z]{1,10}\.[a-z]{2,4}`).Draw(t, "host")
		path := rapid.StringMatching(`(/[a-zA-Z0-9-]{0,8}){0,4}/?`).Draw(t, "path")
		query := rapid.StringMatching(`(\?[a-z]{1,5}=[a-z0-9]{1,5})?`).Draw(t, "query")

		raw := scheme + "://" + host + path + query
		once := NormalizeKey(raw)
		twice := NormalizeKey(once)
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	})
}

// TestProperty02_OpaqueKeysPassThrough verifies non-URL identifiers are never
// modified by normalization.
func TestProperty02_OpaqueKeysPassThrough(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[0-9]{5,20}`).Draw(t, "id")
		if got := NormalizeKey(id); got != id {
			t.Fatalf("opaque key %q changed to %q", id, got)
		}
	})
}
