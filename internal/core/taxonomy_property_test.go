package core

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/datacentered/curator/pkg/models"
)

func genDomain(t *rapid.T) models.Domain {
	ids := make([]models.Domain, 0, len(Domains))
	for id := range Domains {
		ids = append(ids, id)
	}
	return rapid.SampledFrom(ids).Draw(t, "domain")
}

// TestProperty03_ValidCategoryAlwaysMember verifies that whatever string a
// stage returns, the validated category belongs to the domain's list.
func TestProperty03_ValidCategoryAlwaysMember(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		domain := genDomain(t)
		raw := rapid.String().Draw(t, "raw")

		got := ValidCategory(domain, raw)
		for _, c := range Domains[domain].Categories {
			if c == got {
				return
			}
		}
		t.Fatalf("category %q not in domain %s list", got, domain)
	})
}

// TestProperty04_ClampConfidenceBounded verifies every input lands in [0, 1].
func TestProperty04_ClampConfidenceBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.String().Draw(t, "raw")
		got := ClampConfidence(raw)
		if got < 0 || got > 1 {
			t.Fatalf("ClampConfidence(%q) = %v out of [0, 1]", raw, got)
		}
	})
}

// TestProperty05_SanitizedIDAlphabet verifies sanitized identifiers contain
// only lowercase alphanumerics and single hyphens, within the length cap.
func TestProperty05_SanitizedIDAlphabet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.String().Draw(t, "raw")
		got := SanitizeResourceID(raw)

		if len(got) > 50 {
			t.Fatalf("id %q longer than 50", got)
		}
		if strings.Contains(got, "--") {
			t.Fatalf("id %q has consecutive hyphens", got)
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Fatalf("id %q has edge hyphen", got)
		}
		for _, r := range got {
			if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
				t.Fatalf("id %q has invalid rune %q", got, r)
			}
		}
	})
}
