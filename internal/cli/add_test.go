package cli

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/datacentered/curator/pkg/models"
)

func TestClipLine(t *testing.T) {
	if got := clipLine("a  b\nc", 100); got != "a b c" {
		t.Errorf("expected whitespace flattening, got %q", got)
	}

	long := strings.Repeat("x", 150)
	got := clipLine(long, 100)
	if utf8.RuneCountInString(got) != 100 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected 100-rune ellipsized line, got %q", got)
	}

	multi := strings.Repeat("é", 150)
	got = clipLine(multi, 100)
	if !utf8.ValidString(got) {
		t.Fatalf("clipped line is invalid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 100 {
		t.Errorf("expected 100 runes, got %d", utf8.RuneCountInString(got))
	}
}

func TestPendingEntryFrom(t *testing.T) {
	result := &models.ClassifiedResource{
		ID:          "agent-memory",
		URL:         "https://example.com/essay",
		Title:       "Agent Memory",
		Domain:      models.DomainAILLMs,
		Category:    "Agent Memory",
		ContentType: models.ResourceEssay,
		Granularity: models.GranularityConceptual,
		Confidence:  0.55,
		AuthorID:    "j-smith",
		IsNewAuthor: true,
	}

	entry := pendingEntryFrom(result)
	if entry.ID != "agent-memory" || entry.URL != result.URL {
		t.Errorf("identity fields must carry over, got %+v", entry)
	}
	if entry.Domain != "ai-llms" || entry.Category != "Agent Memory" || entry.Granularity != "conceptual" {
		t.Errorf("taxonomy must carry over, got %+v", entry)
	}
	if entry.Status != models.ReviewPending {
		t.Errorf("parked entries must start pending, got %s", entry.Status)
	}
	if !entry.IsNewAuthor {
		t.Error("new-author flag must carry over")
	}
}
