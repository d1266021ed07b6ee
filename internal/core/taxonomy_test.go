package core

import (
	"testing"

	"github.com/datacentered/curator/pkg/models"
)

func TestValidIntent(t *testing.T) {
	tests := []struct {
		raw  string
		want models.Intent
	}{
		{"learn", models.IntentLearn},
		{"  Try  ", models.IntentTry},
		{"QUOTE", models.IntentQuote},
		{"garbage", models.IntentReview},
		{"", models.IntentReview},
	}
	for _, tt := range tests {
		if got := ValidIntent(tt.raw); got != tt.want {
			t.Errorf("ValidIntent(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestValidDomain(t *testing.T) {
	if got := ValidDomain("ai-llms"); got != models.DomainAILLMs {
		t.Errorf("expected ai-llms, got %s", got)
	}
	if got := ValidDomain("underwater-basket-weaving"); got != FallbackDomain {
		t.Errorf("expected fallback domain, got %s", got)
	}
}

func TestValidCategory(t *testing.T) {
	got := ValidCategory(models.DomainAILLMs, "agent memory")
	if got != "Agent Memory" {
		t.Errorf("expected case-insensitive match to Agent Memory, got %q", got)
	}

	got = ValidCategory(models.DomainAILLMs, "Nonexistent")
	if got != Domains[models.DomainAILLMs].Categories[0] {
		t.Errorf("expected first category fallback, got %q", got)
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"0.8", 0.8},
		{" 0.3 ", 0.3},
		{"1.7", 1.0},
		{"-0.2", 0.0},
		{"high", 0.5},
		{"", 0.5},
	}
	for _, tt := range tests {
		if got := ClampConfidence(tt.raw); got != tt.want {
			t.Errorf("ClampConfidence(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSanitizeResourceID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Semantic Layer Intro", "semantic-layer-intro"},
		{"already-clean", "already-clean"},
		{"weird!!chars??here", "weird-chars-here"},
		{"--leading--trailing--", "leading-trailing"},
	}
	for _, tt := range tests {
		if got := SanitizeResourceID(tt.raw); got != tt.want {
			t.Errorf("SanitizeResourceID(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}

	long := SanitizeResourceID("a-very-long-identifier-that-keeps-going-and-going-and-going-far-past-fifty")
	if len(long) > 50 {
		t.Errorf("expected id capped at 50 chars, got %d", len(long))
	}
}

func TestNormalizeAuthorID(t *testing.T) {
	if got := NormalizeAuthorID("Cory Doctorow"); got != "cory-doctorow" {
		t.Errorf("expected cory-doctorow, got %q", got)
	}
}
