package core

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single url",
			text: "check out https://example.com/post",
			want: []string{"https://example.com/post"},
		},
		{
			name: "trailing punctuation trimmed",
			text: "great read: https://example.com/post.",
			want: []string{"https://example.com/post"},
		},
		{
			name: "url in parentheses",
			text: "(see https://example.com/a)",
			want: []string{"https://example.com/a"},
		},
		{
			name: "multiple urls",
			text: "https://a.com and https://b.com!",
			want: []string{"https://a.com", "https://b.com"},
		},
		{
			name: "no urls",
			text: "just some thoughts",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractURLs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractURLs(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsGitHubRepoURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://github.com/owner/repo", true},
		{"https://github.com/owner/repo/blob/main/file.go", false},
		{"https://github.com/owner/repo/issues/42", false},
		{"https://example.com/github-clone", false},
	}
	for _, tt := range tests {
		if got := IsGitHubRepoURL(tt.url); got != tt.want {
			t.Errorf("IsGitHubRepoURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"lowercases host", "https://Example.COM/Path", "https://example.com/Path"},
		{"strips leading www", "https://www.example.com/a", "https://example.com/a"},
		{"keeps inner www", "https://blog.www-archive.com/a", "https://blog.www-archive.com/a"},
		{"strips trailing slash", "https://example.com/a/", "https://example.com/a"},
		{"empty path becomes slash", "https://example.com", "https://example.com/"},
		{"root slash kept", "https://example.com/", "https://example.com/"},
		{"drops fragment", "https://example.com/a#section", "https://example.com/a"},
		{"keeps query", "https://example.com/a?id=1", "https://example.com/a?id=1"},
		{"opaque id unchanged", "1234567890", "1234567890"},
		{"non-http scheme unchanged", "ftp://example.com/a", "ftp://example.com/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKey(tt.raw); got != tt.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRepoSlug(t *testing.T) {
	slug, ok := RepoSlug("https://github.com/golang/go/")
	if !ok || slug != "golang/go" {
		t.Errorf("RepoSlug = %q, %v; want golang/go, true", slug, ok)
	}

	if _, ok := RepoSlug("https://github.com/justauser"); ok {
		t.Error("expected no slug for profile URL")
	}
	if _, ok := RepoSlug("https://example.com/a/b"); ok {
		t.Error("expected no slug for non-github URL")
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := DisplayTitle("some text", "https://github.com/golang/go"); got != "golang/go" {
		t.Errorf("expected repo slug, got %q", got)
	}

	long := strings.Repeat("word ", 30)
	got := DisplayTitle(long, "")
	if len(got) != 60 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected 60-char ellipsized title, got %q (len %d)", got, len(got))
	}

	if got := DisplayTitle("line1\nline2", ""); got != "line1 line2" {
		t.Errorf("expected flattened newlines, got %q", got)
	}
}

func TestDisplayTitle_MultibyteSafe(t *testing.T) {
	// A multibyte rune straddling the cut must not be split.
	text := strings.Repeat("a", 56) + "é" + strings.Repeat("b", 10)
	got := DisplayTitle(text, "")
	if !utf8.ValidString(got) {
		t.Fatalf("truncated title is invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 60 {
		t.Errorf("expected 60 runes, got %d (%q)", n, got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsized title, got %q", got)
	}

	short := "héllo wörld"
	if got := DisplayTitle(short, ""); got != short {
		t.Errorf("short multibyte text must pass through, got %q", got)
	}
}
