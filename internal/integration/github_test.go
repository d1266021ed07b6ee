package integration

import "testing"

func TestExtractGitHubUsername(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/torvalds", "torvalds"},
		{"https://www.github.com/torvalds", "torvalds"},
		{"https://github.com/torvalds/", "torvalds"},
		{"https://github.com/golang/go", ""},
		{"https://github.com/features/copilot", ""},
		{"https://github.com/enterprise", ""},
		{"https://github.com/pricing", ""},
		{"https://github.com/about", ""},
		{"https://github.com/", ""},
		{"https://gitlab.com/someone", ""},
		{"https://example.com/torvalds", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractGitHubUsername(tt.url); got != tt.want {
			t.Errorf("ExtractGitHubUsername(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
