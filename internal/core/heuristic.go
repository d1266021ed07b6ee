package core

import (
	"context"
	"fmt"
	"strings"
)

// HeuristicTriage is the rule-based triage classifier. It costs nothing and
// never fails, which makes it the fallback when no predictive backend is
// configured.
type HeuristicTriage struct{}

// NewHeuristicTriage creates the rule-based classifier.
func NewHeuristicTriage() *HeuristicTriage {
	return &HeuristicTriage{}
}

// Triage classifies using URL and shape signals only.
func (h *HeuristicTriage) Triage(_ context.Context, in TriageInput) (TriageOutput, error) {
	urls := ExtractURLs(in.Text)

	out := TriageOutput{
		Intent:      "review",
		ContentType: "other",
		Confidence:  "0.6",
		Reasoning:   "Classified by heuristics",
	}
	if len(urls) > 0 {
		out.PrimaryURL = urls[0]
	}

	var githubURLs, articleURLs []string
	for _, u := range urls {
		if IsGitHubRepoURL(u) {
			githubURLs = append(githubURLs, u)
		}
		if !IsSocialURL(u) {
			articleURLs = append(articleURLs, u)
		}
	}

	switch {
	case len(githubURLs) > 0:
		out.Intent = "try"
		out.ContentType = "repo"
		out.PrimaryURL = githubURLs[0]
		out.Confidence = "0.9"
		out.Reasoning = "Contains GitHub repository link"
	case firstMatching(urls, IsVideoURL) != "":
		out.Intent = "learn"
		out.ContentType = "video"
		out.PrimaryURL = firstMatching(urls, IsVideoURL)
		out.Confidence = "0.8"
		out.Reasoning = "Contains video link"
	case firstMatching(urls, IsPodcastURL) != "":
		out.Intent = "learn"
		out.ContentType = "podcast"
		out.PrimaryURL = firstMatching(urls, IsPodcastURL)
		out.Confidence = "0.8"
		out.Reasoning = "Contains podcast link"
	case len(articleURLs) > 0:
		out.Intent = "learn"
		out.ContentType = "article"
		out.PrimaryURL = articleURLs[0]
		out.Confidence = "0.7"
		out.Reasoning = "Contains article link"
	case in.IsThread:
		out.Intent = "review"
		out.ContentType = "thread"
		out.Confidence = "0.7"
		out.Reasoning = "Thread requires human review"
	case len(urls) == 0 && len(in.Text) < 280:
		out.Intent = "quote"
		out.ContentType = "insight"
		out.Confidence = "0.5"
		out.Reasoning = "Short post without links, potential quote"
	}

	return out, nil
}

// ExtractQuote keeps short self-contained text as the quote itself.
func (h *HeuristicTriage) ExtractQuote(_ context.Context, in QuoteInput) (QuoteOutput, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" || len(text) > 280 {
		return QuoteOutput{Quotable: false}, nil
	}
	return QuoteOutput{
		Quote:    text,
		Topic:    fmt.Sprintf("from %s", in.AuthorName),
		Quotable: true,
	}, nil
}

func firstMatching(urls []string, match func(string) bool) string {
	for _, u := range urls {
		if match(u) {
			return u
		}
	}
	return ""
}
