// Package integration holds curator's outward-facing adapters: the content
// fetcher, the LLM classification backend, GitHub author enrichment, and the
// bookmark source.
package integration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/abadojack/whatlanggo"

	"github.com/datacentered/curator/pkg/models"
)

// ErrUnreachable marks fetch failures that are about the remote side (DNS,
// timeouts, non-2xx) rather than our own processing.
var ErrUnreachable = errors.New("content unreachable")

const fetcherUserAgent = "Mozilla/5.0 (compatible; curator-bot/1.0)"

// platformPatterns maps domain substrings to display platform names. First
// match wins; unmatched domains fall back to the second-level domain.
var platformPatterns = []struct {
	pattern  string
	platform string
}{
	{"substack.com", "Substack"},
	{"medium.com", "Medium"},
	{"github.com", "GitHub"},
	{"github.io", "GitHub"},
	{"youtube.com", "YouTube"},
	{"youtu.be", "YouTube"},
	{"arxiv.org", "arXiv"},
	{"docs.getdbt.com", "dbt Docs"},
	{"getdbt.com", "dbt Blog"},
	{"tableau.com", "Tableau"},
	{"pudding.cool", "The Pudding"},
}

var (
	bylinePattern  = regexp.MustCompile(`(?i)(?:by|written by|author:?)\s+([A-Z][a-z]+ [A-Z][a-z]+)`)
	isoDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	codePattern    = regexp.MustCompile(`def \w+\(|function \w+\(|class \w+[:(]`)
)

// Fetcher downloads a URL and extracts the structured content the ingestion
// pipeline works on.
type Fetcher struct {
	client *http.Client
	log    *slog.Logger
}

// NewFetcher creates a fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Fetch downloads and extracts one URL. Network and HTTP-status failures wrap
// ErrUnreachable so callers can distinguish a dead link from a parse problem.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*models.FetchedContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", fetcherUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w: %v", rawURL, ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: %w: status %d", rawURL, ErrUnreachable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rawURL, err)
	}

	content := f.extract(doc, rawURL)
	f.log.Debug("fetched content",
		"url", rawURL,
		"title", content.Title,
		"words", content.WordCount,
		"platform", content.Platform,
		"language", content.Language)
	return content, nil
}

func (f *Fetcher) extract(doc *goquery.Document, rawURL string) *models.FetchedContent {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	var parts []string
	doc.Find("p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if len(text) > 20 {
			parts = append(parts, text)
		}
	})
	text := strings.Join(parts, "\n\n")

	hasCode := doc.Find("pre, code").Length() > 0 || codePattern.MatchString(text)
	lowered := strings.ToLower(rawURL)
	hasVideo := strings.Contains(lowered, "youtube.com") ||
		strings.Contains(lowered, "youtu.be") ||
		strings.Contains(lowered, "vimeo.com") ||
		strings.Contains(lowered, "video")

	language := ""
	if text != "" {
		info := whatlanggo.Detect(text)
		language = info.Lang.Iso6391()
	}

	return &models.FetchedContent{
		URL:           rawURL,
		Title:         title,
		Text:          text,
		AuthorName:    extractByline(doc),
		PublishedDate: extractDate(doc),
		Platform:      DetectPlatform(rawURL),
		Language:      language,
		WordCount:     len(strings.Fields(text)),
		HasCode:       hasCode,
		HasVideo:      hasVideo,
		FetchedAt:     time.Now().UTC(),
	}
}

func extractByline(doc *goquery.Document) string {
	if author, ok := doc.Find(`meta[name="author"]`).Attr("content"); ok && strings.TrimSpace(author) != "" {
		return strings.TrimSpace(author)
	}
	body := doc.Find("body").Text()
	if m := bylinePattern.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	return ""
}

func extractDate(doc *goquery.Document) string {
	if published, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok {
		if m := isoDatePattern.FindString(published); m != "" {
			return m
		}
	}
	if t, ok := doc.Find("time").First().Attr("datetime"); ok {
		if m := isoDatePattern.FindString(t); m != "" {
			return m
		}
	}
	return isoDatePattern.FindString(doc.Find("body").Text())
}

// DetectPlatform maps a URL to a display platform name.
func DetectPlatform(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "Website"
	}
	domain := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")

	for _, p := range platformPatterns {
		if strings.Contains(domain, p.pattern) {
			return p.platform
		}
	}

	parts := strings.Split(domain, ".")
	if len(parts) >= 2 {
		name := parts[len(parts)-2]
		if name != "" {
			return strings.ToUpper(name[:1]) + name[1:]
		}
	}
	return "Website"
}
