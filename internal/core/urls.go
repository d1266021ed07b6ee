package core

import (
	"net/url"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

// videoDomains and podcastDomains drive the deterministic content-type
// overrides: URL-domain signals are more reliable than free-text
// classification for these categories.
var (
	videoDomains   = []string{"youtube.com", "youtu.be", "vimeo.com", "loom.com"}
	podcastDomains = []string{"podcasts.apple.com", "spotify.com", "overcast.fm", "pocketcasts.com"}
	socialDomains  = []string{"twitter.com", "x.com", "facebook.com", "linkedin.com"}
)

// ExtractURLs returns all http(s) URLs found in free text, with trailing
// punctuation trimmed.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	var cleaned []string
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;:!?)")
		if m != "" {
			cleaned = append(cleaned, m)
		}
	}
	return cleaned
}

// IsGitHubRepoURL reports whether a URL points at a GitHub repository rather
// than a file blob or issue page.
func IsGitHubRepoURL(u string) bool {
	return strings.Contains(u, "github.com") &&
		!strings.Contains(u, "/blob/") &&
		!strings.Contains(u, "/issues/")
}

// IsVideoURL reports whether a URL points at a known video platform.
func IsVideoURL(u string) bool {
	return containsAnyDomain(u, videoDomains)
}

// IsPodcastURL reports whether a URL points at a known podcast platform.
func IsPodcastURL(u string) bool {
	return containsAnyDomain(u, podcastDomains)
}

// IsSocialURL reports whether a URL points at a social platform rather than
// standalone content.
func IsSocialURL(u string) bool {
	return containsAnyDomain(u, socialDomains)
}

func containsAnyDomain(u string, domains []string) bool {
	for _, d := range domains {
		if strings.Contains(u, d) {
			return true
		}
	}
	return false
}

// NormalizeKey canonicalizes an item's external identifier for
// deduplication. URL keys get a lower-cased scheme and host, a leading
// "www." host prefix stripped, the trailing slash removed from the path
// (an empty path becomes "/"), and the fragment dropped; the query string is
// preserved. Opaque identifiers (anything that does not parse as an http(s)
// URL) pass through unchanged. NormalizeKey is a projection:
// NormalizeKey(NormalizeKey(k)) == NormalizeKey(k).
func NormalizeKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return raw
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		path = "/"
	}

	normalized := url.URL{
		Scheme:   u.Scheme,
		Host:     host,
		Path:     path,
		RawQuery: u.RawQuery,
	}
	return normalized.String()
}

// RepoSlug extracts an "owner/repo" display name from a GitHub URL path.
func RepoSlug(u string) (string, bool) {
	parsed, err := url.Parse(strings.TrimRight(u, "/"))
	if err != nil || !strings.Contains(parsed.Host, "github.com") {
		return "", false
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return "", false
	}
	return segments[0] + "/" + segments[1], true
}

// DisplayTitle derives a human-readable label for a routed item: the
// owner/repo slug for GitHub links, otherwise the first 60 characters of the
// item's text (ellipsized when truncated) with newlines flattened.
func DisplayTitle(text, primaryURL string) string {
	if primaryURL != "" && strings.Contains(primaryURL, "github.com") {
		if slug, ok := RepoSlug(primaryURL); ok {
			return slug
		}
	}
	flat := strings.Join(strings.Fields(strings.ReplaceAll(text, "\n", " ")), " ")
	runes := []rune(flat)
	if len(runes) > 60 {
		return string(runes[:57]) + "..."
	}
	return flat
}
