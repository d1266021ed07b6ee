package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/datacentered/curator/internal/core"
	"github.com/datacentered/curator/pkg/models"
)

// reserved GitHub path segments that are never user profiles.
var reservedGitHubPaths = []string{"features", "enterprise", "pricing", "about"}

// followerFloor is the minimum follower count worth recording; below it the
// signal is noise.
const followerFloor = 100

// maxBioLength truncates long profile bios before they land in authors.yaml.
const maxBioLength = 200

// GitHubEnricher resolves authors to GitHub profiles. Works unauthenticated
// at 60 requests/hour, or with GITHUB_TOKEN at 5000.
type GitHubEnricher struct {
	client *http.Client
	token  string
	log    *slog.Logger
}

var _ core.Enricher = (*GitHubEnricher)(nil)

// NewGitHubEnricher creates an enricher, picking up GITHUB_TOKEN when set.
func NewGitHubEnricher(log *slog.Logger) *GitHubEnricher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &GitHubEnricher{
		client: &http.Client{Timeout: 10 * time.Second},
		token:  os.Getenv("GITHUB_TOKEN"),
		log:    log,
	}
}

// Enrich resolves an author to a GitHub profile. The username comes from the
// source URL when it is itself a GitHub profile, otherwise from a name
// search. Every failure path returns ok=false; enrichment never aborts a run.
func (g *GitHubEnricher) Enrich(ctx context.Context, authorName, sourceURL string) (models.GitHubProfile, bool) {
	username := ExtractGitHubUsername(sourceURL)
	if username == "" {
		username = g.searchUser(ctx, authorName)
	}
	if username == "" {
		return models.GitHubProfile{}, false
	}

	profile, ok := g.fetchProfile(ctx, username)
	if !ok {
		return models.GitHubProfile{}, false
	}

	if len(profile.Bio) > maxBioLength {
		profile.Bio = profile.Bio[:maxBioLength]
	}
	profile.Company = strings.TrimSpace(strings.TrimPrefix(profile.Company, "@"))
	if profile.Followers < followerFloor {
		profile.Followers = 0
	}

	g.log.Debug("enriched author from github", "author", authorName, "username", profile.Username)
	return profile, true
}

// ExtractGitHubUsername returns the username when a URL is a GitHub profile
// page, empty otherwise. Repo and deeper paths are not profiles.
func ExtractGitHubUsername(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	if host != "github.com" && host != "www.github.com" {
		return ""
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" || strings.Contains(path, "/") {
		return ""
	}
	for _, reserved := range reservedGitHubPaths {
		if strings.HasPrefix(path, reserved) {
			return ""
		}
	}
	return path
}

func (g *GitHubEnricher) searchUser(ctx context.Context, name string) string {
	query := strings.TrimSpace(strings.ReplaceAll(name, "-", " "))
	if query == "" {
		return ""
	}
	searchURL := "https://api.github.com/search/users?per_page=5&q=" + url.QueryEscape(query)

	var result struct {
		Items []struct {
			Login string `json:"login"`
		} `json:"items"`
	}
	if err := g.get(ctx, searchURL, &result); err != nil {
		g.log.Debug("github user search failed", "name", name, "error", err)
		return ""
	}
	if len(result.Items) == 0 {
		return ""
	}

	collapsed := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	for _, item := range result.Items {
		if strings.ToLower(item.Login) == collapsed {
			return item.Login
		}
	}
	return result.Items[0].Login
}

func (g *GitHubEnricher) fetchProfile(ctx context.Context, username string) (models.GitHubProfile, bool) {
	var raw struct {
		Login     string `json:"login"`
		Name      string `json:"name"`
		Bio       string `json:"bio"`
		Location  string `json:"location"`
		Company   string `json:"company"`
		Blog      string `json:"blog"`
		Twitter   string `json:"twitter_username"`
		Followers int    `json:"followers"`
	}
	if err := g.get(ctx, "https://api.github.com/users/"+url.PathEscape(username), &raw); err != nil {
		g.log.Debug("github profile fetch failed", "username", username, "error", err)
		return models.GitHubProfile{}, false
	}
	if raw.Login == "" {
		return models.GitHubProfile{}, false
	}

	return models.GitHubProfile{
		Username:   raw.Login,
		ProfileURL: "https://github.com/" + raw.Login,
		Name:       raw.Name,
		Bio:        raw.Bio,
		Location:   raw.Location,
		Company:    raw.Company,
		Blog:       raw.Blog,
		Twitter:    raw.Twitter,
		Followers:  raw.Followers,
	}, true
}

func (g *GitHubEnricher) get(ctx context.Context, rawURL string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "curator-enrichment")
	if g.token != "" {
		req.Header.Set("Authorization", "token "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
