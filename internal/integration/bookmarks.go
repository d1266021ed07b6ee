package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/datacentered/curator/pkg/models"
)

// BookmarkSource fetches saved bookmarks to triage.
type BookmarkSource interface {
	Fetch(ctx context.Context, limit int) ([]models.Item, error)
}

// CLIBookmarkSource shells out to a bookmark CLI that emits tweet JSON, e.g.
// `bird bookmarks --json --limit N`.
type CLIBookmarkSource struct {
	command string
}

// NewCLIBookmarkSource creates a source invoking the given command.
func NewCLIBookmarkSource(command string) *CLIBookmarkSource {
	return &CLIBookmarkSource{command: command}
}

// Fetch runs the bookmark CLI and parses its JSON output.
func (s *CLIBookmarkSource) Fetch(ctx context.Context, limit int) ([]models.Item, error) {
	cmd := exec.CommandContext(ctx, s.command, "bookmarks", "--json", "--limit", strconv.Itoa(limit))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("bookmark CLI %q not found, install it first: %w", s.command, err)
		}
		return nil, fmt.Errorf("running bookmark CLI: %w: %s", err, stderr.String())
	}

	return parseBookmarkJSON(stdout.Bytes())
}

// FileBookmarkSource reads the same JSON shape from a file. Used for testing
// and offline replays.
type FileBookmarkSource struct {
	path string
}

// NewFileBookmarkSource creates a file-backed bookmark source.
func NewFileBookmarkSource(path string) *FileBookmarkSource {
	return &FileBookmarkSource{path: path}
}

// Fetch reads and parses the bookmark file, honoring limit.
func (s *FileBookmarkSource) Fetch(_ context.Context, limit int) ([]models.Item, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading bookmark file: %w", err)
	}
	items, err := parseBookmarkJSON(data)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// rawTweet mirrors the bookmark CLI's tweet JSON. Newer payloads nest the
// interesting fields under legacy/core wrappers, older ones keep them flat,
// so every field has a fallback.
type rawTweet struct {
	ID        string `json:"id"`
	RestID    string `json:"rest_id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`

	User rawUser `json:"user"`
	Core struct {
		UserResults struct {
			Result rawUser `json:"result"`
		} `json:"user_results"`
	} `json:"core"`

	Legacy struct {
		FullText            string `json:"full_text"`
		CreatedAt           string `json:"created_at"`
		InReplyToScreenName string `json:"in_reply_to_screen_name"`
		Entities            struct {
			Media []json.RawMessage `json:"media"`
		} `json:"entities"`
		ExtendedEntities struct {
			Media []json.RawMessage `json:"media"`
		} `json:"extended_entities"`
	} `json:"legacy"`
}

type rawUser struct {
	Name        string `json:"name"`
	ScreenName  string `json:"screen_name"`
	Description string `json:"description"`
	Legacy      struct {
		Name        string `json:"name"`
		ScreenName  string `json:"screen_name"`
		Description string `json:"description"`
	} `json:"legacy"`
}

func parseBookmarkJSON(data []byte) ([]models.Item, error) {
	var tweets []rawTweet
	if err := json.Unmarshal(data, &tweets); err != nil {
		var wrapped struct {
			Data []rawTweet `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("parsing bookmark output: %w", err)
		}
		tweets = wrapped.Data
	}

	items := make([]models.Item, 0, len(tweets))
	for _, t := range tweets {
		items = append(items, t.toItem())
	}
	return items, nil
}

func (t rawTweet) toItem() models.Item {
	id := t.ID
	if id == "" {
		id = t.RestID
	}

	user := t.User
	if user.Name == "" && user.Legacy.Name == "" {
		user = t.Core.UserResults.Result
	}
	name := firstNonEmpty(user.Legacy.Name, user.Name, "Unknown")
	handle := firstNonEmpty(user.Legacy.ScreenName, user.ScreenName, "unknown")
	bio := firstNonEmpty(user.Legacy.Description, user.Description)

	text := firstNonEmpty(t.Legacy.FullText, t.Text)
	created := firstNonEmpty(t.Legacy.CreatedAt, t.CreatedAt)

	hasMedia := len(t.Legacy.Entities.Media) > 0 || len(t.Legacy.ExtendedEntities.Media) > 0
	isThread := t.Legacy.InReplyToScreenName != "" && t.Legacy.InReplyToScreenName == handle

	return models.Item{
		ID:           id,
		Text:         text,
		AuthorName:   name,
		AuthorHandle: handle,
		AuthorBio:    bio,
		CreatedAt:    created,
		HasMedia:     hasMedia,
		IsThread:     isThread,
		SourceURL:    fmt.Sprintf("https://x.com/%s/status/%s", handle, id),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
