package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/datacentered/curator/internal/core"
)

// QueueFiles writes routed items into the human-browsable queue surfaces:
// markdown queues for learn/try/review and a YAML file for quotes.
type QueueFiles struct {
	basePath string
	now      func() time.Time
}

// NewQueueFiles creates a queue writer rooted at basePath.
func NewQueueFiles(basePath string) *QueueFiles {
	return &QueueFiles{basePath: basePath, now: time.Now}
}

func (q *QueueFiles) intakePath() string { return filepath.Join(q.basePath, "intake-queue.md") }
func (q *QueueFiles) tryPath() string    { return filepath.Join(q.basePath, "queues", "try-queue.md") }
func (q *QueueFiles) reviewPath() string { return filepath.Join(q.basePath, "queues", "review-queue.md") }
func (q *QueueFiles) quotesPath() string { return filepath.Join(q.basePath, "queues", "quotes.yaml") }

// AppendIntake adds a dated section of learn items to intake-queue.md.
func (q *QueueFiles) AppendIntake(entries []core.IntakeEntry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n## Bookmarks - %s\n\n", q.now().Format("2006-01-02 15:04"))
	for _, e := range entries {
		if e.URL != "" {
			fmt.Fprintf(&b, "- [%s](%s)\n", e.Title, e.URL)
			fmt.Fprintf(&b, "  - Source: %s\n", e.SourceURL)
			fmt.Fprintf(&b, "  - Type: %s\n", e.ContentType)
			fmt.Fprintf(&b, "  - Confidence: %.0f%%\n", e.Confidence*100)
		} else {
			fmt.Fprintf(&b, "- Post by @%s\n", e.AuthorHandle)
			fmt.Fprintf(&b, "  - URL: %s\n", e.SourceURL)
			fmt.Fprintf(&b, "  - Text: %s...\n", truncate(e.Text, 100))
		}
	}
	b.WriteString("\n")
	return q.appendMarkdown(q.intakePath(), "", b.String())
}

// AppendTry adds a dated section of try items to queues/try-queue.md.
func (q *QueueFiles) AppendTry(entries []core.TryEntry) error {
	header := strings.Join([]string{
		"# Try Queue",
		"",
		"Tools, repos, and libraries to experiment with.",
		"",
		"---",
		"",
	}, "\n") + "\n"

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", q.now().Format("2006-01-02"))
	for _, e := range entries {
		fmt.Fprintf(&b, "### %s\n\n", e.Title)
		if e.URL != "" {
			fmt.Fprintf(&b, "- **URL**: %s\n", e.URL)
		}
		fmt.Fprintf(&b, "- **Source**: %s\n", e.SourceURL)
		fmt.Fprintf(&b, "- **Author**: @%s\n", e.AuthorHandle)
		fmt.Fprintf(&b, "- **Why**: %s\n\n", e.Reasoning)
		fmt.Fprintf(&b, "> %s...\n\n", truncate(e.Text, 200))
	}
	return q.appendMarkdown(q.tryPath(), header, b.String())
}

// AppendReview adds a dated section of review items to queues/review-queue.md.
func (q *QueueFiles) AppendReview(entries []core.ReviewEntry) error {
	header := strings.Join([]string{
		"# Review Queue",
		"",
		"Threads, opinions, and content needing human review.",
		"",
		"---",
		"",
	}, "\n") + "\n"

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", q.now().Format("2006-01-02"))
	for _, e := range entries {
		fmt.Fprintf(&b, "### @%s\n\n", e.AuthorHandle)
		fmt.Fprintf(&b, "- **Post**: %s\n", e.SourceURL)
		fmt.Fprintf(&b, "- **Type**: %s\n", e.ContentType)
		fmt.Fprintf(&b, "- **Reason**: %s\n\n", e.Reasoning)
		fmt.Fprintf(&b, "> %s\n\n", e.Text)
		if e.PrimaryURL != "" {
			fmt.Fprintf(&b, "**Link**: %s\n\n", e.PrimaryURL)
		}
	}
	return q.appendMarkdown(q.reviewPath(), header, b.String())
}

// quotesFile is the on-disk shape of queues/quotes.yaml.
type quotesFile struct {
	Quotes []core.QuoteEntry `yaml:"quotes"`
}

// AppendQuotes loads queues/quotes.yaml, appends the new quotes, and rewrites
// it atomically.
func (q *QueueFiles) AppendQuotes(entries []core.QuoteEntry) error {
	path := q.quotesPath()

	var file quotesFile
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading quotes file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parsing quotes file: %w", err)
		}
	}

	file.Quotes = append(file.Quotes, entries...)

	out, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshaling quotes: %w", err)
	}
	return writeAtomic(path, out)
}

// appendMarkdown rewrites a markdown queue file with the new section appended,
// prepending header when the file does not exist yet. The read-modify-rename
// keeps a crashed write from leaving a half-appended section.
func (q *QueueFiles) appendMarkdown(path, header, section string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading queue file: %w", err)
	}

	var b strings.Builder
	if os.IsNotExist(err) {
		b.WriteString(header)
	} else {
		b.Write(existing)
	}
	b.WriteString(section)

	return writeAtomic(path, []byte(b.String()))
}

// CountIntake returns the number of link entries in the intake queue.
func (q *QueueFiles) CountIntake() int {
	return countLinePrefix(q.intakePath(), "- ")
}

// CountTry returns the number of entries in the try queue.
func (q *QueueFiles) CountTry() int {
	return countLinePrefix(q.tryPath(), "### ")
}

// CountReview returns the number of entries in the review queue.
func (q *QueueFiles) CountReview() int {
	return countLinePrefix(q.reviewPath(), "### ")
}

// CountQuotes returns the number of stored quotes.
func (q *QueueFiles) CountQuotes() int {
	data, err := os.ReadFile(q.quotesPath())
	if err != nil {
		return 0
	}
	var file quotesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0
	}
	return len(file.Quotes)
}

func countLinePrefix(path, prefix string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	n := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func truncate(s string, n int) string {
	flat := strings.Join(strings.Fields(s), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n])
}

// writeAtomic writes data to path via a temp file and rename, creating parent
// directories as needed.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
