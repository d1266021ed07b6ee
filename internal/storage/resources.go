package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/datacentered/curator/internal/core"
	"github.com/datacentered/curator/pkg/models"
)

// Registry reads and appends the knowledge-base registries: resources.yaml
// and authors.yaml. Entries are append-only; curation of existing entries
// happens in an editor, not here.
type Registry struct {
	resourcesPath string
	authorsPath   string
}

// NewRegistry creates a registry rooted at basePath.
func NewRegistry(basePath string) *Registry {
	return &Registry{
		resourcesPath: filepath.Join(basePath, "resources.yaml"),
		authorsPath:   filepath.Join(basePath, "authors.yaml"),
	}
}

// resourceEntry is the on-disk schema of one resources.yaml entry.
type resourceEntry struct {
	ID              string   `yaml:"id"`
	URL             string   `yaml:"url"`
	PreferredLabel  string   `yaml:"preferredLabel"`
	AlternateLabels []string `yaml:"alternateLabels"`
	Definition      string   `yaml:"definition"`

	Author        string `yaml:"author"`
	Source        string `yaml:"source,omitempty"`
	ContentType   string `yaml:"contentType"`
	PublishedDate string `yaml:"publishedDate,omitempty"`
	DateAdded     string `yaml:"dateAdded"`

	Domain      string `yaml:"domain"`
	Category    string `yaml:"category"`
	Granularity string `yaml:"granularity"`

	Relationships []string `yaml:"relationships"`

	ValidationStatus string `yaml:"validationStatus"`

	ReadingTime string `yaml:"readingTime,omitempty"`
	Color       string `yaml:"color"`
}

// authorEntry is the on-disk schema of one authors.yaml entry. Unknown
// demographics stay null so later manual research has slots to fill.
type authorEntry struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Affiliation     *string `yaml:"affiliation"`
	PerspectiveType string  `yaml:"perspectiveType"`
	Location        *string `yaml:"location"`
	SocialFollowing *int    `yaml:"socialFollowing"`
	Bio             string  `yaml:"bio"`
	BioSource       *string `yaml:"bioSource"`
}

type resourcesFile struct {
	Resources []resourceEntry `yaml:"resources"`
}

type authorsFile struct {
	Authors []authorEntry `yaml:"authors"`
}

// KnownURLs returns a map of normalized resource URL to resource ID, used for
// duplicate detection before ingestion.
func (r *Registry) KnownURLs() (map[string]string, error) {
	var file resourcesFile
	if err := loadYAML(r.resourcesPath, &file); err != nil {
		return nil, fmt.Errorf("loading resources registry: %w", err)
	}
	urls := make(map[string]string, len(file.Resources))
	for _, entry := range file.Resources {
		if entry.URL != "" && entry.ID != "" {
			urls[core.NormalizeKey(entry.URL)] = entry.ID
		}
	}
	return urls, nil
}

// KnownAuthors returns the set of registered author IDs.
func (r *Registry) KnownAuthors() (map[string]bool, error) {
	var file authorsFile
	if err := loadYAML(r.authorsPath, &file); err != nil {
		return nil, fmt.Errorf("loading authors registry: %w", err)
	}
	ids := make(map[string]bool, len(file.Authors))
	for _, entry := range file.Authors {
		if entry.ID != "" {
			ids[entry.ID] = true
		}
	}
	return ids, nil
}

// CountResources returns the number of registered resources.
func (r *Registry) CountResources() int {
	var file resourcesFile
	if err := loadYAML(r.resourcesPath, &file); err != nil {
		return 0
	}
	return len(file.Resources)
}

// AppendResource adds one classified resource to resources.yaml.
func (r *Registry) AppendResource(res *models.ClassifiedResource) error {
	entry := resourceEntry{
		ID:               res.ID,
		URL:              res.URL,
		PreferredLabel:   res.Title,
		AlternateLabels:  res.AlternateLabels,
		Definition:       res.Definition,
		Author:           res.AuthorID,
		Source:           res.Source,
		ContentType:      string(res.ContentType),
		PublishedDate:    res.PublishedDate,
		DateAdded:        time.Now().UTC().Format("2006-01-02"),
		Domain:           string(res.Domain),
		Category:         res.Category,
		Granularity:      string(res.Granularity),
		Relationships:    []string{},
		ValidationStatus: "unvalidated",
		ReadingTime:      res.ReadingTime,
		Color:            res.Color,
	}
	return appendEntry(r.resourcesPath, "resources:", entry)
}

// AppendAuthor adds one author to authors.yaml, folding in GitHub enrichment
// when present.
func (r *Registry) AppendAuthor(res *models.ClassifiedResource) error {
	entry := authorEntry{
		ID:              res.AuthorID,
		Name:            res.AuthorName,
		PerspectiveType: "practitioner",
		Bio:             "[To be researched]",
	}
	if res.URL != "" {
		entry.BioSource = &res.URL
	}
	if gh := res.Enrichment; gh != nil {
		if gh.Company != "" {
			entry.Affiliation = &gh.Company
		}
		if gh.Location != "" {
			entry.Location = &gh.Location
		}
		if gh.Followers > 0 {
			entry.SocialFollowing = &gh.Followers
		}
		if gh.Bio != "" {
			entry.Bio = gh.Bio
		}
		if gh.ProfileURL != "" {
			entry.BioSource = &gh.ProfileURL
		}
	}
	return appendEntry(r.authorsPath, "authors:", entry)
}

// appendEntry appends one marshaled entry under the file's top-level list
// header, creating the file with the header when missing.
func appendEntry(path, header string, entry any) error {
	raw, err := yaml.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling registry entry: %w", err)
	}

	var b strings.Builder
	for i, line := range strings.Split(strings.TrimRight(string(raw), "\n"), "\n") {
		if i == 0 {
			b.WriteString("  - " + line + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading registry: %w", err)
	}

	var out strings.Builder
	if os.IsNotExist(err) || !strings.Contains(string(existing), header) {
		out.Write(existing)
		if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
			out.WriteString("\n")
		}
		out.WriteString(header + "\n")
	} else {
		out.Write(existing)
		if !strings.HasSuffix(string(existing), "\n") {
			out.WriteString("\n")
		}
	}
	out.WriteString(b.String())

	return writeAtomic(path, []byte(out.String()))
}

func loadYAML(path string, target any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, target)
}
