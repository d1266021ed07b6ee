package models

// ReviewStatus is the lifecycle state of a pending-review entry.
// pending is the only persisted state; the terminal states remove the entry
// from the pending collection.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewSkipped  ReviewStatus = "skipped"
	ReviewDeleted  ReviewStatus = "deleted"
)

// IsTerminal reports whether a status ends an entry's review lifecycle.
func (s ReviewStatus) IsTerminal() bool {
	switch s {
	case ReviewApproved, ReviewSkipped, ReviewDeleted:
		return true
	default:
		return false
	}
}

// PendingEntry is a low-confidence classification parked for operator review.
// It carries enough of the ClassifiedResource to re-materialize the entry
// without re-running the pipeline when the operator approves with edits.
type PendingEntry struct {
	ID              string       `yaml:"id"`
	URL             string       `yaml:"url"`
	Title           string       `yaml:"title"`
	Domain          string       `yaml:"domain"`
	Category        string       `yaml:"category"`
	ContentType     string       `yaml:"content_type"`
	Granularity     string       `yaml:"granularity"`
	Confidence      float64      `yaml:"confidence"`
	Reasoning       string       `yaml:"reasoning"`
	Definition      string       `yaml:"definition"`
	AlternateLabels []string     `yaml:"alternate_labels,omitempty"`
	AuthorID        string       `yaml:"author_id"`
	AuthorName      string       `yaml:"author_name"`
	IsNewAuthor     bool         `yaml:"is_new_author"`
	Source          string       `yaml:"source,omitempty"`
	PublishedDate   string       `yaml:"published_date,omitempty"`
	ReadingTime     string       `yaml:"reading_time,omitempty"`
	WordCount       int          `yaml:"word_count,omitempty"`
	Status          ReviewStatus `yaml:"status"`
	Added           string       `yaml:"added"`
}
