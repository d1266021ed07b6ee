package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/datacentered/curator/pkg/models"
)

// QueueWriter is the persistence surface the router flushes into. Implemented
// by the storage queue files.
type QueueWriter interface {
	AppendIntake(entries []IntakeEntry) error
	AppendTry(entries []TryEntry) error
	AppendReview(entries []ReviewEntry) error
	AppendQuotes(entries []QuoteEntry) error
}

// RouteLogger records one audit entry per routing decision, including skips.
type RouteLogger interface {
	AppendRoute(entry RouteRecord) error
}

// IntakeEntry is a learn-intent item queued for ingestion.
type IntakeEntry struct {
	Title        string
	URL          string
	SourceURL    string
	ContentType  models.TriageContentType
	AuthorHandle string
	Text         string
	Confidence   float64
}

// TryEntry is a try-intent item queued for hands-on evaluation.
type TryEntry struct {
	Title        string
	URL          string
	SourceURL    string
	AuthorHandle string
	Text         string
	Reasoning    string
}

// ReviewEntry is a review-intent item queued for a human pass.
type ReviewEntry struct {
	AuthorHandle string
	SourceURL    string
	ContentType  models.TriageContentType
	Reasoning    string
	Text         string
	PrimaryURL   string
}

// QuoteEntry is an extracted quote with attribution.
type QuoteEntry struct {
	Quote      string `yaml:"quote"`
	AuthorName string `yaml:"author"`
	Handle     string `yaml:"handle,omitempty"`
	SourceURL  string `yaml:"source,omitempty"`
	Topic      string `yaml:"topic,omitempty"`
	Added      string `yaml:"added"`
}

// RouteRecord is the per-decision audit entry.
type RouteRecord struct {
	Timestamp   time.Time                `json:"timestamp"`
	ItemID      string                   `json:"item_id"`
	Intent      models.Intent            `json:"intent"`
	ContentType models.TriageContentType `json:"content_type"`
	Title       string                   `json:"title"`
	URL         string                   `json:"url,omitempty"`
	Confidence  float64                  `json:"confidence"`
	NeedsReview bool                     `json:"needs_review"`
	Action      string                   `json:"action,omitempty"`
}

// RouteStats counts routed items per intent for the current session.
type RouteStats struct {
	Learn  int
	Try    int
	Review int
	Quote  int
	Skip   int
}

// Total sums all intents, skips included.
func (s RouteStats) Total() int {
	return s.Learn + s.Try + s.Review + s.Quote + s.Skip
}

// Router buffers triage results by destination and flushes them to the queue
// files in one pass. Skips are counted and audited but never buffered.
type Router struct {
	queues QueueWriter
	log    RouteLogger
	now    func() time.Time

	intake []IntakeEntry
	try    []TryEntry
	review []ReviewEntry
	quotes []QuoteEntry
	stats  RouteStats
}

// NewRouter creates a router over the given queue writer. log may be nil to
// disable routing audit entries.
func NewRouter(queues QueueWriter, log RouteLogger) *Router {
	return &Router{queues: queues, log: log, now: time.Now}
}

// Route buffers one triage result toward its destination queue, updates the
// session stats, and appends a routing audit entry. Every call produces
// exactly one audit entry, skip intents included.
func (r *Router) Route(result models.TriageResult) error {
	title := DisplayTitle(result.Text, result.PrimaryURL)

	switch result.Intent {
	case models.IntentLearn:
		r.stats.Learn++
		r.intake = append(r.intake, IntakeEntry{
			Title:        title,
			URL:          result.PrimaryURL,
			SourceURL:    result.ItemURL,
			ContentType:  result.ContentType,
			AuthorHandle: result.AuthorHandle,
			Text:         result.Text,
			Confidence:   result.Confidence,
		})
	case models.IntentTry:
		r.stats.Try++
		r.try = append(r.try, TryEntry{
			Title:        title,
			URL:          result.PrimaryURL,
			SourceURL:    result.ItemURL,
			AuthorHandle: result.AuthorHandle,
			Text:         result.Text,
			Reasoning:    result.Reasoning,
		})
	case models.IntentReview:
		r.stats.Review++
		r.review = append(r.review, ReviewEntry{
			AuthorHandle: result.AuthorHandle,
			SourceURL:    result.ItemURL,
			ContentType:  result.ContentType,
			Reasoning:    result.Reasoning,
			Text:         result.Text,
			PrimaryURL:   result.PrimaryURL,
		})
	case models.IntentQuote:
		r.stats.Quote++
		r.quotes = append(r.quotes, QuoteEntry{
			Quote:      result.Quote,
			AuthorName: result.AuthorName,
			Handle:     result.AuthorHandle,
			SourceURL:  result.ItemURL,
			Topic:      result.QuoteTopic,
			Added:      r.now().UTC().Format("2006-01-02"),
		})
	case models.IntentSkip:
		r.stats.Skip++
	default:
		return fmt.Errorf("routing item %s: unknown intent %q", result.ItemID, result.Intent)
	}

	if r.log != nil {
		entry := RouteRecord{
			Timestamp:   r.now().UTC(),
			ItemID:      result.ItemID,
			Intent:      result.Intent,
			ContentType: result.ContentType,
			Title:       title,
			URL:         result.PrimaryURL,
			Confidence:  result.Confidence,
			NeedsReview: result.NeedsReview,
		}
		if err := r.log.AppendRoute(entry); err != nil {
			return fmt.Errorf("logging route for item %s: %w", result.ItemID, err)
		}
	}
	return nil
}

// Flush writes every buffered destination to its queue file. Destinations are
// independent: a failure in one does not block the others, and only
// successfully written buffers are cleared, so a retry never loses entries.
func (r *Router) Flush() error {
	var errs []error

	if len(r.intake) > 0 {
		if err := r.queues.AppendIntake(r.intake); err != nil {
			errs = append(errs, fmt.Errorf("flushing intake queue: %w", err))
		} else {
			r.intake = nil
		}
	}
	if len(r.try) > 0 {
		if err := r.queues.AppendTry(r.try); err != nil {
			errs = append(errs, fmt.Errorf("flushing try queue: %w", err))
		} else {
			r.try = nil
		}
	}
	if len(r.review) > 0 {
		if err := r.queues.AppendReview(r.review); err != nil {
			errs = append(errs, fmt.Errorf("flushing review queue: %w", err))
		} else {
			r.review = nil
		}
	}
	if len(r.quotes) > 0 {
		if err := r.queues.AppendQuotes(r.quotes); err != nil {
			errs = append(errs, fmt.Errorf("flushing quotes: %w", err))
		} else {
			r.quotes = nil
		}
	}

	return errors.Join(errs...)
}

// Pending reports how many buffered entries await a flush.
func (r *Router) Pending() int {
	return len(r.intake) + len(r.try) + len(r.review) + len(r.quotes)
}

// Stats returns the per-intent counts for this session.
func (r *Router) Stats() RouteStats {
	return r.stats
}
