package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/datacentered/curator/pkg/models"
)

// TriageInput is the structured input handed to a triage classifier stage.
type TriageInput struct {
	Text       string
	AuthorName string
	AuthorBio  string
	URLs       string
	HasMedia   bool
	IsThread   bool
}

// TriageOutput is the raw stage output before validation. Fields are plain
// strings because predictive backends routinely return out-of-vocabulary
// values; the orchestrator corrects them to safe defaults.
type TriageOutput struct {
	Intent      string
	ContentType string
	PrimaryURL  string
	Confidence  string
	Reasoning   string
}

// QuoteInput is the input to the quote-extraction stage.
type QuoteInput struct {
	Text       string
	AuthorName string
}

// QuoteOutput is the quote-extraction stage result.
type QuoteOutput struct {
	Quote    string
	Topic    string
	Quotable bool
}

// TriageClassifier is the pluggable capability behind the triage
// orchestrator. Implementations may be rule-based or backed by a predictive
// service; the orchestrator only requires that outputs conform to the
// declared field sets.
type TriageClassifier interface {
	Triage(ctx context.Context, in TriageInput) (TriageOutput, error)
	ExtractQuote(ctx context.Context, in QuoteInput) (QuoteOutput, error)
}

// StageLogger receives one run per processed item and one entry per stage.
// Implemented by the observability audit logger.
type StageLogger interface {
	StartRun(itemKey string) string
	LogStage(name string, inputs, outputs map[string]any, reasoning string)
	FinishRun(success bool, resultID, errMsg string) (string, error)
}

// nopStageLogger discards stage records; used when auditing is disabled.
type nopStageLogger struct{}

func (nopStageLogger) StartRun(string) string                                  { return "" }
func (nopStageLogger) LogStage(string, map[string]any, map[string]any, string) {}
func (nopStageLogger) FinishRun(bool, string, string) (string, error)          { return "", nil }

// Triager orchestrates the bookmark triage pipeline: classification,
// deterministic URL overrides, optional quote extraction, and the review
// gate.
type Triager struct {
	classifier TriageClassifier
	audit      StageLogger
	diag       *slog.Logger
	threshold  float64
}

// NewTriager creates a triage orchestrator. audit may be nil to disable
// stage auditing, diag may be nil to silence diagnostics. threshold is the
// review gate (strictly-below flags review).
func NewTriager(classifier TriageClassifier, audit StageLogger, diag *slog.Logger, threshold float64) *Triager {
	if audit == nil {
		audit = nopStageLogger{}
	}
	if diag == nil {
		diag = slog.New(slog.DiscardHandler)
	}
	return &Triager{classifier: classifier, audit: audit, diag: diag, threshold: threshold}
}

// Process classifies one item and computes its routing decision. A classifier
// backend failure is fatal for the item: the run is marked failed in the
// audit log and the caller must not mark the item seen, so it is retried on
// the next pass.
func (t *Triager) Process(ctx context.Context, item models.Item) (models.TriageResult, error) {
	t.audit.StartRun(item.ID)

	urls := ExtractURLs(item.Text)
	urlsField := "none"
	if len(urls) > 0 {
		urlsField = strings.Join(urls, ", ")
	}

	out, err := t.classifier.Triage(ctx, TriageInput{
		Text:       item.Text,
		AuthorName: item.AuthorName,
		AuthorBio:  item.AuthorBio,
		URLs:       urlsField,
		HasMedia:   item.HasMedia,
		IsThread:   item.IsThread,
	})
	if err != nil {
		t.finishRun(item.ID, false, "", err.Error())
		return models.TriageResult{}, fmt.Errorf("triaging item %s: %w", item.ID, err)
	}

	intent := ValidIntent(out.Intent)
	contentType := ValidTriageContentType(out.ContentType)
	confidence := ClampConfidence(out.Confidence)

	// URL-domain overrides take precedence over the stage output.
	if len(urls) > 0 {
		primary := urls[0]
		switch {
		case IsGitHubRepoURL(primary) && intent == models.IntentLearn:
			intent = models.IntentTry
			contentType = models.TriageRepo
		case IsVideoURL(primary):
			contentType = models.TriageVideo
		case IsPodcastURL(primary):
			contentType = models.TriagePodcast
		}
	}

	primaryURL := strings.TrimSpace(out.PrimaryURL)
	if primaryURL == "" || strings.EqualFold(primaryURL, "none") {
		primaryURL = ""
		if len(urls) > 0 {
			primaryURL = urls[0]
		}
	}

	t.audit.LogStage("triage",
		map[string]any{"item_id": item.ID, "urls": urlsField, "has_media": item.HasMedia, "is_thread": item.IsThread},
		map[string]any{"intent": string(intent), "content_type": string(contentType), "primary_url": primaryURL, "confidence": confidence},
		out.Reasoning)

	result := models.TriageResult{
		ItemID:       item.ID,
		Text:         item.Text,
		AuthorName:   item.AuthorName,
		AuthorHandle: item.AuthorHandle,
		ItemURL:      item.SourceURL,
		Intent:       intent,
		ContentType:  contentType,
		PrimaryURL:   primaryURL,
		Confidence:   confidence,
		Reasoning:    out.Reasoning,
	}

	if intent == models.IntentQuote {
		quote, err := t.classifier.ExtractQuote(ctx, QuoteInput{Text: item.Text, AuthorName: item.AuthorName})
		if err != nil {
			t.finishRun(item.ID, false, "", err.Error())
			return models.TriageResult{}, fmt.Errorf("extracting quote for item %s: %w", item.ID, err)
		}
		if quote.Quotable {
			result.Quote = quote.Quote
			result.QuoteTopic = quote.Topic
		} else {
			// Not actually worth saving; downgrade to skip.
			result.Intent = models.IntentSkip
			result.Confidence = 0.3
		}
		t.audit.LogStage("quote",
			map[string]any{"item_id": item.ID},
			map[string]any{"quotable": quote.Quotable, "quote": quote.Quote, "topic": quote.Topic},
			"")
	}

	result.NeedsReview = result.Confidence < t.threshold

	t.finishRun(item.ID, true, result.ItemID, "")
	return result, nil
}

// finishRun closes the audit run. A failed record write is tolerable but not
// silent.
func (t *Triager) finishRun(itemID string, success bool, resultID, errMsg string) {
	if _, err := t.audit.FinishRun(success, resultID, errMsg); err != nil {
		t.diag.Warn("audit record write failed", "item", itemID, "error", err)
	}
}
