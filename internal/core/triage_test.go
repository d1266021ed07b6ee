package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/datacentered/curator/pkg/models"
)

// fakeClassifier returns canned stage outputs.
type fakeClassifier struct {
	out      TriageOutput
	err      error
	quote    QuoteOutput
	quoteErr error
}

func (f *fakeClassifier) Triage(context.Context, TriageInput) (TriageOutput, error) {
	return f.out, f.err
}

func (f *fakeClassifier) ExtractQuote(context.Context, QuoteInput) (QuoteOutput, error) {
	return f.quote, f.quoteErr
}

func TestTriager_GitHubOverride(t *testing.T) {
	classifier := &fakeClassifier{out: TriageOutput{
		Intent:      "learn",
		ContentType: "article",
		Confidence:  "0.9",
	}}
	triager := NewTriager(classifier, nil, nil, 0.7)

	item := models.Item{ID: "1", Text: "neat https://github.com/golang/go"}
	result, err := triager.Process(context.Background(), item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Intent != models.IntentTry {
		t.Errorf("expected try intent for github+learn, got %s", result.Intent)
	}
	if result.ContentType != models.TriageRepo {
		t.Errorf("expected repo content type, got %s", result.ContentType)
	}
}

func TestTriager_VideoOverride(t *testing.T) {
	classifier := &fakeClassifier{out: TriageOutput{
		Intent:      "learn",
		ContentType: "article",
		Confidence:  "0.8",
	}}
	triager := NewTriager(classifier, nil, nil, 0.7)

	item := models.Item{ID: "1", Text: "watch https://youtube.com/watch?v=abc"}
	result, err := triager.Process(context.Background(), item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ContentType != models.TriageVideo {
		t.Errorf("expected video content type override, got %s", result.ContentType)
	}
	if result.Intent != models.IntentLearn {
		t.Errorf("video override must not change intent, got %s", result.Intent)
	}
}

func TestTriager_PrimaryURLFallback(t *testing.T) {
	classifier := &fakeClassifier{out: TriageOutput{
		Intent:      "learn",
		ContentType: "article",
		PrimaryURL:  "none",
		Confidence:  "0.8",
	}}
	triager := NewTriager(classifier, nil, nil, 0.7)

	item := models.Item{ID: "1", Text: "read https://example.com/essay"}
	result, err := triager.Process(context.Background(), item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PrimaryURL != "https://example.com/essay" {
		t.Errorf("expected fallback to first extracted URL, got %q", result.PrimaryURL)
	}
}

func TestTriager_ReviewGateBoundary(t *testing.T) {
	tests := []struct {
		confidence string
		want       bool
	}{
		{"0.7", false}, // at threshold is not flagged
		{"0.69", true},
		{"0.71", false},
	}

	for _, tt := range tests {
		classifier := &fakeClassifier{out: TriageOutput{
			Intent:      "review",
			ContentType: "other",
			Confidence:  tt.confidence,
		}}
		triager := NewTriager(classifier, nil, nil, 0.7)

		result, err := triager.Process(context.Background(), models.Item{ID: "1", Text: "hmm"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.NeedsReview != tt.want {
			t.Errorf("confidence %s: NeedsReview = %v, want %v", tt.confidence, result.NeedsReview, tt.want)
		}
	}
}

func TestTriager_QuoteExtraction(t *testing.T) {
	classifier := &fakeClassifier{
		out:   TriageOutput{Intent: "quote", ContentType: "insight", Confidence: "0.8"},
		quote: QuoteOutput{Quote: "ship early", Topic: "product", Quotable: true},
	}
	triager := NewTriager(classifier, nil, nil, 0.7)

	result, err := triager.Process(context.Background(), models.Item{ID: "1", Text: "ship early"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Quote != "ship early" || result.QuoteTopic != "product" {
		t.Errorf("quote fields not populated: %+v", result)
	}
	if result.Intent != models.IntentQuote {
		t.Errorf("expected quote intent, got %s", result.Intent)
	}
}

func TestTriager_UnquotableDowngradesToSkip(t *testing.T) {
	classifier := &fakeClassifier{
		out:   TriageOutput{Intent: "quote", ContentType: "insight", Confidence: "0.8"},
		quote: QuoteOutput{Quotable: false},
	}
	triager := NewTriager(classifier, nil, nil, 0.7)

	result, err := triager.Process(context.Background(), models.Item{ID: "1", Text: "meh"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Intent != models.IntentSkip {
		t.Errorf("expected skip for unquotable, got %s", result.Intent)
	}
	if result.Confidence != 0.3 {
		t.Errorf("expected downgraded confidence 0.3, got %v", result.Confidence)
	}
	if !result.NeedsReview {
		t.Error("downgraded confidence must flag review")
	}
}

func TestTriager_ClassifierErrorIsFatal(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("backend down")}
	triager := NewTriager(classifier, nil, nil, 0.7)

	if _, err := triager.Process(context.Background(), models.Item{ID: "1", Text: "x"}); err == nil {
		t.Fatal("expected error from failing classifier")
	}
}

// failingAudit accepts stages but fails every record write.
type failingAudit struct{}

func (failingAudit) StartRun(string) string                                  { return "run" }
func (failingAudit) LogStage(string, map[string]any, map[string]any, string) {}
func (failingAudit) FinishRun(bool, string, string) (string, error) {
	return "", errors.New("disk full")
}

func TestTriager_AuditWriteFailureLoggedNotFatal(t *testing.T) {
	classifier := &fakeClassifier{out: TriageOutput{
		Intent:      "learn",
		ContentType: "article",
		Confidence:  "0.9",
	}}

	var buf bytes.Buffer
	diag := slog.New(slog.NewTextHandler(&buf, nil))
	triager := NewTriager(classifier, failingAudit{}, diag, 0.7)

	result, err := triager.Process(context.Background(), models.Item{ID: "1", Text: "fine"})
	if err != nil {
		t.Fatalf("audit write failure must not fail the item: %v", err)
	}
	if result.Intent != models.IntentLearn {
		t.Errorf("unexpected intent %s", result.Intent)
	}
	if !strings.Contains(buf.String(), "audit record write failed") {
		t.Errorf("audit failure must be logged, got %q", buf.String())
	}
}

func TestTriager_InvalidOutputsCorrected(t *testing.T) {
	classifier := &fakeClassifier{out: TriageOutput{
		Intent:      "destroy",
		ContentType: "hologram",
		Confidence:  "definitely",
	}}
	triager := NewTriager(classifier, nil, nil, 0.7)

	result, err := triager.Process(context.Background(), models.Item{ID: "1", Text: "odd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Intent != models.IntentReview {
		t.Errorf("unknown intent should default to review, got %s", result.Intent)
	}
	if result.ContentType != models.TriageOther {
		t.Errorf("unknown content type should default to other, got %s", result.ContentType)
	}
	if result.Confidence != 0.5 {
		t.Errorf("unparsable confidence should default to 0.5, got %v", result.Confidence)
	}
}
