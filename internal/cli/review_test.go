package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/datacentered/curator/internal/observability"
	"github.com/datacentered/curator/internal/storage"
	"github.com/datacentered/curator/pkg/models"
)

// withReviewServices points the package services at a temp directory for one
// test and restores them afterwards.
func withReviewServices(t *testing.T) string {
	t.Helper()
	base := t.TempDir()

	oldPending, oldLog, oldRegistry := Pending, RoutingLog, Registry
	Pending = storage.NewPendingStore(base)
	RoutingLog = observability.NewRoutingLog(base)
	Registry = storage.NewRegistry(base)
	t.Cleanup(func() {
		Pending, RoutingLog, Registry = oldPending, oldLog, oldRegistry
	})
	return base
}

func withReingest(t *testing.T, fn func(context.Context, string) error) {
	t.Helper()
	old := reingest
	reingest = fn
	t.Cleanup(func() { reingest = old })
}

func TestApproveEntry_ReentersPipeline(t *testing.T) {
	withReviewServices(t)

	var gotURL string
	withReingest(t, func(_ context.Context, url string) error {
		gotURL = url
		return nil
	})

	entry := models.PendingEntry{ID: "agent-memory", URL: "https://example.com/essay"}
	if err := Pending.Add(entry); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := approveEntry(context.Background(), entry); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if gotURL != entry.URL {
		t.Errorf("approval must re-run ingestion for the entry URL, got %q", gotURL)
	}

	left, err := Pending.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("approved entry must leave the pending queue, %d left", len(left))
	}

	records, err := RoutingLog.Read()
	if err != nil {
		t.Fatalf("reading routing log: %v", err)
	}
	if len(records) != 1 || records[0].Action != "review.approved" {
		t.Errorf("expected one review.approved action, got %+v", records)
	}
}

func TestApproveEntry_ReentryFailureLeavesPending(t *testing.T) {
	withReviewServices(t)
	withReingest(t, func(context.Context, string) error {
		return errors.New("fetch failed")
	})

	entry := models.PendingEntry{ID: "agent-memory", URL: "https://example.com/essay"}
	if err := Pending.Add(entry); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := approveEntry(context.Background(), entry); err == nil {
		t.Fatal("expected re-entry failure to surface")
	}

	left, _ := Pending.List()
	if len(left) != 1 {
		t.Error("failed approval must leave the entry pending")
	}
	records, _ := RoutingLog.Read()
	if len(records) != 0 {
		t.Errorf("failed approval must not log an action, got %+v", records)
	}
}

func TestApproveEdited_RegistersWithoutReentry(t *testing.T) {
	withReviewServices(t)
	withReingest(t, func(context.Context, string) error {
		t.Error("edited entries must not re-run the pipeline")
		return nil
	})

	entry := models.PendingEntry{
		ID:          "agent-memory",
		URL:         "https://example.com/essay",
		Title:       "Agent Memory",
		Domain:      "ai-llms",
		Category:    "Agent Memory",
		Granularity: "conceptual",
		ContentType: "essay",
		AuthorID:    "j-smith",
	}
	if err := Pending.Add(entry); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := approveEdited(entry); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	if Registry.CountResources() != 1 {
		t.Errorf("edited entry must land in the registry, count %d", Registry.CountResources())
	}
	left, _ := Pending.List()
	if len(left) != 0 {
		t.Error("approved entry must leave the pending queue")
	}
}

func TestEditEntry_EmptyInputKeepsValues(t *testing.T) {
	entry := models.PendingEntry{
		Domain:      "ai-llms",
		Category:    "Agent Memory",
		Granularity: "conceptual",
	}
	reader := bufio.NewReader(strings.NewReader("\n\n\n"))

	edited, err := editEntry(reader, entry)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if edited.Domain != "ai-llms" || edited.Category != "Agent Memory" || edited.Granularity != "conceptual" {
		t.Errorf("empty input must keep values, got %+v", edited)
	}
}

func TestEditEntry_CorrectsTaxonomy(t *testing.T) {
	entry := models.PendingEntry{
		Domain:      "ai-llms",
		Category:    "Agent Memory",
		Granularity: "conceptual",
	}
	reader := bufio.NewReader(strings.NewReader("\n\nfoundational\n"))

	edited, err := editEntry(reader, entry)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if edited.Granularity != "foundational" {
		t.Errorf("expected corrected granularity, got %q", edited.Granularity)
	}
	if edited.Domain != "ai-llms" {
		t.Errorf("untouched domain must survive, got %q", edited.Domain)
	}
}
