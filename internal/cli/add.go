package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datacentered/curator/internal/core"
	"github.com/datacentered/curator/pkg/models"
)

var (
	addDryRun      bool
	addAutoApprove bool
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Classify one URL into the knowledge base",
	Long: `Fetch a URL, run it through the classification pipeline, and register the
result.

High-confidence results go straight into the resource registry. Results below
the confidence threshold are parked in the pending-review queue unless
--auto-approve is set. With --dry-run, the classification is printed but
nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd.Context(), args[0], addDryRun, addAutoApprove)
	},
}

// runAdd is the shared single-URL ingestion path used by add, batch, and
// review approval.
func runAdd(ctx context.Context, url string, dryRun, autoApprove bool) error {
	if Fetcher == nil || Registry == nil {
		return fmt.Errorf("ingestion services not initialized")
	}

	knownURLs, err := Registry.KnownURLs()
	if err != nil {
		return err
	}
	if id, ok := knownURLs[core.NormalizeKey(url)]; ok {
		fmt.Printf("Already in knowledge base as %s, skipping.\n", id)
		return nil
	}

	pipeline, err := newPipeline(dryRun)
	if err != nil {
		return err
	}

	fmt.Printf("Fetching %s ...\n", url)
	fetched, err := Fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	fmt.Printf("Extracted %d words from %s\n", fetched.WordCount, fetched.Platform)

	result, err := pipeline.Process(ctx, fetched)
	if err != nil {
		return err
	}
	printResource(result)

	if dryRun {
		fmt.Println("Dry run: nothing written.")
		return nil
	}

	if result.NeedsReview && !autoApprove {
		entry := pendingEntryFrom(result)
		if err := Pending.Add(entry); err != nil {
			return err
		}
		fmt.Println("Low confidence: parked in pending review queue.")
		fmt.Println("Run `curator review` to approve or edit.")
		return nil
	}

	return registerResource(result)
}

// registerResource appends a classified resource (and its author when new) to
// the registries.
func registerResource(result *models.ClassifiedResource) error {
	if err := Registry.AppendResource(result); err != nil {
		return err
	}
	fmt.Printf("Resource %s added to knowledge base.\n", result.ID)

	if result.IsNewAuthor {
		if err := Registry.AppendAuthor(result); err != nil {
			return err
		}
		fmt.Printf("New author %s registered.\n", result.AuthorID)
		if result.Enrichment != nil {
			fmt.Printf("  Enriched from %s\n", result.Enrichment.ProfileURL)
		}
	}
	return nil
}

func pendingEntryFrom(result *models.ClassifiedResource) models.PendingEntry {
	return models.PendingEntry{
		ID:              result.ID,
		URL:             result.URL,
		Title:           result.Title,
		Domain:          string(result.Domain),
		Category:        result.Category,
		ContentType:     string(result.ContentType),
		Granularity:     string(result.Granularity),
		Confidence:      result.Confidence,
		Reasoning:       result.Reasoning,
		Definition:      result.Definition,
		AlternateLabels: result.AlternateLabels,
		AuthorID:        result.AuthorID,
		AuthorName:      result.AuthorName,
		IsNewAuthor:     result.IsNewAuthor,
		Source:          result.Source,
		PublishedDate:   result.PublishedDate,
		ReadingTime:     result.ReadingTime,
		WordCount:       result.WordCount,
		Status:          models.ReviewPending,
	}
}

func printResource(r *models.ClassifiedResource) {
	reviewFlag := "ok"
	if r.NeedsReview {
		reviewFlag = "NEEDS REVIEW"
	}
	fmt.Println()
	fmt.Printf("  %s\n", r.Title)
	fmt.Printf("  id:          %s\n", r.ID)
	fmt.Printf("  domain:      %s / %s\n", r.Domain, r.Category)
	fmt.Printf("  type:        %s (%s)\n", r.ContentType, r.Granularity)
	fmt.Printf("  confidence:  %.0f%% [%s]\n", r.Confidence*100, reviewFlag)
	if r.DefinitionScored {
		fmt.Printf("  def score:   %.0f%%\n", r.DefinitionScore*100)
	}
	fmt.Printf("  definition:  %s\n", clipLine(r.Definition, 120))
	if len(r.AlternateLabels) > 0 {
		fmt.Printf("  labels:      %s\n", strings.Join(r.AlternateLabels, ", "))
	}
	authorTag := "existing"
	if r.IsNewAuthor {
		authorTag = "new"
	}
	fmt.Printf("  author:      %s (%s, %s)\n", r.AuthorName, r.AuthorID, authorTag)
	fmt.Printf("  reading:     %s (%d words)\n", r.ReadingTime, r.WordCount)
	fmt.Println()
}

func clipLine(s string, n int) string {
	flat := strings.Join(strings.Fields(s), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n-3]) + "..."
}

func init() {
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "Classify without writing anything")
	addCmd.Flags().BoolVar(&addAutoApprove, "auto-approve", false, "Register even low-confidence results")
	rootCmd.AddCommand(addCmd)
}
