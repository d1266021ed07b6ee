package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datacentered/curator/internal/core"
	"github.com/datacentered/curator/pkg/models"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Work through the pending review queue",
	Long: `Interactively review low-confidence classifications.

For each pending entry: [a]pprove re-runs the ingestion pipeline for the
entry's URL with the review gate bypassed, [e]dit corrects the taxonomy and
registers the corrected entry as-is, [s]kip discards it, [d]elete discards it
and records the rejection, [q]uit stops. Every decision removes the entry from
the pending queue and is recorded in the routing log.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Pending == nil {
			return fmt.Errorf("pending store not initialized")
		}

		entries, err := Pending.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No pending resources to review.")
			return nil
		}

		fmt.Printf("%d resource(s) pending review\n\n", len(entries))
		reader := bufio.NewReader(os.Stdin)

		for i, entry := range entries {
			fmt.Printf("[%d/%d] %s\n", i+1, len(entries), entry.Title)
			fmt.Printf("  url:        %s\n", entry.URL)
			fmt.Printf("  domain:     %s / %s\n", entry.Domain, entry.Category)
			fmt.Printf("  type:       %s (%s)\n", entry.ContentType, entry.Granularity)
			fmt.Printf("  confidence: %.0f%%\n", entry.Confidence*100)
			fmt.Printf("  reasoning:  %s\n", clipLine(entry.Reasoning, 100))
			fmt.Printf("  definition: %s\n", clipLine(entry.Definition, 120))

			choice, err := prompt(reader, "  [a]pprove / [e]dit / [s]kip / [d]elete / [q]uit: ")
			if err != nil {
				return err
			}

			switch choice {
			case "a":
				if err := approveEntry(cmd.Context(), entry); err != nil {
					return err
				}
			case "e":
				edited, err := editEntry(reader, entry)
				if err != nil {
					return err
				}
				if err := approveEdited(edited); err != nil {
					return err
				}
			case "s":
				if err := resolveEntry(entry.ID, models.ReviewSkipped, "review.skipped"); err != nil {
					return err
				}
				fmt.Println("  Skipped.")
			case "d":
				if err := resolveEntry(entry.ID, models.ReviewDeleted, "review.deleted"); err != nil {
					return err
				}
				fmt.Println("  Deleted.")
			case "q":
				fmt.Println("Stopped.")
				return nil
			default:
				fmt.Println("  Unknown choice, leaving entry pending.")
			}
			fmt.Println()
		}

		fmt.Println("Review queue empty.")
		return nil
	},
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}

// reingest re-runs the ingestion pipeline for an approved URL with the review
// gate bypassed. A variable so tests can intercept the re-entry.
var reingest = func(ctx context.Context, url string) error {
	return runAdd(ctx, url, false, true)
}

// approveEntry re-classifies the entry's URL through the full pipeline and
// removes the entry from the pending queue. The fresh run supersedes the
// parked classification; a re-entry failure leaves the entry pending.
func approveEntry(ctx context.Context, entry models.PendingEntry) error {
	if err := reingest(ctx, entry.URL); err != nil {
		return err
	}
	return resolveEntry(entry.ID, models.ReviewApproved, "review.approved")
}

// approveEdited registers an operator-corrected entry as-is: the corrections
// are the classification, so no pipeline re-run.
func approveEdited(entry models.PendingEntry) error {
	if err := registerResource(resourceFromPending(entry)); err != nil {
		return err
	}
	return resolveEntry(entry.ID, models.ReviewApproved, "review.approved")
}

func resolveEntry(id string, status models.ReviewStatus, action string) error {
	if err := Pending.Resolve(id, status); err != nil {
		return err
	}
	if RoutingLog != nil {
		if err := RoutingLog.AppendReviewAction(id, action); err != nil {
			return err
		}
	}
	return nil
}

// editEntry prompts for taxonomy corrections, keeping the current value on
// empty input. Out-of-vocabulary answers fall back through the usual
// validation defaults.
func editEntry(reader *bufio.Reader, entry models.PendingEntry) (models.PendingEntry, error) {
	fmt.Println("  Empty input keeps the current value.")

	raw, err := prompt(reader, fmt.Sprintf("  domain [%s]: ", entry.Domain))
	if err != nil {
		return entry, err
	}
	if raw != "" {
		entry.Domain = string(core.ValidDomain(raw))
	}

	domain := core.ValidDomain(entry.Domain)
	fmt.Printf("  categories: %s\n", strings.Join(core.Domains[domain].Categories, ", "))
	raw, err = prompt(reader, fmt.Sprintf("  category [%s]: ", entry.Category))
	if err != nil {
		return entry, err
	}
	if raw != "" {
		entry.Category = core.ValidCategory(domain, raw)
	} else {
		entry.Category = core.ValidCategory(domain, entry.Category)
	}

	raw, err = prompt(reader, fmt.Sprintf("  granularity [%s]: ", entry.Granularity))
	if err != nil {
		return entry, err
	}
	if raw != "" {
		entry.Granularity = string(core.ValidGranularity(raw))
	}

	return entry, nil
}

// resourceFromPending re-materializes a ClassifiedResource from its parked
// form, re-validating the taxonomy fields in case the file was hand-edited.
func resourceFromPending(entry models.PendingEntry) *models.ClassifiedResource {
	domain := core.ValidDomain(entry.Domain)
	return &models.ClassifiedResource{
		ID:              entry.ID,
		URL:             entry.URL,
		Title:           entry.Title,
		Definition:      entry.Definition,
		AlternateLabels: entry.AlternateLabels,
		AuthorID:        entry.AuthorID,
		AuthorName:      entry.AuthorName,
		IsNewAuthor:     entry.IsNewAuthor,
		Source:          entry.Source,
		ContentType:     core.ValidResourceContentType(entry.ContentType),
		PublishedDate:   entry.PublishedDate,
		Domain:          domain,
		Category:        core.ValidCategory(domain, entry.Category),
		Granularity:     core.ValidGranularity(entry.Granularity),
		Color:           core.Domains[domain].Color,
		Confidence:      entry.Confidence,
		Reasoning:       entry.Reasoning,
		ReadingTime:     entry.ReadingTime,
		WordCount:       entry.WordCount,
	}
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
