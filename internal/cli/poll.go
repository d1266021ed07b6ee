package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datacentered/curator/internal/core"
	"github.com/datacentered/curator/pkg/models"
)

var (
	pollDryRun bool
	pollSimple bool
	pollLimit  int
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Triage new bookmarks into intent queues",
	Long: `Fetch bookmarks from the configured source, classify each new one, and
route the results into the queue files.

Items already seen in a previous poll are skipped. An item is only marked
seen after it routes successfully, so classifier failures are retried on the
next poll. With --dry-run, classifications are printed but nothing is written
and nothing is marked seen.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Bookmarks == nil || Seen == nil {
			return fmt.Errorf("bookmark source not initialized")
		}

		classifier, err := newTriageClassifier(pollSimple)
		if err != nil {
			return err
		}

		limit := pollLimit
		if limit <= 0 {
			limit = Config.PollLimit
		}

		items, err := Bookmarks.Fetch(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("fetching bookmarks: %w", err)
		}

		var fresh []models.Item
		for _, item := range items {
			if !Seen.IsSeen(core.NormalizeKey(item.ID)) {
				fresh = append(fresh, item)
			}
		}
		fmt.Printf("Fetched %d bookmarks, %d new\n", len(items), len(fresh))
		if len(fresh) == 0 {
			return nil
		}

		var audit core.StageLogger
		if !pollDryRun {
			audit = Audit
		}
		triager := core.NewTriager(classifier, audit, Diag, Config.ConfidenceThreshold)
		router := core.NewRouter(Queues, routeLogger())

		failures := 0
		for _, item := range fresh {
			result, err := triager.Process(cmd.Context(), item)
			if err != nil {
				// Leave unseen so the next poll retries it.
				Diag.Warn("triage failed", "item", item.ID, "error", err)
				fmt.Printf("  ! %s: %v\n", item.ID, err)
				failures++
				continue
			}

			flag := ""
			if result.NeedsReview {
				flag = " (needs review)"
			}
			fmt.Printf("  %s @%s -> %s/%s (%.0f%%)%s\n",
				item.ID, item.AuthorHandle, result.Intent, result.ContentType, result.Confidence*100, flag)

			if pollDryRun {
				continue
			}
			if err := router.Route(result); err != nil {
				return err
			}
			Seen.MarkSeen(core.NormalizeKey(item.ID))
		}

		if pollDryRun {
			fmt.Println("\nDry run: no queues written, nothing marked seen.")
			return nil
		}

		if err := router.Flush(); err != nil {
			return fmt.Errorf("flushing queues: %w", err)
		}
		if err := Seen.Persist(); err != nil {
			return err
		}

		stats := router.Stats()
		fmt.Printf("\nRouted %d items: %d learn, %d try, %d review, %d quote, %d skip\n",
			stats.Total(), stats.Learn, stats.Try, stats.Review, stats.Quote, stats.Skip)
		if failures > 0 {
			fmt.Printf("%d items failed and will be retried next poll\n", failures)
		}
		return nil
	},
}

// routeLogger adapts the nullable routing log to the router's interface.
func routeLogger() core.RouteLogger {
	if RoutingLog == nil {
		return nil
	}
	return RoutingLog
}

func init() {
	pollCmd.Flags().BoolVar(&pollDryRun, "dry-run", false, "Classify without writing queues or marking items seen")
	pollCmd.Flags().BoolVar(&pollSimple, "simple", false, "Use the rule-based classifier instead of the LLM")
	pollCmd.Flags().IntVar(&pollLimit, "limit", 0, "Maximum bookmarks to fetch (default from config)")
	rootCmd.AddCommand(pollCmd)
}
