package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/datacentered/curator/pkg/models"
)

var statusSince string

var (
	statusHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	statusCountStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	statusWarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show queue depths and routing activity",
	Long: `Show the current size of each destination queue, the pending review count,
and routing activity derived from the routing log.

Use --since to limit activity to a window, e.g. --since 7d or --since 24h.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Queues == nil {
			return fmt.Errorf("queue files not initialized")
		}

		fmt.Println(statusHeaderStyle.Render("Queues"))
		rows := []struct {
			label string
			count int
		}{
			{"Intake queue", Queues.CountIntake()},
			{"Try queue", Queues.CountTry()},
			{"Review queue", Queues.CountReview()},
			{"Quotes", Queues.CountQuotes()},
			{"Resources", Registry.CountResources()},
		}
		for _, r := range rows {
			fmt.Printf("  %-14s %s\n", r.label, statusCountStyle.Render(fmt.Sprintf("%d", r.count)))
		}

		pending, err := Pending.List()
		if err != nil {
			return err
		}
		line := fmt.Sprintf("  %-14s %d", "Pending review", len(pending))
		if len(pending) > 0 {
			fmt.Println(statusWarnStyle.Render(line))
		} else {
			fmt.Println(line)
		}
		fmt.Printf("  %-14s %d\n", "Seen items", Seen.Count())

		since, label, err := parseSince(statusSince)
		if err != nil {
			return err
		}
		metrics, err := RoutingLog.CalculateMetrics(since)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(statusHeaderStyle.Render("Routing " + label))
		fmt.Printf("  %-14s %d\n", "Routed", metrics.Total)
		for _, intent := range intentOrder() {
			if n := metrics.ByIntent[intent]; n > 0 {
				fmt.Printf("    %-12s %d\n", intent, n)
			}
		}
		fmt.Printf("  %-14s %d\n", "Flagged", metrics.NeedsReview)
		fmt.Printf("  %-14s %d approved, %d skipped, %d deleted\n",
			"Reviewed", metrics.Approved, metrics.Skipped, metrics.Deleted)
		return nil
	},
}

func intentOrder() []models.Intent {
	return models.AllIntents()
}

// parseSince converts a duration shorthand like "7d" or "24h" into a cutoff
// time. Empty input means the full history.
func parseSince(raw string) (time.Time, string, error) {
	if raw == "" {
		return time.Time{}, "(all time)", nil
	}
	var n int
	var unit string
	if _, err := fmt.Sscanf(raw, "%d%s", &n, &unit); err != nil {
		return time.Time{}, "", fmt.Errorf("parsing --since %q: expected forms like 7d or 24h", raw)
	}
	var d time.Duration
	switch unit {
	case "d":
		d = time.Duration(n) * 24 * time.Hour
	case "h":
		d = time.Duration(n) * time.Hour
	default:
		return time.Time{}, "", fmt.Errorf("parsing --since %q: unit must be d or h", raw)
	}
	return time.Now().Add(-d), "(last " + raw + ")", nil
}

func init() {
	statusCmd.Flags().StringVar(&statusSince, "since", "", "Limit routing activity to a window (e.g. 7d, 24h)")
	rootCmd.AddCommand(statusCmd)
}
