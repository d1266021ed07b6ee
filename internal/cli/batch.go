package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datacentered/curator/internal/core"
)

var (
	batchDryRun      bool
	batchAutoApprove bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Ingest every URL found in a file",
	Long: `Run every URL in a file through the ingestion pipeline. The file can be
plain URLs one per line or markdown with [title](url) links; anything after a
# on its own line is skipped.

URLs already present in the resource registry are skipped up front. Failures
are reported per URL and do not stop the batch, but any failure makes the
command exit non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening url file: %w", err)
		}
		defer f.Close()

		var urls []string
		seen := map[string]bool{}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			for _, u := range core.ExtractURLs(line) {
				key := core.NormalizeKey(u)
				if !seen[key] {
					seen[key] = true
					urls = append(urls, u)
				}
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading url file: %w", err)
		}

		known, err := Registry.KnownURLs()
		if err != nil {
			return fmt.Errorf("loading known resources: %w", err)
		}
		var fresh []string
		skipped := 0
		for _, u := range urls {
			if _, ok := known[core.NormalizeKey(u)]; ok {
				skipped++
				continue
			}
			fresh = append(fresh, u)
		}

		fmt.Printf("Found %d URLs, %d already in the registry, processing %d\n\n",
			len(urls), skipped, len(fresh))

		failed := 0
		for i, url := range fresh {
			fmt.Printf("[%d/%d] %s\n", i+1, len(fresh), url)
			if err := runAdd(cmd.Context(), url, batchDryRun, batchAutoApprove); err != nil {
				Diag.Warn("batch url failed", "url", url, "error", err)
				fmt.Printf("  ! %v\n\n", err)
				failed++
			}
		}

		fmt.Printf("Done: %d processed, %d failed\n", len(fresh)-failed, failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d URLs failed", failed, len(fresh))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "Classify without writing anything")
	batchCmd.Flags().BoolVar(&batchAutoApprove, "auto-approve", false, "Register even low-confidence results")
	rootCmd.AddCommand(batchCmd)
}
