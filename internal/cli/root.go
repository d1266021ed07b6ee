package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Curator - classification-driven bookmark and article routing",
	Long: `Curator turns saved bookmarks and article URLs into a curated knowledge
base. It triages bookmarks into intent queues, runs articles through a
multi-stage classification pipeline, and parks low-confidence results for
human review.

Typical flow: "curator poll" to triage new bookmarks, "curator add <url>" to
ingest an article, "curator review" to work through pending entries.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("curator %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
