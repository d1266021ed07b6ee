package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datacentered/curator/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Expose curator to AI assistants over the Model Context Protocol.

Tools: queue_status, list_pending, routing_activity, check_url. The server
speaks MCP on stdin/stdout and runs until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Queues == nil || Pending == nil || Registry == nil {
			return fmt.Errorf("curator services not initialized")
		}
		server := mcp.NewServer(Queues, Pending, Registry, RoutingLog, appVersion)
		return server.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
