package cmd

import (
	"github.com/ne3mer/supplychainweb/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the supplier scoring MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents score, analyze and compare suppliers through standard tools.`,
	Args:  cobra.NoArgs,
	// Logs go to stderr; stdio carries the protocol.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, err := longRunningService("mcp")
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, cfg, svc)
	},
}
