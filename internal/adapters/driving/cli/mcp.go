package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bizrag/internal/adapters/driving/mcp"
)

var mcpFiles []string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Tools: ingest_documents, search and insights. Resources: bizrag://tenants
and bizrag://tenants/{tenant}/insights. Tool calls without a tenant use
--tenant.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead, e.g. for the MCP Inspector.

Examples:
  bizrag mcp serve -f handbook.pdf
  bizrag mcp serve --port 8081

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "bizrag": {
        "command": "/path/to/bizrag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringSliceVarP(&mcpFiles, "file", "f", nil, "document to ingest at start (repeatable)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	t, err := currentTenant()
	if err != nil {
		return err
	}
	if _, err := ingestFiles(cmd, mcpFiles); err != nil {
		return err
	}

	ports := &mcp.Ports{
		RAG:           ragService,
		Insights:      insightService,
		DefaultTenant: t,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
