package cmd

import (
	"fmt"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/doclens/doclens-api/appconfig"
	"github.com/doclens/doclens-api/mcptools"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the document tools over MCP stdio",
		Long: `Run DocLens as a Model Context Protocol server on stdio, exposing the
analyze_document and search_document tools to LLM agents.

Example client configuration:
  {
    "mcpServers": {
      "doclens": { "command": "doclens", "args": ["mcp"] }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := provideDependencies(appconfig.Settings())
			tools := mcptools.ProvideDocumentTools(deps.cfg, deps.analysis, deps.search)

			logger.Info("Starting MCP server on stdio")
			if err := server.ServeStdio(mcptools.NewServer(tools)); err != nil {
				return fmt.Errorf("serving MCP: %w", err)
			}
			return nil
		},
	}
}
