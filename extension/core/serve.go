// serve.go implements the "searchrelay serve" command.
//
// Serve blocks handling MCP requests over stdio. It is a NoStoreCommand so
// it can start before a store exists; clients call relay_init in that case.

package core

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/searchrelay/cmd"
	"github.com/jpl-au/searchrelay/internal/config"
	"github.com/jpl-au/searchrelay/internal/mcp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio.

Use --db to serve a specific profile:
  searchrelay serve --db work    # serve searchrelay-work.db`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(c *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}
	return mcp.Serve(c.Context(), mcp.Options{DB: cmd.DB(), Config: cfg})
}
