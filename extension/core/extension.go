// Package core provides the core extension for searchrelay.
// It registers commands: init, config, serve, ui, guide, db, log, version.
package core

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/jpl-au/searchrelay/extension"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct{}

// Compile-time interface compliance.
var (
	_ extension.Extension = (*Extension)(nil)
	_ extension.Storeless = (*Extension)(nil)
)

// Name returns "core".
func (e *Extension) Name() string { return "core" }

// Commands returns the store management and server commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newInitCmd(),
		newConfigCmd(),
		newServeCmd(),
		newUICmd(),
		newGuideCmd(),
		newDBCmd(),
		newLogCmd(),
		newVersionCmd(),
	}
}

// MCPTools exposes the audit log to MCP clients.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{
		{
			Tool: mcp.NewTool("relay_log",
				mcp.WithDescription("List recent audit log entries: triggers, keyword resolution, dispatches and settings changes. Keywords are never logged."),
				mcp.WithNumber("limit", mcp.Description("Maximum entries (default 20)")),
			),
			Handler: logTool,
		},
	}
}

// NoStoreCommands returns commands that manage their own service lifecycle.
// serve and ui are long-running and open the store themselves; db lists
// databases without opening one; version needs nothing.
func (e *Extension) NoStoreCommands() []string {
	return []string{"serve", "ui", "db", "version"}
}
