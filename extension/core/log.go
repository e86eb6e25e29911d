// log.go implements the "searchrelay log" command and the relay_log MCP
// tool, both reading the audit log for the current store.

package core

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/jpl-au/searchrelay/cmd"
	"github.com/jpl-au/searchrelay/extension"
	"github.com/jpl-au/searchrelay/internal/format"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/store"
)

func newLogCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "log",
		Short: "Show recent audit log entries",
		Long: `Show recent audit log entries for this store, newest first.

Every trigger, resolution tier, dispatch and settings change is recorded,
including the ones that end quietly (a protected page, an unknown engine).
Keywords are never recorded; entries carry the keyword length instead.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			limit, _ := c.Flags().GetInt(extension.FlagLimit)
			entries, err := log.Recent(limit)
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("read log: %w", err))
			}
			if cmd.JSON() {
				return cmd.PrintJSON(entries)
			}
			return format.Log(cmd.Out(), entries)
		},
	}
	c.Flags().IntP(extension.FlagLimit, "n", 20, "Maximum entries")
	return c
}

// logTool handles relay_log tool calls.
func logTool(_ context.Context, _ extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 20
	if args, ok := req.Params.Arguments.(map[string]any); ok {
		if v, ok := args["limit"].(float64); ok {
			limit = int(v)
		}
	}
	entries, err := log.Recent(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := store.MarshalJSON(entries)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
