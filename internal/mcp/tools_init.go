// tools_init.go implements the MCP tool for initialising a new store.
//
// This tool works without an existing store. Other tools require
// initialisation first.

package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/settings"
)

// initStore handles relay_init tool calls. It creates the database, runs the
// install trigger so the defaults are seeded, and attaches the store.
func (h *handlers) initStore(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.svc != nil {
		return mcp.NewToolResultError("store already initialised"), nil
	}

	path, err := settings.Init(false, h.db, "")
	log.Event("mcp:init", "init").Author(Author).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := settings.Open(path)
	if err != nil {
		return mcp.NewToolResultError("init succeeded but failed to open store: " + err.Error()), nil
	}
	h.attach(svc)

	out, err := h.router.Installed(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slog.Info("store initialised", "path", path)
	return jsonResult(map[string]any{"path": path, "seeded": out.Seeded, "migrated": out.Migrated})
}
