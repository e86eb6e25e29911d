// mcp.go defines types for MCP tool registration by extensions.
//
// Kept apart from extension.go because most extensions only add commands.
// The relay and engine tools live in internal/mcp; extensions such as core
// use this hook for extras like the audit log.
//
// Design: a tool is registered together with its handler. The handler gets
// the request context for cancellation and the extension Context for the
// settings service and configuration.

package extension

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTool pairs an MCP tool definition with its handler.
type MCPTool struct {
	Tool    mcp.Tool
	Handler MCPHandler
}

// MCPHandler processes MCP tool requests.
type MCPHandler func(ctx context.Context, extCtx Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
