// tools_util.go provides helper functions for MCP tool parameter extraction.
//
// Extraction is permissive: a missing or mistyped optional parameter yields
// the caller's default instead of failing the tool call.

package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/searchrelay/internal/store"
)

// getString extracts a string parameter, returning def if it is missing or
// not a string.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// optBool extracts a boolean parameter and reports whether it was supplied.
func optBool(req mcp.CallToolRequest, name string) (bool, bool) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return false, false
	}
	v, ok := args[name].(bool)
	return v, ok
}

// getBool extracts a boolean parameter. JSON booleans decode as Go bool, so
// a string "true" yields def.
func getBool(req mcp.CallToolRequest, name string, def bool) bool {
	if v, ok := optBool(req, name); ok {
		return v
	}
	return def
}

// getInt extracts an integer parameter. JSON numbers decode as float64.
func getInt(req mcp.CallToolRequest, name string, def int) int { //nolint:unparam
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

// jsonResult serialises v as indented JSON and wraps it in a text result.
// Marshalling failures become error results, not Go errors.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := store.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
