// tools_relay.go implements the MCP tools that resolve and dispatch
// searches.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/searchrelay/internal/dispatch"
	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/extract"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/present"
	"github.com/jpl-au/searchrelay/internal/relay"
)

// extract handles relay_extract tool calls.
func (h *handlers) extract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	u, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url is required"), nil //nolint:nilerr
	}
	s, err := h.svc.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kw, ok := extract.Keyword(u, s.Rules())
	log.Event("mcp:extract", "extract").Author(Author).Detail("matched", ok).Write(nil)
	return jsonResult(map[string]any{"matched": ok, "keyword": kw})
}

// buildURL handles relay_url tool calls.
func (h *handlers) buildURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	kw, err := req.RequireString("keyword")
	if err != nil || kw == "" {
		return mcp.NewToolResultError("keyword is required"), nil //nolint:nilerr
	}
	s, err := h.svc.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r, err := dispatch.Plan(s, getString(req, "engine", ""), kw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{"engine": r.Engine.ID, "url": r.URL})
}

// search handles relay_search tool calls. A keyword, when given, is treated
// like a menu click carrying a selection.
func (h *handlers) search(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	kw := getString(req, "keyword", "")
	id := getString(req, "engine", "")

	var out relay.Outcome
	var err error
	switch {
	case id != "":
		out, err = h.router.MenuClick(ctx, present.ItemPrefix+id, kw)
	case kw != "":
		s, lerr := h.svc.Load(ctx)
		if lerr != nil {
			return mcp.NewToolResultError(lerr.Error()), nil
		}
		e, lerr := engine.ResolveTarget(s, "")
		if lerr != nil {
			return mcp.NewToolResultError(lerr.Error()), nil
		}
		out, err = h.router.MenuClick(ctx, present.ItemPrefix+e.ID, kw)
	default:
		out, err = h.router.IconClick(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(out)
}
