// tools_engines.go implements the MCP tools that manage engines.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/present"
)

// listEngines handles relay_engines tool calls.
func (h *handlers) listEngines(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	s, err := h.svc.Load(ctx)
	log.Event("mcp:engines", "list").Author(Author).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s)
}

// addEngine handles relay_engine_add tool calls.
func (h *handlers) addEngine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	in := engineInput(req, engine.Input{IsTarget: true})
	e, err := h.svc.AddEngine(ctx, in, Author)
	log.Event("mcp:engine_add", "add").Author(Author).Engine(e.ID).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(e)
}

// updateEngine handles relay_engine_update tool calls.
func (h *handlers) updateEngine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil //nolint:nilerr
	}
	s, err := h.svc.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cur, i := s.Find(id)
	if i < 0 {
		return mcp.NewToolResultError(engine.ErrEngineNotFound.Error() + ": " + id), nil
	}

	e, err := h.svc.UpdateEngine(ctx, id, engineInput(req, engine.FromEngine(cur)), Author)
	log.Event("mcp:engine_update", "update").Author(Author).Engine(id).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(e)
}

// deleteEngine handles relay_engine_delete tool calls.
func (h *handlers) deleteEngine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil //nolint:nilerr
	}
	e, err := h.svc.DeleteEngine(ctx, id, Author)
	log.Event("mcp:engine_delete", "delete").Author(Author).Engine(id).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"deleted": e.ID, "name": e.Name})
}

// setTarget handles relay_target tool calls.
func (h *handlers) setTarget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil //nolint:nilerr
	}
	err = h.svc.SelectTarget(ctx, id, Author)
	log.Event("mcp:target", "select").Author(Author).Engine(id).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("default target: " + id), nil
}

// badge handles relay_badge tool calls.
func (h *handlers) badge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	if show, ok := optBool(req, "show"); ok {
		err := h.svc.SetShowBadge(ctx, show, Author)
		log.Event("mcp:badge", "update").Author(Author).Detail("show", show).Write(err)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	s, err := h.svc.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(present.BadgeFor(s))
}

// reset handles relay_reset tool calls.
func (h *handlers) reset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	if !getBool(req, "confirm", false) {
		return mcp.NewToolResultError("reset replaces every engine; call again with confirm=true"), nil
	}
	s, err := h.svc.Reset(ctx, Author)
	log.Event("mcp:reset", "reset").Author(Author).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s)
}

// history handles relay_history tool calls.
func (h *handlers) history(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.requireInit(); err != nil {
		return err, nil
	}
	revs, err := h.svc.History(ctx, getString(req, "key", ""), getInt(req, "limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]any, len(revs))
	for i := range revs {
		out[i] = revs[i].ToJSON()
	}
	return jsonResult(out)
}

// engineInput overlays the request's engine fields on base.
func engineInput(req mcp.CallToolRequest, base engine.Input) engine.Input {
	base.Name = getString(req, "name", base.Name)
	base.URL = getString(req, "url", base.URL)
	base.Badge = getString(req, "badge", base.Badge)
	base.Domain = getString(req, "domain", base.Domain)
	base.Param = getString(req, "param", base.Param)
	base.IsTarget = getBool(req, "is_target", base.IsTarget)
	base.IsSource = getBool(req, "is_source", base.IsSource)
	return base
}
