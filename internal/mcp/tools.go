package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// engineFields adds the editable engine parameters to a tool definition.
func engineFields(required bool) []mcp.ToolOption {
	name := []mcp.PropertyOption{mcp.Description("Display name")}
	url := []mcp.PropertyOption{mcp.Description("Search URL template containing %s where the keyword goes")}
	if required {
		name = append(name, mcp.Required())
		url = append(url, mcp.Required())
	}
	return []mcp.ToolOption{
		mcp.WithString("name", name...),
		mcp.WithString("url", url...),
		mcp.WithString("badge", mcp.Description("Badge text (default: first character of the name)")),
		mcp.WithString("domain", mcp.Description("Source domain (default: derived from the URL)")),
		mcp.WithString("param", mcp.Description("Source query parameter (default: derived from the URL)")),
		mcp.WithBoolean("is_target", mcp.Description("Searches can be sent to this engine")),
		mcp.WithBoolean("is_source", mcp.Description("Keywords can be read from this engine's result URLs")),
	}
}

// registerTools exposes searchrelay operations as MCP tools.
func registerTools(s *server.MCPServer, h *handlers) {
	// Init - works without existing store
	s.AddTool(
		mcp.NewTool("relay_init",
			mcp.WithDescription("Initialise a new searchrelay settings store and seed the default engines. Call this first if other tools return 'store not initialised'."),
		),
		h.initStore,
	)

	s.AddTool(
		mcp.NewTool("relay_engines",
			mcp.WithDescription("List the configured search engines, the selected target and the badge setting"),
		),
		h.listEngines,
	)

	s.AddTool(
		mcp.NewTool("relay_engine_add",
			append([]mcp.ToolOption{mcp.WithDescription("Add a search engine. At least one of is_target and is_source must be true.")},
				engineFields(true)...)...,
		),
		h.addEngine,
	)

	s.AddTool(
		mcp.NewTool("relay_engine_update",
			append([]mcp.ToolOption{
				mcp.WithDescription("Update a search engine. Omitted fields keep their current value."),
				mcp.WithString("id", mcp.Required(), mcp.Description("Engine id")),
			}, engineFields(false)...)...,
		),
		h.updateEngine,
	)

	s.AddTool(
		mcp.NewTool("relay_engine_delete",
			mcp.WithDescription("Delete a search engine. If it was the default target, the first remaining target becomes the default."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Engine id")),
		),
		h.deleteEngine,
	)

	s.AddTool(
		mcp.NewTool("relay_target",
			mcp.WithDescription("Set the default target engine"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Id of a target engine")),
		),
		h.setTarget,
	)

	s.AddTool(
		mcp.NewTool("relay_badge",
			mcp.WithDescription("Show or hide the toolbar badge; returns the badge state"),
			mcp.WithBoolean("show", mcp.Description("Show the badge (omit to only read the state)")),
		),
		h.badge,
	)

	s.AddTool(
		mcp.NewTool("relay_reset",
			mcp.WithDescription("Replace all engines and settings with the defaults. Requires confirm=true."),
			mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true")),
		),
		h.reset,
	)

	s.AddTool(
		mcp.NewTool("relay_extract",
			mcp.WithDescription("Extract the search keyword from a search result URL using the source engines"),
			mcp.WithString("url", mcp.Required(), mcp.Description("Page URL")),
		),
		h.extract,
	)

	s.AddTool(
		mcp.NewTool("relay_url",
			mcp.WithDescription("Build the search URL for a keyword without opening it"),
			mcp.WithString("keyword", mcp.Required(), mcp.Description("Search keyword")),
			mcp.WithString("engine", mcp.Description("Target engine id (default: the selected target)")),
		),
		h.buildURL,
	)

	s.AddTool(
		mcp.NewTool("relay_search",
			mcp.WithDescription("Open a search in the browser. With a keyword, searches it directly; without one, resolves it from the active tab's selection or URL, then prompts in the page."),
			mcp.WithString("keyword", mcp.Description("Search keyword")),
			mcp.WithString("engine", mcp.Description("Target engine id (default: the selected target)")),
		),
		h.search,
	)

	s.AddTool(
		mcp.NewTool("relay_history",
			mcp.WithDescription("List recorded settings changes, newest first"),
			mcp.WithString("key", mcp.Description("Settings key (engines, selectedTargetEngineId, showBadge) or empty for all")),
			mcp.WithNumber("limit", mcp.Description("Maximum entries (default 20)")),
		),
		h.history,
	)

	s.AddTool(
		mcp.NewTool("relay_config_get",
			mcp.WithDescription("Get a configuration value"),
			mcp.WithString("key", mcp.Description("Config key (browser.backend, browser.cdp_url, ui.addr, ...) or empty for all")),
		),
		h.configGet,
	)

	s.AddTool(
		mcp.NewTool("relay_config_set",
			mcp.WithDescription("Set a configuration value"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Config key (browser.backend, browser.cdp_url, ui.addr, ...)")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Value to set")),
		),
		h.configSet,
	)

	s.AddTool(
		mcp.NewTool("relay_guide",
			mcp.WithDescription("Get help/guide content for searchrelay"),
			mcp.WithString("topic", mcp.Description("Guide topic (e.g., 'engines', 'search') or empty for index")),
		),
		h.getGuide,
	)
}
