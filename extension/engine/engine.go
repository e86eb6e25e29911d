// Package engine provides the engine extension for searchrelay.
// It registers commands: engine (ls, add, edit, rm, role), target, badge,
// reset, export, import.
package engine

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/searchrelay/cmd"
	"github.com/jpl-au/searchrelay/extension"
	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/format"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/service"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the engine extension.
type Extension struct {
	svc service.Service
}

// Compile-time interface compliance.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "engine".
func (e *Extension) Name() string { return "engine" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the settings management commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newEngineCmd(),
		e.newTargetCmd(),
		e.newBadgeCmd(),
		e.newResetCmd(),
		e.newExportCmd(),
		e.newImportCmd(),
	}
}

// MCPTools returns nil - the settings tools are in internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// --- engine command with subcommands ---

func (e *Extension) newEngineCmd() *cobra.Command {
	c := &cobra.Command{
		Use:     "engine",
		Aliases: []string{"engines"},
		Short:   "Manage search engines",
		Long: `List, add, edit and remove search engines.

An engine can be a target (searches are sent to it), a source (keywords are
read from its result pages), or both. The selected target is marked with *.`,
	}
	c.AddCommand(e.newLsCmd(), e.newAddCmd(), e.newEditCmd(), e.newRmCmd(), e.newRoleCmd())
	return c
}

func (e *Extension) newLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List engines",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			long, _ := c.Flags().GetBool(extension.FlagLong)
			s, err := e.svc.Load(c.Context())
			log.Event("engine:ls", "list").Author(cmd.Author()).Write(err)
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("load settings: %w", err))
			}
			if cmd.JSON() {
				return cmd.PrintJSON(s)
			}
			if long {
				return format.EnginesLong(cmd.Out(), s)
			}
			return format.Engines(cmd.Out(), s)
		},
	}
	c.Flags().BoolP(extension.FlagLong, "l", false, "Show roles, domain, badge and URL")
	return c
}

// addEngineFlags registers the editable engine fields on c.
func addEngineFlags(c *cobra.Command) {
	c.Flags().String(extension.FlagName, "", "Display name")
	c.Flags().String(extension.FlagURL, "", "Search URL template with %s where the keyword goes")
	c.Flags().String(extension.FlagBadge, "", "Badge text (default: first character of the name)")
	c.Flags().String(extension.FlagDomain, "", "Source domain (default: derived from the URL)")
	c.Flags().String(extension.FlagParam, "", "Source query parameter (default: derived from the URL)")
	c.Flags().Bool(extension.FlagTarget, true, "Searches can be sent to this engine")
	c.Flags().Bool(extension.FlagSource, false, "Keywords can be read from this engine's result URLs")
}

// overlay applies the flags the user set on top of in.
func overlay(c *cobra.Command, in engine.Input) engine.Input {
	f := c.Flags()
	if f.Changed(extension.FlagName) {
		in.Name, _ = f.GetString(extension.FlagName)
	}
	if f.Changed(extension.FlagURL) {
		in.URL, _ = f.GetString(extension.FlagURL)
	}
	if f.Changed(extension.FlagBadge) {
		in.Badge, _ = f.GetString(extension.FlagBadge)
	}
	if f.Changed(extension.FlagDomain) {
		in.Domain, _ = f.GetString(extension.FlagDomain)
	}
	if f.Changed(extension.FlagParam) {
		in.Param, _ = f.GetString(extension.FlagParam)
	}
	if f.Changed(extension.FlagTarget) {
		in.IsTarget, _ = f.GetBool(extension.FlagTarget)
	}
	if f.Changed(extension.FlagSource) {
		in.IsSource, _ = f.GetBool(extension.FlagSource)
	}
	return in
}

func (e *Extension) newAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add",
		Short: "Add an engine",
		Long: `Add an engine. The URL template must contain %s.

  searchrelay engine add --name Example --url 'https://example.com/search?q=%s'
  searchrelay engine add --name Wiki --url 'https://en.wikipedia.org/w/index.php?search=%s' --source`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			in := overlay(c, engine.Input{IsTarget: true})
			added, err := e.svc.AddEngine(c.Context(), in, cmd.Author())
			log.Event("engine:add", "add").
				Author(cmd.Author()).
				Engine(added.ID).
				Detail("name", in.Name).
				Write(err)
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("add engine: %w", err))
			}
			if cmd.JSON() {
				return cmd.PrintJSON(added)
			}
			fmt.Fprintf(cmd.Out(), "Added %s (%s)\n", added.ID, added.Name)
			return nil
		},
	}
	addEngineFlags(c)
	_ = c.MarkFlagRequired(extension.FlagName)
	_ = c.MarkFlagRequired(extension.FlagURL)
	return c
}

func (e *Extension) newEditCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an engine",
		Long: `Edit an engine. Only the flags given are changed.

  searchrelay engine edit bing --badge B
  searchrelay engine edit custom_01J... --url 'https://example.com/?q=%s'`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			s, err := e.svc.Load(c.Context())
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("load settings: %w", err))
			}
			cur, i := s.Find(id)
			if i < 0 {
				return cmd.PrintJSONError(fmt.Errorf("%w: %s", engine.ErrEngineNotFound, id))
			}

			updated, err := e.svc.UpdateEngine(c.Context(), id, overlay(c, engine.FromEngine(cur)), cmd.Author())
			log.Event("engine:edit", "update").Author(cmd.Author()).Engine(id).Write(err)
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("edit engine: %w", err))
			}
			if cmd.JSON() {
				return cmd.PrintJSON(updated)
			}
			fmt.Fprintf(cmd.Out(), "Updated %s\n", updated.ID)
			return nil
		},
	}
	addEngineFlags(c)
	return c
}

func (e *Extension) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove an engine",
		Long: `Remove an engine. If it was the default target, the first remaining
target engine becomes the default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			removed, err := e.svc.DeleteEngine(c.Context(), args[0], cmd.Author())
			log.Event("engine:rm", "delete").Author(cmd.Author()).Engine(args[0]).Write(err)
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("remove engine: %w", err))
			}
			if cmd.JSON() {
				return cmd.PrintJSON(map[string]string{"deleted": removed.ID})
			}
			fmt.Fprintf(cmd.Out(), "Removed %s (%s)\n", removed.ID, removed.Name)
			return nil
		},
	}
}

func (e *Extension) newRoleCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "role <id>",
		Short: "Change whether an engine is a target, a source, or both",
		Long: `Change an engine's roles. An engine must keep at least one role.

  searchrelay engine role bing_cn --target
  searchrelay engine role google --source=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id := args[0]
			s, err := e.svc.Load(c.Context())
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("load settings: %w", err))
			}
			cur, i := s.Find(id)
			if i < 0 {
				return cmd.PrintJSONError(fmt.Errorf("%w: %s", engine.ErrEngineNotFound, id))
			}

			in := overlay(c, engine.FromEngine(cur))
			err = e.svc.SetRoles(c.Context(), id, in.IsTarget, in.IsSource, cmd.Author())
			log.Event("engine:role", "update").
				Author(cmd.Author()).
				Engine(id).
				Detail("target", in.IsTarget).
				Detail("source", in.IsSource).
				Write(err)
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("set roles: %w", err))
			}
			if cmd.JSON() {
				return cmd.PrintJSON(map[string]any{"id": id, "isTarget": in.IsTarget, "isSource": in.IsSource})
			}
			fmt.Fprintf(cmd.Out(), "%s: target=%t source=%t\n", id, in.IsTarget, in.IsSource)
			return nil
		},
	}
	c.Flags().Bool(extension.FlagTarget, false, "Searches can be sent to this engine")
	c.Flags().Bool(extension.FlagSource, false, "Keywords can be read from this engine's result URLs")
	return c
}
