// commands.go implements the search, menu, extract and open commands.

package relay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpl-au/searchrelay/cmd"
	"github.com/jpl-au/searchrelay/extension"
	"github.com/jpl-au/searchrelay/internal/dispatch"
	"github.com/jpl-au/searchrelay/internal/extract"
	"github.com/jpl-au/searchrelay/internal/format"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/present"
	"github.com/jpl-au/searchrelay/internal/relay"
)

func (e *Extension) newSearchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "search",
		Short: "Search the default target for the keyword in the active tab",
		Long: `Runs the toolbar icon action on the active browser tab.

The keyword is the selected text; failing that, the query of a search
results page from a source engine; failing that, the answer to a prompt shown
in the page. The search opens in a new tab on the default target engine.

  searchrelay search
  searchrelay search --tab 6A1B...   # a specific DevTools target`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			defer e.close()
			tab, _ := c.Flags().GetString(extension.FlagTab)
			out, err := e.routerFor(tab).Handle(c.Context(), relay.Event{Kind: relay.IconClick})
			return report(out, err)
		},
	}
	c.Flags().String(extension.FlagTab, "", "DevTools target id (default: the active tab)")
	return c
}

func (e *Extension) newMenuCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "menu",
		Short: "Show the context menu",
		Long: `Show the context menu built from the engine list. Use "menu click" to
run a menu item.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m := e.router.Presenter().Menu()
			if cmd.JSON() {
				return cmd.PrintJSON(m)
			}
			return format.Menu(cmd.Out(), m)
		},
	}
	c.AddCommand(e.newMenuClickCmd())
	return c
}

func (e *Extension) newMenuClickCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "click <item>",
		Short: "Search the engine named by a menu item",
		Long: `Runs a context menu item. The item is engine_<id> or just the engine id.

  searchrelay menu click engine_bing
  searchrelay menu click duckduckgo --selection "golang generics"`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			defer e.close()
			item := args[0]
			if _, ok := present.ParseItemID(item); !ok && item != present.RootID {
				item = present.ItemPrefix + item
			}
			tab, _ := c.Flags().GetString(extension.FlagTab)
			selection, _ := c.Flags().GetString(extension.FlagSelection)
			out, err := e.routerFor(tab).Handle(c.Context(), relay.Event{
				Kind:          relay.MenuClick,
				MenuItemID:    item,
				SelectionText: selection,
			})
			return report(out, err)
		},
	}
	c.Flags().String(extension.FlagTab, "", "DevTools target id (default: the active tab)")
	c.Flags().String(extension.FlagSelection, "", "Selection text carried by the click")
	return c
}

// report prints a trigger outcome.
func report(out relay.Outcome, err error) error {
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("%s: %w", out.Trigger, err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(out)
	}
	if out.Opened {
		fmt.Fprintf(cmd.Out(), "Opened %s (%s, from %s)\n", out.URL, out.Engine, out.Tier)
		return nil
	}
	fmt.Fprintf(cmd.Out(), "Nothing opened: %s\n", out.Reason)
	return nil
}

func (e *Extension) newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <url>",
		Short: "Print the keyword a source engine URL carries",
		Long: `Print the search keyword found in a URL by the source engines, without
touching the browser. The first engine whose domain matches decides.

  searchrelay extract 'https://www.baidu.com/s?wd=%E5%A4%A9%E6%B0%94'`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s, err := e.svc.Load(c.Context())
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("load settings: %w", err))
			}
			kw, ok := extract.Keyword(args[0], s.Rules())
			log.Event("relay:extract", "extract").
				Author(cmd.Author()).
				Detail("matched", ok).
				Detail("keyword_len", len([]rune(kw))).
				Write(nil)
			if cmd.JSON() {
				return cmd.PrintJSON(map[string]any{"matched": ok, "keyword": kw})
			}
			if !ok {
				return fmt.Errorf("no source engine matches %s", args[0])
			}
			fmt.Fprintln(cmd.Out(), kw)
			return nil
		},
	}
}

func (e *Extension) newOpenCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "open <keyword>",
		Short: "Open a search for a keyword",
		Long: `Open a search for the keyword in a new browser tab, skipping keyword
resolution. With --dry-run the URL is printed instead.

  searchrelay open "golang generics"
  searchrelay open --engine baidu 天气
  searchrelay open --dry-run "a&b"`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			defer e.close()
			id, _ := c.Flags().GetString(extension.FlagEngine)
			dryRun, _ := c.Flags().GetBool(extension.FlagDryRun)
			kw := strings.TrimSpace(args[0])
			if kw == "" {
				return cmd.PrintJSONError(errors.New("open: keyword is empty"))
			}

			s, err := e.svc.Load(c.Context())
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("load settings: %w", err))
			}

			var r dispatch.Result
			if dryRun {
				r, err = dispatch.Plan(s, id, kw)
			} else {
				b, berr := e.backend(c.Context())
				if berr != nil {
					return cmd.PrintJSONError(berr)
				}
				r, err = dispatch.Dispatch(c.Context(), b, s, id, kw)
			}
			log.Event("relay:open", "dispatch").
				Author(cmd.Author()).
				Engine(id).
				Resolved(r.Engine.ID).
				Detail("dry_run", dryRun).
				Detail("keyword_len", len([]rune(kw))).
				Write(err)
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("open: %w", err))
			}

			if cmd.JSON() {
				return cmd.PrintJSON(map[string]any{"engine": r.Engine.ID, "url": r.URL, "opened": !dryRun})
			}
			if dryRun {
				fmt.Fprintln(cmd.Out(), r.URL)
				return nil
			}
			fmt.Fprintf(cmd.Out(), "Opened %s (%s)\n", r.URL, r.Engine.ID)
			return nil
		},
	}
	c.Flags().StringP(extension.FlagEngine, "e", "", "Target engine id (default: the default target)")
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Print the URL without opening it")
	return c
}
