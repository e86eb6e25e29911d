// config.go implements the "searchrelay config" command.
//
// Config follows a cascade model similar to git: local config
// (.searchrelay/config.yaml) takes precedence over global
// (~/.searchrelay/config.yaml). --local forces local config even if it
// doesn't exist yet.

package core

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jpl-au/searchrelay/cmd"
	"github.com/jpl-au/searchrelay/extension"
	"github.com/jpl-au/searchrelay/internal/config"
	"github.com/jpl-au/searchrelay/internal/log"
)

func newConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "View or set config values",
		Long: `View or set config values.

  searchrelay config                          # show config
  searchrelay config browser.cdp_url          # show one value
  searchrelay config browser.cdp_url launch   # start a private browser
  searchrelay config browser.backend rod      # use the rod backend

Keys:
  author.name, author.email
  browser.backend          chromedp (default) or rod
  browser.cdp_url          DevTools endpoint, or "launch"
  browser.headless         true/false, for launched browsers
  browser.timeout_seconds  bound on page probes (default 10)
  ui.addr                  settings page listen address
  prompt.message           text of the fallback keyword prompt

Configuration locations:
  Global: ~/.searchrelay/config.yaml
  Local:  .searchrelay/config.yaml

Uses local config if it exists, otherwise global.
Writes go to the same place reads come from.
Use --local to use local config instead.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
	}
	c.Flags().Bool(extension.FlagLocal, false, "Use local config (.searchrelay/config.yaml)")
	return c
}

func runConfig(c *cobra.Command, args []string) error {
	forceLocal, _ := c.Flags().GetBool(extension.FlagLocal)

	var cfg *config.Config
	var err error
	if forceLocal {
		cfg, err = config.LoadScope(config.ScopeLocal)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("config load: %w", err))
	}

	scopeName := "global"
	if cfg.Scope() == config.ScopeLocal {
		scopeName = "local"
	}

	switch len(args) {
	case 0:
		all := cfg.All()
		log.Event("core:config", "list").Author(cmd.Author()).Write(nil)
		if cmd.JSON() {
			return cmd.PrintJSON(all)
		}
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(cmd.Out(), "%s: %s\n", k, all[k])
		}

	case 1:
		v, err := cfg.Get(args[0])
		log.Event("core:config", "get").Author(cmd.Author()).Detail("key", args[0]).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("config get %q: %w", args[0], err))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(map[string]string{args[0]: v})
		}
		fmt.Fprintln(cmd.Out(), v)

	case 2:
		if err := cfg.Set(args[0], args[1]); err != nil {
			log.Event("core:config", "set").Author(cmd.Author()).Detail("key", args[0]).Write(err)
			return cmd.PrintJSONError(fmt.Errorf("config set %q: %w", args[0], err))
		}

		saveErr := cfg.Save()
		log.Event("core:config", "set").Author(cmd.Author()).Detail("key", args[0]).Detail("scope", scopeName).Write(saveErr)
		if saveErr != nil {
			return cmd.PrintJSONError(fmt.Errorf("config save: %w", saveErr))
		}
		fmt.Fprintf(cmd.Out(), "%s = %s (%s)\n", args[0], args[1], scopeName)
	}
	return nil
}
