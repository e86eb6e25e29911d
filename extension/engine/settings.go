// settings.go implements the target, badge and reset commands.

package engine

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jpl-au/searchrelay/cmd"
	"github.com/jpl-au/searchrelay/extension"
	"github.com/jpl-au/searchrelay/internal/diff"
	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/format"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/present"
)

// ErrNotConfirmed is returned when a destructive command runs without a
// terminal to confirm on and without --force.
var ErrNotConfirmed = errors.New("confirmation required: re-run with --force")

func (e *Extension) newTargetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "target [id]",
		Short: "Show or set the default target engine",
		Long: `Show or set the engine that icon clicks search.

  searchrelay target          # show the default target
  searchrelay target bing     # search Bing by default`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if len(args) == 0 {
				s, err := e.svc.Load(c.Context())
				if err != nil {
					return cmd.PrintJSONError(fmt.Errorf("load settings: %w", err))
				}
				if cmd.JSON() {
					return cmd.PrintJSON(map[string]string{"selectedTargetEngineId": s.SelectedTargetEngineID})
				}
				if sel, ok := s.Selected(); ok {
					fmt.Fprintf(cmd.Out(), "%s (%s)\n", sel.ID, sel.Name)
				} else {
					fmt.Fprintln(cmd.Out(), "no target engine selected")
				}
				return nil
			}

			id := args[0]
			err := e.svc.SelectTarget(c.Context(), id, cmd.Author())
			log.Event("engine:target", "select").Author(cmd.Author()).Engine(id).Write(err)
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("select target: %w", err))
			}
			if cmd.JSON() {
				return cmd.PrintJSON(map[string]string{"selectedTargetEngineId": id})
			}
			fmt.Fprintf(cmd.Out(), "Default target: %s\n", id)
			return nil
		},
	}
}

func (e *Extension) newBadgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "badge [on|off]",
		Short:     "Show or toggle the toolbar badge",
		Long:      `Show the badge state, or turn the badge on or off.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(c *cobra.Command, args []string) error {
			if len(args) == 1 {
				show := args[0] == "on"
				err := e.svc.SetShowBadge(c.Context(), show, cmd.Author())
				log.Event("engine:badge", "update").Author(cmd.Author()).Detail("show", show).Write(err)
				if err != nil {
					return cmd.PrintJSONError(fmt.Errorf("set badge: %w", err))
				}
			}

			s, err := e.svc.Load(c.Context())
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("load settings: %w", err))
			}
			b := present.BadgeFor(s)
			if cmd.JSON() {
				return cmd.PrintJSON(b)
			}
			return format.Badge(cmd.Out(), b)
		},
	}
}

func (e *Extension) newResetCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default engines and settings",
		Long: `Replace every engine and setting with the defaults. Custom engines are lost.

  searchrelay reset --dry-run   # show what would change
  searchrelay reset --force     # skip the confirmation prompt`,
		Args: cobra.NoArgs,
		RunE: e.runReset,
	}
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Show the changes without applying them")
	return c
}

func (e *Extension) runReset(c *cobra.Command, _ []string) error {
	dryRun, _ := c.Flags().GetBool(extension.FlagDryRun)

	cur, err := e.svc.Load(c.Context())
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("load settings: %w", err))
	}

	if dryRun {
		d, err := diff.Settings(cur, engine.Defaults(), "current", "defaults")
		log.Event("engine:reset", "reset").Author(cmd.Author()).Detail("dry_run", true).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("diff: %w", err))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(d)
		}
		if !d.Changed() {
			fmt.Fprintln(cmd.Out(), "Settings already match the defaults")
			return nil
		}
		fmt.Fprint(cmd.Out(), d.Format(term.IsTerminal(int(os.Stdout.Fd()))))
		return nil
	}

	if !cmd.Force() {
		ok, err := confirm("Replace all engines and settings with the defaults? [y/N] ")
		if err != nil {
			return cmd.PrintJSONError(err)
		}
		if !ok {
			fmt.Fprintln(cmd.Out(), "Cancelled")
			return nil
		}
	}

	s, err := e.svc.Reset(c.Context(), cmd.Author())
	log.Event("engine:reset", "reset").Author(cmd.Author()).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("reset: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(s)
	}
	fmt.Fprintf(cmd.Out(), "Restored %d default engines\n", len(s.Engines))
	return nil
}

// confirm asks a yes/no question on the terminal. Without a terminal on
// stdin it returns ErrNotConfirmed.
func confirm(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, ErrNotConfirmed
	}
	fmt.Fprint(cmd.Out(), question)
	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
