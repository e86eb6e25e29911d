// transfer.go implements the export and import commands.

package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jpl-au/searchrelay/cmd"
	"github.com/jpl-au/searchrelay/extension"
	"github.com/jpl-au/searchrelay/internal/diff"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/transfer"
)

func (e *Extension) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the settings to a YAML file",
		Long: `Write the settings to a YAML file, or to stdout when no file is given.

  searchrelay export > engines.yaml
  searchrelay export engines.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s, err := e.svc.Load(c.Context())
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("load settings: %w", err))
			}

			var w io.Writer = cmd.Out()
			dest := "-"
			if len(args) == 1 {
				dest = args[0]
				f, err := os.Create(dest)
				if err != nil {
					return cmd.PrintJSONError(fmt.Errorf("create %s: %w", dest, err))
				}
				defer f.Close()
				w = f
			}

			err = transfer.Export(w, s)
			log.Event("engine:export", "export").Author(cmd.Author()).Detail("dest", dest).Write(err)
			if err != nil {
				return cmd.PrintJSONError(fmt.Errorf("export: %w", err))
			}
			if dest != "-" {
				fmt.Fprintf(cmd.Out(), "Exported %d engines to %s\n", len(s.Engines), dest)
			}
			return nil
		},
	}
}

func (e *Extension) newImportCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the settings from a file",
		Long: `Replace the settings from an exported YAML file, or from a JSON dump of
the browser's storage (current or legacy layout). Use - for stdin.

Every engine is validated before anything is written.

  searchrelay import engines.yaml
  searchrelay import --dry-run engines.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: e.runImport,
	}
	c.Flags().BoolP(extension.FlagDryRun, "n", false, "Show the changes without applying them")
	return c
}

func (e *Extension) runImport(c *cobra.Command, args []string) error {
	dryRun, _ := c.Flags().GetBool(extension.FlagDryRun)
	src := args[0]

	var r io.Reader = os.Stdin
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("open %s: %w", src, err))
		}
		defer f.Close()
		r = f
	}

	next, err := transfer.Import(r)
	if err != nil {
		log.Event("engine:import", "import").Author(cmd.Author()).Detail("src", src).Write(err)
		return cmd.PrintJSONError(fmt.Errorf("import %s: %w", src, err))
	}

	if dryRun {
		cur, err := e.svc.Load(c.Context())
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("load settings: %w", err))
		}
		d, err := diff.Settings(cur, next, "current", src)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("diff: %w", err))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(d)
		}
		if !d.Changed() {
			fmt.Fprintln(cmd.Out(), "No changes")
			return nil
		}
		fmt.Fprint(cmd.Out(), d.Format(term.IsTerminal(int(os.Stdout.Fd()))))
		return nil
	}

	err = e.svc.Replace(c.Context(), next, cmd.Author())
	log.Event("engine:import", "import").
		Author(cmd.Author()).
		Detail("src", src).
		Detail("engines", len(next.Engines)).
		Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("import: %w", err))
	}
	if cmd.JSON() {
		return cmd.PrintJSON(next)
	}
	fmt.Fprintf(cmd.Out(), "Imported %d engines from %s\n", len(next.Engines), src)
	return nil
}
