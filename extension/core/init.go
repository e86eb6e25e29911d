// init.go implements the "searchrelay init" command.
//
// Init creates the settings database and runs the install trigger, which
// seeds the default engines (or migrates a legacy layout) exactly once.
// Config is separate; see "searchrelay config".

package core

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/searchrelay/cmd"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/relay"
	"github.com/jpl-au/searchrelay/internal/settings"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialise a new searchrelay settings store",
		Long: `Creates .searchrelay/searchrelay.db in the current directory and seeds
the default engines.

Use --db for a separate browser profile:
  searchrelay init --db work    # creates .searchrelay/searchrelay-work.db

Use --dir to create it elsewhere:
  searchrelay init --dir ~      # creates ~/.searchrelay/searchrelay.db

Use --force to start over with a fresh database.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(c *cobra.Command, _ []string) error {
	db, dir := cmd.DB(), cmd.Dir()

	path, err := settings.Init(cmd.Force(), db, dir)
	log.Event("core:init", "init").
		Author(cmd.Author()).
		Detail("db", db).
		Detail("dir", dir).
		Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("init: %w", err))
	}

	svc, err := settings.Open(path)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("open store: %w", err))
	}
	defer svc.Close()

	out, err := relay.New(svc, nil, nil, relay.Options{Author: cmd.Author()}).Installed(c.Context())
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("install: %w", err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{"path": path, "seeded": out.Seeded, "migrated": out.Migrated})
	}
	fmt.Fprintf(cmd.Out(), "Initialised searchrelay store in %s\n", path)
	return nil
}
