// db.go implements the "searchrelay db" command for database management.
//
// db is a NoStoreCommand: listing profiles must work without opening one,
// and the subcommands open the selected profile themselves.

package core

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpl-au/searchrelay/cmd"
	"github.com/jpl-au/searchrelay/extension"
	"github.com/jpl-au/searchrelay/internal/config"
	"github.com/jpl-au/searchrelay/internal/duration"
	"github.com/jpl-au/searchrelay/internal/format"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/repo"
	"github.com/jpl-au/searchrelay/internal/settings"
	"github.com/jpl-au/searchrelay/internal/store"
)

func newDBCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "db",
		Short: "List profiles and maintain the settings database",
		Long: `List the profile databases in the settings directory.

  searchrelay db                     # list profiles
  searchrelay db --dir /path         # list profiles in /path/.searchrelay
  searchrelay db stats               # size and revision counts
  searchrelay db history engines     # changes to the engine list
  searchrelay db vacuum --older-than 4w`,
		Args: cobra.NoArgs,
		RunE: runDB,
	}
	c.AddCommand(newDBStatsCmd(), newDBHistoryCmd(), newDBVacuumCmd())
	return c
}

func runDB(_ *cobra.Command, _ []string) error {
	dir := cmd.Dir()
	srDir := ""
	if dir != "" {
		srDir = filepath.Join(dir, repo.Dir)
	}

	dbs, err := repo.ListDBs(srDir)
	log.Event("core:db", "list").Author(cmd.Author()).Detail("dir", dir).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("db list: %w", err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(dbs)
	}
	if len(dbs) == 0 {
		fmt.Fprintln(cmd.Out(), "No databases found")
		return nil
	}
	for _, db := range dbs {
		name := db.Name
		if name == "" {
			name = "(default)"
		}
		fmt.Fprintf(cmd.Out(), "%s  %s\n", db.File, name)
	}
	return nil
}

// withService opens the selected profile for the duration of fn.
func withService(fn func(svc *settings.Service) error) error {
	svc, err := settings.New(cmd.DB())
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("open store: %w", err))
	}
	defer svc.Close()
	log.SetProject(filepath.Dir(svc.DBPath()))
	return fn(svc)
}

func newDBStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return withService(func(svc *settings.Service) error {
				st, err := svc.Stats(c.Context())
				log.Event("core:db", "stats").Author(cmd.Author()).Write(err)
				if err != nil {
					return cmd.PrintJSONError(fmt.Errorf("db stats: %w", err))
				}
				if cmd.JSON() {
					return cmd.PrintJSON(map[string]any{
						"path":      svc.DBPath(),
						"keys":      st.Keys,
						"bytes":     st.Bytes,
						"revisions": st.Revisions,
						"oldest":    st.OldestRevision,
						"newest":    st.NewestRevision,
					})
				}
				printStats(svc.DBPath(), st)
				return nil
			})
		},
	}
}

func printStats(path string, st *store.Stats) {
	w := cmd.Out()
	fmt.Fprintf(w, "Database:  %s\n", path)
	fmt.Fprintf(w, "Keys:      %d (%s)\n", st.Keys, format.HumanSize(st.Bytes))
	fmt.Fprintf(w, "Revisions: %d\n", st.Revisions)
	if st.Revisions > 0 {
		fmt.Fprintf(w, "Oldest:    %s\n", time.Unix(st.OldestRevision, 0).Format(time.DateTime))
		fmt.Fprintf(w, "Newest:    %s\n", time.Unix(st.NewestRevision, 0).Format(time.DateTime))
	}
}

func newDBHistoryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "history [key]",
		Short: "Show recorded settings changes, newest first",
		Long: `Show recorded settings changes, newest first.

Keys: engines, selectedTargetEngineId, showBadge. Omit the key for all.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			key := ""
			if len(args) > 0 {
				key = args[0]
			}
			limit, _ := c.Flags().GetInt(extension.FlagLimit)
			return withService(func(svc *settings.Service) error {
				revs, err := svc.History(c.Context(), key, limit)
				log.Event("core:db", "history").Author(cmd.Author()).Detail("key", key).Write(err)
				if err != nil {
					return cmd.PrintJSONError(fmt.Errorf("db history: %w", err))
				}
				if cmd.JSON() {
					out := make([]store.RevisionJSON, len(revs))
					for i := range revs {
						out[i] = revs[i].ToJSON()
					}
					return cmd.PrintJSON(out)
				}
				return format.History(cmd.Out(), revs)
			})
		},
	}
	c.Flags().IntP(extension.FlagLimit, "n", 20, "Maximum entries")
	return c
}

func newDBVacuumCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "vacuum",
		Short: "Prune settings history",
		Long: `Permanently delete recorded settings changes. Current settings are kept.

Duration formats: 7d (days), 4w (weeks), 3m (months)`,
		Args: cobra.NoArgs,
		RunE: runVacuum,
	}
	c.Flags().String(extension.FlagOlderThan, "", "Only prune changes older than duration (e.g., 7d, 4w, 3m)")
	return c
}

func runVacuum(c *cobra.Command, _ []string) error {
	olderThan, _ := c.Flags().GetString(extension.FlagOlderThan)

	var cutoff *time.Duration
	if olderThan != "" {
		d, err := duration.Parse(olderThan)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("parse duration %q: %w", olderThan, err))
		}
		cutoff = &d
	}

	return withService(func(svc *settings.Service) error {
		n, err := svc.Vacuum(c.Context(), cutoff)
		log.Event("core:db", "vacuum").
			Author(cmd.Author()).
			Detail("older_than", olderThan).
			Detail("count", n).
			Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("vacuum: %w", err))
		}

		ext, err := vacuumExtensions(svc, cutoff)
		if err != nil {
			return cmd.PrintJSONError(err)
		}
		total := n + ext
		if cmd.JSON() {
			return cmd.PrintJSON(map[string]int64{"deleted": total})
		}
		fmt.Fprintf(cmd.Out(), "Pruned %d revision(s)\n", total)
		return nil
	})
}

// vacuumExtensions prunes tables owned by extensions that implement
// extension.Vacuumable and returns the rows removed.
func vacuumExtensions(svc *settings.Service, cutoff *time.Duration) (int64, error) {
	cfg, err := config.Load()
	if err != nil {
		return 0, err
	}
	var total int64
	extCtx := extension.NewContext(svc, svc.DB(), cfg)
	for _, ext := range extension.All() {
		if v, ok := ext.(extension.Vacuumable); ok {
			count, err := v.Vacuum(extCtx, cutoff)
			if err != nil {
				return total, fmt.Errorf("vacuum extension %s: %w", ext.Name(), err)
			}
			total += count
		}
	}
	return total, nil
}
