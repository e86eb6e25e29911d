// ui.go implements the "searchrelay ui" command, which serves the settings
// page until interrupted.

package core

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpl-au/searchrelay/cmd"
	"github.com/jpl-au/searchrelay/extension"
	"github.com/jpl-au/searchrelay/internal/config"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/relay"
	"github.com/jpl-au/searchrelay/internal/settings"
	"github.com/jpl-au/searchrelay/internal/ui"
)

func newUICmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ui",
		Short: "Serve the settings page",
		Long: `Serve the settings page and its JSON API.

  searchrelay ui                         # listen on ui.addr (127.0.0.1:8765)
  searchrelay ui --addr 127.0.0.1:9000

The page manages engines, the default target and the badge, and can send
icon and menu clicks to the attached browser.`,
		Args: cobra.NoArgs,
		RunE: runUI,
	}
	c.Flags().String(extension.FlagAddr, "", "Listen address (default: ui.addr from config)")
	return c
}

func runUI(c *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("config load: %w", err))
	}
	addr, _ := c.Flags().GetString(extension.FlagAddr)
	if addr == "" {
		addr = cfg.UIAddr()
	}

	svc, err := settings.New(cmd.DB())
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("open store: %w", err))
	}
	defer svc.Close()
	log.SetProject(filepath.Dir(svc.DBPath()))
	svc.SetExtensionContext(extension.NewContext(svc, svc.DB(), cfg))

	conn := relay.NewConnector(relay.BrowserConfig(cfg))
	defer conn.Close()

	router := relay.New(svc, conn.Backend, nil, relay.Options{
		Author:        cmd.Author(),
		Timeout:       cfg.Timeout(),
		PromptMessage: cfg.PromptMessage(),
	})

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := router.Startup(ctx); err != nil {
		return cmd.PrintJSONError(fmt.Errorf("startup: %w", err))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := ui.New(svc, router, logger, cmd.Author())
	defer srv.Close()

	fmt.Fprintf(cmd.Out(), "Settings page on http://%s\n", addr)
	err = srv.ListenAndServe(ctx, addr)
	log.Event("core:ui", "serve").Author(cmd.Author()).Detail("addr", addr).Write(err)
	if err != nil && ctx.Err() == nil {
		return cmd.PrintJSONError(err)
	}
	return nil
}
