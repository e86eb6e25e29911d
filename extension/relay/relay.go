// Package relay provides the relay extension for searchrelay.
// It registers commands: search, menu (with subcommand click), extract, open.
//
// search and menu click are the icon-click and menu-click triggers; they
// attach to the browser named by browser.cdp_url on first use.
package relay

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/searchrelay/cmd"
	"github.com/jpl-au/searchrelay/extension"
	"github.com/jpl-au/searchrelay/internal/browser"
	"github.com/jpl-au/searchrelay/internal/config"
	"github.com/jpl-au/searchrelay/internal/progress"
	"github.com/jpl-au/searchrelay/internal/relay"
	"github.com/jpl-au/searchrelay/internal/service"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the relay extension.
type Extension struct {
	svc    service.Service
	cfg    *config.Config
	conn   *relay.Connector
	router *relay.Router
}

// Compile-time interface compliance.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.EventHandler  = (*Extension)(nil)
)

// Name returns "relay".
func (e *Extension) Name() string { return "relay" }

// Init builds the trigger router. The browser is not contacted until a
// page trigger runs.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cfg = ctx.Config()
	e.conn = relay.NewConnector(relay.BrowserConfig(e.cfg))
	e.router = relay.New(e.svc, e.backend, nil, e.options(""))
	_, err := e.router.Startup(context.Background())
	return err
}

func (e *Extension) options(tab string) relay.Options {
	return relay.Options{
		Author:        cmd.Author(),
		TabID:         tab,
		Timeout:       e.cfg.Timeout(),
		PromptMessage: e.cfg.PromptMessage(),
	}
}

// routerFor returns the router for a command, pinned to tab when given.
// Pinned routers share the badge and menu state.
func (e *Extension) routerFor(tab string) *relay.Router {
	if tab == "" {
		return e.router
	}
	return relay.New(e.svc, e.backend, e.router.Presenter(), e.options(tab))
}

// backend connects to the browser behind a spinner.
func (e *Extension) backend(ctx context.Context) (browser.Backend, error) {
	var b browser.Backend
	err := progress.NewSpinner("Connecting to "+e.cfg.Backend()).Run(func() error {
		var err error
		b, err = e.conn.Backend(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("connect to browser (%s): %w", e.cfg.CDPURL(), err)
	}
	return b, nil
}

// Commands returns the trigger commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newSearchCmd(),
		e.newMenuCmd(),
		e.newExtractCmd(),
		e.newOpenCmd(),
	}
}

// MCPTools returns nil - relay_search and relay_extract are in internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// HandleEvent runs the storage-change trigger so the badge and menu follow
// settings changes made by other commands in this process.
func (e *Extension) HandleEvent(ctx extension.Context, evt extension.Event) error { //nolint:revive // ctx for future use
	ev, ok := evt.(extension.SettingsChangeEvent)
	if !ok || e.router == nil {
		return nil
	}
	_, err := e.router.Handle(context.Background(), relay.Event{Kind: relay.StorageChange, Keys: ev.Keys})
	return err
}

// close releases the browser connection opened by a command.
func (e *Extension) close() {
	if e.conn != nil {
		_ = e.conn.Close()
	}
}
