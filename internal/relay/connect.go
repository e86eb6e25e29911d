package relay

import (
	"context"
	"sync"

	"github.com/jpl-au/searchrelay/internal/browser"
	"github.com/jpl-au/searchrelay/internal/config"
)

// Launch is the cdp_url value that starts a private browser instead of
// attaching to a running one.
const Launch = "launch"

// BrowserConfig maps the loaded configuration onto browser options.
func BrowserConfig(cfg *config.Config) browser.Config {
	remote := cfg.CDPURL()
	if remote == Launch {
		remote = ""
	}
	return browser.Config{
		Backend:   cfg.Backend(),
		RemoteURL: remote,
		Headless:  cfg.Headless(),
		Timeout:   cfg.Timeout(),
	}
}

// Connector opens the browser on first use and reuses the connection for
// later triggers. Long-running surfaces hold one Connector for their
// lifetime.
type Connector struct {
	cfg  browser.Config
	open func(context.Context, browser.Config) (browser.Backend, error)

	mu sync.Mutex
	b  browser.Backend
}

// NewConnector returns a Connector for cfg.
func NewConnector(cfg browser.Config) *Connector {
	return &Connector{cfg: cfg, open: browser.Open}
}

// Backend returns the shared connection, opening it if needed. A failed
// attempt is not cached.
func (c *Connector) Backend(ctx context.Context) (browser.Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.b != nil {
		return c.b, nil
	}
	b, err := c.open(ctx, c.cfg)
	if err != nil {
		return nil, err
	}
	c.b = b
	return b, nil
}

// Close releases the connection if one was opened.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.b == nil {
		return nil
	}
	err := c.b.Close()
	c.b = nil
	return err
}
