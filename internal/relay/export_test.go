package relay

import (
	"context"

	"github.com/jpl-au/searchrelay/internal/browser"
)

// SetOpener replaces the function c uses to open a browser.
func SetOpener(c *Connector, open func(context.Context, browser.Config) (browser.Backend, error)) {
	c.open = open
}
