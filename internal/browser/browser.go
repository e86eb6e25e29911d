// Package browser attaches to a Chromium-family browser over the DevTools
// protocol. It supplies the page-context capabilities the relay needs: the
// active tab, a probe evaluated inside that tab, and new tabs.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Backend names accepted by Open.
const (
	BackendChromedp = "chromedp"
	BackendRod      = "rod"
)

// DefaultTimeout bounds each page probe except the prompt.
const DefaultTimeout = 10 * time.Second

var (
	// ErrInjectionDenied is returned when the active page does not allow
	// scripts to be evaluated, such as browser-internal pages.
	ErrInjectionDenied = errors.New("script injection denied")

	// ErrNoTab is returned when the browser has no page to act on.
	ErrNoTab = errors.New("no active tab")

	// ErrUnknownBackend is returned by Open for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown browser backend")
)

// Tab identifies a browser page.
type Tab struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Backend is a DevTools connection.
type Backend interface {
	// Name returns the backend identifier.
	Name() string
	// ActiveTab returns the page a trigger applies to. When id is empty the
	// first ordinary page is used.
	ActiveTab(ctx context.Context, id string) (Tab, error)
	// Evaluate runs a JavaScript expression in tab and returns its string
	// result. Non-string results are returned as JSON.
	Evaluate(ctx context.Context, tab Tab, expr string) (string, error)
	// OpenTab opens url in a new foreground tab.
	OpenTab(ctx context.Context, url string) error
	// Close releases the connection. A browser launched by Open is shut
	// down; a remote browser is left running.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend   string        // BackendChromedp or BackendRod
	RemoteURL string        // DevTools endpoint; empty launches a local browser
	Headless  bool          // for a launched browser
	Timeout   time.Duration // per-probe timeout
}

// Open connects to the browser described by cfg.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	switch cfg.Backend {
	case "", BackendChromedp:
		return newChromedp(ctx, cfg)
	case BackendRod:
		return newRod(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// privilegedSchemes never allow content scripts.
var privilegedSchemes = []string{
	"chrome:",
	"chrome-extension:",
	"chrome-search:",
	"chrome-untrusted:",
	"devtools:",
	"edge:",
	"brave:",
	"opera:",
	"vivaldi:",
	"about:",
	"view-source:",
}

// privilegedHosts block scripts even over https.
var privilegedHosts = []string{
	"https://chrome.google.com/webstore",
	"https://chromewebstore.google.com",
	"https://microsoftedge.microsoft.com/addons",
}

// Privileged reports whether scripts are barred from the page at url.
func Privileged(url string) bool {
	u := strings.ToLower(strings.TrimSpace(url))
	if u == "" {
		return true
	}
	for _, s := range privilegedSchemes {
		if strings.HasPrefix(u, s) {
			return true
		}
	}
	for _, h := range privilegedHosts {
		if strings.HasPrefix(u, h) {
			return true
		}
	}
	return false
}

// denied maps evaluation failures that mean "this page refuses scripts"
// onto ErrInjectionDenied.
func denied(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"cannot access", "cannot be scripted", "no execution context", "cannot find context"} {
		if strings.Contains(msg, s) {
			return fmt.Errorf("%w: %v", ErrInjectionDenied, err)
		}
	}
	return err
}

// ordinary reports whether a DevTools target is a user-visible page.
func ordinary(kind, url string) bool {
	return kind == "page" && !strings.HasPrefix(url, "devtools://")
}
