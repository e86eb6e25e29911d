package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const selectionJS = `window.getSelection()?.toString() ?? ""`

// Page binds a backend to one tab and exposes the probes the keyword
// pipeline uses.
type Page struct {
	backend Backend
	tab     Tab
	timeout time.Duration
}

// NewPage returns a Page for tab with the default probe timeout.
func NewPage(b Backend, tab Tab) *Page {
	return &Page{backend: b, tab: tab, timeout: DefaultTimeout}
}

// WithTimeout sets the bound on the selection probe. The prompt waits for
// the user and is bounded only by the caller's context.
func (p *Page) WithTimeout(d time.Duration) *Page {
	if d > 0 {
		p.timeout = d
	}
	return p
}

// Active returns a Page for the browser's active tab, or for tab id when
// given.
func Active(ctx context.Context, b Backend, id string) (*Page, error) {
	tab, err := b.ActiveTab(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewPage(b, tab), nil
}

// Tab returns the bound tab.
func (p *Page) Tab() Tab { return p.tab }

// URL returns the tab's address.
func (p *Page) URL() string { return p.tab.URL }

// Selection returns the text currently selected in the page.
func (p *Page) Selection(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.eval(ctx, selectionJS)
}

// Prompt shows a blocking text prompt in the page. Cancel and an empty
// answer both return "".
func (p *Page) Prompt(ctx context.Context, message string) (string, error) {
	msg, err := json.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("encoding prompt: %w", err)
	}
	return p.eval(ctx, fmt.Sprintf(`window.prompt(%s, "") ?? ""`, msg))
}

// OpenTab opens url in a new tab.
func (p *Page) OpenTab(ctx context.Context, url string) error {
	return p.backend.OpenTab(ctx, url)
}

func (p *Page) eval(ctx context.Context, expr string) (string, error) {
	if Privileged(p.tab.URL) {
		return "", fmt.Errorf("%w: %s", ErrInjectionDenied, p.tab.URL)
	}
	return p.backend.Evaluate(ctx, p.tab, expr)
}
