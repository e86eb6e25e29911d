// Package browsertest provides an in-memory browser.Backend for tests.
package browsertest

import (
	"context"
	"strings"
	"sync"

	"github.com/jpl-au/searchrelay/internal/browser"
)

// Fake is a scripted browser. The active tab, its selection and the prompt
// answer are set by the test; opened URLs and evaluated expressions are
// recorded.
type Fake struct {
	mu sync.Mutex

	Tabs      []browser.Tab
	Selection string
	Answer    string
	EvalErr   error
	OpenErr   error

	Evaluated []string
	Opened    []string
	Closed    bool
}

// New returns a Fake with a single tab at url.
func New(url string) *Fake {
	return &Fake{Tabs: []browser.Tab{{ID: "tab-1", URL: url, Title: url}}}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) ActiveTab(_ context.Context, id string) (browser.Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.Tabs {
		if id == "" || t.ID == id {
			return t, nil
		}
	}
	return browser.Tab{}, browser.ErrNoTab
}

func (f *Fake) Evaluate(ctx context.Context, tab browser.Tab, expr string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Evaluated = append(f.Evaluated, expr)
	if browser.Privileged(tab.URL) {
		return "", browser.ErrInjectionDenied
	}
	if f.EvalErr != nil {
		return "", f.EvalErr
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.Contains(expr, "prompt(") {
		return f.Answer, nil
	}
	return f.Selection, nil
}

func (f *Fake) OpenTab(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.OpenErr != nil {
		return f.OpenErr
	}
	f.Opened = append(f.Opened, url)
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Prompted reports whether a prompt was shown.
func (f *Fake) Prompted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.Evaluated {
		if strings.Contains(e, "prompt(") {
			return true
		}
	}
	return false
}

var _ browser.Backend = (*Fake)(nil)
