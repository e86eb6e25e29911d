// Package dispatch turns a keyword and a target engine into a search URL and
// hands it to an Opener, normally a new browser tab.
package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jpl-au/searchrelay/internal/engine"
)

// Opener opens a URL, typically in a new foreground tab adjacent to the
// current one.
type Opener interface {
	OpenTab(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, url string) error

// OpenTab calls f.
func (f OpenerFunc) OpenTab(ctx context.Context, url string) error {
	return f(ctx, url)
}

// Result describes a dispatched search.
type Result struct {
	Engine engine.Engine
	URL    string
}

// Encode percent-encodes a keyword for use inside a URL component. Every
// reserved character, including '&', '=', '#', '+' and '%', is encoded and
// spaces become %20, so decoding recovers the original string exactly.
func Encode(keyword string) string {
	return strings.ReplaceAll(url.QueryEscape(keyword), "+", "%20")
}

// BuildURL substitutes the encoded keyword for the first placeholder in the
// template. Later occurrences are left as written.
func BuildURL(template, keyword string) string {
	return strings.Replace(template, engine.Placeholder, Encode(keyword), 1)
}

// Plan resolves the target engine and builds the search URL without opening
// anything. engineID may be empty to use the selected target.
func Plan(s engine.Settings, engineID, keyword string) (Result, error) {
	e, err := engine.ResolveTarget(s, engineID)
	if err != nil {
		return Result{}, err
	}
	return Result{Engine: e, URL: BuildURL(e.URL, keyword)}, nil
}

// Dispatch plans the search and opens it. An empty keyword is a no-op. When
// the target engine does not exist nothing is opened and the
// engine.ErrEngineNotFound error is returned for the caller to log.
func Dispatch(ctx context.Context, o Opener, s engine.Settings, engineID, keyword string) (Result, error) {
	if keyword == "" {
		return Result{}, nil
	}
	r, err := Plan(s, engineID, keyword)
	if err != nil {
		return Result{}, err
	}
	if err := o.OpenTab(ctx, r.URL); err != nil {
		return r, fmt.Errorf("opening %s: %w", r.Engine.ID, err)
	}
	return r, nil
}
