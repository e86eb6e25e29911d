// Package resolve implements the keyword resolution pipeline. A trigger's
// keyword comes from the first tier that yields one:
//
//  1. the text selected in the page (a menu click may carry it already);
//  2. a keyword parsed from the page URL by the source rules;
//  3. a prompt shown in the page.
//
// Failures inside a tier are recorded and the pipeline moves on; only the
// caller's context cancellation stops it.
package resolve

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jpl-au/searchrelay/internal/browser"
	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/extract"
	"github.com/jpl-au/searchrelay/internal/log"
)

// Tier names the stage that produced a keyword.
type Tier string

const (
	TierNone      Tier = ""
	TierSelection Tier = "selection"
	TierURL       Tier = "url"
	TierPrompt    Tier = "prompt"
)

// DefaultPrompt is shown when no prompt message is configured.
const DefaultPrompt = "Enter a search keyword:"

// Page is the page-context capability the pipeline needs.
type Page interface {
	URL() string
	Selection(ctx context.Context) (string, error)
	Prompt(ctx context.Context, message string) (string, error)
}

// Trigger describes a user action.
type Trigger struct {
	Kind          string // trigger kind, for logging
	EngineID      string // explicit target engine; empty uses the selection
	SelectionText string // selection supplied by a menu click
}

// Resolution is the outcome of the pipeline. An empty Keyword means nothing
// should be dispatched.
type Resolution struct {
	Keyword  string
	Tier     Tier
	EngineID string
}

// Options tune the pipeline.
type Options struct {
	PromptMessage string
	Source        string // audit log source
}

// Resolve runs the three tiers against page. It never returns an error for
// a failed probe; the returned error is non-nil only when ctx is done.
func Resolve(ctx context.Context, page Page, s engine.Settings, trig Trigger, opts Options) (Resolution, error) {
	if opts.PromptMessage == "" {
		opts.PromptMessage = DefaultPrompt
	}
	if opts.Source == "" {
		opts.Source = "relay:" + trig.Kind
	}
	res := Resolution{EngineID: trig.EngineID}

	if kw := clean(trig.SelectionText); kw != "" {
		res.Keyword, res.Tier = kw, TierSelection
		return res, nil
	}

	sel, err := page.Selection(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		record(opts.Source, "selection", trig, err)
	} else if kw := clean(sel); kw != "" {
		res.Keyword, res.Tier = kw, TierSelection
		return res, nil
	}

	if kw, ok := extract.Keyword(page.URL(), s.Rules()); ok {
		if kw = clean(kw); kw != "" {
			res.Keyword, res.Tier = kw, TierURL
			return res, nil
		}
	}

	answer, err := page.Prompt(ctx, opts.PromptMessage)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		record(opts.Source, "prompt", trig, err)
		return res, nil
	}
	if kw := clean(answer); kw != "" {
		res.Keyword, res.Tier = kw, TierPrompt
	}
	return res, nil
}

// clean trims and NFC-normalises a candidate keyword.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func record(source, probe string, trig Trigger, err error) {
	action := "probe"
	if errors.Is(err, browser.ErrInjectionDenied) {
		action = "denied"
	}
	log.Event(source, action).
		Trigger(trig.Kind).
		Engine(trig.EngineID).
		Detail("probe", probe).
		Write(err)
}
