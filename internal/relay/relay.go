// Package relay routes the user-facing triggers to their handlers. Each
// trigger has one named handler that loads the settings, calls the pure
// pipeline and registry functions, and records the outcome in the audit
// log. Handlers never fail because of a page: injection denials, missing
// tabs and unknown engines are logged and end the action quietly.
package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpl-au/searchrelay/internal/browser"
	"github.com/jpl-au/searchrelay/internal/dispatch"
	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/present"
	"github.com/jpl-au/searchrelay/internal/resolve"
	"github.com/jpl-au/searchrelay/internal/service"
)

// Kind enumerates the triggers.
type Kind string

const (
	Installed     Kind = "installed"
	Startup       Kind = "startup"
	IconClick     Kind = "icon-click"
	MenuClick     Kind = "menu-click"
	StorageChange Kind = "storage-change"
)

// Kinds lists every trigger kind.
var Kinds = []Kind{Installed, Startup, IconClick, MenuClick, StorageChange}

// ErrUnknownTrigger is returned by Handle for a kind outside Kinds.
var ErrUnknownTrigger = errors.New("unknown trigger")

// Settings is the part of the settings service the router uses.
type Settings interface {
	Load(ctx context.Context) (engine.Settings, error)
	Install(ctx context.Context, author string) (service.InstallResult, error)
}

// BackendFunc returns the browser backend for page triggers. It is called
// lazily so that settings-only triggers never connect to a browser.
type BackendFunc func(ctx context.Context) (browser.Backend, error)

// Options configure a Router.
type Options struct {
	Author        string
	TabID         string        // explicit tab; empty picks the active one
	Timeout       time.Duration // bound on the selection probe
	PromptMessage string
}

// Event is one trigger occurrence.
type Event struct {
	Kind          Kind
	MenuItemID    string   // menu-click only
	SelectionText string   // menu-click only, when the host supplied it
	Keys          []string // storage-change only
}

// Outcome reports what a handler did.
type Outcome struct {
	Trigger   Kind           `json:"trigger"`
	Tier      resolve.Tier   `json:"tier,omitempty"`
	Engine    string         `json:"engine,omitempty"`
	URL       string         `json:"url,omitempty"`
	Opened    bool           `json:"opened"`
	Seeded    bool           `json:"seeded,omitempty"`
	Migrated  bool           `json:"migrated,omitempty"`
	Badge     *present.Badge `json:"badge,omitempty"`
	MenuBuilt bool           `json:"menu_built,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

// Router maps each trigger kind to its handler.
type Router struct {
	settings  Settings
	backend   BackendFunc
	presenter *present.Presenter
	opts      Options
}

// New returns a Router. backend may be nil when only settings triggers are
// handled.
func New(s Settings, backend BackendFunc, p *present.Presenter, opts Options) *Router {
	if p == nil {
		p = present.NewPresenter(engine.Settings{})
	}
	if opts.PromptMessage == "" {
		opts.PromptMessage = resolve.DefaultPrompt
	}
	return &Router{settings: s, backend: backend, presenter: p, opts: opts}
}

// Presenter returns the router's badge and menu state.
func (r *Router) Presenter() *present.Presenter { return r.presenter }

// Handle dispatches ev to its handler.
func (r *Router) Handle(ctx context.Context, ev Event) (Outcome, error) {
	switch ev.Kind {
	case Installed:
		return r.Installed(ctx)
	case Startup:
		return r.Startup(ctx)
	case IconClick:
		return r.IconClick(ctx)
	case MenuClick:
		return r.MenuClick(ctx, ev.MenuItemID, ev.SelectionText)
	case StorageChange:
		return r.StorageChange(ctx, ev.Keys)
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownTrigger, ev.Kind)
	}
}

// Installed seeds the defaults when nothing is stored, then builds the
// badge and menu.
func (r *Router) Installed(ctx context.Context) (Outcome, error) {
	out := Outcome{Trigger: Installed}
	res, err := r.settings.Install(ctx, r.opts.Author)
	log.Event("relay:installed", "install").
		Author(r.opts.Author).
		Trigger(string(Installed)).
		Detail("seeded", res.Seeded).
		Detail("migrated", res.Migrated).
		Write(err)
	if err != nil {
		return out, err
	}
	out.Seeded, out.Migrated = res.Seeded, res.Migrated
	return r.rebuild(ctx, out)
}

// Startup rebuilds the badge and menu from the stored settings.
func (r *Router) Startup(ctx context.Context) (Outcome, error) {
	return r.rebuild(ctx, Outcome{Trigger: Startup})
}

func (r *Router) rebuild(ctx context.Context, out Outcome) (Outcome, error) {
	s, err := r.settings.Load(ctx)
	if err != nil {
		return out, err
	}
	r.presenter.Rebuild(s)
	b := r.presenter.Badge()
	out.Badge = &b
	out.MenuBuilt = true
	return out, nil
}

// StorageChange refreshes whichever of the badge and menu depend on keys.
func (r *Router) StorageChange(ctx context.Context, keys []string) (Outcome, error) {
	out := Outcome{Trigger: StorageChange}
	s, err := r.settings.Load(ctx)
	if err != nil {
		return out, err
	}
	badge, menu := r.presenter.Apply(s, keys)
	if badge {
		b := r.presenter.Badge()
		out.Badge = &b
	}
	out.MenuBuilt = menu
	return out, nil
}

// IconClick searches the selected target engine for the keyword resolved
// from the active tab.
func (r *Router) IconClick(ctx context.Context) (Outcome, error) {
	return r.search(ctx, resolve.Trigger{Kind: string(IconClick)})
}

// MenuClick searches the engine named by itemID. Clicks on the root item
// or on foreign items do nothing.
func (r *Router) MenuClick(ctx context.Context, itemID, selection string) (Outcome, error) {
	id, ok := present.ParseItemID(itemID)
	if !ok {
		return Outcome{Trigger: MenuClick, Reason: "not an engine item"}, nil
	}
	return r.search(ctx, resolve.Trigger{
		Kind:          string(MenuClick),
		EngineID:      id,
		SelectionText: selection,
	})
}

func (r *Router) search(ctx context.Context, trig resolve.Trigger) (Outcome, error) {
	source := "relay:" + trig.Kind
	out := Outcome{Trigger: Kind(trig.Kind)}

	s, err := r.settings.Load(ctx)
	if err != nil {
		return out, err
	}
	if r.backend == nil {
		return out, errors.New("no browser configured")
	}
	b, err := r.backend(ctx)
	if err != nil {
		log.Event(source, "connect").Trigger(trig.Kind).Write(err)
		return out, err
	}

	page := resolve.Page(noPage{})
	if p, err := browser.Active(ctx, b, r.opts.TabID); err != nil {
		log.Event(source, "tab").Trigger(trig.Kind).Write(err)
	} else {
		page = p.WithTimeout(r.opts.Timeout)
	}

	res, err := resolve.Resolve(ctx, page, s, trig, resolve.Options{
		PromptMessage: r.opts.PromptMessage,
		Source:        source,
	})
	if err != nil {
		return out, err
	}
	out.Tier = res.Tier
	if res.Keyword == "" {
		out.Reason = "no keyword"
		log.Event(source, "dispatch").
			Author(r.opts.Author).
			Trigger(trig.Kind).
			Engine(trig.EngineID).
			Detail("outcome", "no keyword").
			Write(nil)
		return out, nil
	}

	result, err := dispatch.Dispatch(ctx, b, s, res.EngineID, res.Keyword)
	out.Engine = result.Engine.ID
	log.Event(source, "dispatch").
		Author(r.opts.Author).
		Trigger(trig.Kind).
		Engine(res.EngineID).
		Tier(string(res.Tier)).
		Resolved(result.Engine.ID).
		Detail("keyword_len", len([]rune(res.Keyword))).
		Write(err)
	if errors.Is(err, engine.ErrEngineNotFound) {
		out.Reason = err.Error()
		return out, nil
	}
	if err != nil {
		return out, err
	}
	out.URL, out.Opened = result.URL, true
	return out, nil
}

// noPage stands in when no ordinary tab is available. Every probe fails,
// so only a selection carried by the trigger can produce a keyword.
type noPage struct{}

func (noPage) URL() string { return "" }

func (noPage) Selection(context.Context) (string, error) { return "", browser.ErrNoTab }

func (noPage) Prompt(context.Context, string) (string, error) { return "", browser.ErrNoTab }
