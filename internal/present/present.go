// Package present computes what the toolbar shows: the badge on the
// extension icon and the context menu listing the engines. Both are pure
// functions of the settings; the Presenter caches the last result and
// rebuilds only when a relevant key changes.
package present

import (
	"strings"
	"sync"

	"github.com/jpl-au/searchrelay/internal/engine"
)

// RootID is the id of the context menu's parent item.
const RootID = "search_relay_root"

// ItemPrefix starts the id of every engine item under the root.
const ItemPrefix = "engine_"

// RootTitle is the label of the root menu item.
const RootTitle = "Search Relay"

// Badge is the toolbar badge state.
type Badge struct {
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
	Engine  string `json:"engine,omitempty"`
}

// Item is one context menu entry.
type Item struct {
	ID       string   `json:"id"`
	ParentID string   `json:"parentId,omitempty"`
	Title    string   `json:"title"`
	Contexts []string `json:"contexts"`
}

// Menu is the complete context menu, root first.
type Menu []Item

// menuContexts are the page contexts the menu appears in.
var menuContexts = []string{"page", "selection"}

// BadgeFor returns the badge for s. The badge is hidden when showBadge is
// off or no target engine is selected.
func BadgeFor(s engine.Settings) Badge {
	if !s.ShowBadge {
		return Badge{}
	}
	e, ok := s.Selected()
	if !ok {
		return Badge{}
	}
	return Badge{Text: e.BadgeText(), Visible: true, Engine: e.ID}
}

// MenuFor returns the context menu for s: the root item plus one child per
// engine, in list order.
func MenuFor(s engine.Settings) Menu {
	m := make(Menu, 0, len(s.Engines)+1)
	m = append(m, Item{ID: RootID, Title: RootTitle, Contexts: menuContexts})
	for _, e := range s.Engines {
		m = append(m, Item{
			ID:       ItemPrefix + e.ID,
			ParentID: RootID,
			Title:    e.Name,
			Contexts: menuContexts,
		})
	}
	return m
}

// ParseItemID returns the engine id named by a menu item id. ok is false
// for the root item and foreign ids.
func ParseItemID(itemID string) (string, bool) {
	id, ok := strings.CutPrefix(itemID, ItemPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Presenter holds the current badge and menu.
type Presenter struct {
	mu    sync.RWMutex
	badge Badge
	menu  Menu
	built int // number of menu rebuilds
}

// NewPresenter returns a Presenter built from s.
func NewPresenter(s engine.Settings) *Presenter {
	p := &Presenter{}
	p.Rebuild(s)
	return p
}

// Rebuild recomputes both the badge and the menu.
func (p *Presenter) Rebuild(s engine.Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.badge = BadgeFor(s)
	p.menu = MenuFor(s)
	p.built++
}

// Apply reacts to a change of the given storage keys. The badge depends on
// all three keys; the menu is torn down and rebuilt only when the engine
// list changed.
func (p *Presenter) Apply(s engine.Settings, keys []string) (badge, menu bool) {
	for _, k := range keys {
		switch k {
		case "engines":
			badge, menu = true, true
		case "selectedTargetEngineId", "showBadge":
			badge = true
		}
	}
	if !badge && !menu {
		return false, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.badge = BadgeFor(s)
	if menu {
		p.menu = MenuFor(s)
		p.built++
	}
	return badge, menu
}

// Badge returns the current badge.
func (p *Presenter) Badge() Badge {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.badge
}

// Menu returns a copy of the current menu.
func (p *Presenter) Menu() Menu {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append(Menu(nil), p.menu...)
}

// Builds returns how many times the menu has been built.
func (p *Presenter) Builds() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.built
}
