package engine

import (
	"fmt"

	"github.com/jpl-au/searchrelay/internal/extract"
)

// Settings is the complete persisted configuration. The JSON field names
// are the storage keys of the settings blob.
type Settings struct {
	SelectedTargetEngineID string   `json:"selectedTargetEngineId" yaml:"selected_target_engine_id"`
	ShowBadge              bool     `json:"showBadge" yaml:"show_badge"`
	Engines                []Engine `json:"engines" yaml:"engines"`
}

// Clone returns a deep copy whose engine slice can be modified freely.
func (s Settings) Clone() Settings {
	c := s
	c.Engines = make([]Engine, len(s.Engines))
	copy(c.Engines, s.Engines)
	return c
}

// Find returns the engine with id and its index, or -1 if absent.
func (s Settings) Find(id string) (Engine, int) {
	for i, e := range s.Engines {
		if e.ID == id {
			return e, i
		}
	}
	return Engine{}, -1
}

// Targets returns the target-capable engines in list order.
func (s Settings) Targets() []Engine {
	var out []Engine
	for _, e := range s.Engines {
		if e.IsTarget {
			out = append(out, e)
		}
	}
	return out
}

// Rules returns the source rules in list order. Only source engines with
// both a domain and a parameter contribute a rule.
func (s Settings) Rules() []extract.Rule {
	var out []extract.Rule
	for _, e := range s.Engines {
		if e.IsSource && e.Domain != "" && e.Param != "" {
			out = append(out, e.Rule())
		}
	}
	return out
}

// Selected returns the currently selected target engine, if it exists.
func (s Settings) Selected() (Engine, bool) {
	if s.SelectedTargetEngineID == "" {
		return Engine{}, false
	}
	e, i := s.Find(s.SelectedTargetEngineID)
	return e, i >= 0
}

// ResolveTarget picks the engine a search is sent to: explicitID when given,
// otherwise the selected target, otherwise FallbackID. It returns
// ErrEngineNotFound when no engine has the chosen id; callers must not
// dispatch in that case.
func ResolveTarget(s Settings, explicitID string) (Engine, error) {
	id := explicitID
	if id == "" {
		id = s.SelectedTargetEngineID
	}
	if id == "" {
		id = FallbackID
	}
	e, i := s.Find(id)
	if i < 0 {
		return Engine{}, fmt.Errorf("%w: %s", ErrEngineNotFound, id)
	}
	return e, nil
}

// Normalise re-establishes the selected-target invariant: the selection
// must name a target engine when one exists. Otherwise it moves to the first
// target engine, or to the empty sentinel when there are none.
func (s Settings) Normalise() Settings {
	if e, ok := s.Selected(); ok && e.IsTarget {
		return s
	}
	s.SelectedTargetEngineID = ""
	if targets := s.Targets(); len(targets) > 0 {
		s.SelectedTargetEngineID = targets[0].ID
	}
	return s
}

// Empty reports whether the settings hold no engines, which Load treats as
// "nothing stored yet".
func (s Settings) Empty() bool {
	return len(s.Engines) == 0
}
