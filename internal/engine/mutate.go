package engine

import (
	"crypto/rand"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"

	"github.com/jpl-au/searchrelay/internal/extract"
	"github.com/jpl-au/searchrelay/internal/validate"
)

// Input is the user-editable part of an engine. Domain and Param are
// derived from URL when left blank.
type Input struct {
	Name     string
	URL      string
	Badge    string
	Domain   string
	Param    string
	IsTarget bool
	IsSource bool
}

// FromEngine returns the Input that reproduces e.
func FromEngine(e Engine) Input {
	return Input{
		Name:     e.Name,
		URL:      e.URL,
		Badge:    e.Badge,
		Domain:   e.Domain,
		Param:    e.Param,
		IsTarget: e.IsTarget,
		IsSource: e.IsSource,
	}
}

var strict = bluemonday.StrictPolicy()

// clean strips markup from user text. Badges and names end up in menu
// titles and the management page, so they must be plain text.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// NewID returns a fresh, time-ordered id for a user-created engine.
func NewID() string {
	return CustomPrefix + strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String())
}

// build validates in and returns the engine it describes, with id set.
// self is the id being edited, excluded from the duplicate domain check.
func build(s Settings, id string, in Input) (Engine, error) {
	name := clean(in.Name)
	if err := validate.Name(name); err != nil {
		return Engine{}, err
	}
	tpl := strings.TrimSpace(in.URL)
	if err := validate.URLTemplate(tpl, Placeholder); err != nil {
		return Engine{}, err
	}
	if err := validate.Roles(in.IsTarget, in.IsSource); err != nil {
		return Engine{}, err
	}

	e := Engine{
		ID:       id,
		Name:     name,
		URL:      tpl,
		Badge:    clean(in.Badge),
		Domain:   extract.NormaliseDomain(in.Domain),
		Param:    strings.TrimSpace(in.Param),
		IsTarget: in.IsTarget,
		IsSource: in.IsSource,
	}
	if e.Badge == "" {
		r, _ := utf8.DecodeRuneInString(name)
		e.Badge = string(r)
	}
	if e.Domain == "" || e.Param == "" {
		d := extract.Derive(tpl, Placeholder)
		if e.Domain == "" {
			e.Domain = extract.NormaliseDomain(d.Domain)
		}
		if e.Param == "" {
			e.Param = d.Param
		}
	}
	if err := validate.Domain(e.Domain); err != nil {
		return Engine{}, err
	}
	if e.IsSource && e.Domain != "" {
		for _, o := range s.Engines {
			if o.ID != id && o.IsSource && extract.NormaliseDomain(o.Domain) == e.Domain {
				return Engine{}, fmt.Errorf("%w: %s is used by %s", validate.ErrDuplicateDomain, e.Domain, o.Name)
			}
		}
	}
	return e, nil
}

// AddEngine appends a new engine built from in. The returned engine carries
// its generated id.
func AddEngine(s Settings, in Input) (Settings, Engine, error) {
	e, err := build(s, NewID(), in)
	if err != nil {
		return s, Engine{}, err
	}
	out := s.Clone()
	out.Engines = append(out.Engines, e)
	return out.Normalise(), e, nil
}

// UpdateEngine replaces engine id with the engine described by in. The id
// and list position are preserved.
func UpdateEngine(s Settings, id string, in Input) (Settings, Engine, error) {
	_, i := s.Find(id)
	if i < 0 {
		return s, Engine{}, fmt.Errorf("%w: %s", ErrEngineNotFound, id)
	}
	e, err := build(s, id, in)
	if err != nil {
		return s, Engine{}, err
	}
	out := s.Clone()
	out.Engines[i] = e
	return out.Normalise(), e, nil
}

// DeleteEngine removes engine id. If it was the selected target, the
// selection moves to the first remaining target engine.
func DeleteEngine(s Settings, id string) (Settings, Engine, error) {
	e, i := s.Find(id)
	if i < 0 {
		return s, Engine{}, fmt.Errorf("%w: %s", ErrEngineNotFound, id)
	}
	out := s.Clone()
	out.Engines = append(out.Engines[:i], out.Engines[i+1:]...)
	return out.Normalise(), e, nil
}

// SetRoles changes only the roles of engine id.
func SetRoles(s Settings, id string, isTarget, isSource bool) (Settings, error) {
	e, i := s.Find(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrEngineNotFound, id)
	}
	in := FromEngine(e)
	in.IsTarget, in.IsSource = isTarget, isSource
	return replace(s, i, id, in)
}

func replace(s Settings, i int, id string, in Input) (Settings, error) {
	e, err := build(s, id, in)
	if err != nil {
		return s, err
	}
	out := s.Clone()
	out.Engines[i] = e
	return out.Normalise(), nil
}

// SelectTarget makes id the selected target engine.
func SelectTarget(s Settings, id string) (Settings, error) {
	e, i := s.Find(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrEngineNotFound, id)
	}
	if !e.IsTarget {
		return s, fmt.Errorf("%w: %s", ErrNotTarget, id)
	}
	out := s.Clone()
	out.SelectedTargetEngineID = id
	return out, nil
}

// SetShowBadge toggles the toolbar badge.
func SetShowBadge(s Settings, show bool) Settings {
	out := s.Clone()
	out.ShowBadge = show
	return out
}

// Check validates a complete settings value, such as one read from an
// import file. Every engine must pass the same rules as AddEngine and ids
// must be unique.
func Check(s Settings) error {
	_, err := Clean(s)
	return err
}

// Clean validates s like Check and returns it with every engine rebuilt
// the way AddEngine stores it: names and badges as plain text, domains
// normalised, blank fields derived.
func Clean(s Settings) (Settings, error) {
	out := s.Clone()
	seen := make(map[string]bool, len(s.Engines))
	for i, e := range s.Engines {
		if e.ID == "" {
			return s, fmt.Errorf("%w: engine %q has no id", validate.ErrInvalidText, e.Name)
		}
		if seen[e.ID] {
			return s, fmt.Errorf("%w: duplicate engine id %s", validate.ErrInvalidText, e.ID)
		}
		seen[e.ID] = true
		built, err := build(s, e.ID, FromEngine(e))
		if err != nil {
			return s, fmt.Errorf("engine %s: %w", e.ID, err)
		}
		out.Engines[i] = built
	}
	return out, nil
}
