// Package engine defines the search engine registry: the Engine and Settings
// types persisted in the settings blob, the seed defaults, and the pure
// functions that validate and mutate settings.
//
// Every mutation takes a Settings value and returns a new one; nothing here
// touches storage. The settings service loads, applies, and persists.
package engine

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/jpl-au/searchrelay/internal/extract"
)

// Placeholder is the token in a URL template that is replaced with the
// percent-encoded keyword.
const Placeholder = "%s"

// FallbackID is the engine used when neither the trigger nor the settings
// name a target engine.
const FallbackID = "google"

// CustomPrefix starts the id of every engine created by the user.
const CustomPrefix = "custom_"

// ErrEngineNotFound is returned when an engine id does not exist in the
// settings. Dispatch treats it as a configuration inconsistency.
var ErrEngineNotFound = errors.New("engine not found")

// ErrNotTarget is returned when selecting an engine that lacks the target role.
var ErrNotTarget = errors.New("engine is not a target engine")

// Engine is a search engine configuration. A target engine receives
// searches; a source engine's result URLs can be parsed for a keyword.
type Engine struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	URL      string `json:"url" yaml:"url"` // template containing Placeholder
	Badge    string `json:"badge" yaml:"badge"`
	Domain   string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Param    string `json:"param,omitempty" yaml:"param,omitempty"`
	IsTarget bool   `json:"isTarget" yaml:"is_target"`
	IsSource bool   `json:"isSource" yaml:"is_source"`
}

// Custom reports whether the engine was created by the user rather than
// seeded. Used for display only.
func (e Engine) Custom() bool {
	return strings.HasPrefix(e.ID, CustomPrefix)
}

// BadgeText returns the badge label, falling back to the first character
// of the name when no badge is set.
func (e Engine) BadgeText() string {
	if e.Badge != "" {
		return e.Badge
	}
	r, _ := utf8.DecodeRuneInString(e.Name)
	if r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// Rule returns the engine's source rule.
func (e Engine) Rule() extract.Rule {
	return extract.Rule{Domain: e.Domain, Param: e.Param}
}

// Roles returns a short human label for the engine's roles.
func (e Engine) Roles() string {
	switch {
	case e.IsTarget && e.IsSource:
		return "target,source"
	case e.IsTarget:
		return "target"
	case e.IsSource:
		return "source"
	default:
		return "-"
	}
}
