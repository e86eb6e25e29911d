// Package transfer reads and writes settings files for export and import.
// Exports are YAML. Imports accept that YAML or a JSON dump of the storage
// blob, in either the current or the legacy key layout.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/settings"
	"github.com/jpl-au/searchrelay/internal/store"
)

// Version is the current file format version.
const Version = 1

// ErrUnsupportedVersion is returned for files written by a newer release.
var ErrUnsupportedVersion = errors.New("unsupported settings file version")

// ErrMalformed is returned when a file cannot be decoded.
var ErrMalformed = errors.New("malformed settings file")

// ErrEmpty is returned when a file holds no engines.
var ErrEmpty = errors.New("settings file has no engines")

// File is the on-disk layout.
type File struct {
	Version         int `yaml:"version"`
	engine.Settings `yaml:",inline"`
}

// Export writes s to w as YAML.
func Export(w io.Writer, s engine.Settings) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Version: Version, Settings: s}); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return enc.Close()
}

// Import reads a settings file and validates it. The result is normalised
// so that the selection names a target engine.
func Import(r io.Reader) (engine.Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return engine.Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	var s engine.Settings
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		var vals store.Values
		if err := json.Unmarshal(trimmed, &vals); err != nil {
			return engine.Settings{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		_, current := vals[settings.KeyEngines]
		_, legacy := vals[settings.LegacyKeyTargets]
		if !legacy && (!current || emptyList(vals[settings.KeyEngines])) {
			return engine.Settings{}, ErrEmpty
		}
		if s, _, err = settings.Decode(vals); err != nil {
			return engine.Settings{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	} else {
		var f File
		if err := yaml.Unmarshal(data, &f); err != nil {
			return engine.Settings{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if f.Version > Version {
			return engine.Settings{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
		}
		s = f.Settings
	}

	if s.Empty() {
		return engine.Settings{}, ErrEmpty
	}
	s, err = engine.Clean(s)
	if err != nil {
		return engine.Settings{}, err
	}
	return s.Normalise(), nil
}

// emptyList reports whether raw is an empty JSON array.
func emptyList(raw json.RawMessage) bool {
	var items []json.RawMessage
	return json.Unmarshal(raw, &items) == nil && len(items) == 0
}
