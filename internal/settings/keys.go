package settings

import (
	"encoding/json"
	"fmt"

	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/store"
)

// Storage keys of the settings blob.
const (
	KeySelected  = "selectedTargetEngineId"
	KeyShowBadge = "showBadge"
	KeyEngines   = "engines"
)

// Keys written by earlier releases, which kept targets and source rules in
// separate lists.
const (
	LegacyKeyTarget  = "targetEngine"
	LegacyKeyTargets = "targetEngines"
	LegacyKeyRules   = "sourceRules"
)

// Keys lists the canonical storage keys.
var Keys = []string{KeySelected, KeyShowBadge, KeyEngines}

var allKeys = []string{
	KeySelected, KeyShowBadge, KeyEngines,
	LegacyKeyTarget, LegacyKeyTargets, LegacyKeyRules,
}

// stored reports whether vals hold a non-empty engine list.
func stored(vals store.Values) (bool, error) {
	raw, ok := vals[KeyEngines]
	if !ok {
		return false, nil
	}
	var engines []engine.Engine
	if err := json.Unmarshal(raw, &engines); err != nil {
		return false, fmt.Errorf("decoding %s: %w", KeyEngines, err)
	}
	return len(engines) > 0, nil
}

// decode reads settings from vals. With no stored engines it falls back to
// the legacy keys, then to the seed defaults. The second result reports
// whether the legacy keys were used.
func decode(vals store.Values) (engine.Settings, bool, error) {
	ok, err := stored(vals)
	if err != nil {
		return engine.Settings{}, false, err
	}
	if !ok {
		if l, found, err := decodeLegacy(vals); err != nil || found {
			return l, found, err
		}
		return engine.Defaults(), false, nil
	}

	var s engine.Settings
	if err := json.Unmarshal(vals[KeyEngines], &s.Engines); err != nil {
		return engine.Settings{}, false, fmt.Errorf("decoding %s: %w", KeyEngines, err)
	}
	if raw, ok := vals[KeySelected]; ok {
		if err := json.Unmarshal(raw, &s.SelectedTargetEngineID); err != nil {
			return engine.Settings{}, false, fmt.Errorf("decoding %s: %w", KeySelected, err)
		}
	}
	if raw, ok := vals[KeyShowBadge]; ok {
		if err := json.Unmarshal(raw, &s.ShowBadge); err != nil {
			return engine.Settings{}, false, fmt.Errorf("decoding %s: %w", KeyShowBadge, err)
		}
	}
	return s, false, nil
}

// Decode reads settings from a raw key-value dump, such as a copy of the
// browser's storage blob. The second result reports whether the dump used
// the legacy layout.
func Decode(vals store.Values) (engine.Settings, bool, error) {
	return decode(vals)
}

// encode returns the canonical key values of s.
func encode(s engine.Settings) (store.Values, error) {
	engines := s.Engines
	if engines == nil {
		engines = []engine.Engine{}
	}
	out := make(store.Values, len(Keys))
	for k, v := range map[string]any{
		KeySelected:  s.SelectedTargetEngineID,
		KeyShowBadge: s.ShowBadge,
		KeyEngines:   engines,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", k, err)
		}
		out[k] = b
	}
	return out, nil
}

// changes returns the entries of next that differ from cur.
func changes(cur, next store.Values) store.Values {
	out := make(store.Values)
	for k, v := range next {
		old, ok := cur[k]
		if v == nil {
			if ok {
				out[k] = nil
			}
			continue
		}
		if !ok || string(old) != string(v) {
			out[k] = v
		}
	}
	return out
}
