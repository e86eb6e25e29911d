package settings

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/extract"
	"github.com/jpl-au/searchrelay/internal/store"
)

// legacyTarget is a record of the old targetEngines list.
type legacyTarget struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Badge string `json:"badge"`
}

// legacyRule is a record of the old sourceRules list.
type legacyRule struct {
	Domain string `json:"domain"`
	Param  string `json:"param"`
}

// decodeLegacy converts the old three-key layout into canonical settings.
// found is false when no legacy target list is stored.
func decodeLegacy(vals store.Values) (s engine.Settings, found bool, err error) {
	raw, ok := vals[LegacyKeyTargets]
	if !ok {
		return engine.Settings{}, false, nil
	}
	var targets []legacyTarget
	if err := json.Unmarshal(raw, &targets); err != nil {
		return engine.Settings{}, false, fmt.Errorf("decoding %s: %w", LegacyKeyTargets, err)
	}
	if len(targets) == 0 {
		return engine.Settings{}, false, nil
	}
	var rules []legacyRule
	if raw, ok := vals[LegacyKeyRules]; ok {
		if err := json.Unmarshal(raw, &rules); err != nil {
			return engine.Settings{}, false, fmt.Errorf("decoding %s: %w", LegacyKeyRules, err)
		}
	}
	if raw, ok := vals[LegacyKeyTarget]; ok {
		if err := json.Unmarshal(raw, &s.SelectedTargetEngineID); err != nil {
			return engine.Settings{}, false, fmt.Errorf("decoding %s: %w", LegacyKeyTarget, err)
		}
	}
	if raw, ok := vals[KeyShowBadge]; ok {
		if err := json.Unmarshal(raw, &s.ShowBadge); err != nil {
			return engine.Settings{}, false, fmt.Errorf("decoding %s: %w", KeyShowBadge, err)
		}
	}

	s.Engines = convert(targets, rules)
	return s.Normalise(), true, nil
}

// convert folds source rules into the target engine serving the same
// domain. Rules with no such engine become source-only engines. Engines
// follow rule order, with a folded target at its rule's position and the
// remaining targets after the last rule, so extraction matches rules in
// the order the old layout did. A later rule for an already claimed domain
// is dropped.
func convert(targets []legacyTarget, rules []legacyRule) []engine.Engine {
	pending := make([]engine.Engine, 0, len(targets))
	ids := make(map[string]bool)
	for _, t := range targets {
		if t.ID == "" || ids[t.ID] {
			continue
		}
		name := strings.TrimSpace(t.Name)
		if name == "" {
			name = t.ID
		}
		ids[t.ID] = true
		pending = append(pending, engine.Engine{
			ID:       t.ID,
			Name:     name,
			URL:      t.URL,
			Badge:    t.Badge,
			Domain:   extract.NormaliseDomain(extract.Derive(t.URL, engine.Placeholder).Domain),
			IsTarget: true,
		})
	}

	out := make([]engine.Engine, 0, len(targets)+len(rules))
	claimed := make(map[string]bool)
	for _, r := range rules {
		domain := extract.NormaliseDomain(r.Domain)
		if domain == "" || claimed[domain] {
			continue
		}
		claimed[domain] = true

		if i := slices.IndexFunc(pending, func(e engine.Engine) bool { return e.Domain == domain }); i >= 0 {
			e := pending[i]
			e.IsSource = true
			e.Param = r.Param
			out = append(out, e)
			pending = slices.Delete(pending, i, i+1)
			continue
		}

		id := "source_" + strings.NewReplacer(".", "_", "-", "_").Replace(domain)
		for base, n := id, 2; ids[id]; n++ {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		ids[id] = true
		out = append(out, engine.Engine{
			ID:       id,
			Name:     domain,
			URL:      "https://" + domain + "/?" + r.Param + "=" + engine.Placeholder,
			Domain:   domain,
			Param:    r.Param,
			IsSource: true,
		})
	}
	return append(out, pending...)
}
