package settings

import (
	"context"
	"sort"

	"github.com/jpl-au/searchrelay/extension"
	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/service"
	"github.com/jpl-au/searchrelay/internal/store"
)

// Load returns the current settings. Nothing is written: an empty store
// yields the seed defaults, and unmigrated legacy keys are converted in
// memory.
func (s *Service) Load(ctx context.Context) (engine.Settings, error) {
	vals, err := s.store.Get(ctx, allKeys...)
	if err != nil {
		return engine.Settings{}, err
	}
	out, _, err := decode(vals)
	return out, err
}

// Install runs on the installed trigger. Legacy keys are migrated; when no
// engines are stored at all, the seed defaults are written. Existing
// settings are left untouched.
func (s *Service) Install(ctx context.Context, author string) (service.InstallResult, error) {
	var res service.InstallResult
	changed, err := s.write(ctx, author, func(cur store.Values) (store.Values, error) {
		ok, err := stored(cur)
		if err != nil || ok {
			return nil, err
		}
		next, legacy, err := decode(cur)
		if err != nil {
			return nil, err
		}
		res.Migrated = legacy
		res.Seeded = !legacy
		return canonical(cur, next)
	})
	if err != nil {
		return service.InstallResult{}, err
	}
	if len(changed) == 0 {
		return service.InstallResult{}, nil
	}
	return res, nil
}

// AddEngine validates in and appends a new engine.
func (s *Service) AddEngine(ctx context.Context, in engine.Input, author string) (engine.Engine, error) {
	var added engine.Engine
	err := s.mutate(ctx, author, func(cur engine.Settings) (engine.Settings, error) {
		next, e, err := engine.AddEngine(cur, in)
		added = e
		return next, err
	})
	return added, err
}

// UpdateEngine validates in and replaces engine id.
func (s *Service) UpdateEngine(ctx context.Context, id string, in engine.Input, author string) (engine.Engine, error) {
	var updated engine.Engine
	err := s.mutate(ctx, author, func(cur engine.Settings) (engine.Settings, error) {
		next, e, err := engine.UpdateEngine(cur, id, in)
		updated = e
		return next, err
	})
	return updated, err
}

// DeleteEngine removes engine id.
func (s *Service) DeleteEngine(ctx context.Context, id, author string) (engine.Engine, error) {
	var removed engine.Engine
	err := s.mutate(ctx, author, func(cur engine.Settings) (engine.Settings, error) {
		next, e, err := engine.DeleteEngine(cur, id)
		removed = e
		return next, err
	})
	return removed, err
}

// SetRoles changes the roles of engine id.
func (s *Service) SetRoles(ctx context.Context, id string, isTarget, isSource bool, author string) error {
	return s.mutate(ctx, author, func(cur engine.Settings) (engine.Settings, error) {
		return engine.SetRoles(cur, id, isTarget, isSource)
	})
}

// SelectTarget makes id the default target engine.
func (s *Service) SelectTarget(ctx context.Context, id, author string) error {
	return s.mutate(ctx, author, func(cur engine.Settings) (engine.Settings, error) {
		return engine.SelectTarget(cur, id)
	})
}

// SetShowBadge toggles the toolbar badge.
func (s *Service) SetShowBadge(ctx context.Context, show bool, author string) error {
	return s.mutate(ctx, author, func(cur engine.Settings) (engine.Settings, error) {
		return engine.SetShowBadge(cur, show), nil
	})
}

// Reset replaces all settings with the seed defaults.
func (s *Service) Reset(ctx context.Context, author string) (engine.Settings, error) {
	d := engine.Defaults()
	err := s.mutate(ctx, author, func(engine.Settings) (engine.Settings, error) {
		return d, nil
	})
	return d, err
}

// Replace stores next wholesale after validating every engine.
func (s *Service) Replace(ctx context.Context, next engine.Settings, author string) error {
	next, err := engine.Clean(next)
	if err != nil {
		return err
	}
	next = next.Normalise()
	return s.mutate(ctx, author, func(engine.Settings) (engine.Settings, error) {
		return next, nil
	})
}

// mutate loads the settings, applies fn and persists the result in one
// transaction. Legacy keys are dropped on the first canonical write.
func (s *Service) mutate(ctx context.Context, author string, fn func(engine.Settings) (engine.Settings, error)) error {
	_, err := s.write(ctx, author, func(cur store.Values) (store.Values, error) {
		settings, _, err := decode(cur)
		if err != nil {
			return nil, err
		}
		next, err := fn(settings)
		if err != nil {
			return nil, err
		}
		return canonical(cur, next)
	})
	return err
}

// write runs fn inside a store update and fires a change event listing the
// keys that actually changed.
func (s *Service) write(ctx context.Context, author string, fn func(store.Values) (store.Values, error)) ([]string, error) {
	if author == "" {
		author = DefaultAuthor
	}
	var changed []string
	err := s.store.Update(ctx, allKeys, store.WriteOptions{Author: author}, func(cur store.Values) (store.Values, error) {
		next, err := fn(cur)
		if err != nil {
			return nil, err
		}
		diff := changes(cur, next)
		changed = changed[:0]
		for k := range diff {
			changed = append(changed, k)
		}
		return diff, nil
	})
	if err != nil {
		return nil, err
	}
	if len(changed) > 0 {
		sort.Strings(changed)
		s.notify(changed)
		s.fireEvent(extension.SettingsChangeEvent{Keys: changed, Author: author})
	}
	return changed, nil
}

// canonical encodes next and marks any legacy keys in cur for removal.
func canonical(cur store.Values, next engine.Settings) (store.Values, error) {
	vals, err := encode(next)
	if err != nil {
		return nil, err
	}
	for _, k := range []string{LegacyKeyTarget, LegacyKeyTargets, LegacyKeyRules} {
		if _, ok := cur[k]; ok {
			vals[k] = nil
		}
	}
	return vals, nil
}
