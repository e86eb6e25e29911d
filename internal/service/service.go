// Package service defines the shared interface for settings operations.
// Commands and extensions depend on this interface rather than the
// concrete settings service, so they can be tested against fakes.
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/store"
)

// Service defines all settings operations.
//
// Extensions should use settings.New() to obtain a Service implementation.
// Always call Close() when done (use defer).
//
//	svc, err := settings.New("")
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	s, err := svc.Load(ctx)
type Service interface {
	// Close checkpoints and releases database resources.
	Close() error

	// Load returns the current settings. When nothing is stored, or the
	// stored engine list is empty, it returns the seed defaults without
	// writing them.
	Load(ctx context.Context) (engine.Settings, error)

	// Install seeds the defaults when nothing is stored, migrating legacy
	// keys first. It reports whether anything was written.
	Install(ctx context.Context, author string) (InstallResult, error)

	// AddEngine validates and appends a new engine.
	AddEngine(ctx context.Context, in engine.Input, author string) (engine.Engine, error)

	// UpdateEngine validates and replaces an existing engine.
	UpdateEngine(ctx context.Context, id string, in engine.Input, author string) (engine.Engine, error)

	// DeleteEngine removes an engine, moving the selection if needed.
	DeleteEngine(ctx context.Context, id, author string) (engine.Engine, error)

	// SetRoles changes an engine's target and source roles.
	SetRoles(ctx context.Context, id string, isTarget, isSource bool, author string) error

	// SelectTarget sets the default target engine.
	SelectTarget(ctx context.Context, id, author string) error

	// SetShowBadge toggles the toolbar badge.
	SetShowBadge(ctx context.Context, show bool, author string) error

	// Reset replaces all settings with the seed defaults.
	Reset(ctx context.Context, author string) (engine.Settings, error)

	// Replace validates and stores a complete settings value.
	Replace(ctx context.Context, s engine.Settings, author string) error

	// Watch registers fn to receive the changed keys after each committed
	// write. Call the returned function to stop watching.
	Watch(fn func(keys []string)) (cancel func())

	// History returns recorded changes to a settings key, newest first.
	History(ctx context.Context, key string, limit int) ([]store.Revision, error)

	// Stats returns database statistics.
	Stats(ctx context.Context) (*store.Stats, error)

	// Vacuum prunes revision history older than olderThan (all when nil).
	Vacuum(ctx context.Context, olderThan *time.Duration) (int64, error)

	// DB returns the underlying database connection for extensions.
	DB() *sql.DB

	// DBPath returns the path to the database file.
	DBPath() string
}

// InstallResult reports what Install did.
type InstallResult struct {
	Seeded   bool `json:"seeded"`   // defaults were written
	Migrated bool `json:"migrated"` // legacy keys were converted
}
