// maint.go exposes history and database maintenance.

package settings

import (
	"context"
	"time"

	"github.com/jpl-au/searchrelay/internal/store"
)

// History returns recorded changes to key, newest first. An empty key
// returns changes to every key.
func (s *Service) History(ctx context.Context, key string, limit int) ([]store.Revision, error) {
	return s.store.History(ctx, key, limit)
}

// Stats returns database statistics.
func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	return s.store.Stats(ctx)
}

// Vacuum prunes revision history older than olderThan, or all of it when
// nil. Current settings are never removed.
func (s *Service) Vacuum(ctx context.Context, olderThan *time.Duration) (int64, error) {
	return s.store.Vacuum(ctx, olderThan)
}

// Checkpoint flushes the WAL to the main database file.
func (s *Service) Checkpoint(ctx context.Context) error {
	return s.store.Checkpoint(ctx)
}
