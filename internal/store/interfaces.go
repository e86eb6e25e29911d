// interfaces.go defines the storage abstraction for the settings blob.
//
// Reader and Writer are split so consumers depend only on what they use.
// Writes of several keys happen in one transaction: a reader never sees
// half of a multi-key update.

package store

import (
	"context"
	"database/sql"
	"time"
)

// Reader defines read-only operations.
type Reader interface {
	// Get returns the stored values of keys. Absent keys are omitted from
	// the result; with no keys, every stored value is returned.
	Get(ctx context.Context, keys ...string) (Values, error)

	// Keys returns every stored key in sorted order.
	Keys(ctx context.Context) ([]string, error)

	// History returns recorded changes, newest first. An empty key returns
	// changes to every key.
	History(ctx context.Context, key string, limit int) ([]Revision, error)

	// Stats returns aggregate database statistics.
	Stats(ctx context.Context) (*Stats, error)
}

// Writer defines mutating operations.
type Writer interface {
	// Set stores every value in vals atomically.
	Set(ctx context.Context, vals Values, opts WriteOptions) error

	// Remove deletes keys atomically. Absent keys are ignored.
	Remove(ctx context.Context, keys []string, opts WriteOptions) error

	// Update reads keys, passes them to fn and stores the returned changes
	// in the same transaction. Keys mapped to nil in the result are removed.
	Update(ctx context.Context, keys []string, opts WriteOptions, fn func(Values) (Values, error)) error
}

// Maintainer defines housekeeping operations.
type Maintainer interface {
	// Vacuum deletes revisions older than olderThan (all revisions when
	// nil) and compacts the database file. Returns the rows removed.
	Vacuum(ctx context.Context, olderThan *time.Duration) (int64, error)

	// Checkpoint flushes the WAL into the main database file.
	Checkpoint(ctx context.Context) error
}

// Store is the complete storage interface.
type Store interface {
	Reader
	Writer
	Maintainer

	// Init creates tables if they don't exist.
	Init() error

	// Close releases the database connection.
	Close() error

	// DB exposes the underlying connection for extensions with their own
	// tables.
	DB() *sql.DB
}
