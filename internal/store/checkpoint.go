// checkpoint.go flushes the SQLite WAL.
//
// Kept apart from the read and write paths because it is maintenance. The
// settings service calls it on Close, so a relay server or MCP session that
// shuts down cleanly leaves no WAL behind.
//
// Design: TRUNCATE mode empties the WAL and removes the -wal and -shm files,
// leaving a single settings file that can be copied or backed up as is.

package store

import (
	"context"
	"fmt"
)

// Checkpoint writes all WAL data back to the main database file and truncates
// the WAL. This removes the -wal and -shm files from the filesystem.
func (s *SQLiteStore) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}
