// vacuum.go prunes the revision history.
//
// Revisions are kept so a bad import or reset can be inspected and undone
// by hand. Vacuum is the only operation that discards them.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Vacuum deletes revisions recorded before olderThan ago, or every revision
// when olderThan is nil, then compacts the database file. Current settings
// are never touched.
func (s *SQLiteStore) Vacuum(ctx context.Context, olderThan *time.Duration) (int64, error) {
	var deleted int64

	err := s.Tx(ctx, func(tx *sql.Tx) error {
		q := `DELETE FROM revisions`
		var args []any
		if olderThan != nil {
			q += ` WHERE created_at < ?`
			args = append(args, time.Now().Add(-*olderThan).Unix())
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return fmt.Errorf("vacuum revisions: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}

	// VACUUM cannot run inside a transaction.
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return deleted, fmt.Errorf("compact database: %w", err)
	}
	return deleted, nil
}
