// stats.go implements aggregate queries for the db command.

package store

import (
	"context"
	"database/sql"
)

// Stats returns aggregate statistics about the settings database.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(length(value)), 0) FROM settings`).
		Scan(&st.Keys, &st.Bytes)
	if err != nil {
		return nil, err
	}

	var oldest, newest sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM revisions`).
		Scan(&st.Revisions, &oldest, &newest)
	if err != nil {
		return nil, err
	}
	st.OldestRevision = oldest.Int64
	st.NewestRevision = newest.Int64
	return st, nil
}
