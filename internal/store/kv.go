package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Get returns the stored values of keys, or every value when no keys are
// given. Absent keys are omitted.
func (s *SQLiteStore) Get(ctx context.Context, keys ...string) (Values, error) {
	q := `SELECT key, value FROM settings`
	var args []any
	if len(keys) > 0 {
		q += ` WHERE key IN (` + placeholders(len(keys)) + `)`
		for _, k := range keys {
			args = append(args, k)
		}
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	defer rows.Close()
	return scanValues(rows)
}

// Keys returns every stored key in sorted order.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Set stores every value in vals in one transaction.
func (s *SQLiteStore) Set(ctx context.Context, vals Values, opts WriteOptions) error {
	if err := check(vals); err != nil {
		return err
	}
	return s.Tx(ctx, func(tx *sql.Tx) error {
		return apply(ctx, tx, vals, opts)
	})
}

// Remove deletes keys in one transaction. Absent keys are ignored.
func (s *SQLiteStore) Remove(ctx context.Context, keys []string, opts WriteOptions) error {
	vals := make(Values, len(keys))
	for _, k := range keys {
		vals[k] = nil
	}
	return s.Tx(ctx, func(tx *sql.Tx) error {
		return apply(ctx, tx, vals, opts)
	})
}

// Update reads keys, calls fn and writes its result in one transaction.
func (s *SQLiteStore) Update(ctx context.Context, keys []string, opts WriteOptions, fn func(Values) (Values, error)) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		q := `SELECT key, value FROM settings WHERE key IN (` + placeholders(len(keys)) + `)`
		args := make([]any, len(keys))
		for i, k := range keys {
			args[i] = k
		}
		rows, err := tx.QueryContext(ctx, q, args...)
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}
		cur, err := scanValues(rows)
		rows.Close()
		if err != nil {
			return err
		}

		next, err := fn(cur)
		if err != nil {
			return err
		}
		if err := check(next); err != nil {
			return err
		}
		return apply(ctx, tx, next, opts)
	})
}

// apply writes vals within tx, recording one revision per key. Nil values
// remove the key.
func apply(ctx context.Context, tx *sql.Tx, vals Values, opts WriteOptions) error {
	now := time.Now().Unix()
	for _, k := range sortedKeys(vals) {
		v := vals[k]
		if v == nil {
			res, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, k)
			if err != nil {
				return fmt.Errorf("remove %s: %w", k, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO revisions (key, value, author, created_at) VALUES (?, NULL, ?, ?)`,
				k, nilIfEmpty(opts.Author), now); err != nil {
				return fmt.Errorf("record removal of %s: %w", k, err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value, author, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, author = excluded.author,
			                               updated_at = excluded.updated_at`,
			k, string(v), nilIfEmpty(opts.Author), now); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO revisions (key, value, author, created_at) VALUES (?, ?, ?, ?)`,
			k, string(v), nilIfEmpty(opts.Author), now); err != nil {
			return fmt.Errorf("record %s: %w", k, err)
		}
	}
	return nil
}

// History returns recorded changes, newest first.
func (s *SQLiteStore) History(ctx context.Context, key string, limit int) ([]Revision, error) {
	q := `SELECT id, key, value, author, created_at FROM revisions`
	var args []any
	if key != "" {
		q += ` WHERE key = ?`
		args = append(args, key)
	}
	q += ` ORDER BY id DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var r Revision
		var val, author sql.NullString
		if err := rows.Scan(&r.ID, &r.Key, &val, &author, &r.CreatedAt); err != nil {
			return nil, err
		}
		if val.Valid {
			r.Value = json.RawMessage(val.String)
		}
		r.Author = author.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanValues(rows *sql.Rows) (Values, error) {
	out := make(Values)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = json.RawMessage(v)
	}
	return out, rows.Err()
}

// check rejects values that are not valid JSON.
func check(vals Values) error {
	for k, v := range vals {
		if v != nil && !json.Valid(v) {
			return fmt.Errorf("%w: %s", ErrInvalidValue, k)
		}
	}
	return nil
}

func sortedKeys(vals Values) []string {
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func placeholders(n int) string {
	if n <= 0 {
		return "NULL"
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// nilIfEmpty stores empty strings as NULL.
func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
