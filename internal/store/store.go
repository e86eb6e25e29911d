// Package store persists the settings blob: a flat map of keys to JSON
// values, mirroring the synced key-value storage a browser extension gets.
// Consumers depend on the Store interface; SQLiteStore is the
// implementation.
package store

import (
	"encoding/json"
	"time"
)

// Values maps settings keys to their raw JSON values.
type Values map[string]json.RawMessage

// Revision is one recorded change to a key. A nil Value records a removal.
type Revision struct {
	ID        int64           // Database primary key
	Key       string          // Settings key
	Value     json.RawMessage // New value, nil when removed
	Author    string          // Who made the change
	CreatedAt int64           // Unix timestamp of the change
}

// RevisionJSON is the API-friendly representation of a Revision.
type RevisionJSON struct {
	ID        int64           `json:"id"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value,omitempty"`
	Removed   bool            `json:"removed,omitempty"`
	Author    string          `json:"author,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// ToJSON converts a Revision to its API representation with an RFC3339
// timestamp.
func (r *Revision) ToJSON() RevisionJSON {
	return RevisionJSON{
		ID:        r.ID,
		Key:       r.Key,
		Value:     r.Value,
		Removed:   r.Value == nil,
		Author:    r.Author,
		CreatedAt: time.Unix(r.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

// MarshalJSON encodes a value with indentation for human-readable CLI output.
// Use this instead of json.Marshal when the output will be displayed to users.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// WriteOptions configures a write.
type WriteOptions struct {
	Author string
}

// Stats summarises the settings database.
type Stats struct {
	Keys           int64 // Stored settings keys
	Bytes          int64 // Total size of stored values
	Revisions      int64 // Recorded changes
	OldestRevision int64 // Unix timestamp of the earliest change (0 if none)
	NewestRevision int64 // Unix timestamp of the latest change (0 if none)
}
