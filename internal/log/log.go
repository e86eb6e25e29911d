// Package log provides the audit log for searchrelay. Every trigger, keyword
// resolution, dispatch and settings change is recorded in
// ~/.searchrelay/log/searchrelay-log.db so that silent no-ops (a denied
// page probe, an unknown engine id) can be inspected afterwards.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("relay:icon-click", "resolve").
//		Trigger("icon-click").
//		Tier(res.Tier).
//		Write(err)
//
//	log.Event("engine:add", "add").
//		Author(cmd.Author()).
//		Engine(e.ID).
//		Detail("name", e.Name).
//		Write(err)
//
// The source parameter follows the format "{extension}:{command}" for CLI
// commands, "mcp:{tool}" for MCP tools, "ui:{route}" for the settings page
// and "relay:{trigger}" for triggers.
//
// Keywords are never logged; entries carry the keyword length instead.
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source  string // e.g., "engine:add", "mcp:relay_search"
	Author  string // who performed the action
	Action  string // verb: resolve, dispatch, add, delete, reset, etc.
	Engine  string // input: engine id named by the request
	Trigger string // input: trigger kind, for relay events

	// Output fields - populated after the operation completes
	Tier     string // output: resolution tier that produced the keyword
	Resolved string // output: engine the search was dispatched to

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write]
// to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Author sets who performed the operation. CLI commands pass cmd.Author();
// MCP tools pass "mcp".
func (b *Builder) Author(author string) *Builder {
	b.entry.Author = author
	return b
}

// Engine sets the engine id the request named.
func (b *Builder) Engine(id string) *Builder {
	b.entry.Engine = id
	return b
}

// Trigger sets the trigger kind for relay events.
func (b *Builder) Trigger(kind string) *Builder {
	b.entry.Trigger = kind
	return b
}

// Tier records which resolution tier produced the keyword (output).
func (b *Builder) Tier(tier string) *Builder {
	b.entry.Tier = tier
	return b
}

// Resolved records the engine a search was dispatched to (output).
func (b *Builder) Resolved(id string) *Builder {
	b.entry.Resolved = id
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
// Can be called multiple times to add multiple details.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry to the database, deriving success/failure from err.
//
//	err := svc.DeleteEngine(id)
//	log.Event("engine:rm", "delete").Engine(id).Write(err)
//	if err != nil {
//		return err
//	}
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent log entries.
// The dir should be the absolute path to the .searchrelay directory.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Recent returns up to limit entries for the current project, newest first.
// Returns nil when the logger is not open.
func Recent(limit int) ([]Entry, error) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return nil, nil
	}
	return l.recent(limit)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
