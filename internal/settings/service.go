// Package settings provides the settings service: it loads the settings
// blob from the store, applies the pure mutations of package engine, and
// persists the result. Every committed change fires a SettingsChangeEvent
// to registered extensions.
package settings

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jpl-au/searchrelay/extension"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/repo"
	"github.com/jpl-au/searchrelay/internal/service"
	"github.com/jpl-au/searchrelay/internal/store"
)

// DefaultAuthor is recorded when a change has no author.
const DefaultAuthor = "unknown"

// Service implements service.Service on top of a SQLite store.
type Service struct {
	store  *store.SQLiteStore
	dbPath string
	extCtx extension.Context // for firing events to extensions

	mu       sync.Mutex
	watchers map[int]func([]string)
	nextID   int
}

var _ service.Service = (*Service)(nil)

// New creates a Service, discovering the database by walking up the
// directory tree. The db parameter selects a named database (empty for
// the default). Returns repo.ErrNotInitialised if none is found.
func New(db string) (*Service, error) {
	dbPath, err := repo.Discover(db)
	if err != nil {
		return nil, err
	}
	return Open(dbPath)
}

// Open opens the database at path directly, creating tables if needed.
func Open(path string) (*Service, error) {
	s, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		s.Close()
		return nil, err
	}
	return &Service{store: s, dbPath: path}, nil
}

// Init creates a new settings database. If dir is empty the default
// location is used. Returns the path of the created database.
//
// Init does not seed engines; the installed trigger does that.
func Init(force bool, db, dir string) (string, error) {
	return repo.Init(force, db, dir)
}

// Close checkpoints the WAL and closes the database connection.
func (s *Service) Close() error {
	if err := s.store.Checkpoint(context.Background()); err != nil {
		log.Event("service:close", "checkpoint").
			Detail("error", err.Error()).
			Write(err)
	}
	return s.store.Close()
}

// SetExtensionContext sets the extension context for firing events.
// Called from cmd/root.go after creating the context.
func (s *Service) SetExtensionContext(ctx extension.Context) {
	s.extCtx = ctx
}

// fireEvent notifies all registered extension event handlers. Handler
// errors are logged, never returned: the change is already committed.
func (s *Service) fireEvent(e extension.Event) {
	if s.extCtx == nil {
		return
	}
	for _, ext := range extension.All() {
		if h, ok := ext.(extension.EventHandler); ok {
			if err := h.HandleEvent(s.extCtx, e); err != nil {
				log.Event("event:error", "error").
					Detail("ext", ext.Name()).
					Detail("event", string(e.EventType())).
					Write(err)
			}
		}
	}
}

// Watch registers fn to be called with the changed keys after every
// committed write. The returned function removes the registration.
func (s *Service) Watch(fn func(keys []string)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watchers == nil {
		s.watchers = make(map[int]func([]string))
	}
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}
}

// notify calls every watcher with keys.
func (s *Service) notify(keys []string) {
	s.mu.Lock()
	fns := make([]func([]string), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(keys)
	}
}

// DB returns the underlying database connection for extensions.
func (s *Service) DB() *sql.DB {
	return s.store.DB()
}

// DBPath returns the path to the database file.
func (s *Service) DBPath() string {
	return s.dbPath
}
