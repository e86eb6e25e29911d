// Package repo provides initialisation and discovery of the searchrelay
// settings directory.
//
// A settings directory is a .searchrelay directory holding one SQLite
// database per browser profile: searchrelay.db for the default profile,
// searchrelay-<name>.db for named ones. Discovery mirrors git: walk up from
// the working directory until a .searchrelay directory with the wanted
// database is found, then fall back to the one in the home directory.
// SEARCHRELAY_DIR names the directory explicitly and skips the search.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpl-au/searchrelay/internal/store"
)

const (
	// Dir is the settings directory name.
	Dir = ".searchrelay"
	// DBFile is the default profile's database filename.
	DBFile = "searchrelay.db"
	// EnvDir overrides discovery with an explicit settings directory.
	EnvDir = "SEARCHRELAY_DIR"
)

// ErrNotInitialised is returned when no settings database is found.
var ErrNotInitialised = errors.New("searchrelay not initialised (run 'searchrelay init')")

// DBFileName returns the database filename for a profile.
// Empty name returns the default "searchrelay.db".
// A name like "work" returns "searchrelay-work.db".
// A name already ending in ".db" is returned as-is.
func DBFileName(name string) string {
	if name == "" {
		return DBFile
	}
	if strings.HasSuffix(name, ".db") {
		return name
	}
	return "searchrelay-" + name + ".db"
}

// GlobalDir returns the settings directory in the user's home directory.
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, Dir), nil
}

// Init creates the settings directory under dir (the working directory when
// empty) and an empty database for profile db. It returns the database
// path. Settings are seeded separately by the install trigger.
func Init(force bool, db, dir string) (string, error) {
	var srDir string
	switch {
	case dir != "":
		srDir = filepath.Join(dir, Dir)
	case os.Getenv(EnvDir) != "":
		srDir = os.Getenv(EnvDir)
	default:
		srDir = Dir
	}
	dbPath := filepath.Join(srDir, DBFileName(db))

	if _, err := os.Stat(dbPath); err == nil {
		if !force {
			return "", fmt.Errorf("database %s already exists (use --force to reinitialise)", DBFileName(db))
		}
		for _, suffix := range []string{"", "-wal", "-shm"} {
			if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
				return "", fmt.Errorf("remove database: %w", err)
			}
		}
	}

	if err := os.MkdirAll(srDir, 0755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	if err := s.Init(); err != nil {
		return "", fmt.Errorf("init store: %w", err)
	}
	return dbPath, nil
}

// Discover returns the path of profile db's database.
func Discover(db string) (string, error) {
	dbFile := DBFileName(db)

	if env := os.Getenv(EnvDir); env != "" {
		p := filepath.Join(env, dbFile)
		if _, err := os.Stat(p); err != nil {
			return "", ErrNotInitialised
		}
		return p, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		p := filepath.Join(dir, Dir, dbFile)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if g, err := GlobalDir(); err == nil {
		p := filepath.Join(g, dbFile)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrNotInitialised
}

// DiscoverDir finds the settings directory the same way Discover does,
// without requiring a particular database.
func DiscoverDir() (string, error) {
	if env := os.Getenv(EnvDir); env != "" {
		if info, err := os.Stat(env); err == nil && info.IsDir() {
			return env, nil
		}
		return "", ErrNotInitialised
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		d := filepath.Join(dir, Dir)
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			return d, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if g, err := GlobalDir(); err == nil {
		if info, err := os.Stat(g); err == nil && info.IsDir() {
			return g, nil
		}
	}
	return "", ErrNotInitialised
}

// DBInfo describes one profile database.
type DBInfo struct {
	Name string // Profile name (empty for the default profile)
	File string // Filename (searchrelay.db, searchrelay-work.db)
	Path string // Full path
}

// ListDBs returns the profile databases in dir, discovering the settings
// directory when dir is empty.
func ListDBs(dir string) ([]DBInfo, error) {
	if dir == "" {
		var err error
		dir, err = DiscoverDir()
		if err != nil {
			return nil, fmt.Errorf("discover %s directory: %w", Dir, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s directory: %w", Dir, err)
	}

	var dbs []DBInfo
	for _, e := range entries {
		var name string
		switch {
		case e.Name() == DBFile:
		case strings.HasPrefix(e.Name(), "searchrelay-") && strings.HasSuffix(e.Name(), ".db"):
			name = strings.TrimSuffix(strings.TrimPrefix(e.Name(), "searchrelay-"), ".db")
		default:
			continue
		}
		dbs = append(dbs, DBInfo{Name: name, File: e.Name(), Path: filepath.Join(dir, e.Name())})
	}
	return dbs, nil
}
