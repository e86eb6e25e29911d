package log

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempDB(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	origDBPath := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	t.Cleanup(func() {
		Close()
		dbPathFunc = origDBPath
	})
}

func TestLogger(t *testing.T) {
	useTempDB(t)

	t.Run("open and close", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		assert.FileExists(t, DBPath())
	})

	t.Run("log entry", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetProject("/test/project/.searchrelay")

		Log(Entry{
			Source:   "relay:icon-click",
			Action:   "dispatch",
			Trigger:  "icon-click",
			Tier:     "url",
			Resolved: "baidu",
			Success:  true,
		})

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var source, action, trigger, tier, resolved string
		var success int
		err = db.QueryRow("SELECT source, action, trigger_kind, tier, resolved, success FROM log WHERE id = 1").
			Scan(&source, &action, &trigger, &tier, &resolved, &success)
		require.NoError(t, err)
		assert.Equal(t, "relay:icon-click", source)
		assert.Equal(t, "dispatch", action)
		assert.Equal(t, "icon-click", trigger)
		assert.Equal(t, "url", tier)
		assert.Equal(t, "baidu", resolved)
		assert.Equal(t, 1, success)
	})

	t.Run("log error entry", func(t *testing.T) {
		err := Open()
		require.NoError(t, err)
		defer Close()

		SetProject("/test/project/.searchrelay")

		Log(Entry{
			Source:  "relay:menu-click",
			Action:  "dispatch",
			Engine:  "gone",
			Success: false,
			Error:   "engine not found: gone",
		})

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var success int
		var errMsg, engine string
		err = db.QueryRow("SELECT success, error, engine FROM log ORDER BY id DESC LIMIT 1").
			Scan(&success, &errMsg, &engine)
		require.NoError(t, err)
		assert.Equal(t, 0, success)
		assert.Equal(t, "engine not found: gone", errMsg)
		assert.Equal(t, "gone", engine)
	})

	t.Run("log without logger is noop", func(t *testing.T) {
		Close()

		Log(Entry{Source: "test:cmd", Action: "test", Success: true})
		entries, err := Recent(10)
		require.NoError(t, err)
		assert.Nil(t, entries)
	})

	t.Run("open is idempotent", func(t *testing.T) {
		require.NoError(t, Open())
		require.NoError(t, Open())
		Close()
	})
}

func TestHash(t *testing.T) {
	h1 := hash("/home/user/project/.searchrelay")
	h2 := hash("/home/user/project/.searchrelay")
	h3 := hash("/home/user/other/.searchrelay")

	assert.Equal(t, h1, h2, "same input should produce same hash")
	assert.NotEqual(t, h1, h3, "different input should produce different hash")
	assert.Len(t, h1, 16, "BLAKE2b-64 should produce 16 hex chars")
}

func TestDBPath(t *testing.T) {
	t.Setenv("SEARCHRELAY_LOG_DIR", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expected := filepath.Join(home, ".searchrelay", "log", "searchrelay-log.db")

	origDBPath := dbPathFunc
	dbPathFunc = defaultDBPath
	defer func() { dbPathFunc = origDBPath }()

	assert.Equal(t, expected, DBPath())

	t.Setenv("SEARCHRELAY_LOG_DIR", "/tmp/x")
	assert.Equal(t, filepath.Join("/tmp/x", "searchrelay-log.db"), DBPath())
}

func TestBuilder(t *testing.T) {
	useTempDB(t)

	require.NoError(t, Open())
	SetProject("/test/project/.searchrelay")

	Event("engine:add", "add").
		Author("test-user").
		Engine("custom_1").
		Detail("name", "Example").
		Write(nil)

	Event("relay:icon-click", "resolve").
		Trigger("icon-click").
		Detail("keyword_len", 5).
		Write(errors.New("script injection denied"))

	entries, err := Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "relay:icon-click", entries[0].Source)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "script injection denied", entries[0].Error)
	assert.EqualValues(t, 5, entries[0].Detail["keyword_len"])

	assert.Equal(t, "engine:add", entries[1].Source)
	assert.Equal(t, "test-user", entries[1].Author)
	assert.Equal(t, "custom_1", entries[1].Engine)
	assert.True(t, entries[1].Success)
	assert.Equal(t, "Example", entries[1].Detail["name"])
}

func TestRecent_ScopedToProject(t *testing.T) {
	useTempDB(t)
	require.NoError(t, Open())

	SetProject("/a/.searchrelay")
	Event("engine:rm", "delete").Write(nil)
	SetProject("/b/.searchrelay")
	Event("engine:add", "add").Write(nil)

	entries, err := Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "engine:add", entries[0].Source)
}
