package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBFileName(t *testing.T) {
	assert.Equal(t, "searchrelay.db", DBFileName(""))
	assert.Equal(t, "searchrelay-work.db", DBFileName("work"))
	assert.Equal(t, "custom.db", DBFileName("custom.db"))
}

// isolate points HOME at an empty temp dir so discovery cannot find a real
// global settings directory.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv(EnvDir, "")
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestInitAndDiscover(t *testing.T) {
	dir := isolate(t)

	p, err := Init(false, "", dir)
	require.NoError(t, err)
	assert.FileExists(t, p)

	_, err = Init(false, "", dir)
	assert.Error(t, err, "second init without force")

	_, err = Init(true, "", dir)
	require.NoError(t, err)

	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))
	t.Chdir(sub)

	found, err := Discover("")
	require.NoError(t, err)
	want, _ := filepath.EvalSymlinks(p)
	got, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, want, got)

	_, err = Discover("work")
	assert.ErrorIs(t, err, ErrNotInitialised)
}

func TestDiscover_GlobalFallback(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")

	_, err := Discover("")
	assert.ErrorIs(t, err, ErrNotInitialised)

	_, err = Init(false, "", home)
	require.NoError(t, err)

	found, err := Discover("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, Dir, DBFile), found)

	d, err := DiscoverDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, Dir), d)
}

func TestDiscover_EnvDir(t *testing.T) {
	isolate(t)
	env := filepath.Join(t.TempDir(), "settings")
	t.Setenv(EnvDir, env)

	_, err := Discover("")
	assert.ErrorIs(t, err, ErrNotInitialised)

	p, err := Init(false, "work", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env, "searchrelay-work.db"), p)

	found, err := Discover("work")
	require.NoError(t, err)
	assert.Equal(t, p, found)
}

func TestListDBs(t *testing.T) {
	dir := isolate(t)
	_, err := Init(false, "", dir)
	require.NoError(t, err)
	_, err = Init(false, "work", dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, Dir, "other.db"), nil, 0644))

	dbs, err := ListDBs(filepath.Join(dir, Dir))
	require.NoError(t, err)
	require.Len(t, dbs, 2)
	names := []string{dbs[0].Name, dbs[1].Name}
	assert.ElementsMatch(t, []string{"", "work"}, names)
}
