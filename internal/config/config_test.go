package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := &Config{}
	assert.Equal(t, "chromedp", c.Backend())
	assert.Equal(t, DefaultCDPURL, c.CDPURL())
	assert.False(t, c.Headless())
	assert.Equal(t, 10*time.Second, c.Timeout())
	assert.Equal(t, DefaultUIAddr, c.UIAddr())
	assert.Equal(t, DefaultPromptMessage, c.PromptMessage())
	for _, k := range ValidKeys() {
		assert.False(t, c.IsSet(k), k)
	}
}

func TestSetGet(t *testing.T) {
	c := &Config{}
	require.NoError(t, c.Set("browser.backend", "ROD"))
	require.NoError(t, c.Set("browser.headless", "true"))
	require.NoError(t, c.Set("browser.timeout_seconds", "30"))
	require.NoError(t, c.Set("ui.addr", ":9000"))
	require.NoError(t, c.Set("author.name", "alice"))

	v, err := c.Get("browser.backend")
	require.NoError(t, err)
	assert.Equal(t, "rod", v)
	assert.True(t, c.Headless())
	assert.Equal(t, 30*time.Second, c.Timeout())
	assert.True(t, c.IsSet("ui.addr"))
	assert.Equal(t, "alice", c.All()["author.name"])
}

func TestSet_Invalid(t *testing.T) {
	c := &Config{}
	assert.ErrorIs(t, c.Set("browser.backend", "lynx"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("browser.headless", "maybe"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("browser.timeout_seconds", "0"), ErrInvalidValue)
	assert.ErrorIs(t, c.Set("nope", "x"), ErrUnknownKey)
	_, err := c.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestSaveLoadLocal(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SEARCHRELAY_DIR", dir)
	t.Setenv("HOME", t.TempDir())

	c := &Config{}
	require.NoError(t, c.Set("browser.cdp_url", "ws://127.0.0.1:9333/devtools/browser/x"))
	require.NoError(t, c.SaveScope(ScopeLocal))
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, loaded.Scope())
	assert.Equal(t, "ws://127.0.0.1:9333/devtools/browser/x", loaded.CDPURL())
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SEARCHRELAY_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("browser: [\n"), 0644))

	_, err := Load()
	assert.ErrorContains(t, err, "malformed config file")
}

func TestLoad_InvalidValue(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SEARCHRELAY_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("browser:\n  timeout_seconds: 0\n"), 0644))

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidValue)
}
