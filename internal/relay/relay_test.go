package relay_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/searchrelay/internal/browser"
	"github.com/jpl-au/searchrelay/internal/browser/browsertest"
	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/relay"
	"github.com/jpl-au/searchrelay/internal/resolve"
	"github.com/jpl-au/searchrelay/internal/settings"
)

func setup(t *testing.T, fake *browsertest.Fake) (*relay.Router, *settings.Service) {
	t.Helper()
	t.Setenv("SEARCHRELAY_LOG_DIR", t.TempDir())
	svc, err := settings.Open(filepath.Join(t.TempDir(), "searchrelay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	backend := func(context.Context) (browser.Backend, error) { return fake, nil }
	return relay.New(svc, backend, nil, relay.Options{Author: "tester"}), svc
}

func TestIconClick_SelectionWins(t *testing.T) {
	fake := browsertest.New("https://www.baidu.com/s?wd=ignored")
	fake.Selection = "  golang generics  "
	r, _ := setup(t, fake)

	out, err := r.IconClick(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Opened)
	assert.Equal(t, resolve.TierSelection, out.Tier)
	assert.Equal(t, "google", out.Engine)
	assert.Equal(t, []string{"https://www.google.com/search?q=golang%20generics"}, fake.Opened)
}

func TestIconClick_URLTier(t *testing.T) {
	fake := browsertest.New("https://www.baidu.com/s?wd=%E5%A4%A9%E6%B0%94")
	r, svc := setup(t, fake)
	require.NoError(t, svc.SelectTarget(context.Background(), "bing", "tester"))

	out, err := r.IconClick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, resolve.TierURL, out.Tier)
	assert.Equal(t, []string{"https://www.bing.com/search?q=%E5%A4%A9%E6%B0%94"}, fake.Opened)
	assert.False(t, fake.Prompted())
}

func TestIconClick_PromptCancelled(t *testing.T) {
	fake := browsertest.New("https://example.com/")
	r, _ := setup(t, fake)

	out, err := r.IconClick(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Opened)
	assert.Equal(t, "no keyword", out.Reason)
	assert.Empty(t, fake.Opened)
	assert.True(t, fake.Prompted())
}

func TestIconClick_PrivilegedPage(t *testing.T) {
	fake := browsertest.New("chrome://settings")
	r, _ := setup(t, fake)

	out, err := r.IconClick(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Opened)
	assert.Empty(t, fake.Opened)
	assert.Empty(t, fake.Evaluated, "privileged pages are never probed")
}

func TestMenuClick(t *testing.T) {
	fake := browsertest.New("https://example.com/")
	r, _ := setup(t, fake)

	out, err := r.MenuClick(context.Background(), "engine_duckduckgo", "a&b")
	require.NoError(t, err)
	assert.True(t, out.Opened)
	assert.Equal(t, "duckduckgo", out.Engine)
	assert.Equal(t, []string{"https://duckduckgo.com/?q=a%26b"}, fake.Opened)
	assert.Empty(t, fake.Evaluated, "menu selection skips the page probe")
}

func TestMenuClick_UnknownEngine(t *testing.T) {
	fake := browsertest.New("https://example.com/")
	fake.Selection = "x"
	r, _ := setup(t, fake)

	out, err := r.MenuClick(context.Background(), "engine_gone", "")
	require.NoError(t, err)
	assert.False(t, out.Opened)
	assert.Contains(t, out.Reason, engine.ErrEngineNotFound.Error())
	assert.Empty(t, fake.Opened)
}

func TestMenuClick_RootIgnored(t *testing.T) {
	fake := browsertest.New("https://example.com/")
	r, _ := setup(t, fake)

	out, err := r.MenuClick(context.Background(), "search_relay_root", "x")
	require.NoError(t, err)
	assert.False(t, out.Opened)
	assert.Empty(t, fake.Opened)
}

func TestSearch_OpenerFailure(t *testing.T) {
	fake := browsertest.New("https://example.com/")
	fake.Selection = "x"
	fake.OpenErr = errors.New("target closed")
	r, _ := setup(t, fake)

	_, err := r.IconClick(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target closed")
}

func TestInstalledAndStorageChange(t *testing.T) {
	fake := browsertest.New("https://example.com/")
	r, svc := setup(t, fake)
	ctx := context.Background()

	out, err := r.Installed(ctx)
	require.NoError(t, err)
	assert.True(t, out.Seeded)
	assert.True(t, out.MenuBuilt)
	require.NotNil(t, out.Badge)
	assert.False(t, out.Badge.Visible)
	builds := r.Presenter().Builds()

	require.NoError(t, svc.SetShowBadge(ctx, true, "tester"))
	out, err = r.StorageChange(ctx, []string{settings.KeyShowBadge})
	require.NoError(t, err)
	require.NotNil(t, out.Badge)
	assert.Equal(t, "G", out.Badge.Text)
	assert.False(t, out.MenuBuilt)
	assert.Equal(t, builds, r.Presenter().Builds())

	_, err = svc.DeleteEngine(ctx, "yahoo", "tester")
	require.NoError(t, err)
	out, err = r.StorageChange(ctx, []string{settings.KeyEngines})
	require.NoError(t, err)
	assert.True(t, out.MenuBuilt)
	assert.Len(t, r.Presenter().Menu(), len(engine.Defaults().Engines))
}

func TestHandle_UnknownKind(t *testing.T) {
	r, _ := setup(t, browsertest.New("https://example.com/"))
	_, err := r.Handle(context.Background(), relay.Event{Kind: "bogus"})
	require.ErrorIs(t, err, relay.ErrUnknownTrigger)
}

func TestConnector_ReusesBackend(t *testing.T) {
	fake := browsertest.New("https://example.com/")
	opened := 0
	c := relay.NewConnector(browser.Config{})
	relay.SetOpener(c, func(context.Context, browser.Config) (browser.Backend, error) {
		opened++
		return fake, nil
	})

	b1, err := c.Backend(context.Background())
	require.NoError(t, err)
	b2, err := c.Backend(context.Background())
	require.NoError(t, err)
	assert.Same(t, b1, b2)
	assert.Equal(t, 1, opened)

	require.NoError(t, c.Close())
	assert.True(t, fake.Closed)
}
