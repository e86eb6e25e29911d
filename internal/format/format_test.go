package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/present"
	"github.com/jpl-au/searchrelay/internal/store"
)

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "12B", HumanSize(12))
	assert.Equal(t, "1.5K", HumanSize(1536))
	assert.Equal(t, "2.0M", HumanSize(2<<20))
}

func TestEngines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Engines(&buf, engine.Defaults()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "* google", lines[0])
	assert.Equal(t, "  baidu", lines[1])
}

func TestEnginesLong(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EnginesLong(&buf, engine.Defaults()))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "  ID"))
	assert.Contains(t, out, "target,source")
	assert.Contains(t, out, "search.yahoo.com")
	assert.Contains(t, out, "https://www.sogou.com/web?query=%s")

	buf.Reset()
	require.NoError(t, EnginesLong(&buf, engine.Settings{}))
	assert.Empty(t, buf.String())
}

func TestMenu(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Menu(&buf, present.MenuFor(engine.Defaults())))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Search Relay (search_relay_root)\n"))
	assert.Contains(t, out, "├── Google  engine_google\n")
	assert.Contains(t, out, "└── Yahoo  engine_yahoo\n")
}

func TestBadge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Badge(&buf, present.Badge{}))
	assert.Equal(t, "badge: hidden\n", buf.String())

	buf.Reset()
	require.NoError(t, Badge(&buf, present.Badge{Text: "G", Visible: true, Engine: "google"}))
	assert.Equal(t, "badge: G (google)\n", buf.String())
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, History(&buf, []store.Revision{
		{ID: 2, Key: "showBadge", Value: nil, CreatedAt: 0},
		{ID: 1, Key: "showBadge", Value: []byte("true"), Author: "me", CreatedAt: 0},
	}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "removed")
	assert.Contains(t, lines[1], "me")
	assert.Contains(t, lines[1], "4B")
}
