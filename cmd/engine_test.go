package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineLs(t *testing.T) {
	env := newTestEnv(t)

	t.Run("short", func(t *testing.T) {
		out := env.run("engine", "ls")
		env.contains(out, "* google")
		env.contains(out, "  yahoo")
		assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 9)
	})

	t.Run("long", func(t *testing.T) {
		out := env.run("engine", "ls", "-l")
		env.contains(out, "ROLES")
		env.contains(out, "https://www.baidu.com/s?wd=%s")
		env.contains(out, "sogou.com")
	})

	t.Run("alias", func(t *testing.T) {
		out := env.run("engines", "list")
		env.contains(out, "duckduckgo")
	})
}

func TestEngineAdd(t *testing.T) {
	env := newTestEnv(t)

	var added engineJSON
	env.runJSON(&added, "engine", "add",
		"--name", "Example",
		"--url", "https://example.com/search?q=%s",
		"--source")

	assert.True(t, strings.HasPrefix(added.ID, "custom_"), "id %q", added.ID)
	assert.Equal(t, "E", added.Badge)
	assert.Equal(t, "example.com", added.Domain)
	assert.Equal(t, "q", added.Param)
	assert.True(t, added.IsTarget)
	assert.True(t, added.IsSource)

	s := env.settings()
	require.Len(t, s.Engines, 10)
	assert.Equal(t, added.ID, s.Engines[9].ID, "new engines are appended")
}

func TestEngineAdd_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no placeholder", []string{"--name", "X", "--url", "https://x.test/"}, "placeholder"},
		{"blank name", []string{"--name", "  ", "--url", "https://x.test/?q=%s"}, "name is required"},
		{"no role", []string{"--name", "X", "--url", "https://x.test/?q=%s", "--target=false"}, "at least one role"},
		{"duplicate domain", []string{"--name", "G2", "--url", "https://google.com/?q=%s", "--source"}, "domain already has a rule"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := env.runErr(append([]string{"engine", "add"}, tc.args...)...)
			require.Error(t, err)
			env.contains(out, tc.want)
		})
	}

	assert.Len(t, env.settings().Engines, 9, "failed adds write nothing")
}

func TestEngineEdit(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("engine", "edit", "bing", "--badge", "B", "--name", "Microsoft Bing")
	env.contains(out, "Updated bing")

	b, ok := env.settings().find("bing")
	require.True(t, ok)
	assert.Equal(t, "B", b.Badge)
	assert.Equal(t, "Microsoft Bing", b.Name)
	assert.Equal(t, "https://www.bing.com/search?q=%s", b.URL, "unset flags keep their values")
	assert.True(t, b.IsSource)

	_, err := env.runErr("engine", "edit", "nope", "--badge", "N")
	assert.Error(t, err)
}

func TestEngineRm(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		env := newTestEnv(t)

		out := env.run("engine", "rm", "yahoo")
		env.contains(out, "Removed yahoo")

		s := env.settings()
		assert.Len(t, s.Engines, 8)
		_, ok := s.find("yahoo")
		assert.False(t, ok)
		assert.Equal(t, "google", s.SelectedTargetEngineID)
	})

	t.Run("selected moves to first target", func(t *testing.T) {
		env := newTestEnv(t)

		env.run("engine", "rm", "google")
		assert.Equal(t, "baidu", env.settings().SelectedTargetEngineID)
	})

	t.Run("unknown", func(t *testing.T) {
		env := newTestEnv(t)

		out, err := env.runErr("engine", "rm", "nope")
		require.Error(t, err)
		env.contains(out, "engine not found")
	})
}

func TestEngineRole(t *testing.T) {
	t.Run("promote source", func(t *testing.T) {
		env := newTestEnv(t)

		env.run("engine", "role", "bing_cn", "--target")
		e, _ := env.settings().find("bing_cn")
		assert.True(t, e.IsTarget)
		assert.True(t, e.IsSource)
	})

	t.Run("demoting the selected target moves the selection", func(t *testing.T) {
		env := newTestEnv(t)

		env.run("engine", "role", "google", "--target=false")
		s := env.settings()
		g, _ := s.find("google")
		assert.False(t, g.IsTarget)
		assert.Equal(t, "baidu", s.SelectedTargetEngineID)
	})

	t.Run("at least one role", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.runErr("engine", "role", "yahoo", "--source=false")
		assert.Error(t, err)
	})
}
