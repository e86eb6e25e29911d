package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTarget(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("target")
	env.contains(out, "google (Google)")

	out = env.run("target", "duckduckgo")
	env.contains(out, "Default target: duckduckgo")
	assert.Equal(t, "duckduckgo", env.settings().SelectedTargetEngineID)

	var got map[string]string
	env.runJSON(&got, "target")
	assert.Equal(t, "duckduckgo", got["selectedTargetEngineId"])
}

func TestTarget_Errors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("source-only engine", func(t *testing.T) {
		out, err := env.runErr("target", "sogou")
		require.Error(t, err)
		env.contains(out, "not a target engine")
	})

	t.Run("unknown engine", func(t *testing.T) {
		out, err := env.runErr("target", "nope")
		require.Error(t, err)
		env.contains(out, "engine not found")
	})

	assert.Equal(t, "google", env.settings().SelectedTargetEngineID)
}

func TestBadge(t *testing.T) {
	env := newTestEnv(t)

	env.contains(env.run("badge"), "badge: hidden")

	env.contains(env.run("badge", "on"), "badge: G (google)")
	assert.True(t, env.settings().ShowBadge)

	env.run("target", "baidu")
	env.contains(env.run("badge"), "badge: 百度 (baidu)")

	env.contains(env.run("badge", "off"), "badge: hidden")
	assert.False(t, env.settings().ShowBadge)

	_, err := env.runErr("badge", "maybe")
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	t.Run("dry run changes nothing", func(t *testing.T) {
		env := newTestEnv(t)
		env.run("engine", "rm", "yahoo")

		out := env.run("reset", "--dry-run")
		env.contains(out, "+ ")
		env.contains(out, "Yahoo")
		assert.Len(t, env.settings().Engines, 8)
	})

	t.Run("dry run at defaults", func(t *testing.T) {
		env := newTestEnv(t)

		env.contains(env.run("reset", "-n"), "already match the defaults")
	})

	t.Run("requires confirmation without a terminal", func(t *testing.T) {
		env := newTestEnv(t)
		env.run("engine", "rm", "yahoo")

		out, err := env.runErr("reset")
		require.Error(t, err)
		env.contains(out, "--force")
		assert.Len(t, env.settings().Engines, 8)
	})

	t.Run("force", func(t *testing.T) {
		env := newTestEnv(t)
		env.run("engine", "add", "--name", "Example", "--url", "https://example.com/?q=%s")
		env.run("target", "bing")
		env.run("badge", "on")

		out := env.run("reset", "--force")
		env.contains(out, "Restored 9 default engines")

		s := env.settings()
		assert.Len(t, s.Engines, 9)
		assert.Equal(t, "google", s.SelectedTargetEngineID)
		assert.False(t, s.ShowBadge)
	})
}

func TestExportImport(t *testing.T) {
	src := newTestEnv(t)
	src.run("engine", "add", "--name", "Example", "--url", "https://example.com/?q=%s")
	src.run("target", "duckduckgo")
	src.run("engine", "rm", "yahoo")

	t.Run("stdout", func(t *testing.T) {
		out := src.run("export")
		src.contains(out, "version: 1")
		src.contains(out, "selected_target_engine_id: duckduckgo")
		src.contains(out, "https://example.com/?q=%s")
	})

	path := filepath.Join(src.dir, "engines.yaml")
	src.contains(src.run("export", path), "Exported 9 engines")
	assert.FileExists(t, path)

	dst := newTestEnv(t)
	dst.contains(dst.run("import", path), "Imported 9 engines")

	got := dst.settings()
	want := src.settings()
	assert.Equal(t, want, got)
}

func TestImport_DryRun(t *testing.T) {
	env := newTestEnv(t)
	file := env.writeFile("next.yaml", `version: 1
selected_target_engine_id: bing
show_badge: true
engines:
  - id: bing
    name: Bing
    url: https://www.bing.com/search?q=%s
    badge: B
    domain: bing.com
    param: q
    is_target: true
    is_source: true
`)

	out := env.run("import", "--dry-run", file)
	env.contains(out, "- selected_target_engine_id: google")
	env.contains(out, "+ selected_target_engine_id: bing")

	assert.Len(t, env.settings().Engines, 9, "dry run writes nothing")
}

func TestImport_LegacyJSON(t *testing.T) {
	env := newTestEnv(t)
	blob := `{
  "targetEngine": "bing",
  "targetEngines": [
    {"id": "google", "name": "Google", "url": "https://www.google.com/search?q=%s", "badge": "G"},
    {"id": "bing", "name": "Bing", "url": "https://www.bing.com/search?q=%s", "badge": "B"}
  ],
  "sourceRules": [
    {"domain": "google.com", "param": "q"},
    {"domain": "sogou.com", "param": "query"}
  ]
}`

	env.runStdin(blob, "import", "-")

	s := env.settings()
	assert.Equal(t, "bing", s.SelectedTargetEngineID)
	require.Len(t, s.Engines, 3)
	g, _ := s.find("google")
	assert.True(t, g.IsSource)
	src, ok := s.find("source_sogou_com")
	require.True(t, ok)
	assert.False(t, src.IsTarget)
}

func TestImport_Rejects(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"malformed", "engines: [", "malformed"},
		{"empty", `{"engines": []}`, "no engines"},
		{"invalid engine", "version: 1\nengines:\n  - id: x\n    name: X\n    url: https://x.test/\n    is_target: true\n", "placeholder"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := env.runStdinErr(tc.content, "import", "-")
			require.Error(t, err)
			env.contains(out, tc.want)
		})
	}

	assert.Len(t, env.settings().Engines, 9)
}
