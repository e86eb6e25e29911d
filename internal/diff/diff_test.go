package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/searchrelay/internal/engine"
)

func TestCompute(t *testing.T) {
	r := Compute("a\nb\nc\n", "a\nB\nc\n", "old", "new")
	assert.True(t, r.Changed())
	assert.Contains(t, r.Diff, "- b\n")
	assert.Contains(t, r.Diff, "+ B\n")
	assert.Contains(t, r.Diff, "  a\n")
}

func TestCompute_Identical(t *testing.T) {
	r := Compute("same\n", "same\n", "old", "new")
	assert.False(t, r.Changed())
}

func TestCompute_CollapsesContext(t *testing.T) {
	var lines []string
	for range 10 {
		lines = append(lines, "same")
	}
	old := strings.Join(lines, "\n") + "\nx\n"
	r := Compute(old, strings.Join(lines, "\n")+"\ny\n", "old", "new")
	assert.Contains(t, r.Diff, "  ...\n")
}

func TestSettings(t *testing.T) {
	cur := engine.Defaults()
	next, _, err := engine.DeleteEngine(cur, "yahoo")
	require.NoError(t, err)

	r, err := Settings(cur, next, "current", "proposed")
	require.NoError(t, err)
	assert.True(t, r.Changed())
	assert.Contains(t, r.Diff, "- ")
	assert.Contains(t, r.Diff, "search.yahoo.com")
	assert.NotContains(t, r.Diff, "+ ")

	out := r.Format(false)
	assert.True(t, strings.HasPrefix(out, "--- current\n+++ proposed\n"))
}

func TestColourise(t *testing.T) {
	out := Colourise("- gone\n+ added\n  kept\n")
	assert.Contains(t, out, "\033[31m- gone\033[0m")
	assert.Contains(t, out, "\033[32m+ added\033[0m")
	assert.Contains(t, out, "  kept\n")
}
