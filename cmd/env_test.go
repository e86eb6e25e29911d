// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full stack:
// command parsing -> extension -> settings service -> store layer -> SQLite.
//
// Each test builds the real binary once and runs it in a fresh directory with
// HOME and the audit log redirected, so no test sees another's settings.
// Browser-driven triggers (search, menu click, open without --dry-run) are
// covered in internal/relay against a fake backend; here they would need a
// running Chromium.

package cmd

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the searchrelay binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "searchrelay-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "searchrelay"
		if os.PathSeparator == '\\' {
			binaryName = "searchrelay.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	logDir string
	binary string
	extra  []string
}

// newBareEnv creates an isolated directory without running init.
func newBareEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		t:      t,
		dir:    t.TempDir(),
		home:   t.TempDir(),
		logDir: t.TempDir(),
		binary: buildBinary(t),
	}
}

// newTestEnv creates a temporary directory with an initialised store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newBareEnv(t)
	env.run("init")
	return env
}

// setenv adds a variable to every later invocation.
func (e *testEnv) setenv(key, value string) {
	e.extra = append(e.extra, key+"="+value)
}

func (e *testEnv) command(args ...string) *exec.Cmd {
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(),
		"HOME="+e.home,
		"USERPROFILE="+e.home,
		"SEARCHRELAY_LOG_DIR="+e.logDir,
		"SEARCHRELAY_DIR=",
		"SEARCHRELAY_DB=",
	)
	cmd.Env = append(cmd.Env, e.extra...)
	return cmd
}

// run executes searchrelay with the given args and returns stdout.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("searchrelay %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes searchrelay and returns stdout and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	out, err := e.command(args...).CombinedOutput()
	return string(out), err
}

// runStdin executes searchrelay with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()
	out, err := e.runStdinErr(input, args...)
	if err != nil {
		e.t.Fatalf("searchrelay %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runStdinErr executes searchrelay with stdin input and returns any error.
func (e *testEnv) runStdinErr(input string, args ...string) (string, error) {
	e.t.Helper()
	cmd := e.command(args...)
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runJSON executes searchrelay with -o json and decodes stdout into v.
func (e *testEnv) runJSON(v any, args ...string) {
	e.t.Helper()
	out := e.run(append(args, "-o", "json")...)
	require.NoError(e.t, json.Unmarshal([]byte(out), v), "output: %s", out)
}

// writeFile writes content to name inside the test directory.
func (e *testEnv) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// notContains checks that output does not contain s.
func (e *testEnv) notContains(output, s string) {
	e.t.Helper()
	assert.NotContains(e.t, output, s)
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}

// settingsJSON mirrors the stored settings as printed by -o json.
type settingsJSON struct {
	SelectedTargetEngineID string       `json:"selectedTargetEngineId"`
	ShowBadge              bool         `json:"showBadge"`
	Engines                []engineJSON `json:"engines"`
}

type engineJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Badge    string `json:"badge"`
	Domain   string `json:"domain"`
	Param    string `json:"param"`
	IsTarget bool   `json:"isTarget"`
	IsSource bool   `json:"isSource"`
}

// settings returns the current settings via "engine ls -o json".
func (e *testEnv) settings() settingsJSON {
	e.t.Helper()
	var s settingsJSON
	e.runJSON(&s, "engine", "ls")
	return s
}

func (s settingsJSON) find(id string) (engineJSON, bool) {
	for _, e := range s.Engines {
		if e.ID == id {
			return e, true
		}
	}
	return engineJSON{}, false
}
