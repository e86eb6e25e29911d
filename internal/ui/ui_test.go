package ui_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/searchrelay/internal/browser"
	"github.com/jpl-au/searchrelay/internal/browser/browsertest"
	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/present"
	"github.com/jpl-au/searchrelay/internal/relay"
	"github.com/jpl-au/searchrelay/internal/settings"
	"github.com/jpl-au/searchrelay/internal/ui"
)

type env struct {
	ts   *httptest.Server
	svc  *settings.Service
	fake *browsertest.Fake
}

func setup(t *testing.T) *env {
	t.Helper()
	svc, err := settings.Open(filepath.Join(t.TempDir(), "searchrelay.db"))
	require.NoError(t, err)

	fake := browsertest.New("https://www.baidu.com/s?wd=golang")
	backend := func(context.Context) (browser.Backend, error) { return fake, nil }
	router := relay.New(svc, backend, nil, relay.Options{Author: "ui"})
	_, err = router.Installed(context.Background())
	require.NoError(t, err)

	srv := ui.New(svc, router, nil, "ui")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
		svc.Close()
	})
	return &env{ts: ts, svc: svc, fake: fake}
}

func (e *env) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.ts.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestIndex(t *testing.T) {
	e := setup(t)
	resp, body := e.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "DuckDuckGo")
	assert.Contains(t, string(body), `data-id="google"`)
}

func TestEngineCRUD(t *testing.T) {
	e := setup(t)

	resp, body := e.do(t, http.MethodPost, "/api/engines/",
		`{"name":"Example","url":"https://example.com/?q=%s","isTarget":true}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var added engine.Engine
	require.NoError(t, json.Unmarshal(body, &added))
	assert.True(t, added.Custom())

	resp, body = e.do(t, http.MethodPut, "/api/engines/"+added.ID,
		`{"name":"Renamed","url":"https://example.com/?q=%s","isTarget":true,"isSource":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, _ = e.do(t, http.MethodDelete, "/api/engines/"+added.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = e.do(t, http.MethodDelete, "/api/engines/"+added.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidationReturns422(t *testing.T) {
	e := setup(t)

	resp, body := e.do(t, http.MethodPost, "/api/engines/",
		`{"name":"Bad","url":"https://example.com/","isTarget":true}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "placeholder")

	resp, body = e.do(t, http.MethodPost, "/api/engines/",
		`{"name":"Dup","url":"https://www.google.com/x?q=%s","isSource":true}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "google.com")

	resp, _ = e.do(t, http.MethodPut, "/api/target", `{"id":"sogou"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/api/engines/", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	s, err := e.svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, engine.Defaults(), s)
}

func TestBadgeAndMenuFollowChanges(t *testing.T) {
	e := setup(t)

	resp, body := e.do(t, http.MethodPut, "/api/badge", `{"show":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var b present.Badge
	require.NoError(t, json.Unmarshal(body, &b))
	assert.True(t, b.Visible)
	assert.Equal(t, "G", b.Text)

	resp, _ = e.do(t, http.MethodPut, "/api/target", `{"id":"bing"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = e.do(t, http.MethodGet, "/api/badge", "")
	require.NoError(t, json.Unmarshal(body, &b))
	assert.Equal(t, "Bing", b.Text)

	e.do(t, http.MethodDelete, "/api/engines/yahoo", "")
	_, body = e.do(t, http.MethodGet, "/api/menu", "")
	var m present.Menu
	require.NoError(t, json.Unmarshal(body, &m))
	assert.Len(t, m, len(engine.Defaults().Engines))
}

func TestReset(t *testing.T) {
	e := setup(t)
	e.do(t, http.MethodDelete, "/api/engines/google", "")

	resp, _ := e.do(t, http.MethodPost, "/api/reset", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/api/reset?confirm=true", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	s, err := e.svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, engine.Defaults(), s)
}

func TestTriggers(t *testing.T) {
	e := setup(t)

	resp, body := e.do(t, http.MethodPost, "/api/trigger/icon", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out relay.Outcome
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Opened)
	assert.Equal(t, "https://www.google.com/search?q=golang", out.URL)

	resp, body = e.do(t, http.MethodPost, "/api/trigger/menu", `{"itemId":"engine_bing","selectionText":"hello world"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "https://www.bing.com/search?q=hello%20world", out.URL)
	assert.Len(t, e.fake.Opened, 2)
}

func TestExportImport(t *testing.T) {
	e := setup(t)

	resp, body := e.do(t, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "version: 1")

	resp, _ = e.do(t, http.MethodPost, "/api/import", "engines: [")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/api/import",
		"version: 1\nengines:\n  - id: only\n    name: Only\n    url: https://only.test/?q=%s\n    is_target: true\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s, err := e.svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "only", s.SelectedTargetEngineID)
}
