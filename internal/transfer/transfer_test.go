package transfer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/extract"
	"github.com/jpl-au/searchrelay/internal/validate"
)

func TestExportImport(t *testing.T) {
	s := engine.Defaults()
	s.ShowBadge = true
	s.SelectedTargetEngineID = "duckduckgo"

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, s))
	out := buf.String()
	assert.Contains(t, out, "version: 1\n")
	assert.Contains(t, out, "selected_target_engine_id: duckduckgo\n")
	assert.Contains(t, out, "is_target: true")

	got, err := Import(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestImport_JSONBlob(t *testing.T) {
	in := `{
	  "selectedTargetEngineId": "x",
	  "showBadge": false,
	  "engines": [
	    {"id": "x", "name": "X", "url": "https://x.test/?q=%s", "badge": "X", "isTarget": true, "isSource": false}
	  ]
	}`
	got, err := Import(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "x", got.SelectedTargetEngineID)
	require.Len(t, got.Engines, 1)
	assert.True(t, got.Engines[0].IsTarget)
}

func TestImport_LegacyBlob(t *testing.T) {
	in := `{
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
	got, err := Import(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "bing", got.SelectedTargetEngineID)
	require.Len(t, got.Engines, 3)

	g, _ := got.Find("google")
	assert.True(t, g.IsTarget)
	assert.True(t, g.IsSource, "rule folded into the matching target")

	b, _ := got.Find("bing")
	assert.False(t, b.IsSource)

	src, i := got.Find("source_sogou_com")
	require.GreaterOrEqual(t, i, 0)
	assert.False(t, src.IsTarget)
	assert.Equal(t, "query", src.Param)
}

func TestImport_LegacyKeepsRuleOrder(t *testing.T) {
	in := `{
	  "targetEngine": "bing",
	  "targetEngines": [
	    {"id": "bing", "name": "Bing", "url": "https://www.bing.com/search?q=%s", "badge": "B"},
	    {"id": "google", "name": "Google", "url": "https://www.google.com/search?q=%s", "badge": "G"}
	  ],
	  "sourceRules": [
	    {"domain": "cn.bing.com", "param": "x"},
	    {"domain": "bing.com", "param": "q"}
	  ]
	}`
	got, err := Import(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got.Engines, 3)
	assert.Equal(t, "source_cn_bing_com", got.Engines[0].ID)
	assert.Equal(t, "bing", got.Engines[1].ID)
	assert.True(t, got.Engines[1].IsSource)
	assert.Equal(t, "google", got.Engines[2].ID, "unmatched targets follow the rules")

	kw, ok := extract.Keyword("https://cn.bing.com/search?q=a&x=b", got.Rules())
	require.True(t, ok)
	assert.Equal(t, "b", kw)

	kw, ok = extract.Keyword("https://www.bing.com/search?q=a&x=b", got.Rules())
	require.True(t, ok)
	assert.Equal(t, "a", kw)
}

func TestImport_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		err  error
	}{
		{"not yaml", "engines: [", ErrMalformed},
		{"bad json", "{\"engines\": 3}", ErrMalformed},
		{"empty json list", "{\"engines\": []}", ErrEmpty},
		{"json without engines", "{\"showBadge\": true}", ErrEmpty},
		{"newer version", "version: 9\nengines:\n  - id: a\n", ErrUnsupportedVersion},
		{"no engines", "version: 1\nengines: []\n", ErrEmpty},
		{"missing placeholder", "version: 1\nengines:\n  - id: a\n    name: A\n    url: https://a.test/\n    is_target: true\n", validate.ErrMissingPlaceholder},
		{"no role", "version: 1\nengines:\n  - id: a\n    name: A\n    url: https://a.test/?q=%s\n", validate.ErrNoRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(strings.NewReader(tt.in))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestImport_NormalisesSelection(t *testing.T) {
	in := "version: 1\nselected_target_engine_id: gone\nengines:\n  - id: a\n    name: A\n    url: https://a.test/?q=%s\n    is_target: true\n"
	got, err := Import(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "a", got.SelectedTargetEngineID)
}

func TestImport_StripsMarkup(t *testing.T) {
	in := "version: 1\nengines:\n  - id: g\n    name: <b>Google</b>\n    url: https://www.google.com/search?q=%s\n    badge: <img src=x>G\n    domain: Google.COM\n    is_target: true\n    is_source: true\n"
	got, err := Import(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got.Engines, 1)
	assert.Equal(t, "Google", got.Engines[0].Name)
	assert.Equal(t, "G", got.Engines[0].Badge)
	assert.Equal(t, "google.com", got.Engines[0].Domain)
}
