package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/searchrelay/internal/validate"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	assert.Equal(t, "google", s.SelectedTargetEngineID)
	assert.False(t, s.ShowBadge)
	require.Len(t, s.Engines, 9)

	var targets []string
	for _, e := range s.Targets() {
		targets = append(targets, e.ID)
	}
	assert.Equal(t, []string{"google", "baidu", "bing", "duckduckgo"}, targets)
	assert.Len(t, s.Rules(), 9)
	require.NoError(t, Check(s))

	// Defaults must hand out a copy.
	s.Engines[0].Name = "changed"
	assert.Equal(t, "Google", Defaults().Engines[0].Name)
}

func TestResolveTarget(t *testing.T) {
	s := Defaults()

	e, err := ResolveTarget(s, "bing")
	require.NoError(t, err)
	assert.Equal(t, "bing", e.ID)

	e, err = ResolveTarget(s, "")
	require.NoError(t, err)
	assert.Equal(t, "google", e.ID)

	s.SelectedTargetEngineID = "baidu"
	e, err = ResolveTarget(s, "")
	require.NoError(t, err)
	assert.Equal(t, "baidu", e.ID)

	s.SelectedTargetEngineID = ""
	e, err = ResolveTarget(s, "")
	require.NoError(t, err)
	assert.Equal(t, FallbackID, e.ID)

	_, err = ResolveTarget(s, "nope")
	assert.ErrorIs(t, err, ErrEngineNotFound)
}

func TestResolveTarget_FallbackMissing(t *testing.T) {
	s := Settings{Engines: []Engine{{ID: "x", IsTarget: true}}}
	_, err := ResolveTarget(s, "")
	assert.ErrorIs(t, err, ErrEngineNotFound)
}

func TestAddEngine(t *testing.T) {
	s, e, err := AddEngine(Defaults(), Input{
		Name:     "Example",
		URL:      "https://www.example.com/find?lang=en&term=%s",
		IsTarget: true,
	})
	require.NoError(t, err)
	assert.True(t, e.Custom())
	assert.True(t, strings.HasPrefix(e.ID, CustomPrefix))
	assert.Equal(t, "E", e.Badge)
	assert.Equal(t, "example.com", e.Domain)
	assert.Equal(t, "term", e.Param)
	assert.Len(t, s.Engines, 10)
	assert.Equal(t, e, s.Engines[9])
}

func TestAddEngine_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"empty name", Input{Name: " ", URL: "https://x.test/?q=%s", IsTarget: true}, validate.ErrEmptyName},
		{"empty url", Input{Name: "X", IsTarget: true}, validate.ErrEmptyURL},
		{"no placeholder", Input{Name: "X", URL: "https://x.test/?q=", IsTarget: true}, validate.ErrMissingPlaceholder},
		{"no role", Input{Name: "X", URL: "https://x.test/?q=%s"}, validate.ErrNoRole},
		{"duplicate domain", Input{Name: "G2", URL: "https://www.google.com/search?q=%s", IsSource: true}, validate.ErrDuplicateDomain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			out, _, err := AddEngine(s, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, validate.IsValidation(err))
			assert.Len(t, out.Engines, len(s.Engines))
		})
	}
}

func TestAddEngine_DuplicateDomainTargetOnly(t *testing.T) {
	// A target-only engine contributes no rule, so it may share a domain.
	_, _, err := AddEngine(Defaults(), Input{Name: "G2", URL: "https://www.google.com/search?q=%s", IsTarget: true})
	require.NoError(t, err)
}

func TestAddEngine_SanitisesMarkup(t *testing.T) {
	_, e, err := AddEngine(Defaults(), Input{
		Name:     "<b>Bold</b> & Co",
		Badge:    "<script>x</script>B",
		URL:      "https://bold.test/?q=%s",
		IsTarget: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bold & Co", e.Name)
	assert.Equal(t, "B", e.Badge)
}

func TestUpdateEngine(t *testing.T) {
	s, e, err := UpdateEngine(Defaults(), "bing", Input{
		Name:     "Bing Intl",
		URL:      "https://www.bing.com/search?q=%s&cc=us",
		Badge:    "B",
		IsTarget: true,
		IsSource: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "bing", e.ID)
	assert.Equal(t, "Bing Intl", s.Engines[2].Name)
	assert.Equal(t, "bing.com", s.Engines[2].Domain)

	_, _, err = UpdateEngine(Defaults(), "missing", Input{})
	assert.ErrorIs(t, err, ErrEngineNotFound)
}

func TestUpdateEngine_UnsetSelectedTarget(t *testing.T) {
	s := Defaults()
	in := FromEngine(s.Engines[0])
	in.IsTarget = false

	out, _, err := UpdateEngine(s, "google", in)
	require.NoError(t, err)
	assert.Equal(t, "baidu", out.SelectedTargetEngineID)
}

func TestDeleteEngine(t *testing.T) {
	s := Defaults()
	out, removed, err := DeleteEngine(s, "google")
	require.NoError(t, err)
	assert.Equal(t, "google", removed.ID)
	assert.Equal(t, "baidu", out.SelectedTargetEngineID)
	assert.Len(t, out.Engines, 8)
	// Input settings untouched.
	assert.Len(t, s.Engines, 9)

	_, _, err = DeleteEngine(s, "nope")
	assert.ErrorIs(t, err, ErrEngineNotFound)
}

func TestDeleteEngine_LastTarget(t *testing.T) {
	s := Settings{
		SelectedTargetEngineID: "a",
		Engines: []Engine{
			{ID: "a", Name: "A", URL: "https://a.test/?q=%s", IsTarget: true},
			{ID: "b", Name: "B", URL: "https://b.test/?q=%s", IsSource: true},
		},
	}
	out, _, err := DeleteEngine(s, "a")
	require.NoError(t, err)
	assert.Equal(t, "", out.SelectedTargetEngineID)
}

func TestSetRoles(t *testing.T) {
	out, err := SetRoles(Defaults(), "yandex", true, true)
	require.NoError(t, err)
	e, _ := out.Find("yandex")
	assert.True(t, e.IsTarget)

	_, err = SetRoles(Defaults(), "yandex", false, false)
	assert.ErrorIs(t, err, validate.ErrNoRole)
}

func TestSelectTarget(t *testing.T) {
	out, err := SelectTarget(Defaults(), "duckduckgo")
	require.NoError(t, err)
	assert.Equal(t, "duckduckgo", out.SelectedTargetEngineID)

	_, err = SelectTarget(Defaults(), "sogou")
	assert.ErrorIs(t, err, ErrNotTarget)

	_, err = SelectTarget(Defaults(), "missing")
	assert.True(t, errors.Is(err, ErrEngineNotFound))
}

func TestSetShowBadge(t *testing.T) {
	s := Defaults()
	out := SetShowBadge(s, true)
	assert.True(t, out.ShowBadge)
	assert.False(t, s.ShowBadge)
}

func TestCheck(t *testing.T) {
	s := Defaults()
	s.Engines = append(s.Engines, s.Engines[0])
	assert.Error(t, Check(s))

	s = Defaults()
	s.Engines[0].URL = "https://www.google.com/"
	assert.ErrorIs(t, Check(s), validate.ErrMissingPlaceholder)
}

func TestAddEngine_DerivedIDNDomainIsUnique(t *testing.T) {
	in := Input{Name: "Bücher", URL: "https://bücher.de/?q=%s", IsSource: true}

	s, first, err := AddEngine(Defaults(), in)
	require.NoError(t, err)
	assert.Equal(t, "xn--bcher-kva.de", first.Domain)

	_, _, err = AddEngine(s, in)
	assert.ErrorIs(t, err, validate.ErrDuplicateDomain)

	in.URL = "https://xn--bcher-kva.de/?q=%s"
	_, _, err = AddEngine(s, in)
	assert.ErrorIs(t, err, validate.ErrDuplicateDomain)
}

func TestClean(t *testing.T) {
	s := Defaults()
	s.Engines[0].Name = "<b>Google</b>"
	s.Engines[0].Badge = "<img src=x>G"
	s.Engines[1].Domain = "BAIDU.com."

	out, err := Clean(s)
	require.NoError(t, err)
	assert.Equal(t, "Google", out.Engines[0].Name)
	assert.Equal(t, "G", out.Engines[0].Badge)
	assert.Equal(t, "baidu.com", out.Engines[1].Domain)
	assert.Equal(t, "<b>Google</b>", s.Engines[0].Name, "input is not modified")

	assert.Equal(t, Defaults(), must(Clean(Defaults())), "defaults are already clean")
}

func must(s Settings, err error) Settings {
	if err != nil {
		panic(err)
	}
	return s
}

func TestBadgeText(t *testing.T) {
	assert.Equal(t, "G", Engine{Name: "Google", Badge: "G"}.BadgeText())
	assert.Equal(t, "百", Engine{Name: "百度"}.BadgeText())
	assert.Equal(t, "", Engine{}.BadgeText())
}
