package theme

import (
	"testing"

	"github.com/dharti-automation/dharti-web/internal/content/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolve_UsesSettingsColours(t *testing.T) {
	got := Resolve(&domain.Colours{Primary: "#111", Accent: "#222", Secondary: "#fff", Surface: "#eee"})

	assert.Equal(t, Theme{Primary: "#111", Secondary: "#fff", Accent: "#222", Surface: "#eee"}, got)
	assert.Equal(t, ":root{--primary:#111;--secondary:#fff;--accent:#222;--surface:#eee}", got.CSS())
}

func TestResolve_DefaultsWhenColoursOmitted(t *testing.T) {
	got := Resolve(nil)

	assert.Equal(t, "#000000", got.Primary)
	assert.Equal(t, "#ffffff", got.Secondary)
	assert.Equal(t, "#2563eb", got.Accent)
	assert.Equal(t, "#f3f4f6", got.Surface)
}

func TestResolve_PerSlotFallback(t *testing.T) {
	got := Resolve(&domain.Colours{Primary: "  ", Accent: "red;}body{display:none", Surface: "rgb(10, 20, 30)"})

	assert.Equal(t, DefaultPrimary, got.Primary)
	assert.Equal(t, DefaultSecondary, got.Secondary)
	assert.Equal(t, DefaultAccent, got.Accent, "unsafe values are treated as absent")
	assert.Equal(t, "rgb(10, 20, 30)", got.Surface)
}

func TestVarsOrder(t *testing.T) {
	vars := Default().Vars()
	names := make([]string, 0, len(vars))
	for _, v := range vars {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"--primary", "--secondary", "--accent", "--surface"}, names)
}

func TestValid(t *testing.T) {
	for _, ok := range []string{"#abc", "#aabbcc", "#aabbccdd", "navy", "hsl(200, 50%, 40%)"} {
		assert.True(t, Valid(ok), ok)
	}
	for _, bad := range []string{"", "#ab", "url(x)", "expression(alert(1))", "red;"} {
		assert.False(t, Valid(bad), bad)
	}
}
