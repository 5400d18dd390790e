// Package theme turns the settings colours into CSS custom properties.
package theme

import (
	"regexp"
	"strings"

	"github.com/dharti-automation/dharti-web/internal/content/domain"
)

const (
	DefaultPrimary   = "#000000"
	DefaultSecondary = "#ffffff"
	DefaultAccent    = "#2563eb"
	DefaultSurface   = "#f3f4f6"
)

// Theme holds the four resolved slots.
type Theme struct {
	Primary   string
	Secondary string
	Accent    string
	Surface   string
}

// Var is one CSS custom property.
type Var struct {
	Name  string
	Value string
}

var safeColour = regexp.MustCompile(`^(#[0-9a-fA-F]{3,4}|#[0-9a-fA-F]{6}|#[0-9a-fA-F]{8}|[a-zA-Z]{3,30}|(rgb|rgba|hsl|hsla)\([0-9.,%/ \t]+\))$`)

// Default returns the theme used when settings carry no colours.
func Default() Theme {
	return Theme{
		Primary:   DefaultPrimary,
		Secondary: DefaultSecondary,
		Accent:    DefaultAccent,
		Surface:   DefaultSurface,
	}
}

// Resolve fills each slot from c, falling back per slot to the default when
// the value is blank or not a plain colour token.
func Resolve(c *domain.Colours) Theme {
	t := Default()
	if c == nil {
		return t
	}
	t.Primary = pick(c.Primary, t.Primary)
	t.Secondary = pick(c.Secondary, t.Secondary)
	t.Accent = pick(c.Accent, t.Accent)
	t.Surface = pick(c.Surface, t.Surface)
	return t
}

// Valid reports whether v can be emitted into a style sheet as a colour.
func Valid(v string) bool {
	return safeColour.MatchString(strings.TrimSpace(v))
}

func pick(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" || !Valid(v) {
		return def
	}
	return v
}

// Vars lists the custom properties in slot order.
func (t Theme) Vars() []Var {
	return []Var{
		{Name: "--primary", Value: t.Primary},
		{Name: "--secondary", Value: t.Secondary},
		{Name: "--accent", Value: t.Accent},
		{Name: "--surface", Value: t.Surface},
	}
}

// CSS renders the properties bound at the document root.
func (t Theme) CSS() string {
	var b strings.Builder
	b.WriteString(":root{")
	for i, v := range t.Vars() {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(v.Name)
		b.WriteByte(':')
		b.WriteString(v.Value)
	}
	b.WriteString("}")
	return b.String()
}
