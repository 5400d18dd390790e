package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://api.example.com"

func TestRewriteImageSources(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "absolute https unchanged",
			in:   `<p><img src="https://x/a.png"></p>`,
			want: `<p><img src="https://x/a.png"></p>`,
		},
		{
			name: "data uri unchanged",
			in:   `<img src="data:image/png;base64,AAA" alt="x">`,
			want: `<img src="data:image/png;base64,AAA" alt="x">`,
		},
		{
			name: "relative path prefixed",
			in:   `<img src="/uploads/a.png">`,
			want: `<img src="https://api.example.com/uploads/a.png">`,
		},
		{
			name: "uppercase scheme treated as absolute",
			in:   `<IMG SRC='HTTP://cdn/x.png'/>`,
			want: `<IMG SRC='HTTP://cdn/x.png'/>`,
		},
		{
			name: "unquoted and self closing",
			in:   `<img class=hero src=/u/b.png />`,
			want: `<img class=hero src=https://api.example.com/u/b.png />`,
		},
		{
			name: "other markup preserved byte for byte",
			in:   "<h2 class=\"t\">Title</h2>\n<!-- note --><p>a &amp; b<br></p><img  data-src=\"/lazy.png\"  src=\"/u/c.png\">",
			want: "<h2 class=\"t\">Title</h2>\n<!-- note --><p>a &amp; b<br></p><img  data-src=\"/lazy.png\"  src=\"https://api.example.com/u/c.png\">",
		},
		{
			name: "src text inside another attribute is not the source",
			in:   `<img alt="x src=y" src="/a.png">`,
			want: `<img alt="x src=y" src="https://api.example.com/a.png">`,
		},
		{
			name: "single-quoted title containing src before real src",
			in:   `<img title='see src=/b.png' src=/a.png>`,
			want: `<img title='see src=/b.png' src=https://api.example.com/a.png>`,
		},
		{
			name: "img without src untouched",
			in:   `<img alt="none">`,
			want: `<img alt="none">`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RewriteImageSources(tc.in, base))
		})
	}
}

func TestIsAbsolute(t *testing.T) {
	assert.True(t, IsAbsolute("https://x/a.png"))
	assert.True(t, IsAbsolute("data:image/png;base64,AAA"))
	assert.False(t, IsAbsolute("/uploads/a.png"))
	assert.False(t, IsAbsolute("httpfoo.png"), "a bare http prefix is not a scheme")
}

func TestRenderer_Trusted(t *testing.T) {
	r := NewRenderer(Trusted, base)
	out := string(r.Render(`<p onclick="x()">hi</p><img src="/a.png">`))
	assert.Contains(t, out, `onclick="x()"`, "trusted content is injected verbatim")
	assert.Contains(t, out, base+"/a.png")

	assert.Equal(t, EmptyFallback, string(r.Render("  ")))
}

func TestRenderer_Sanitize(t *testing.T) {
	r := NewRenderer(Sanitize, base)
	out := string(r.Render(`<p onclick="x()">hi</p><script>alert(1)</script><img src="/a.png">`))
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, base+"/a.png")
	assert.True(t, strings.HasPrefix(out, "<p>hi</p>"))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("SANITIZE")
	require.NoError(t, err)
	assert.Equal(t, Sanitize, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Trusted, p)

	_, err = ParsePolicy("escape")
	assert.Error(t, err)
}
