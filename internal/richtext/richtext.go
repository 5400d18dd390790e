// Package richtext prepares CMS-authored HTML for rendering: image sources
// are resolved against the API base and the configured trust policy applies.
package richtext

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// EmptyFallback is rendered when a record has no long description.
const EmptyFallback = `<p>No description provided.</p>`

// Policy decides whether CMS HTML is injected as-is or sanitized first.
type Policy int

const (
	// Trusted injects rewritten HTML verbatim. CMS authors are staff, not visitors.
	Trusted Policy = iota
	// Sanitize runs rewritten HTML through a user-generated-content allow list.
	Sanitize
)

func (p Policy) String() string {
	if p == Sanitize {
		return "sanitize"
	}
	return "trusted"
}

// ParsePolicy maps the CMS_HTML_POLICY value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "trusted":
		return Trusted, nil
	case "sanitize":
		return Sanitize, nil
	}
	return Trusted, fmt.Errorf("unknown html policy %q", s)
}

// IsAbsolute reports whether src needs no rewriting: an http or https URL,
// or a data URI. The check is case-insensitive.
func IsAbsolute(src string) bool {
	s := strings.ToLower(strings.TrimSpace(src))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "data:")
}

// RewriteImageSources prefixes base onto every relative <img src>. All other
// bytes of the document are copied through unchanged.
func RewriteImageSources(doc, base string) string {
	base = strings.TrimRight(base, "/")
	z := html.NewTokenizer(strings.NewReader(doc))
	var out bytes.Buffer
	out.Grow(len(doc))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				out.Write(z.Raw())
			}
			return out.String()
		}
		raw := z.Raw()
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.Write(raw)
			continue
		}
		name, hasAttr := z.TagName()
		if string(name) != "img" || !hasAttr {
			out.Write(raw)
			continue
		}
		out.Write(rewriteImgTag(z, raw, base))
	}
}

func rewriteImgTag(z *html.Tokenizer, raw []byte, base string) []byte {
	var src string
	found := false
	for {
		key, val, more := z.TagAttr()
		if string(key) == "src" {
			src, found = string(val), true
			break
		}
		if !more {
			break
		}
	}
	if !found || IsAbsolute(src) || strings.TrimSpace(src) == "" {
		return raw
	}

	valStart, valEnd, ok := attrValueSpan(raw, "src")
	if !ok {
		return raw
	}
	value := raw[valStart:valEnd]

	quote := ""
	inner := value
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') {
		quote = string(value[0])
		inner = value[1 : len(value)-1]
	}
	path := strings.TrimSpace(string(inner))
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var b bytes.Buffer
	b.Write(raw[:valStart])
	b.WriteString(quote + base + path + quote)
	b.Write(raw[valEnd:])
	return b.Bytes()
}

// attrValueSpan locates the value of the first attribute called name in a raw
// start tag, quotes included. Quoted values of other attributes are skipped
// whole, so text inside them never matches.
func attrValueSpan(raw []byte, name string) (int, int, bool) {
	i := 1 // past '<'
	for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '>' && raw[i] != '/' {
		i++
	}
	for i < len(raw) {
		for i < len(raw) && (isTagSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			return 0, 0, false
		}

		keyStart := i
		for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '=' && raw[i] != '>' && raw[i] != '/' {
			i++
		}
		key := raw[keyStart:i]

		j := i
		for j < len(raw) && isTagSpace(raw[j]) {
			j++
		}
		if j >= len(raw) || raw[j] != '=' {
			continue
		}
		j++
		for j < len(raw) && isTagSpace(raw[j]) {
			j++
		}

		valStart := j
		if j < len(raw) && (raw[j] == '"' || raw[j] == '\'') {
			q := raw[j]
			j++
			for j < len(raw) && raw[j] != q {
				j++
			}
			if j >= len(raw) {
				return 0, 0, false
			}
			j++
		} else {
			for j < len(raw) && !isTagSpace(raw[j]) && raw[j] != '>' {
				j++
			}
		}
		if strings.EqualFold(string(key), name) {
			return valStart, j, true
		}
		i = j
	}
	return 0, 0, false
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// Renderer turns stored rich text into template-safe HTML.
type Renderer struct {
	policy    Policy
	base      string
	sanitizer *bluemonday.Policy
}

func NewRenderer(policy Policy, base string) *Renderer {
	r := &Renderer{policy: policy, base: base}
	if policy == Sanitize {
		p := bluemonday.UGCPolicy()
		p.AllowDataURIImages()
		r.sanitizer = p
	}
	return r
}

func (r *Renderer) Policy() Policy { return r.policy }

// Render rewrites image sources, applies the policy and falls back to
// EmptyFallback for blank input.
func (r *Renderer) Render(doc string) template.HTML {
	if strings.TrimSpace(doc) == "" {
		return template.HTML(EmptyFallback)
	}
	rewritten := RewriteImageSources(doc, r.base)
	if r.sanitizer != nil {
		rewritten = r.sanitizer.Sanitize(rewritten)
	}
	return template.HTML(rewritten)
}
