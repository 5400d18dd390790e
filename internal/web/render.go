package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/dharti-automation/dharti-web/internal/carousel"
	"github.com/dharti-automation/dharti-web/internal/content/domain"
	"github.com/dharti-automation/dharti-web/internal/fetch"
	"github.com/dharti-automation/dharti-web/internal/logging"
	"github.com/dharti-automation/dharti-web/internal/theme"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/spf13/cast"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Page is the data every template receives.
type Page struct {
	Title     string
	Nav       string
	Settings  domain.Settings
	Theme     theme.Theme
	RequestID string
	Data      any
}

// ThemeCSS is the :root block for the layout's <style> element. Slot values
// are validated colour tokens, so the result is safe in a CSS context.
func (p Page) ThemeCSS() template.CSS {
	return template.CSS(p.Theme.CSS())
}

// Section is one independently loaded block of a page.
type Section[T any] struct {
	fetch.State[T]
	Carousel carousel.View
}

func listSection[T any](st fetch.State[[]T], presets carousel.Presets, preset string) Section[[]T] {
	return Section[[]T]{State: st, Carousel: presets.For(preset, len(st.Data))}
}

func (h *Handler) parseTemplates() (*template.Template, error) {
	tpl, err := template.New("").Funcs(h.funcs()).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tpl, nil
}

func (h *Handler) funcs() template.FuncMap {
	return template.FuncMap{
		"asset":    h.assets.Resolve,
		"assets":   h.assets.ResolveAll,
		"richtext": h.richtext.Render,
		"carousel": h.presets.For,
		"money":    formatMoney,
		"date":     formatDate,
		"ago":      formatAgo,
		"seq":      seq,
		"dict":     dict,
		"year":     func() int { return time.Now().Year() },
		"lower":    strings.ToLower,
	}
}

func formatMoney(val any) string {
	if n, ok := val.(domain.Number); ok {
		val = float64(n)
	}
	return "₹" + humanize.Commaf(cast.ToFloat64(val))
}

func formatDate(t domain.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2")
}

func formatAgo(t domain.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t.Time)
}

func seq(n int) []int {
	if n < 0 {
		n = 0
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict expects key/value pairs")
	}
	out := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", values[i])
		}
		out[key] = values[i+1]
	}
	return out, nil
}

func staticFS() http.FileSystem {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// page builds the template data for a request on a loaded site.
func (h *Handler) page(c *gin.Context, title, nav string, data any) Page {
	p := Page{
		Title:     title,
		Nav:       nav,
		Theme:     theme.Default(),
		RequestID: logging.RequestID(c.Request.Context()),
		Data:      data,
	}
	if site := siteFrom(c); site != nil {
		p.Settings = site.Settings
		p.Theme = site.Theme
	}
	return p
}

func (h *Handler) render(c *gin.Context, status int, name string, p Page) {
	c.Render(status, render.HTML{Template: h.tpl, Name: name, Data: p})
}
