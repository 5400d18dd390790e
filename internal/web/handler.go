// Package web serves the public site: server-rendered pages built from the
// content API, the contact, careers and OEM forms, and a few operational
// endpoints.
package web

import (
	"context"
	"html/template"
	"net/http"

	"github.com/dharti-automation/dharti-web/internal/assets"
	"github.com/dharti-automation/dharti-web/internal/carousel"
	"github.com/dharti-automation/dharti-web/internal/content/domain"
	"github.com/dharti-automation/dharti-web/internal/forms"
	"github.com/dharti-automation/dharti-web/internal/richtext"
	"github.com/dharti-automation/dharti-web/internal/settings"
	"github.com/gin-gonic/gin"
)

// Content is the read side of the content API as the pages use it.
type Content interface {
	Clients(ctx context.Context) ([]domain.Project, error)
	Client(ctx context.Context, id string) (*domain.Project, error)
	Services(ctx context.Context) ([]domain.Service, error)
	Service(ctx context.Context, id string) (*domain.Service, error)
	Products(ctx context.Context) ([]domain.Product, error)
	Jobs(ctx context.Context) ([]domain.Job, error)
	Posts(ctx context.Context) ([]domain.BlogPost, error)
	Testimonials(ctx context.Context) ([]domain.Testimonial, error)
	Certification(ctx context.Context) (*domain.Certification, error)
	Domains(ctx context.Context) ([]domain.Domain, error)
	Resource(ctx context.Context, name string) (any, error)
	Invalidate(ctx context.Context) (int, error)
}

// Submitter sends the three forms.
type Submitter interface {
	SubmitInquiry(ctx context.Context, f *forms.Inquiry) forms.Result
	SubmitApplication(ctx context.Context, f *forms.JobApplication) forms.Result
	SubmitOEM(ctx context.Context, f *forms.OEMInquiry) forms.Result
}

// SiteProvider exposes the startup settings load.
type SiteProvider interface {
	Snapshot() settings.Snapshot
	Reload(ctx context.Context) error
}

type Deps struct {
	Content         Content
	Site            SiteProvider
	Forms           Submitter
	Presets         carousel.Presets
	Assets          assets.Resolver
	RichText        *richtext.Renderer
	InvalidateToken string
}

// Handler renders the site.
type Handler struct {
	content         Content
	site            SiteProvider
	forms           Submitter
	presets         carousel.Presets
	assets          assets.Resolver
	richtext        *richtext.Renderer
	invalidateToken string
	tpl             *template.Template
}

// New parses the embedded templates and returns a ready handler.
func New(d Deps) (*Handler, error) {
	h := &Handler{
		content:         d.Content,
		site:            d.Site,
		forms:           d.Forms,
		presets:         d.Presets,
		assets:          d.Assets,
		richtext:        d.RichText,
		invalidateToken: d.InvalidateToken,
	}
	if h.presets == nil {
		p, err := carousel.DefaultPresets()
		if err != nil {
			return nil, err
		}
		h.presets = p
	}
	if h.richtext == nil {
		h.richtext = richtext.NewRenderer(richtext.Trusted, d.Assets.Base)
	}
	tpl, err := h.parseTemplates()
	if err != nil {
		return nil, err
	}
	h.tpl = tpl
	return h, nil
}

// Middleware is the optional per-area middleware the router supplies.
type Middleware struct {
	// FormLimit guards the form posts.
	FormLimit gin.HandlerFunc
	// ContentCORS guards the JSON content endpoints.
	ContentCORS gin.HandlerFunc
}

// Register mounts the site.
func (h *Handler) Register(r gin.IRouter, mw Middleware) {
	r.StaticFS("/static", staticFS())
	r.GET("/theme.css", h.ThemeCSS)
	r.POST("/settings/retry", h.RetrySettings)
	r.POST("/cache/invalidate", h.InvalidateCache)

	content := r.Group("/content")
	if mw.ContentCORS != nil {
		content.Use(mw.ContentCORS)
	}
	content.GET("/:resource", h.ContentJSON)
	content.OPTIONS("/:resource", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	site := r.Group("/", h.RequireSettings)
	site.GET("/", h.Home)
	site.GET("/services", h.Services)
	site.GET("/services/:id", h.ServiceDetail)
	site.GET("/clients/:id", h.ClientDetail)
	site.GET("/careers", h.Careers)
	site.GET("/jobs", h.Jobs)
	site.GET("/certifications", h.Certifications)
	site.GET("/blog", h.Blog)
	site.GET("/contact", h.Contact)
	site.GET("/oem", h.OEM)

	posts := site.Group("/")
	if mw.FormLimit != nil {
		posts.Use(mw.FormLimit)
	}
	posts.POST("/contact", h.SubmitContact)
	posts.POST("/jobs/apply", h.SubmitApplication)
	posts.POST("/oem", h.SubmitOEM)
}
