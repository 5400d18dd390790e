package web

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"slices"

	"github.com/dharti-automation/dharti-web/internal/content/domain"
	"github.com/dharti-automation/dharti-web/internal/logging"
	"github.com/dharti-automation/dharti-web/internal/theme"
	"github.com/gin-gonic/gin"
)

// InvalidateTokenHeader carries the shared secret for POST /cache/invalidate.
const InvalidateTokenHeader = "X-Cache-Token"

// ThemeCSS serves the theme custom properties. Defaults apply until the
// settings are loaded.
func (h *Handler) ThemeCSS(c *gin.Context) {
	t := theme.Default()
	if snap := h.site.Snapshot(); snap.Site != nil {
		t = snap.Site.Theme
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(t.CSS()))
}

// RetrySettings re-runs the settings load and sends the visitor home.
func (h *Handler) RetrySettings(c *gin.Context) {
	if err := h.site.Reload(c.Request.Context()); err != nil {
		logging.Operation(c.Request.Context(), "retry_settings").Error(err, "settings retry failed")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// InvalidateCache drops every cached resource. It is disabled when no token
// is configured.
func (h *Handler) InvalidateCache(c *gin.Context) {
	if h.invalidateToken == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "cache invalidation is disabled"})
		return
	}
	got := c.GetHeader(InvalidateTokenHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.invalidateToken)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	n, err := h.content.Invalidate(c.Request.Context())
	if err != nil {
		logging.Operation(c.Request.Context(), "invalidate_cache").Error(err, "cache invalidation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to invalidate cache"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cleared": n})
}

// ContentJSON returns one resource with every image path made absolute.
func (h *Handler) ContentJSON(c *gin.Context) {
	name := c.Param("resource")
	data, err := h.content.Resource(c.Request.Context(), name)
	if err != nil {
		if domain.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "resource not found"})
			return
		}
		logging.Operation(c.Request.Context(), "content_json").Error(err, "resource load failed")
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "content API unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, name: h.resolveImages(data)})
}

// resolveImages returns a copy of v with image fields resolved. Cached
// values are never modified.
func (h *Handler) resolveImages(v any) any {
	r := h.assets
	switch data := v.(type) {
	case []domain.Project:
		out := slices.Clone(data)
		for i := range out {
			out[i].Logo = r.Resolve(out[i].Logo)
			out[i].Gallery = r.ResolveAll(out[i].Gallery)
		}
		return out
	case []domain.Service:
		out := slices.Clone(data)
		for i := range out {
			out[i].Thumbnail = r.Resolve(out[i].Thumbnail)
		}
		return out
	case []domain.Product:
		out := slices.Clone(data)
		for i := range out {
			out[i].Image = r.Resolve(out[i].Image)
		}
		return out
	case []domain.BlogPost:
		out := slices.Clone(data)
		for i := range out {
			out[i].Image = r.Resolve(out[i].Image)
		}
		return out
	case []domain.Testimonial:
		out := slices.Clone(data)
		for i := range out {
			out[i].Logo = r.Resolve(out[i].Logo)
		}
		return out
	case *domain.Certification:
		if data == nil {
			return data
		}
		cert := *data
		cert.Logos = r.ResolveAll(cert.Logos)
		cert.Certificates = r.ResolveAll(cert.Certificates)
		return &cert
	}
	return v
}

// Recover is the panic boundary for every route: the panic is logged with
// the request id and the visitor gets the generic error page.
func (h *Handler) Recover(c *gin.Context, recovered any) {
	logging.Operation(c.Request.Context(), "recover").
		WithFields(map[string]any{"path": c.Request.URL.Path}).
		Error(fmt.Errorf("panic: %v", recovered), "request panicked")
	h.render(c, http.StatusInternalServerError, "error.html", h.page(c, "Something went wrong", "", nil))
	c.Abort()
}
