package web

import (
	"context"
	"net/http"

	"github.com/dharti-automation/dharti-web/internal/settings"
	"github.com/gin-gonic/gin"
)

const siteKey = "site"

// RequireSettings lets a page through only once the settings are published.
// Until then it renders the loading page, or the error page with a retry
// button. A request that finds the load failed starts a fresh attempt in
// the background.
func (h *Handler) RequireSettings(c *gin.Context) {
	snap := h.site.Snapshot()
	switch snap.Status {
	case settings.StatusReady:
		c.Set(siteKey, snap.Site)
		c.Next()
		return
	case settings.StatusFailed:
		ctx := context.WithoutCancel(c.Request.Context())
		go func() { _ = h.site.Reload(ctx) }()
		h.render(c, http.StatusServiceUnavailable, "settings_error.html", h.page(c, "Something went wrong", "", nil))
	default:
		c.Header("Retry-After", "2")
		h.render(c, http.StatusServiceUnavailable, "loading.html", h.page(c, "Loading", "", nil))
	}
	c.Abort()
}

func siteFrom(c *gin.Context) *settings.Site {
	v, ok := c.Get(siteKey)
	if !ok {
		return nil
	}
	site, _ := v.(*settings.Site)
	return site
}
