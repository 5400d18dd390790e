package http

import (
	"context"
	"net/http"
	"time"

	contentservice "github.com/dharti-automation/dharti-web/internal/content/service"
	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Service   string          `json:"service"`
	Version   string          `json:"version"`
	Settings  string          `json:"settings,omitempty"`
	Upstream  string          `json:"upstream,omitempty"`
	Cache     string          `json:"cache,omitempty"`
	Metrics   *UpstreamHealth `json:"metrics,omitempty"`
}

// UpstreamHealth summarises the content API calls made so far.
type UpstreamHealth struct {
	Calls            int64   `json:"calls"`
	Errors           int64   `json:"errors"`
	ErrorRate        float64 `json:"error_rate"`
	AvgLatencyMillis float64 `json:"avg_latency_ms"`
	CacheHits        int64   `json:"cache_hits"`
	CacheMisses      int64   `json:"cache_misses"`
	Submissions      int64   `json:"submissions"`
}

// Dependencies are the optional checks the health endpoint runs.
type Dependencies struct {
	Upstream interface {
		Ping(ctx context.Context) error
	}
	Cache interface {
		PingCache(ctx context.Context) error
		CacheName() string
	}
	// Settings reports the settings load status.
	Settings func() string
}

type HealthHandler struct {
	serviceName string
	version     string
	deps        Dependencies
}

func NewHealthHandler(serviceName, version string, deps Dependencies) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		deps:        deps,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
	}

	if h.deps.Upstream != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.deps.Upstream.Ping(pingCtx); err != nil {
			resp.Upstream = "down"
		} else {
			resp.Upstream = "up"
		}

		m := contentservice.GetMetrics()
		resp.Metrics = &UpstreamHealth{
			Calls:            m.UpstreamCalls(),
			Errors:           m.UpstreamErrors(),
			ErrorRate:        m.UpstreamErrorRate(),
			AvgLatencyMillis: m.AverageUpstreamLatency(),
			CacheHits:        m.CacheHits(),
			CacheMisses:      m.CacheMisses(),
			Submissions:      m.Submissions(),
		}
	}

	if h.deps.Cache != nil {
		resp.Cache = h.cacheStatus(c.Request.Context())
	}

	if h.deps.Settings != nil {
		resp.Settings = h.deps.Settings()
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) cacheStatus(ctx context.Context) string {
	if h.deps.Cache.CacheName() == "disabled" {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := h.deps.Cache.PingCache(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
