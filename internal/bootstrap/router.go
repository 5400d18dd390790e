package bootstrap

import (
	"net/http"
	"time"

	httpapi "github.com/dharti-automation/dharti-web/internal/api/http"
	"github.com/dharti-automation/dharti-web/internal/api/http/middleware"
	"github.com/dharti-automation/dharti-web/internal/logging"
	"github.com/dharti-automation/dharti-web/internal/web"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ServiceName  string
	Version      string
	Logger       *logging.Logger
	Site         *web.Handler
	Health       httpapi.Dependencies
	AllowOrigins []string
	FormLimiter  *middleware.ClientRateLimiter
}

// maxMultipartMemory covers a 5 MB upload plus the text fields.
const maxMultipartMemory = 8 << 20

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory

	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	r.Use(gin.CustomRecovery(dep.Site.Recover))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Health)
	healthHandler.RegisterRoutes(r)

	mw := web.Middleware{ContentCORS: contentCORS(dep.AllowOrigins)}
	if dep.FormLimiter != nil {
		mw.FormLimit = middleware.RateLimitMiddleware(dep.FormLimiter)
	}
	dep.Site.Register(r, mw)
	r.NoRoute(dep.Site.RequireSettings, dep.Site.NotFound)

	return r
}

// contentCORS opens the JSON content endpoints to the listed origins, or to
// every origin when none are configured.
func contentCORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
