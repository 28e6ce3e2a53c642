package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vsm-server/internal/core/auth"
	"vsm-server/internal/core/server"
	"vsm-server/internal/domain"
	mdw "vsm-server/internal/transport/http/middleware"
)

// NewAdminEngine 后台引擎：基座用 ginzap + CORS，/admin/v1 统一要求后台权限
func NewAdminEngine(l *zap.Logger, jwter *auth.JWTer, opt Options) *gin.Engine {
	r := server.NewBaseEngine(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(100, 200),
		mdw.ConcurrencyLimit(100),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(15*time.Second),
		mdw.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opt.UploadDir != "" {
		r.Static("/uploads", opt.UploadDir)
	}

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter), mdw.RequirePerm(domain.PermAccessAdmin))

	MountAllAdmin(admin)
	return r
}
