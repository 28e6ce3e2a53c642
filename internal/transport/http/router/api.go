package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vsm-server/internal/core/auth"
	"vsm-server/internal/core/cache"
	mdw "vsm-server/internal/transport/http/middleware"
)

type Options struct {
	UploadDir      string
	IdempotencyTTL time.Duration
}

// NewAPIEngine 用户端引擎：/api/v1 下公开组 + 鉴权组，报名路由走幂等中间件
func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, c *cache.Cache, opt Options) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opt.UploadDir != "" {
		r.Static("/uploads", opt.UploadDir)
	}

	api := r.Group("/api/v1")

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter))
	if c != nil && opt.IdempotencyTTL > 0 {
		authed.Use(mdw.Idempotency(c, opt.IdempotencyTTL))
	}

	MountAllAPI(&APIMux{Public: api, Authed: authed})
	return r
}
