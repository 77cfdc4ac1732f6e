package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-gin-gorm-shop/internal/core/config"
	"go-gin-gorm-shop/internal/core/server"
	"go-gin-gorm-shop/internal/transport/http/ez"
	mdw "go-gin-gorm-shop/internal/transport/http/middleware"
	resp "go-gin-gorm-shop/internal/transport/http/response"
)

type Options struct {
	Log  *zap.Logger
	HTTP config.HTTP
	// Registry 为空时使用 prometheus 默认 registry
	Registry *prometheus.Registry
	// Health 检查下游（DB、Redis），为空则只报进程存活
	Health func(ctx context.Context) error
}

func NewAPIEngine(o Options, mods *Registry) *gin.Engine {
	l := o.Log
	if l == nil {
		l = zap.NewNop()
	}
	var (
		reg      prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if o.Registry != nil {
		reg, gatherer = o.Registry, o.Registry
	}
	h := o.HTTP

	r := server.NewRouter(l, h.CORSOrigins, mdw.RequestID(), mdw.Recovery(l))
	r.Use(
		mdw.NewMetrics(reg).Handler(),
		mdw.AccessLog(l),
	)
	if h.RateLimitRPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(h.RateLimitRPS), h.RateLimitBurst))
	}
	if h.PerIPRPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(h.PerIPRPS), h.PerIPBurst, 10*time.Minute))
	}
	r.Use(
		mdw.ConcurrencyLimit(h.MaxInFlight),
		mdw.MaxBodyBytes(h.MaxBodyBytes),
		mdw.Timeout(h.RequestTimeout),
	)

	r.NoRoute(func(c *gin.Context) { ez.Abort(c, ez.NotFound("route not found")) })

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		if o.Health != nil {
			if err := o.Health(c.Request.Context()); err != nil {
				l.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "unhealthy"))
				return
			}
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}))
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if mods != nil {
		mods.MountAll(ez.New(r.Group("/api"), l))
	}
	return r
}
