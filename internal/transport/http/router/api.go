package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalog-api/internal/core/server"
	"catalog-api/internal/transport/http/ez"
	mdw "catalog-api/internal/transport/http/middleware"
)

func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, d.CORS)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.RateLimitPerIP(20, 40, 10*time.Minute),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 前缀
	api := ez.New(r.Group("/api/v1"), d.pipeline(), d.DB, d.Log)

	var reg Registry
	reg.Register(
		authModule{svc: d.Auth},
		productModule{svc: d.Products},
		filesModule{svc: d.Files},
	)
	reg.MountAllAPI(api)

	return r
}
