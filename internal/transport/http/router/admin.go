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

func NewAdminEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, d.CORS)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(50, 100),
		mdw.ConcurrencyLimit(50),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(30*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 管理端 v1：每个动作都声明 ez.Auth(admin, super-user)
	admin := ez.New(r.Group("/admin/v1"), d.pipeline(), d.DB, d.Log)

	var reg Registry
	reg.Register(userAdminModule{})
	if d.Seed != nil {
		reg.Register(seedModule{svc: d.Seed})
	}
	reg.MountAllAdmin(admin)

	return r
}
