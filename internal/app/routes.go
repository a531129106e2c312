package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/metropolia-apps/faq-core/internal/modules/ask"
	"github.com/metropolia-apps/faq-core/internal/modules/health"
	"github.com/metropolia-apps/faq-core/internal/modules/web"
	"github.com/metropolia-apps/faq-core/internal/pkg/monitoring"
	"github.com/metropolia-apps/faq-core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	root := r.Group("")
	web.NewHandler().RegisterRoutes(root)
	health.RegisterRoutes(root)

	askService := ask.NewService(a.cfg, a.logger)
	ask.NewHandler(askService, a.logger).RegisterRoutes(root)

	r.GET("/metrics", monitoring.Handler())

	appInfo := gin.H{
		"name":    "faq-core",
		"author":  "Metropolia Apps",
		"version": "1.0.0",
	}

	api := r.Group("/api")
	api.GET("", func(c *gin.Context) {
		c.PureJSON(http.StatusOK, appInfo)
	})
	api.GET("/info", func(c *gin.Context) {
		c.PureJSON(http.StatusOK, appInfo)
	})
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "pong"})
	})
	api.GET("/uptime", func(c *gin.Context) {
		up := time.Since(processStart)
		c.JSON(http.StatusOK, gin.H{
			"timestamp": up.Milliseconds(),
			"humanize":  humanizeDuration(up),
		})
	})
}
