// Package web serves the news page and its JSON API.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/newsnow/internal/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

// NewServer creates the gin engine with all routes configured.
func NewServer(handler *Handler) *gin.Engine {
	r := gin.New()

	r.Use(requestLogger())
	r.Use(gin.Recovery())

	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	r.GET("/", handler.Index)

	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", handler.GetMetrics)

	api := r.Group("/api")
	{
		api.GET("/sources", handler.ListSources)
		api.GET("/items", handler.GetItems)
		api.POST("/transform", handler.Transform)
	}

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
