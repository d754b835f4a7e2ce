// Package api implements the HTTP API for the scan service.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/agentscan/internal/config"
	"github.com/jonesrussell/agentscan/internal/logger"
)

// readHeaderTimeout bounds reading of request headers.
const readHeaderTimeout = 10 * time.Second

// requestIDHeader carries the per-request correlation ID.
const requestIDHeader = "X-Request-ID"

// SetupRouter creates and configures the Gin router with all routes.
func SetupRouter(log logger.Interface, h *ScanHandler, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	router.GET("/health", h.Health)

	router.POST("/scan", h.Scan)
	router.GET("/recent-scans", h.RecentScans)
	router.GET("/top-scans", h.TopScans)

	return router
}

// NewHTTPServer builds the http.Server around the configured router.
func NewHTTPServer(log logger.Interface, h *ScanHandler, cfg *config.Config) *http.Server {
	router := SetupRouter(log, h, cfg)

	return &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// requestIDMiddleware assigns each request a correlation ID, reusing the
// caller's when present.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// loggingMiddleware creates a middleware that logs HTTP requests.
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString("request_id"),
		)
	}
}

// corsMiddleware adds CORS headers to allow frontend access.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
