package handler

import (
	"net/http"
	"time"

	log "github.com/ChainSafe/log15"
	"github.com/gin-gonic/gin"
	"github.com/mapprotocol/stateproof/internal/expose"
	"github.com/rs/cors"
)

// NewRouter mounts the API and wraps it in the configured CORS policy.
func NewRouter(cfg *expose.Config, e *Expose) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	logger := log.Root().New("module", "http")
	g := gin.New()
	g.HandleMethodNotAllowed = true
	g.Use(gin.CustomRecovery(recovery(logger)), accessLog(logger))
	g.NoRoute(abortWith(http.StatusNotFound, "route not found"))
	g.NoMethod(abortWith(http.StatusMethodNotAllowed, "method not allowed"))
	g.POST("/", e.StateProof)
	g.GET("/health", e.Health)

	return cors.New(cfg.Cors.Options()).Handler(g)
}

func accessLog(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Request", "method", c.Request.Method, "path", c.Request.URL.Path,
			"status", c.Writer.Status(), "size", c.Writer.Size(), "elapsed", time.Since(start), "ip", c.ClientIP())
	}
}

func abortWith(status int, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(status, ErrorResponse{Status: status, Error: msg})
	}
}

func recovery(logger log.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, err any) {
		logger.Error("Handler panicked", "path", c.Request.URL.Path, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			ErrorResponse{Status: http.StatusInternalServerError, Error: "internal error"})
	}
}
