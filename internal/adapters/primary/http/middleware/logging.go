package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := log.WithFields(log.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"bytes_in":   c.Request.ContentLength,
			"request_id": c.GetString(ContextKeyID),
		})

		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		case c.Request.Method == "OPTIONS":
			entry.Debug("preflight completed")
		default:
			entry.Info("request completed")
		}
	}
}
