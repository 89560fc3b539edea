package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	ContextKeyID    = "request_id"
)

// RequestID reuses the caller's X-Request-ID or mints one. The id is echoed
// back and doubles as the modId/portId of the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ContextKeyID, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}
