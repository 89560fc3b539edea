package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"modforge-service/internal/config"
)

const (
	PreflightMethods = "POST, OPTIONS"
	PreflightHeaders = "Content-Type"
	PreflightMaxAge  = 24 * time.Hour
)

// CORS answers browser preflights and stamps Access-Control-Allow-Origin on
// responses. With the default wildcard origin the header is set even when the
// caller sent no Origin, which gin-contrib/cors alone would skip.
func CORS(cfg *config.CORSConfig) gin.HandlerFunc {
	allowAll := len(cfg.AllowedOrigins) == 0
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}

	cc := cors.Config{
		AllowMethods:              []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:              []string{"Origin", PreflightHeaders, HeaderRequestID},
		ExposeHeaders:             []string{HeaderRequestID},
		MaxAge:                    PreflightMaxAge,
		OptionsResponseStatusCode: http.StatusOK,
	}
	if allowAll {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowedOrigins
	}
	handler := cors.New(cc)

	return func(c *gin.Context) {
		if allowAll && c.GetHeader("Origin") == "" {
			c.Header("Access-Control-Allow-Origin", "*")
		}
		handler(c)
	}
}
