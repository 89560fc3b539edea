package handlers

import (
	"modforge-service/internal/adapters/primary/http/middleware"
	"modforge-service/internal/config"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with the middleware chain and every mod route
func NewRouter(cfg *config.Config, h *Handler) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		middleware.RequestID(),
		middleware.CORS(&cfg.CORS),
		middleware.Metrics(),
		middleware.Logging(),
		gin.Recovery(),
		middleware.BodyLimit(cfg.Archive.MaxRequestBytes()),
	)
	router.NoMethod(NotAllowed)

	h.RegisterRoutes(router.Group("/api/v1"))
	h.RegisterFunctionRoutes(router)

	return router
}
