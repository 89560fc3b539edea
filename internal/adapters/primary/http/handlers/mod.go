package handlers

import (
	"errors"
	"io"
	"net/http"

	"modforge-service/internal/adapters/primary/http/dto"
	"modforge-service/internal/adapters/primary/http/middleware"
	"modforge-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	generateFailure = "Generation failed"
	chatFailure     = "Update failed"
	portFailure     = "Port failed"
)

func (h *Handler) GenerateMod(c *gin.Context) {
	var req dto.GenerateModRequest
	if err := bindJSON(c, &req); err != nil {
		mapDomainError(c, generateFailure, err)
		return
	}

	id := requestID(c)
	result, err := h.generateSvc.Generate(c.Request.Context(), dto.ToGenerateInput(id, &req))
	if err != nil {
		mapDomainError(c, generateFailure, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGenerateModResponse(id, result))
}

func (h *Handler) ChatMod(c *gin.Context) {
	var req dto.ChatModRequest
	if err := bindJSON(c, &req); err != nil {
		mapDomainError(c, chatFailure, err)
		return
	}

	result, err := h.chatSvc.Modify(c.Request.Context(), dto.ToChatInput(requestID(c), &req))
	if err != nil {
		mapDomainError(c, chatFailure, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChatModResponse(result))
}

func (h *Handler) PortMod(c *gin.Context) {
	var req dto.PortModRequest
	if err := bindJSON(c, &req); err != nil {
		mapDomainError(c, portFailure, err)
		return
	}

	id := requestID(c)
	result, err := h.portSvc.Port(c.Request.Context(), dto.ToPortInput(id, &req))
	if err != nil {
		log.WithError(err).WithField("request_id", id).Error("port failed")
		mapDomainError(c, portFailure, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPortModResponse(id, result))
}

// Preflight answers OPTIONS for callers that send no Origin; browser
// preflights are answered by the CORS middleware before reaching here.
func Preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Methods", middleware.PreflightMethods)
	c.Header("Access-Control-Allow-Headers", middleware.PreflightHeaders)
	c.Header("Access-Control-Max-Age", "86400")
	c.Status(http.StatusOK)
}

// NotAllowed is the response for any method other than POST and OPTIONS
func NotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}

// bindJSON decodes the body; an empty body is an empty object
func bindJSON(c *gin.Context, obj interface{}) error {
	err := c.ShouldBindJSON(obj)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case errors.As(err, &tooLarge):
		return domain.ErrRequestTooLarge
	default:
		return domain.ErrInvalidRequestBody
	}
}

func requestID(c *gin.Context) string {
	if id := c.GetString(middleware.ContextKeyID); id != "" {
		return id
	}
	return uuid.New().String()
}
