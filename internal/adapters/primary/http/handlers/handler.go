package handlers

import (
	"modforge-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	generateSvc *services.GenerateService
	chatSvc     *services.ChatService
	portSvc     *services.PortService
}

func New(
	generateSvc *services.GenerateService,
	chatSvc *services.ChatService,
	portSvc *services.PortService,
) *Handler {
	return &Handler{
		generateSvc: generateSvc,
		chatSvc:     chatSvc,
		portSvc:     portSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	post(r, "/mods/generate", h.GenerateMod)
	post(r, "/mods/chat", h.ChatMod)
	post(r, "/mods/port", h.PortMod)
}

// RegisterFunctionRoutes mounts the endpoints under the flat paths the web
// client was first deployed against.
func (h *Handler) RegisterFunctionRoutes(r gin.IRoutes) {
	post(r, "/generate-mod", h.GenerateMod)
	post(r, "/chat-mod", h.ChatMod)
	post(r, "/port-mod", h.PortMod)
}

func post(r gin.IRoutes, path string, fn gin.HandlerFunc) {
	r.POST(path, fn)
	r.OPTIONS(path, Preflight)
}
