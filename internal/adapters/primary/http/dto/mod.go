package dto

import (
	"encoding/json"

	"modforge-service/internal/core/domain"
	"modforge-service/internal/core/services"
)

// ============================================================================
// Requests
// ============================================================================

type GenerateModRequest struct {
	Description string `json:"description"`
	Loader      string `json:"loader"`
	Version     string `json:"version"`
}

// ChatModRequest keeps currentCode raw; it is whatever the client holds and is
// read leniently by the service layer.
type ChatModRequest struct {
	ModID       string          `json:"modId"`
	Message     string          `json:"message"`
	CurrentCode json.RawMessage `json:"currentCode"`
}

type PortModRequest struct {
	JarBase64     string `json:"jarBase64"`
	TargetVersion string `json:"targetVersion"`
	Loader        string `json:"loader"`
}

// ============================================================================
// Responses
// ============================================================================

type GenerateModResponse struct {
	Success  bool               `json:"success"`
	ModID    string             `json:"modId"`
	ModData  domain.ModArtifact `json:"modData"`
	Loader   string             `json:"loader"`
	Version  string             `json:"version"`
	DemoMode bool               `json:"demoMode"`
	AIError  string             `json:"aiError,omitempty"`
}

type ChatModResponse struct {
	Success     bool               `json:"success"`
	AIMessage   string             `json:"aiMessage"`
	UpdatedCode domain.ModArtifact `json:"updatedCode"`
	Changes     []string           `json:"changes"`
}

type PortModResponse struct {
	Success       bool               `json:"success"`
	PortID        string             `json:"portId"`
	ModData       domain.ModArtifact `json:"modData"`
	SourceFiles   int                `json:"sourceFiles"`
	TargetVersion string             `json:"targetVersion"`
	Loader        string             `json:"loader"`
	DemoMode      bool               `json:"demoMode"`
}

// ============================================================================
// Mappers
// ============================================================================

func ToGenerateInput(requestID string, req *GenerateModRequest) services.GenerateInput {
	return services.GenerateInput{
		RequestID:   requestID,
		Description: req.Description,
		Loader:      req.Loader,
		Version:     req.Version,
	}
}

func ToChatInput(requestID string, req *ChatModRequest) services.ChatInput {
	modID := req.ModID
	if modID == "" {
		modID = requestID
	}
	return services.ChatInput{
		RequestID:   requestID,
		ModID:       modID,
		Message:     req.Message,
		CurrentCode: services.ArtifactFromJSON(req.CurrentCode),
	}
}

func ToPortInput(requestID string, req *PortModRequest) services.PortInput {
	return services.PortInput{
		RequestID:     requestID,
		JarBase64:     req.JarBase64,
		TargetVersion: req.TargetVersion,
		Loader:        req.Loader,
	}
}

func ToGenerateModResponse(modID string, r *services.GenerateResult) GenerateModResponse {
	artifact := r.Artifact.Clone()
	artifact.Normalize()
	return GenerateModResponse{
		Success:  true,
		ModID:    modID,
		ModData:  artifact,
		Loader:   string(r.Loader),
		Version:  r.Version,
		DemoMode: r.DemoMode,
		AIError:  r.AIError,
	}
}

func ToChatModResponse(r *domain.ChatResult) ChatModResponse {
	code := r.UpdatedCode.Clone()
	code.Normalize()
	changes := r.Changes
	if changes == nil {
		changes = []string{}
	}
	return ChatModResponse{
		Success:     true,
		AIMessage:   r.AIMessage,
		UpdatedCode: code,
		Changes:     changes,
	}
}

func ToPortModResponse(portID string, r *services.PortResult) PortModResponse {
	artifact := r.Artifact.Clone()
	artifact.Normalize()
	return PortModResponse{
		Success:       true,
		PortID:        portID,
		ModData:       artifact,
		SourceFiles:   r.SourceFiles,
		TargetVersion: r.TargetVersion,
		Loader:        string(r.Loader),
		DemoMode:      r.DemoMode,
	}
}
