package services

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"modforge-service/internal/core/domain"
	output "modforge-service/internal/core/ports/output"
	"modforge-service/internal/metrics"
)

const opGenerate = "generate"

// GenerateInput is one generate request
type GenerateInput struct {
	RequestID   string
	Description string
	Loader      string
	Version     string
}

// GenerateResult carries the artifact plus how it was produced
type GenerateResult struct {
	Artifact domain.ModArtifact
	Loader   domain.Loader
	Version  string
	DemoMode bool
	AIError  string
}

// GenerateService creates new mods from a text description
type GenerateService struct {
	llm output.CompletionClient
}

// NewGenerateService creates a new GenerateService. A nil or unconfigured
// client keeps the service in demo mode.
func NewGenerateService(llm output.CompletionClient) *GenerateService {
	return &GenerateService{llm: llm}
}

// Generate never fails once the description is present: any completion or
// parsing problem degrades to the demo skeleton.
func (s *GenerateService) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, domain.ErrDescriptionRequired
	}

	loader := normalizeLoader(in.Loader)
	version := normalizeVersion(in.Version)
	demo := DemoMod(in.Description, loader, version)

	logger := log.WithFields(log.Fields{
		"request_id": in.RequestID,
		"operation":  opGenerate,
		"loader":     loader,
		"version":    version,
	})

	result := &GenerateResult{Loader: loader, Version: version}

	if !llmAvailable(s.llm) {
		metrics.ModRequestsTotal.WithLabelValues(opGenerate, metrics.OutcomeDemo).Inc()
		result.Artifact = demo
		result.DemoMode = true
		return result, nil
	}

	reply, err := complete(ctx, s.llm, opGenerate,
		generateSystemPrompt(loader, version), in.Description,
		generateTemperature, generateMaxTokens)
	if err != nil {
		logger.WithError(err).Warn("completion failed, serving demo mod")
		metrics.ModRequestsTotal.WithLabelValues(opGenerate, metrics.OutcomeFallback).Inc()
		result.Artifact = demo
		result.DemoMode = true
		result.AIError = err.Error()
		return result, nil
	}

	artifact, err := InterpretArtifact(reply, demo)
	if err != nil {
		logger.WithError(err).Warn("unparsable completion, serving demo mod")
		metrics.ModRequestsTotal.WithLabelValues(opGenerate, metrics.OutcomeFallback).Inc()
		result.Artifact = demo
		result.DemoMode = true
		result.AIError = err.Error()
		return result, nil
	}

	metrics.ModRequestsTotal.WithLabelValues(opGenerate, metrics.OutcomeAI).Inc()
	result.Artifact = artifact
	return result, nil
}
