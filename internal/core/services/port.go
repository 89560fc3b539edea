package services

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"modforge-service/internal/core/domain"
	output "modforge-service/internal/core/ports/output"
	"modforge-service/internal/metrics"
)

const opPort = "port"

// PortInput is one port request
type PortInput struct {
	RequestID     string
	JarBase64     string
	TargetVersion string
	Loader        string
}

// PortResult carries the ported artifact and routing metadata
type PortResult struct {
	Artifact      domain.ModArtifact
	SourceFiles   int
	TargetVersion string
	Loader        domain.Loader
	DemoMode      bool
}

// PortService moves a packaged mod to another Minecraft version
type PortService struct {
	llm    output.CompletionClient
	limits ArchiveLimits
}

// NewPortService creates a new PortService
func NewPortService(llm output.CompletionClient, limits ArchiveLimits) *PortService {
	return &PortService{llm: llm, limits: limits}
}

// Port fails on an unreadable archive and on a model reply that cannot be
// interpreted. A missing credential, an archive without Java sources or a failed
// call all produce the retargeted demo artifact instead.
func (s *PortService) Port(ctx context.Context, in PortInput) (*PortResult, error) {
	if strings.TrimSpace(in.JarBase64) == "" {
		return nil, domain.ErrArchiveRequired
	}

	loader := normalizeLoader(in.Loader)
	version := normalizeVersion(in.TargetVersion)

	logger := log.WithFields(log.Fields{
		"request_id":     in.RequestID,
		"operation":      opPort,
		"loader":         loader,
		"target_version": version,
	})

	contents, err := ExtractArchive(in.JarBase64, s.limits)
	if err != nil {
		logger.WithError(err).Warn("archive rejected")
		metrics.ModRequestsTotal.WithLabelValues(opPort, metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.ArchiveEntries.WithLabelValues("source").Observe(float64(len(contents.SourceFiles)))
	metrics.ArchiveEntries.WithLabelValues("config").Observe(float64(len(contents.ConfigFiles)))

	demo := PortDemoMod(contents, loader, version)
	result := &PortResult{
		SourceFiles:   len(contents.SourceFiles),
		TargetVersion: version,
		Loader:        loader,
	}

	if !llmAvailable(s.llm) || len(contents.SourceFiles) == 0 {
		metrics.ModRequestsTotal.WithLabelValues(opPort, metrics.OutcomeDemo).Inc()
		result.Artifact = demo
		result.DemoMode = true
		return result, nil
	}

	reply, err := complete(ctx, s.llm, opPort,
		portSystemPrompt(loader, version), portUserPrompt(contents.SourceFiles),
		portTemperature, portMaxTokens)
	if err != nil {
		logger.WithError(err).Warn("completion failed, serving retargeted archive")
		metrics.ModRequestsTotal.WithLabelValues(opPort, metrics.OutcomeFallback).Inc()
		result.Artifact = demo
		result.DemoMode = true
		return result, nil
	}

	artifact, err := InterpretArtifact(reply, demo)
	if err != nil {
		logger.WithError(err).Error("unparsable port completion")
		metrics.ModRequestsTotal.WithLabelValues(opPort, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("port %d sources: %w", len(contents.SourceFiles), err)
	}

	metrics.ModRequestsTotal.WithLabelValues(opPort, metrics.OutcomeAI).Inc()
	result.Artifact = artifact
	return result, nil
}
