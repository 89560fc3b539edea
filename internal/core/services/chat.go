package services

import (
	"context"
	"encoding/json"
	"strings"

	log "github.com/sirupsen/logrus"

	"modforge-service/internal/core/domain"
	output "modforge-service/internal/core/ports/output"
	"modforge-service/internal/metrics"
)

const (
	opChat        = "chat"
	noCodeContext = "No code"
)

// ChatInput is one chat-modify request
type ChatInput struct {
	RequestID   string
	ModID       string
	Message     string
	CurrentCode domain.ModArtifact
}

// ChatService applies natural-language edits to an existing mod. Unlike
// generate and port it has no demo mode: without a model it refuses.
type ChatService struct {
	llm output.CompletionClient
}

// NewChatService creates a new ChatService
func NewChatService(llm output.CompletionClient) *ChatService {
	return &ChatService{llm: llm}
}

// Modify returns ErrLLMNotConfigured without a credential and ErrUpstreamCall
// when the call fails. A reply that cannot be interpreted still succeeds with
// the canned acknowledgement and the code unchanged.
func (s *ChatService) Modify(ctx context.Context, in ChatInput) (*domain.ChatResult, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, domain.ErrMessageRequired
	}

	if !llmAvailable(s.llm) {
		metrics.ModRequestsTotal.WithLabelValues(opChat, metrics.OutcomeError).Inc()
		return nil, domain.ErrLLMNotConfigured
	}

	logger := log.WithFields(log.Fields{
		"request_id": in.RequestID,
		"operation":  opChat,
		"mod_id":     in.ModID,
	})

	reply, err := complete(ctx, s.llm, opChat,
		chatSystemPrompt, chatUserPrompt(codeContext(in.CurrentCode), in.Message),
		chatTemperature, chatMaxTokens)
	if err != nil {
		logger.WithError(err).Error("chat completion failed")
		metrics.ModRequestsTotal.WithLabelValues(opChat, metrics.OutcomeError).Inc()
		return nil, err
	}

	result, err := InterpretChat(reply, in.CurrentCode)
	if err != nil {
		logger.WithError(err).Warn("unparsable chat completion, answering with default")
		metrics.ModRequestsTotal.WithLabelValues(opChat, metrics.OutcomeFallback).Inc()
		fallback := FallbackChatResult(in.CurrentCode)
		return &fallback, nil
	}

	metrics.ModRequestsTotal.WithLabelValues(opChat, metrics.OutcomeAI).Inc()
	return &result, nil
}

// codeContext renders the current mod for the prompt
func codeContext(code domain.ModArtifact) string {
	if isEmptyArtifact(code) {
		return noCodeContext
	}
	out, err := json.MarshalIndent(code, "", "  ")
	if err != nil {
		return noCodeContext
	}
	return string(out)
}

func isEmptyArtifact(a domain.ModArtifact) bool {
	return a.ModName == "" && a.MainClass == "" && a.BuildGradle == "" && len(a.Files) == 0
}
