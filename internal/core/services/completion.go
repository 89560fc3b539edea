package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"modforge-service/internal/core/domain"
	output "modforge-service/internal/core/ports/output"
	"modforge-service/internal/metrics"
)

// Sampling parameters per operation
const (
	generateTemperature = 0.7
	generateMaxTokens   = 3000
	chatTemperature     = 0.7
	chatMaxTokens       = 2000
	portTemperature     = 0.5
	portMaxTokens       = 4000
)

func llmAvailable(client output.CompletionClient) bool {
	return client != nil && client.IsAvailable()
}

// complete issues one completion call and wraps any failure in ErrUpstreamCall
func complete(ctx context.Context, client output.CompletionClient, operation, system, user string, temperature float32, maxTokens int) (string, error) {
	start := time.Now()
	reply, err := client.Complete(ctx, output.CompletionRequest{
		Messages: []output.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})

	status := "ok"
	if err == nil && strings.TrimSpace(reply) == "" {
		err = domain.ErrEmptyCompletion
	}
	if err != nil {
		status = "error"
	}
	metrics.CompletionDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())

	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamCall, err)
	}
	return reply, nil
}

func normalizeLoader(loader string) domain.Loader {
	l := domain.Loader(strings.ToLower(strings.TrimSpace(loader)))
	if l == "" {
		return domain.DefaultLoader
	}
	return l
}

func normalizeVersion(version string) string {
	if v := strings.TrimSpace(version); v != "" {
		return v
	}
	return domain.DefaultVersion
}
