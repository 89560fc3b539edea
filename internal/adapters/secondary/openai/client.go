package openai

import (
	"context"
	"fmt"
	"time"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	log "github.com/sirupsen/logrus"

	"modforge-service/internal/config"
	"modforge-service/internal/core/domain"
	output "modforge-service/internal/core/ports/output"
)

const defaultTimeout = 30 * time.Second

type completionClient struct {
	chatModel model.BaseChatModel
	enabled   bool
	modelName string
	timeout   time.Duration
}

// NewCompletionClient creates the OpenAI-compatible completion adapter. Without
// an API key the returned client reports itself unavailable.
func NewCompletionClient(ctx context.Context, cfg *config.LLMConfig) (output.CompletionClient, error) {
	if cfg.APIKey == "" {
		return &completionClient{enabled: false}, nil
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	chatModel, err := einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	return newCompletionClient(chatModel, cfg.Model, timeout), nil
}

func newCompletionClient(chatModel model.BaseChatModel, modelName string, timeout time.Duration) *completionClient {
	return &completionClient{
		chatModel: chatModel,
		enabled:   chatModel != nil,
		modelName: modelName,
		timeout:   timeout,
	}
}

func (c *completionClient) IsAvailable() bool {
	return c.enabled
}

// Complete sends one chat completion and returns the assistant's text. The call
// is bounded by the configured timeout on top of ctx.
func (c *completionClient) Complete(ctx context.Context, req output.CompletionRequest) (string, error) {
	if !c.enabled {
		return "", domain.ErrLLMNotConfigured
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]*schema.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, &schema.Message{
			Role:    schema.RoleType(m.Role),
			Content: m.Content,
		})
	}

	var opts []model.Option
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	log.WithFields(log.Fields{
		"model":      c.modelName,
		"messages":   len(messages),
		"max_tokens": req.MaxTokens,
	}).Debug("sending completion request")

	start := time.Now()
	out, err := c.chatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if out == nil {
		return "", domain.ErrEmptyCompletion
	}

	log.WithFields(log.Fields{
		"model":      c.modelName,
		"latency_ms": time.Since(start).Milliseconds(),
		"reply_len":  len(out.Content),
	}).Debug("completion received")

	return out.Content, nil
}
