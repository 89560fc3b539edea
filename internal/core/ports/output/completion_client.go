package ports

import (
	"context"
)

// ============================================================================
// Completion Service Types
// ============================================================================

// Message is one chat turn sent to the completion service
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// CompletionRequest is a single prompt with its sampling parameters
type CompletionRequest struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// ============================================================================
// Completion Client Interface (Output Port)
// ============================================================================

// CompletionClient defines the interface for the hosted LLM completion API.
// The returned string is the assistant's reply, treated as untrusted text.
type CompletionClient interface {
	// IsAvailable reports whether a credential is configured
	IsAvailable() bool

	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
