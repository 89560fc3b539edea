package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	output "modforge-service/internal/core/ports/output"
)

// MockCompletionClient is a mock of CompletionClient.
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCompletionClient) Complete(ctx context.Context, req output.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// Ensure MockCompletionClient implements CompletionClient
var _ output.CompletionClient = (*MockCompletionClient)(nil)
