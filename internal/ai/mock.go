package ai

import (
	"context"
	"sync"
)

// mockInputTokens is the fixed prompt cost the mock reports per request.
const mockInputTokens = 10

// MockProvider answers every request with a canned reply. The server
// registers one when no real provider is configured so the coach still
// has something to say.
type MockProvider struct {
	Response string
	Err      error

	mu      sync.Mutex
	history []CompletionRequest
}

// NewMockProvider creates a MockProvider that replies with response.
func NewMockProvider(response string) *MockProvider {
	return &MockProvider{Response: response}
}

func (m *MockProvider) Complete(_ context.Context, req CompletionRequest) (CompletionResponse, error) {
	m.mu.Lock()
	m.history = append(m.history, req)
	m.mu.Unlock()

	if m.Err != nil {
		return CompletionResponse{}, m.Err
	}
	return CompletionResponse{
		Content:      m.Response,
		Model:        "mock",
		InputTokens:  mockInputTokens,
		OutputTokens: len(m.Response),
	}, nil
}

func (m *MockProvider) HealthCheck(context.Context) error { return m.Err }

// Calls returns how many completions were requested.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

// LastRequest returns the most recent request, if any.
func (m *MockProvider) LastRequest() (CompletionRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return CompletionRequest{}, false
	}
	return m.history[len(m.history)-1], true
}
