package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockOutput is one canned response for the MockProvider.
type MockOutput struct {
	Content json.RawMessage
	Err     error
}

// MockProvider is a deterministic Provider for tests. It returns canned
// outputs in FIFO order and records every prompt it receives.
type MockProvider struct {
	mu      sync.Mutex
	outputs []MockOutput

	// Prompts holds every prompt passed to Complete, in order.
	Prompts []Prompt
}

// NewMockProvider creates a MockProvider with the given canned outputs.
func NewMockProvider(outputs ...MockOutput) *MockProvider {
	return &MockProvider{outputs: outputs}
}

// Complete returns the next canned output, or ErrProviderUnavailable when
// the queue is empty. Schema validation runs against canned content too,
// so tests exercise the same validation path as real providers.
func (m *MockProvider) Complete(_ context.Context, p Prompt) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, p)

	if len(m.outputs) == 0 {
		return nil, &ErrProviderUnavailable{}
	}

	next := m.outputs[0]
	m.outputs = m.outputs[1:]

	if next.Err != nil {
		return nil, next.Err
	}
	if err := validateOutput(p.Schema, next.Content); err != nil {
		return nil, err
	}
	return next.Content, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}
