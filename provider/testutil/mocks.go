package testutil

import (
	"context"
	"fmt"
	"sync"

	"adcraft/model"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// MockProvider implements model.Provider for testing. Responses are taken
// from Script in order; InvokeFunc, when set, overrides the script.
type MockProvider struct {
	InvokeFunc func(ctx context.Context, req model.InvokeRequest) (*model.InvokeResponse, error)
	Script     []*model.InvokeResponse

	mu       sync.Mutex
	name     string
	model    string
	requests []model.InvokeRequest
}

// NewMockProvider creates a mock provider that replays script.
func NewMockProvider(name string, script ...*model.InvokeResponse) *MockProvider {
	return &MockProvider{name: name, model: "mock-model", Script: script}
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) GetModel() string { return m.model }

func (m *MockProvider) Invoke(ctx context.Context, req model.InvokeRequest) (*model.InvokeResponse, error) {
	m.mu.Lock()
	// Copy so later appends by the caller do not show up in the record.
	req.Messages = append([]model.Message(nil), req.Messages...)
	m.requests = append(m.requests, req)
	n := len(m.requests)
	m.mu.Unlock()

	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, req)
	}
	if n > len(m.Script) {
		return nil, fmt.Errorf("mock provider: unexpected call %d (script has %d)", n, len(m.Script))
	}
	resp := *m.Script[n-1]
	resp.ToolCalls = m.ValidateToolCalls(resp.ToolCalls)
	resp.Message.Role = model.RoleAssistant
	resp.Message.ToolCalls = resp.ToolCalls
	resp.RequiresAction = len(resp.ToolCalls) > 0
	return &resp, nil
}

func (m *MockProvider) ValidateToolCalls(calls []model.ToolCall) []model.ToolCall {
	return calls
}

// Calls returns how many times Invoke was called.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns every request received, in order.
func (m *MockProvider) Requests() []model.InvokeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.InvokeRequest(nil), m.requests...)
}

// ToolNames returns the names of the tools offered in request i.
func (m *MockProvider) ToolNames(i int) []string {
	reqs := m.Requests()
	if i >= len(reqs) {
		return nil
	}
	return toolNames(reqs[i].Tools)
}

func toolNames(tools []mcptypes.Tool) []string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	return names
}
