package model

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Provider abstracts the LLM backends (Responses API, chat-completions
// compatible vendors, Anthropic, Ollama) behind one invocation contract.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations import model, and the agent can use the
// Provider interface without depending on a concrete backend.
type Provider interface {
	// Name returns the registry id of the provider (e.g. "openai", "qwen").
	Name() string

	// GetModel returns the model name sent to the backend.
	GetModel() string

	// Invoke sends one non-interactive request and returns the assistant
	// message together with any tool calls the model requested. Tool calls
	// have already passed through ValidateToolCalls.
	Invoke(ctx context.Context, req InvokeRequest) (*InvokeResponse, error)

	// ValidateToolCalls applies the backend's repair rules to raw tool calls
	// and drops calls that cannot be dispatched at all.
	ValidateToolCalls(calls []ToolCall) []ToolCall
}

// InvokeRequest is the provider-agnostic request of a single model turn.
type InvokeRequest struct {
	Messages []Message
	Tools    []mcptypes.Tool

	// ReasoningEffort is passed through to backends that support it
	// ("minimal", "low", "medium", "high"). Empty means backend default.
	ReasoningEffort string

	// PreviousResponseID is the server-side continuation handle returned by
	// the previous turn. Backends without continuation ignore it.
	PreviousResponseID string
}

// InvokeResponse is the provider-agnostic result of a single model turn.
type InvokeResponse struct {
	Message        Message
	ToolCalls      []ToolCall
	RequiresAction bool
	Usage          Usage
	ResponseID     string
}
