package provider

import (
	"context"
	"fmt"

	"adcraft/model"
	"adcraft/ollama"
)

// OllamaProvider implements model.Provider for a local Ollama server.
// It wraps the existing ollama.Client.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: Ollama server URL (default: "http://localhost:11434")
//   - model: model to use (default: "qwen3:latest")
//
// Returns an error if the base URL is invalid or the model family is not
// known to support tool calling.
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	if !client.SupportsToolCalling() {
		return nil, fmt.Errorf("ollama model %s does not support tool calling", client.GetModel())
	}

	return &OllamaProvider{client: client}, nil
}

func (p *OllamaProvider) Name() string { return string(ProviderTypeOllama) }

func (p *OllamaProvider) GetModel() string { return p.client.GetModel() }

// Invoke implements model.Provider.
func (p *OllamaProvider) Invoke(ctx context.Context, req model.InvokeRequest) (*model.InvokeResponse, error) {
	resp, err := p.client.Chat(ctx, ConvertToOllamaMessages(req.Messages), ConvertToolsToOllama(req.Tools))
	if err != nil {
		return nil, err
	}

	calls := p.ValidateToolCalls(ConvertFromOllamaToolCalls(resp.Message.ToolCalls))

	return &model.InvokeResponse{
		Message: model.Message{
			Role:      model.RoleAssistant,
			Content:   resp.Message.Content,
			ToolCalls: calls,
		},
		ToolCalls:      calls,
		RequiresAction: len(calls) > 0,
		Usage: model.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
		},
	}, nil
}

// ValidateToolCalls implements model.Provider. Ollama issues no call ids,
// so every call gets one here.
func (p *OllamaProvider) ValidateToolCalls(calls []model.ToolCall) []model.ToolCall {
	return normalizeToolCalls(calls)
}
