package provider

import (
	"context"
	"fmt"

	"adcraft/model"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// MoonshotProvider implements model.Provider on Moonshot's OpenAI-compatible
// chat completions endpoint. Its tool arguments are repaired with RepairJSON.
type MoonshotProvider struct {
	client  openai.Client
	model   string
	baseURL string
	apiKey  string
}

// NewMoonshotProvider creates a new Moonshot provider instance.
//
// Parameters:
//   - baseURL: API base URL (default: "https://api.moonshot.ai/v1")
//   - apiKey: Moonshot API key (required)
//   - model: model to use (default: "kimi-k2-0905-preview")
func NewMoonshotProvider(baseURL, apiKey, model string) (*MoonshotProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.moonshot.ai/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Moonshot API key is required")
	}
	if model == "" {
		model = "kimi-k2-0905-preview"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &MoonshotProvider{
		client:  client,
		model:   model,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

func (p *MoonshotProvider) Name() string { return string(ProviderTypeMoonshot) }

func (p *MoonshotProvider) GetModel() string { return p.model }

// Invoke implements model.Provider with a single non-streaming request.
func (p *MoonshotProvider) Invoke(ctx context.Context, req model.InvokeRequest) (*model.InvokeResponse, error) {
	params := openai.ChatCompletionNewParams{
		Messages: ConvertToChatCompletionMessages(req.Messages),
		Model:    p.model,
	}
	if len(req.Tools) > 0 {
		params.Tools = ConvertToolsToChatCompletion(req.Tools)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Moonshot chat error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("Moonshot returned no choices")
	}

	msg := resp.Choices[0].Message
	calls := make([]model.ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		calls = append(calls, model.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	calls = p.ValidateToolCalls(calls)

	return &model.InvokeResponse{
		Message: model.Message{
			Role:      model.RoleAssistant,
			Content:   msg.Content,
			ToolCalls: calls,
		},
		ToolCalls:      calls,
		RequiresAction: len(calls) > 0,
		Usage: model.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// ValidateToolCalls implements model.Provider: arguments go through
// RepairJSON before the shared normalization.
func (p *MoonshotProvider) ValidateToolCalls(calls []model.ToolCall) []model.ToolCall {
	return normalizeToolCalls(repairToolArguments(calls))
}
