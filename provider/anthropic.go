package provider

import (
	"context"
	"fmt"
	"strings"

	"adcraft/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements model.Provider using Anthropic's Messages API
// with native tool_use blocks.
type AnthropicProvider struct {
	client  *anthropic.Client
	model   anthropic.Model
	baseURL string
	apiKey  string
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// Parameters:
//   - baseURL: Anthropic API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: model to use (default: Claude Sonnet 4.5)
func NewAnthropicProvider(baseURL, apiKey, model string) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if model != "" {
		anthropicModel = anthropic.Model(model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client:  &client,
		model:   anthropicModel,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

func (p *AnthropicProvider) Name() string { return string(ProviderTypeAnthropic) }

func (p *AnthropicProvider) GetModel() string { return string(p.model) }

// Invoke implements model.Provider.
func (p *AnthropicProvider) Invoke(ctx context.Context, req model.InvokeRequest) (*model.InvokeResponse, error) {
	messages, system := ConvertToAnthropicMessages(req.Messages)

	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  messages,
		MaxTokens: 8192,
	}
	if len(system) > 0 {
		params.System = system
	}
	if len(req.Tools) > 0 {
		params.Tools = ConvertToolsToAnthropic(req.Tools)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Anthropic messages error: %w", err)
	}

	var (
		text  strings.Builder
		calls []model.ToolCall
	)
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		case anthropic.ToolUseBlock:
			calls = append(calls, model.ToolCall{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: string(b.Input),
			})
		}
	}
	calls = p.ValidateToolCalls(calls)

	return &model.InvokeResponse{
		Message: model.Message{
			Role:      model.RoleAssistant,
			Content:   text.String(),
			ToolCalls: calls,
		},
		ToolCalls:      calls,
		RequiresAction: len(calls) > 0,
		Usage: model.Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
		},
	}, nil
}

// ValidateToolCalls implements model.Provider.
func (p *AnthropicProvider) ValidateToolCalls(calls []model.ToolCall) []model.ToolCall {
	return normalizeToolCalls(calls)
}
