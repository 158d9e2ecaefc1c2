package provider

import (
	"context"
	"fmt"

	"adcraft/model"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIProvider implements model.Provider on the OpenAI Responses API.
//
// When the request carries a PreviousResponseID only the messages added since
// the last assistant turn are sent; the server holds the rest. Without one the
// whole conversation is flattened into a single text input.
type OpenAIProvider struct {
	client  openai.Client
	model   string
	baseURL string
	apiKey  string
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// Parameters:
//   - baseURL: OpenAI API base URL (default: "https://api.openai.com/v1")
//   - apiKey: OpenAI API key (required)
//   - model: model to use (default: "gpt-5")
//
// Returns an error if the API key is missing.
func NewOpenAIProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-5"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:  client,
		model:   model,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

func (p *OpenAIProvider) Name() string { return string(ProviderTypeOpenAI) }

func (p *OpenAIProvider) GetModel() string { return p.model }

// Invoke implements model.Provider.
func (p *OpenAIProvider) Invoke(ctx context.Context, req model.InvokeRequest) (*model.InvokeResponse, error) {
	params := p.buildParams(req)

	resp, err := p.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI responses error: %w", err)
	}

	var calls []model.ToolCall
	for _, item := range resp.Output {
		if item.Type != "function_call" {
			continue
		}
		calls = append(calls, model.ToolCall{
			ID:        item.CallID,
			Name:      item.Name,
			Arguments: item.Arguments,
		})
	}
	calls = p.ValidateToolCalls(calls)

	return &model.InvokeResponse{
		Message: model.Message{
			Role:      model.RoleAssistant,
			Content:   resp.OutputText(),
			ToolCalls: calls,
		},
		ToolCalls:      calls,
		RequiresAction: len(calls) > 0,
		ResponseID:     resp.ID,
		Usage: model.Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func (p *OpenAIProvider) buildParams(req model.InvokeRequest) responses.ResponseNewParams {
	params := responses.ResponseNewParams{
		Model:             p.model,
		Tools:             ConvertToolsToResponses(req.Tools),
		Store:             openai.Bool(true),
		ParallelToolCalls: openai.Bool(true),
	}
	if req.ReasoningEffort != "" {
		params.Reasoning = shared.ReasoningParam{Effort: shared.ReasoningEffort(req.ReasoningEffort)}
	}

	if req.PreviousResponseID != "" {
		params.PreviousResponseID = openai.String(req.PreviousResponseID)
		params.Input = responses.ResponseNewParamsInputUnion{
			OfInputItemList: ConvertToResponsesContinuation(req.Messages),
		}
		return params
	}

	params.Input = responses.ResponseNewParamsInputUnion{
		OfString: openai.String(FlattenConversation(req.Messages)),
	}
	return params
}

// ValidateToolCalls implements model.Provider. The Responses API returns
// well-formed calls, so only the shared normalization applies.
func (p *OpenAIProvider) ValidateToolCalls(calls []model.ToolCall) []model.ToolCall {
	return normalizeToolCalls(calls)
}
