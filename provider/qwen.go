package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"adcraft/model"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// QwenProvider implements model.Provider on the DashScope OpenAI-compatible
// endpoint. Responses are streamed and tool calls are reassembled with
// toolCallAssembler, since the stream's call indices are unreliable when the
// model emits several calls in one turn.
type QwenProvider struct {
	client  openai.Client
	model   string
	baseURL string
	apiKey  string
}

// NewQwenProvider creates a new Qwen provider instance.
//
// Parameters:
//   - baseURL: API base URL (default: DashScope international compatible mode)
//   - apiKey: DashScope API key (required)
//   - model: model to use (default: "qwen3-max")
func NewQwenProvider(baseURL, apiKey, model string) (*QwenProvider, error) {
	if baseURL == "" {
		baseURL = "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("DashScope API key is required")
	}
	if model == "" {
		model = "qwen3-max"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &QwenProvider{
		client:  client,
		model:   model,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

func (p *QwenProvider) Name() string { return string(ProviderTypeQwen) }

func (p *QwenProvider) GetModel() string { return p.model }

// Invoke implements model.Provider by draining a streaming request.
func (p *QwenProvider) Invoke(ctx context.Context, req model.InvokeRequest) (*model.InvokeResponse, error) {
	params := openai.ChatCompletionNewParams{
		Messages: ConvertToChatCompletionMessages(req.Messages),
		Model:    p.model,
		StreamOptions: openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		},
	}
	if len(req.Tools) > 0 {
		params.Tools = ConvertToolsToChatCompletion(req.Tools)
		params.ParallelToolCalls = openai.Bool(true)
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	var (
		content strings.Builder
		asm     = newToolCallAssembler()
		usage   model.Usage
	)
	for stream.Next() {
		chunk := stream.Current()
		if chunk.Usage.TotalTokens > 0 {
			usage = model.Usage{
				PromptTokens:     int(chunk.Usage.PromptTokens),
				CompletionTokens: int(chunk.Usage.CompletionTokens),
				TotalTokens:      int(chunk.Usage.TotalTokens),
			}
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta
		content.WriteString(delta.Content)
		for _, tc := range delta.ToolCalls {
			asm.Add(tc.Index, tc.ID, tc.Function.Name, tc.Function.Arguments)
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("Qwen streaming error: %w", err)
	}

	calls := p.ValidateToolCalls(asm.Calls())

	return &model.InvokeResponse{
		Message: model.Message{
			Role:      model.RoleAssistant,
			Content:   content.String(),
			ToolCalls: calls,
		},
		ToolCalls:      calls,
		RequiresAction: len(calls) > 0,
		Usage:          usage,
	}, nil
}

// ValidateToolCalls implements model.Provider. Besides the shared rules it
// splits arguments holding several concatenated JSON objects (two calls
// merged under one index) and re-issues duplicate ids.
func (p *QwenProvider) ValidateToolCalls(calls []model.ToolCall) []model.ToolCall {
	var split []model.ToolCall
	for _, call := range calls {
		split = append(split, splitConcatenatedCall(call)...)
	}

	seen := make(map[string]bool, len(split))
	for i := range split {
		if split[i].ID != "" && seen[split[i].ID] {
			split[i].ID = ""
		}
		if split[i].ID != "" {
			seen[split[i].ID] = true
		}
	}
	return normalizeToolCalls(repairToolArguments(split))
}

// splitConcatenatedCall turns `{"a":1}{"b":2}` into one call per object.
// Anything else is returned unchanged.
func splitConcatenatedCall(call model.ToolCall) []model.ToolCall {
	args := strings.TrimSpace(call.Arguments)
	if args == "" || json.Valid([]byte(args)) {
		return []model.ToolCall{call}
	}

	dec := json.NewDecoder(strings.NewReader(args))
	var objects []json.RawMessage
	for dec.More() {
		var obj json.RawMessage
		if err := dec.Decode(&obj); err != nil {
			return []model.ToolCall{call}
		}
		objects = append(objects, obj)
	}
	if len(objects) < 2 {
		return []model.ToolCall{call}
	}

	out := make([]model.ToolCall, len(objects))
	for i, obj := range objects {
		out[i] = model.ToolCall{ID: call.ID, Name: call.Name, Arguments: string(obj)}
		if i > 0 {
			out[i].ID = "call_" + uuid.NewString()
		}
	}
	return out
}

// toolCallAssembler rebuilds tool calls from streamed deltas. The stream
// index is only a hint: a delta carrying an id different from the call
// currently open at that index starts a new call. Calls are returned in
// order of first appearance.
type toolCallAssembler struct {
	calls   []*model.ToolCall
	byIndex map[int64]int
}

func newToolCallAssembler() *toolCallAssembler {
	return &toolCallAssembler{byIndex: map[int64]int{}}
}

// Add merges one delta.
func (a *toolCallAssembler) Add(index int64, id, name, args string) {
	pos, open := a.byIndex[index]
	if open {
		cur := a.calls[pos]
		if id != "" && cur.ID != "" && id != cur.ID {
			open = false
		}
		// A name on a call that already has complete arguments is a new call.
		if name != "" && cur.Name != "" && cur.Arguments != "" && json.Valid([]byte(cur.Arguments)) {
			open = false
		}
	}

	if !open {
		if id == "" && name == "" && args == "" {
			return
		}
		a.calls = append(a.calls, &model.ToolCall{})
		pos = len(a.calls) - 1
		a.byIndex[index] = pos
	}

	cur := a.calls[pos]
	if id != "" && cur.ID == "" {
		cur.ID = id
	}
	if name != "" && cur.Name != name {
		if cur.Name == "" || !strings.HasSuffix(cur.Name, name) {
			cur.Name += name
		}
	}
	cur.Arguments += args
}

// Calls returns the assembled calls in arrival order.
func (a *toolCallAssembler) Calls() []model.ToolCall {
	out := make([]model.ToolCall, len(a.calls))
	for i, c := range a.calls {
		out[i] = *c
	}
	return out
}
