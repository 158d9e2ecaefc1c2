package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"adcraft/model"

	"github.com/anthropics/anthropic-sdk-go"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
)

// toolParameters converts an MCP input schema to a plain JSON-schema map.
func toolParameters(tool mcptypes.Tool) map[string]any {
	params := map[string]any{
		"type":       tool.InputSchema.Type,
		"properties": tool.InputSchema.Properties,
	}
	if params["type"] == "" {
		params["type"] = "object"
	}
	if len(tool.InputSchema.Required) > 0 {
		params["required"] = tool.InputSchema.Required
	}
	if tool.InputSchema.Defs != nil {
		params["$defs"] = tool.InputSchema.Defs
	}
	return params
}

// ConvertToolsToChatCompletion converts MCP tools to the chat-completions
// format shared by every OpenAI-compatible vendor.
//
// MCP Tool structure:
//
//	{"name": "...", "description": "...", "inputSchema": {"type": "object", ...}}
//
// Chat-completions tool structure:
//
//	{"type": "function", "function": {"name": "...", "description": "...", "parameters": {...}}}
func ConvertToolsToChatCompletion(tools []mcptypes.Tool) []openai.ChatCompletionToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	result := make([]openai.ChatCompletionToolUnionParam, len(tools))
	for i, tool := range tools {
		result[i] = openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  openai.FunctionParameters(toolParameters(tool)),
			},
		)
	}
	return result
}

// ConvertToolsToResponses converts MCP tools to Responses API function tools.
// Strict mode is off: the schemas use optional properties.
func ConvertToolsToResponses(tools []mcptypes.Tool) []responses.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	result := make([]responses.ToolUnionParam, len(tools))
	for i, tool := range tools {
		result[i] = responses.ToolParamOfFunction(tool.Name, toolParameters(tool), false)
		if tool.Description != "" {
			result[i].OfFunction.Description = openai.String(tool.Description)
		}
	}
	return result
}

// ConvertToolsToAnthropic converts MCP tools to Anthropic tool params.
func ConvertToolsToAnthropic(tools []mcptypes.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, tool := range tools {
		inputSchema := anthropic.ToolInputSchemaParam{
			Properties: tool.InputSchema.Properties,
		}
		if len(tool.InputSchema.Required) > 0 {
			inputSchema.Required = tool.InputSchema.Required
		}
		if tool.InputSchema.Defs != nil {
			inputSchema.ExtraFields = map[string]any{
				"$defs": tool.InputSchema.Defs,
			}
		}

		result[i] = anthropic.ToolUnionParamOfTool(inputSchema, tool.Name)
		if tool.Description != "" {
			result[i].OfTool.Description = anthropic.String(tool.Description)
		}
	}
	return result
}

// ConvertToolsToOllama converts MCP tools to Ollama API tools.
func ConvertToolsToOllama(tools []mcptypes.Tool) []api.Tool {
	result := make([]api.Tool, 0, len(tools))
	for _, tool := range tools {
		params := api.ToolFunctionParameters{
			Type:       tool.InputSchema.Type,
			Required:   tool.InputSchema.Required,
			Properties: make(map[string]api.ToolProperty),
		}
		if tool.InputSchema.Defs != nil {
			params.Defs = tool.InputSchema.Defs
		}
		for name, prop := range tool.InputSchema.Properties {
			params.Properties[name] = convertOllamaProperty(prop)
		}

		result = append(result, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  params,
			},
		})
	}
	return result
}

// convertOllamaProperty converts one JSON-schema property to an Ollama ToolProperty.
func convertOllamaProperty(propValue any) api.ToolProperty {
	prop := api.ToolProperty{}

	propMap, ok := propValue.(map[string]any)
	if !ok {
		data, err := json.Marshal(propValue)
		if err != nil {
			return prop
		}
		if err := json.Unmarshal(data, &propMap); err != nil {
			return prop
		}
	}

	switch t := propMap["type"].(type) {
	case string:
		prop.Type = api.PropertyType{t}
	case []string:
		prop.Type = api.PropertyType(t)
	}
	if desc, ok := propMap["description"].(string); ok {
		prop.Description = desc
	}
	switch enum := propMap["enum"].(type) {
	case []any:
		prop.Enum = enum
	case []string:
		for _, v := range enum {
			prop.Enum = append(prop.Enum, v)
		}
	}
	if items, ok := propMap["items"]; ok {
		prop.Items = items
	}
	return prop
}

// ConvertToChatCompletionMessages converts model messages to chat-completions
// params, keeping assistant tool calls and tool-call ids.
func ConvertToChatCompletionMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case model.RoleUser:
			result = append(result, openai.UserMessage(msg.Content))
		case model.RoleTool:
			result = append(result, openai.ToolMessage(msg.Content, msg.ToolCallID))
		case model.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				result = append(result, openai.AssistantMessage(msg.Content))
				continue
			}
			assistant := openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				assistant.Content.OfString = openai.String(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: call.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      call.Name,
							Arguments: argumentsOrEmpty(call.Arguments),
						},
					},
				})
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		}
	}
	return result
}

// FlattenConversation renders the whole conversation as one role-prefixed
// text blob, for backends invoked without a continuation handle.
func FlattenConversation(messages []model.Message) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case model.RoleTool:
			fmt.Fprintf(&b, "[TOOL RESULT %s id=%s]\n%s", msg.Name, msg.ToolCallID, msg.Content)
		default:
			fmt.Fprintf(&b, "[%s]\n%s", strings.ToUpper(msg.Role), msg.Content)
			for _, call := range msg.ToolCalls {
				fmt.Fprintf(&b, "\n[TOOL CALL %s id=%s] %s", call.Name, call.ID, argumentsOrEmpty(call.Arguments))
			}
		}
	}
	return b.String()
}

// ConvertToResponsesContinuation converts the messages appended after the
// last assistant turn into Responses API input items. Earlier turns are
// already held server-side under the previous response id.
func ConvertToResponsesContinuation(messages []model.Message) responses.ResponseInputParam {
	start := 0
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == model.RoleAssistant {
			start = i + 1
			break
		}
	}

	items := make(responses.ResponseInputParam, 0, len(messages)-start)
	for _, msg := range messages[start:] {
		switch msg.Role {
		case model.RoleTool:
			items = append(items, responses.ResponseInputItemParamOfFunctionCallOutput(msg.ToolCallID, msg.Content))
		case model.RoleSystem:
			items = append(items, responses.ResponseInputItemParamOfMessage(msg.Content, responses.EasyInputMessageRoleSystem))
		default:
			items = append(items, responses.ResponseInputItemParamOfMessage(msg.Content, responses.EasyInputMessageRoleUser))
		}
	}
	return items
}

// ConvertToAnthropicMessages converts model messages to Anthropic params.
// System messages become system blocks; consecutive tool results are merged
// into a single user message as the Messages API requires.
func ConvertToAnthropicMessages(messages []model.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var systemBlocks []anthropic.TextBlockParam
	result := make([]anthropic.MessageParam, 0, len(messages))

	var pendingResults []anthropic.ContentBlockParamUnion
	flushResults := func() {
		if len(pendingResults) > 0 {
			result = append(result, anthropic.NewUserMessage(pendingResults...))
			pendingResults = nil
		}
	}

	for _, msg := range messages {
		if msg.Role == model.RoleTool {
			pendingResults = append(pendingResults, anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, false))
			continue
		}
		flushResults()

		switch msg.Role {
		case model.RoleSystem:
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: msg.Content})
		case model.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				var input any = json.RawMessage(argumentsOrEmpty(call.Arguments))
				if !json.Valid([]byte(argumentsOrEmpty(call.Arguments))) {
					input = map[string]any{}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, input, call.Name))
			}
			if len(blocks) == 0 {
				blocks = append(blocks, anthropic.NewTextBlock("(no content)"))
			}
			result = append(result, anthropic.NewAssistantMessage(blocks...))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	flushResults()

	return result, systemBlocks
}

// ConvertToOllamaMessages converts model messages to Ollama api messages.
func ConvertToOllamaMessages(messages []model.Message) []api.Message {
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		result[i] = api.Message{
			Role:    msg.Role,
			Content: msg.Content,
		}
		for _, call := range msg.ToolCalls {
			result[i].ToolCalls = append(result[i].ToolCalls, api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      call.Name,
					Arguments: ParseToolArguments(call.Arguments),
				},
			})
		}
	}
	return result
}

// ConvertFromOllamaToolCalls converts Ollama tool calls to model tool calls.
// Ollama does not issue call ids; ValidateToolCalls assigns them.
func ConvertFromOllamaToolCalls(calls []api.ToolCall) []model.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	result := make([]model.ToolCall, len(calls))
	for i, call := range calls {
		args, err := json.Marshal(call.Function.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		result[i] = model.ToolCall{
			Name:      call.Function.Name,
			Arguments: string(args),
		}
	}
	return result
}

// ParseToolArguments parses a JSON arguments string into a map.
// Unparseable input yields an empty map.
func ParseToolArguments(argsJSON string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil || args == nil {
		return make(map[string]any)
	}
	return args
}

func argumentsOrEmpty(args string) string {
	if strings.TrimSpace(args) == "" {
		return "{}"
	}
	return args
}
