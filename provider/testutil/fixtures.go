package testutil

import (
	"fmt"

	"adcraft/model"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Call builds a tool call with a fixed id.
func Call(id, name, args string) model.ToolCall {
	return model.ToolCall{ID: id, Name: name, Arguments: args}
}

// Reply builds a scripted response requesting calls.
func Reply(content string, calls ...model.ToolCall) *model.InvokeResponse {
	return &model.InvokeResponse{
		Message:   model.Message{Content: content},
		ToolCalls: calls,
		Usage:     model.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

// VoiceDraftArgs returns valid create_voice_draft arguments.
func VoiceDraftArgs(text string) string {
	return fmt.Sprintf(`{"tracks":[{"voiceId":"voice-ava","voiceName":"Ava","text":%q}]}`, text)
}

// MusicDraftArgs returns valid create_music_draft arguments.
func MusicDraftArgs(prompt string) string {
	return fmt.Sprintf(`{"prompt":%q,"duration":30}`, prompt)
}

// SFXDraftArgs returns valid create_sfx_draft arguments.
func SFXDraftArgs(description string) string {
	return fmt.Sprintf(`{"effects":[{"description":%q}]}`, description)
}

// TestMessages returns a short conversation with a tool round-trip.
func TestMessages() []model.Message {
	call := Call("call_1", "search_voices", `{"language":"en"}`)
	return []model.Message{
		model.NewSystemMessage("You are a creative director."),
		model.NewUserMessage("Make a 30s ad for a bakery."),
		{Role: model.RoleAssistant, Content: "Looking for voices.", ToolCalls: []model.ToolCall{call}},
		model.NewToolMessage(call, `{"count":1}`),
	}
}

// TestMCPTools returns sample MCP tools for testing
func TestMCPTools() []mcptypes.Tool {
	return []mcptypes.Tool{
		{
			Name:        "search_voices",
			Description: "Search the voice catalogue",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"language": map[string]any{
						"type":        "string",
						"description": "ISO language code",
					},
					"gender": map[string]any{
						"type": "string",
						"enum": []any{"male", "female"},
					},
				},
				Required: []string{"language"},
			},
		},
		{
			Name:        "read_ad_state",
			Description: "Read the current drafts",
			InputSchema: mcptypes.ToolInputSchema{
				Type:       "object",
				Properties: map[string]any{},
			},
		},
	}
}
