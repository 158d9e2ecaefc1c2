package model

import (
	"encoding/json"
	"time"
)

// Message roles understood by every provider adapter.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents one entry of an agent conversation.
//
// Assistant messages may carry ToolCalls; tool messages carry the ToolCallID
// they answer and the Name of the tool that produced them.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"toolCalls,omitempty"`
	ToolCallID string     `json:"toolCallId,omitempty"`
	Name       string     `json:"name,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// ToolCall is a provider-agnostic function call requested by the model.
// Arguments holds the raw JSON argument string exactly as the provider
// returned it (after any provider-specific repair).
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// DecodeArguments unmarshals the raw argument string into v.
func (c ToolCall) DecodeArguments(v any) error {
	args := c.Arguments
	if args == "" {
		args = "{}"
	}
	return json.Unmarshal([]byte(args), v)
}

// NewSystemMessage creates a system message stamped with the current time.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content, Timestamp: time.Now()}
}

// NewUserMessage creates a user message stamped with the current time.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, Timestamp: time.Now()}
}

// NewToolMessage creates the tool-role reply to a single tool call.
func NewToolMessage(call ToolCall, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: call.ID,
		Name:       call.Name,
		Timestamp:  time.Now(),
	}
}
