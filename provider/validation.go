package provider

import (
	"strings"

	"adcraft/model"

	"github.com/google/uuid"
)

// normalizeToolCalls is the repair every backend shares: calls without a
// name are dropped, missing ids get a generated one and empty arguments
// become "{}".
func normalizeToolCalls(calls []model.ToolCall) []model.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]model.ToolCall, 0, len(calls))
	for _, call := range calls {
		call.Name = strings.TrimSpace(call.Name)
		if call.Name == "" {
			continue
		}
		if call.ID == "" {
			call.ID = "call_" + uuid.NewString()
		}
		if strings.TrimSpace(call.Arguments) == "" {
			call.Arguments = "{}"
		}
		out = append(out, call)
	}
	return out
}

// repairToolArguments runs RepairJSON over every call's arguments. Calls
// whose arguments cannot be repaired keep them verbatim.
func repairToolArguments(calls []model.ToolCall) []model.ToolCall {
	for i := range calls {
		if repaired, ok := RepairJSON(argumentsOrEmpty(calls[i].Arguments)); ok {
			calls[i].Arguments = repaired
		}
	}
	return calls
}
