package agent

import (
	"context"
	"fmt"

	"adcraft/model"
)

// ContinueConversation appends userMessage to the stored conversation of
// the ad and runs the loop again with reduced reasoning effort. The system
// prompt of the stored conversation is reused.
func (e *Executor) ContinueConversation(ctx context.Context, adID, userMessage, providerName string) (*Result, error) {
	conv, err := e.deps.Store.Conversations.Load(ctx, adID)
	if err != nil {
		return nil, err
	}
	if conv == nil || len(conv.Messages) == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoConversation, adID)
	}

	var systemPrompt string
	for _, m := range conv.Messages {
		if m.Role == model.RoleSystem {
			systemPrompt = m.Content
			break
		}
	}

	return e.Run(ctx, systemPrompt, userMessage, Options{
		AdID:                 adID,
		Provider:             providerName,
		ReasoningEffort:      ContinueReasoningEffort,
		ContinueConversation: true,
	})
}
