package agent

import (
	"fmt"
	"strings"

	"adcraft/catalogue"
)

// DefaultSystemPrompt is used when no prompt file is configured.
const DefaultSystemPrompt = `You are the creative director of an audio advertising studio.

From the user's brief, produce a complete radio spot made of three parts:
1. A voice draft: the script, split into lines, each spoken by a catalogue voice.
2. A music draft: one prompt describing the background music.
3. A sound-effects draft: zero or more short effects that support the script.

Work with the tools:
- Call search_voices once or twice to find suitable voices. Only use voice ids it returned.
- Call create_voice_draft, create_music_draft and create_sfx_draft once each. You may call them in the same turn.
- Call read_ad_state when you are revising an existing ad, to see what exists and which voices were already tried.
- Call set_ad_title with a short title when the ad has none.

Keep the script within the requested duration, roughly 2.5 spoken words per second.
When all three drafts exist, stop calling tools and reply with a short summary of the creative choices.`

// withVoiceListing appends the pre-fetched voices to the user message.
func withVoiceListing(userMessage string, voices []catalogue.Voice) string {
	if len(voices) == 0 {
		return userMessage
	}
	var b strings.Builder
	b.WriteString(userMessage)
	b.WriteString("\n\nAvailable voices (search_voices is not available; use these ids):\n")
	for _, v := range voices {
		fmt.Fprintf(&b, "- %s: %s (%s", v.ID, v.Name, v.Language)
		for _, extra := range []string{v.Gender, v.Accent, v.Style} {
			if extra != "" {
				b.WriteString(", ")
				b.WriteString(extra)
			}
		}
		b.WriteString(")")
		if v.Description != "" {
			b.WriteString(" ")
			b.WriteString(v.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}
