// Package tools defines the tools offered to the model and executes the
// calls it makes against the catalogue and the version store.
package tools

import (
	"slices"

	"adcraft/storage"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Tool names understood by the executor.
const (
	SearchVoices     = "search_voices"
	CreateVoiceDraft = "create_voice_draft"
	CreateMusicDraft = "create_music_draft"
	CreateSFXDraft   = "create_sfx_draft"
	ReadAdState      = "read_ad_state"
	GetCurrentState  = "get_current_state"
	SetAdTitle       = "set_ad_title"
)

// ToolSet selects which tools are offered to the model.
type ToolSet string

const (
	// ToolSetFull offers every tool.
	ToolSetFull ToolSet = "full"
	// ToolSetGeneration omits search_voices; voices were supplied up front.
	ToolSetGeneration ToolSet = "generation"
)

// DraftStream maps a draft-creating tool to the stream it writes.
func DraftStream(name string) (storage.Stream, bool) {
	switch name {
	case CreateVoiceDraft:
		return storage.StreamVoices, true
	case CreateMusicDraft:
		return storage.StreamMusic, true
	case CreateSFXDraft:
		return storage.StreamSFX, true
	}
	return "", false
}

// DraftTool is the inverse of DraftStream.
func DraftTool(stream storage.Stream) string {
	switch stream {
	case storage.StreamVoices:
		return CreateVoiceDraft
	case storage.StreamMusic:
		return CreateMusicDraft
	case storage.StreamSFX:
		return CreateSFXDraft
	}
	return ""
}

// IsStateRead reports whether name reads the ad state.
func IsStateRead(name string) bool {
	return name == ReadAdState || name == GetCurrentState
}

func object(props map[string]any, required ...string) mcptypes.ToolInputSchema {
	return mcptypes.ToolInputSchema{Type: "object", Properties: props, Required: required}
}

func str(description string, enum ...string) map[string]any {
	p := map[string]any{"type": "string", "description": description}
	if len(enum) > 0 {
		vals := make([]any, len(enum))
		for i, e := range enum {
			vals[i] = e
		}
		p["enum"] = vals
	}
	return p
}

func num(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

var definitions = []mcptypes.Tool{
	{
		Name: SearchVoices,
		Description: "Search the voice catalogue. Returns voices with id, name, language, gender, accent and style. " +
			"Call this before create_voice_draft and only use voice ids it returned.",
		InputSchema: object(map[string]any{
			"provider": str("Voice provider, or 'any'", "any", "elevenlabs", "openai", "lovo", "qwen", "bytedance"),
			"language": str("Language code such as 'en' or 'es-MX'"),
			"gender":   str("Gender filter", "male", "female", "any"),
			"accent":   str("Accent filter, matched loosely (e.g. 'british')"),
			"limit":    num("Maximum number of voices to return (default 20)"),
		}, "language"),
	},
	{
		Name:        CreateVoiceDraft,
		Description: "Create the voice draft: the ordered spoken lines of the ad. Replaces any previous voice draft.",
		InputSchema: object(map[string]any{
			"tracks": map[string]any{
				"type":        "array",
				"description": "Spoken lines in playback order",
				"items": object(map[string]any{
					"voiceId":   str("Voice id from search_voices"),
					"voiceName": str("Display name of the voice"),
					"text":      str("Line to speak"),
					"style":     str("Delivery direction, e.g. 'warm', 'excited'"),
					"speed":     num("Speaking rate multiplier"),
					"playAfter": str("'start', 'previous' or the index of another track"),
					"overlap":   num("Seconds of overlap with the previous element"),
				}, "voiceId", "text"),
			},
			"description": str("What changed and why"),
		}, "tracks"),
	},
	{
		Name:        CreateMusicDraft,
		Description: "Create the music draft: one background music prompt. Replaces any previous music draft.",
		InputSchema: object(map[string]any{
			"prompt":      str("Description of the music: genre, mood, instruments, tempo"),
			"provider":    str("Music provider", "loudly", "mubert", "elevenlabs"),
			"duration":    num("Length in seconds"),
			"description": str("What changed and why"),
		}, "prompt"),
	},
	{
		Name:        CreateSFXDraft,
		Description: "Create the sound-effects draft. Replaces any previous sfx draft. Pass an empty list for no effects.",
		InputSchema: object(map[string]any{
			"effects": map[string]any{
				"type":        "array",
				"description": "Sound effects in playback order",
				"items": object(map[string]any{
					"description": str("What the effect sounds like"),
					"playAfter":   str("'start', 'previous' or a track index"),
					"overlap":     num("Seconds of overlap"),
					"duration":    num("Length in seconds"),
				}, "description"),
			},
			"description": str("What changed and why"),
		}, "effects"),
	},
	{
		Name:        ReadAdState,
		Description: "Read the latest voice, music and sfx versions of the ad together with the voices already tried.",
		InputSchema: object(map[string]any{}),
	},
	{
		Name:        SetAdTitle,
		Description: "Set a short, human-readable title for the ad.",
		InputSchema: object(map[string]any{
			"title": str("Title, at most a few words"),
		}, "title"),
	},
}

// Definitions returns the tool definitions of set. The returned slice is a
// copy; callers may not mutate the registry.
func Definitions(set ToolSet) []mcptypes.Tool {
	out := make([]mcptypes.Tool, 0, len(definitions))
	for _, t := range definitions {
		if set == ToolSetGeneration && t.Name == SearchVoices {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Names returns the tool names of set in registry order.
func Names(set ToolSet) []string {
	var names []string
	for _, t := range Definitions(set) {
		names = append(names, t.Name)
	}
	return names
}

// Known reports whether name can be dispatched, aliases included.
func Known(name string) bool {
	if name == GetCurrentState {
		return true
	}
	return slices.ContainsFunc(definitions, func(t mcptypes.Tool) bool { return t.Name == name })
}
