package tools

import (
	"context"
	"fmt"
	"strings"

	"adcraft/model"
	"adcraft/storage"
)

type voiceDraftArgs struct {
	Tracks      []storage.VoiceTrack `json:"tracks"`
	Description string               `json:"description"`
}

type musicDraftArgs struct {
	Prompt      string  `json:"prompt"`
	Provider    string  `json:"provider"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
}

type sfxDraftArgs struct {
	Effects     []storage.SoundEffect `json:"effects"`
	Description string                `json:"description"`
}

type draftResult struct {
	VersionID string         `json:"versionId"`
	Stream    storage.Stream `json:"stream"`
	Status    storage.Status `json:"status"`
	Frozen    []string       `json:"frozen,omitempty"`
	Message   string         `json:"message"`
}

func (e *Executor) createVoiceDraft(ctx context.Context, call model.ToolCall) (any, *Result, error) {
	var args voiceDraftArgs
	if err := decode(call, &args); err != nil {
		return nil, nil, err
	}
	if len(args.Tracks) == 0 {
		return nil, nil, toolErrorf("Pass at least one track with voiceId and text.", "tracks must not be empty")
	}
	for i, t := range args.Tracks {
		if strings.TrimSpace(t.VoiceID) == "" || strings.TrimSpace(t.Text) == "" {
			return nil, nil, toolErrorf("Every track needs a voiceId from search_voices and the text to speak.",
				"track %d is missing voiceId or text", i)
		}
	}
	return e.createDraft(ctx, storage.StreamVoices, storage.Version{
		RequestText: args.Description,
		VoiceTracks: args.Tracks,
	})
}

func (e *Executor) createMusicDraft(ctx context.Context, call model.ToolCall) (any, *Result, error) {
	var args musicDraftArgs
	if err := decode(call, &args); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(args.Prompt) == "" {
		return nil, nil, toolErrorf("Describe genre, mood and instruments in prompt.", "prompt must not be empty")
	}
	return e.createDraft(ctx, storage.StreamMusic, storage.Version{
		RequestText: args.Description,
		Music: &storage.MusicSpec{
			Prompt:   args.Prompt,
			Provider: args.Provider,
			Duration: args.Duration,
		},
	})
}

func (e *Executor) createSFXDraft(ctx context.Context, call model.ToolCall) (any, *Result, error) {
	var args sfxDraftArgs
	if err := decode(call, &args); err != nil {
		return nil, nil, err
	}
	for i, fx := range args.Effects {
		if strings.TrimSpace(fx.Description) == "" {
			return nil, nil, toolErrorf("Describe each effect, or pass an empty list.", "effect %d has no description", i)
		}
	}
	if args.Effects == nil {
		args.Effects = []storage.SoundEffect{}
	}
	return e.createDraft(ctx, storage.StreamSFX, storage.Version{
		RequestText:  args.Description,
		SoundEffects: args.Effects,
	})
}

func (e *Executor) createDraft(ctx context.Context, stream storage.Stream, v storage.Version) (any, *Result, error) {
	if _, err := e.deps.Store.Ads.EnsureAdExists(ctx, e.scope.AdID, e.scope.SessionID, e.scope.Brief); err != nil {
		return nil, nil, err
	}

	v.CreatedBy = storage.CreatedByLLM
	id, frozen, err := e.deps.Store.Versions.CreateDraft(ctx, e.scope.AdID, stream, v)
	if err != nil {
		return nil, nil, err
	}
	if len(frozen) > 0 {
		e.log.Debug("froze previous drafts", "stream", stream, "versions", frozen)
	}
	e.log.Info("draft created", "stream", stream, "version", id)

	return draftResult{
		VersionID: id,
		Stream:    stream,
		Status:    storage.StatusDraft,
		Frozen:    frozen,
		Message:   fmt.Sprintf("%s draft %s created", stream, id),
	}, &Result{VersionID: id, Stream: stream}, nil
}
