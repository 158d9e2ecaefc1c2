package tools

import (
	"context"

	"adcraft/catalogue"
	"adcraft/model"
)

const defaultSearchLimit = 20

type searchArgs struct {
	Provider string `json:"provider"`
	Language string `json:"language"`
	Gender   string `json:"gender"`
	Accent   string `json:"accent"`
	Limit    int    `json:"limit"`
}

type searchResult struct {
	Voices []catalogue.Voice `json:"voices"`
	Count  int               `json:"count"`
	Total  int               `json:"total,omitempty"`
	Hint   string            `json:"hint,omitempty"`
}

func (e *Executor) searchVoices(ctx context.Context, call model.ToolCall) (any, *Result, error) {
	var args searchArgs
	if err := decode(call, &args); err != nil {
		return nil, nil, err
	}
	if e.deps.Catalogue == nil {
		return nil, nil, toolErrorf("Use voices already listed in the conversation.", "voice catalogue is not configured")
	}

	voices, err := e.deps.Catalogue.Search(ctx, catalogue.Query{
		Provider: args.Provider,
		Language: args.Language,
		Gender:   args.Gender,
		Accent:   args.Accent,
	})
	if err != nil {
		return nil, nil, toolErrorf("Retry once; if the catalogue stays unavailable, reuse a voice from read_ad_state.",
			"voice search failed: %v", err)
	}

	if len(voices) == 0 {
		return searchResult{
			Voices: []catalogue.Voice{},
			Hint:   "No voices matched. Try broadening filters: drop the accent, set gender to 'any', or use the base language code.",
		}, nil, nil
	}

	limit := args.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	total := len(voices)
	if total > limit {
		voices = voices[:limit]
	}
	out := searchResult{Voices: voices, Count: len(voices)}
	if total > len(voices) {
		out.Total = total
	}
	return out, nil, nil
}
