package tools

import (
	"context"
	"strings"

	"adcraft/model"
)

const maxTitleLength = 80

type titleArgs struct {
	Title string `json:"title"`
}

func (e *Executor) setAdTitle(ctx context.Context, call model.ToolCall) (any, *Result, error) {
	var args titleArgs
	if err := decode(call, &args); err != nil {
		return nil, nil, err
	}
	title := strings.TrimSpace(args.Title)
	if title == "" {
		return nil, nil, toolErrorf("Pass a short non-empty title.", "title must not be empty")
	}
	if len([]rune(title)) > maxTitleLength {
		title = string([]rune(title)[:maxTitleLength])
	}

	if _, err := e.deps.Store.Ads.EnsureAdExists(ctx, e.scope.AdID, e.scope.SessionID, e.scope.Brief); err != nil {
		return nil, nil, err
	}
	meta, err := e.deps.Store.Ads.SetAdName(ctx, e.scope.AdID, title)
	if err != nil {
		return nil, nil, err
	}
	return map[string]string{"adId": meta.AdID, "title": meta.Name}, nil, nil
}
