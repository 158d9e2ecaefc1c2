package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"adcraft/catalogue"
	"adcraft/model"
	"adcraft/storage"

	"golang.org/x/sync/errgroup"
)

// ErrUnknownTool is reported for calls naming a tool outside the registry.
var ErrUnknownTool = errors.New("unknown tool")

// ToolError is the JSON body returned to the model when a call fails.
type ToolError struct {
	Message    string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (e *ToolError) Error() string { return e.Message }

func toolErrorf(suggestion, format string, args ...any) *ToolError {
	return &ToolError{Message: fmt.Sprintf(format, args...), Suggestion: suggestion}
}

// Result is the outcome of one tool call. Content is always valid JSON.
type Result struct {
	ToolCallID string
	Name       string
	Content    string
	IsError    bool

	// VersionID and Stream are set when the call created a draft.
	VersionID string
	Stream    storage.Stream

	Duration time.Duration
}

// Message converts the result into the tool-role reply for call.
func (r Result) Message(call model.ToolCall) model.Message {
	return model.NewToolMessage(call, r.Content)
}

// Deps are the collaborators shared by every executor.
type Deps struct {
	Store     *storage.Store
	Catalogue catalogue.Catalogue
	Logger    *slog.Logger
}

// Scope identifies the ad a run works on.
type Scope struct {
	AdID      string
	SessionID string
	// Brief is recorded on the ad when the first draft creates it.
	Brief string
}

// Executor runs tool calls for one ad. It is safe for concurrent use.
type Executor struct {
	deps  Deps
	scope Scope
	log   *slog.Logger
}

// NewExecutor creates an executor bound to scope.
func NewExecutor(deps Deps, scope Scope) *Executor {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		deps:  deps,
		scope: scope,
		log:   logger.With("component", "tools", "ad_id", scope.AdID),
	}
}

type handler func(ctx context.Context, call model.ToolCall) (any, *Result, error)

func (e *Executor) handler(name string) handler {
	switch name {
	case SearchVoices:
		return e.searchVoices
	case CreateVoiceDraft:
		return e.createVoiceDraft
	case CreateMusicDraft:
		return e.createMusicDraft
	case CreateSFXDraft:
		return e.createSFXDraft
	case ReadAdState, GetCurrentState:
		return e.readAdState
	case SetAdTitle:
		return e.setAdTitle
	}
	return nil
}

// Execute runs a single call. It never returns an error: failures are
// encoded in the result as {"error", "suggestion"} so the model can react.
func (e *Executor) Execute(ctx context.Context, call model.ToolCall) (res Result) {
	start := time.Now()
	res = Result{ToolCallID: call.ID, Name: call.Name}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("tool panicked", "tool", call.Name, "panic", r)
			res.fail(toolErrorf("Try again with different arguments.", "internal error in %s: %v", call.Name, r))
		}
		res.Duration = time.Since(start)
	}()

	h := e.handler(call.Name)
	if h == nil {
		e.log.Warn("unknown tool requested", "tool", call.Name)
		res.fail(toolErrorf(fmt.Sprintf("Available tools: %v", Names(ToolSetFull)), "%v: %s", ErrUnknownTool, call.Name))
		return res
	}

	payload, meta, err := h(ctx, call)
	if err != nil {
		var te *ToolError
		if !errors.As(err, &te) {
			te = classify(err)
		}
		e.log.Debug("tool failed", "tool", call.Name, "error", err)
		res.fail(te)
		return res
	}
	if meta != nil {
		res.VersionID, res.Stream = meta.VersionID, meta.Stream
	}

	data, err := json.Marshal(payload)
	if err != nil {
		res.fail(toolErrorf("", "failed to encode result: %v", err))
		return res
	}
	res.Content = string(data)
	e.log.Debug("tool executed", "tool", call.Name, "bytes", len(res.Content))
	return res
}

func (r *Result) fail(te *ToolError) {
	data, _ := json.Marshal(te)
	r.Content = string(data)
	r.IsError = true
	r.VersionID, r.Stream = "", ""
}

// classify turns store errors into actionable tool errors.
func classify(err error) *ToolError {
	switch {
	case errors.Is(err, storage.ErrVersionNotFound):
		return toolErrorf("Call read_ad_state to list the existing versions.", "%v", err)
	case errors.Is(err, storage.ErrActiveVersion):
		return toolErrorf("Activate a different version first.", "%v", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return toolErrorf("", "%v", err)
	}
	return toolErrorf("Retry the call; if it keeps failing, continue with the remaining drafts.", "%v", err)
}

// decode parses call arguments into v or returns a tool error describing the problem.
func decode(call model.ToolCall, v any) error {
	if err := call.DecodeArguments(v); err != nil {
		return toolErrorf("Send the arguments as a single valid JSON object matching the tool schema.",
			"invalid arguments for %s: %v", call.Name, err)
	}
	return nil
}

// ExecuteBatch runs the calls of one model turn concurrently and returns
// the results in call order. Draft creations for the same stream share a
// lane and run in order so their freeze-then-create steps never interleave.
func (e *Executor) ExecuteBatch(ctx context.Context, calls []model.ToolCall) []Result {
	results := make([]Result, len(calls))

	lanes := make(map[storage.Stream][]int)
	var g errgroup.Group
	for i, call := range calls {
		if stream, ok := DraftStream(call.Name); ok {
			lanes[stream] = append(lanes[stream], i)
			continue
		}
		g.Go(func() error {
			results[i] = e.Execute(ctx, call)
			return nil
		})
	}
	for _, idx := range lanes {
		g.Go(func() error {
			for _, i := range idx {
				results[i] = e.Execute(ctx, calls[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
