// Package agent drives a model through tool calls until an ad has a voice,
// a music and a sound-effects draft.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"adcraft/catalogue"
	"adcraft/model"
	"adcraft/storage"
	"adcraft/tools"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ErrNoConversation is returned when continuing an ad that has no stored conversation.
var ErrNoConversation = errors.New("no conversation for ad")

const (
	DefaultMaxIterations           = 10
	DefaultGenerationMaxIterations = 5
	DefaultReasoningEffort         = "medium"
	ContinueReasoningEffort        = "low"
)

// StopReason explains why a run ended.
type StopReason string

const (
	StopCompleted     StopReason = "completed"
	StopFinalAnswer   StopReason = "final_answer"
	StopLoopDetected  StopReason = "loop_detected"
	StopMaxIterations StopReason = "max_iterations"
	StopProviderError StopReason = "provider_error"
	StopCanceled      StopReason = "canceled"
)

// ProviderSource resolves provider names; an empty name selects the default.
type ProviderSource interface {
	Get(name string) (model.Provider, error)
}

// Settings are the process-wide defaults applied to runs.
type Settings struct {
	MaxIterations           int
	GenerationMaxIterations int
	ReasoningEffort         string
}

// Options configure one run.
type Options struct {
	AdID      string
	SessionID string
	// Provider is a registry name; empty selects the default provider.
	Provider        string
	ReasoningEffort string
	// MaxIterations caps loop passes; zero picks the default for ToolSet.
	MaxIterations int
	// ContinueConversation starts from the stored conversation of the ad.
	ContinueConversation bool
	ToolSet              tools.ToolSet
	// PrefetchedVoices are listed in the user message and select the
	// generation tool set.
	PrefetchedVoices []catalogue.Voice
}

// ToolCallRecord is one entry of the run's tool-call history.
type ToolCallRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Arguments  string `json:"arguments"`
	Result     string `json:"result"`
	IsError    bool   `json:"isError,omitempty"`
	Suppressed bool   `json:"suppressed,omitempty"`
	Iteration  int    `json:"iteration"`
}

// Result is returned by every run, including runs that stopped early.
type Result struct {
	ConversationID string           `json:"conversationId"`
	AdID           string           `json:"adId"`
	Message        string           `json:"message"`
	Drafts         Drafts           `json:"drafts"`
	ToolCalls      []ToolCallRecord `json:"toolCalls"`
	Provider       string           `json:"provider"`
	Model          string           `json:"model"`
	Usage          model.Usage      `json:"usage"`
	Iterations     int              `json:"iterations"`
	StopReason     StopReason       `json:"stopReason"`
	// Error describes a provider failure that ended the run early.
	Error string `json:"error,omitempty"`
}

// Executor runs agent loops. One executor serves any number of concurrent
// runs for different ads.
type Executor struct {
	providers ProviderSource
	deps      tools.Deps
	settings  Settings
	usage     *model.UsageAggregator
	log       *slog.Logger
}

// New creates an executor. deps.Store is required.
func New(providers ProviderSource, deps tools.Deps, settings Settings) *Executor {
	if settings.MaxIterations <= 0 {
		settings.MaxIterations = DefaultMaxIterations
	}
	if settings.GenerationMaxIterations <= 0 {
		settings.GenerationMaxIterations = DefaultGenerationMaxIterations
	}
	if settings.ReasoningEffort == "" {
		settings.ReasoningEffort = DefaultReasoningEffort
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	deps.Logger = logger
	return &Executor{
		providers: providers,
		deps:      deps,
		settings:  settings,
		usage:     model.NewUsageAggregator(),
		log:       logger.With("component", "agent"),
	}
}

// Usage returns the token usage of every run made by this executor.
func (e *Executor) Usage() *model.UsageAggregator {
	return e.usage
}

// run is the state of a single loop.
type run struct {
	e        *Executor
	provider model.Provider
	tools    *tools.Executor
	defs     []mcptypes.Tool
	effort   string
	maxIter  int
	log      *slog.Logger

	messages         []model.Message
	drafts           Drafts
	history          []ToolCallRecord
	executed         []string
	usage            model.Usage
	iterations       int
	forcingAttempted bool
	lastResponseID   string
	stop             StopReason
	providerErr      error
}

// Run drives the model until the ad has all drafts, the model stops calling
// tools, or a safety limit fires. The returned error is non-nil only when
// the conversation cannot be read or written, or the run cannot start.
func (e *Executor) Run(ctx context.Context, systemPrompt, userMessage string, opts Options) (*Result, error) {
	if opts.AdID == "" {
		return nil, fmt.Errorf("ad id is required")
	}
	p, err := e.providers.Get(opts.Provider)
	if err != nil {
		return nil, err
	}

	toolSet := opts.ToolSet
	if len(opts.PrefetchedVoices) > 0 {
		toolSet = tools.ToolSetGeneration
	}
	if toolSet == "" {
		toolSet = tools.ToolSetFull
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = e.settings.MaxIterations
		if toolSet == tools.ToolSetGeneration {
			maxIter = e.settings.GenerationMaxIterations
		}
	}
	effort := opts.ReasoningEffort
	if effort == "" {
		effort = e.settings.ReasoningEffort
	}

	var conv *storage.Conversation
	if opts.ContinueConversation {
		conv, err = e.deps.Store.Conversations.Load(ctx, opts.AdID)
		if err != nil {
			return nil, err
		}
	}
	if conv == nil {
		conv = &storage.Conversation{AdID: opts.AdID}
	}

	brief := userMessage
	if meta, err := e.deps.Store.Ads.GetAd(ctx, opts.AdID); err != nil {
		return nil, err
	} else if meta != nil {
		brief = meta.Brief
		if opts.SessionID == "" {
			opts.SessionID = meta.SessionID
		}
	}

	r := &run{
		e:        e,
		provider: p,
		tools: tools.NewExecutor(e.deps, tools.Scope{
			AdID:      opts.AdID,
			SessionID: opts.SessionID,
			Brief:     brief,
		}),
		defs:    tools.Definitions(toolSet),
		effort:  effort,
		maxIter: maxIter,
		log:     e.log.With("ad_id", opts.AdID, "provider", p.Name()),
	}

	r.messages = append(r.messages, conv.Messages...)
	if len(r.messages) == 0 || r.messages[0].Role != model.RoleSystem {
		if systemPrompt == "" {
			systemPrompt = DefaultSystemPrompt
		}
		r.messages = append([]model.Message{model.NewSystemMessage(systemPrompt)}, r.messages...)
	}
	r.messages = append(r.messages, model.NewUserMessage(withVoiceListing(userMessage, opts.PrefetchedVoices)))

	r.log.Info("agent run started",
		"tool_set", toolSet,
		"max_iterations", maxIter,
		"continue", opts.ContinueConversation,
		"history", len(conv.Messages))

	r.loop(ctx)
	return r.finalize(ctx, conv)
}

func (r *run) loop(ctx context.Context) {
	for r.iterations < r.maxIter {
		if ctx.Err() != nil {
			r.stop = StopCanceled
			return
		}
		r.iterations++

		if r.drafts.Complete() {
			r.log.Debug("all drafts present, skipping model call", "iteration", r.iterations)
			r.stop = StopCompleted
			return
		}

		start := time.Now()
		resp, err := r.provider.Invoke(ctx, model.InvokeRequest{
			Messages:           r.messages,
			Tools:              r.defs,
			ReasoningEffort:    r.effort,
			PreviousResponseID: r.lastResponseID,
		})
		if err != nil {
			r.log.Error("provider invocation failed", "iteration", r.iterations, "error", err)
			r.providerErr = err
			r.stop = StopProviderError
			if ctx.Err() != nil {
				r.stop = StopCanceled
			}
			return
		}
		r.usage.Add(resp.Usage)
		r.e.usage.Record(r.provider.Name(), r.provider.GetModel(), resp.Usage)
		r.lastResponseID = resp.ResponseID

		assistant := resp.Message
		assistant.Role = model.RoleAssistant
		assistant.ToolCalls = resp.ToolCalls
		if assistant.Timestamp.IsZero() {
			assistant.Timestamp = time.Now()
		}
		r.messages = append(r.messages, assistant)

		r.log.Debug("model turn",
			"iteration", r.iterations,
			"tool_calls", len(resp.ToolCalls),
			"tokens", resp.Usage.TotalTokens,
			"duration", time.Since(start))

		if len(resp.ToolCalls) == 0 {
			r.stop = StopFinalAnswer
			return
		}

		progressed := r.executeTurn(ctx, resp.ToolCalls)

		if !progressed && stalled(r.executed) {
			if r.drafts.Has(storage.StreamVoices) && !r.drafts.Has(storage.StreamMusic) && !r.forcingAttempted {
				r.log.Warn("loop detected, forcing music draft", "iteration", r.iterations)
				r.messages = append(r.messages, model.NewUserMessage(forcingMessage))
				r.forcingAttempted = true
				r.executed = nil
				continue
			}
			r.log.Warn("loop detected, stopping", "iteration", r.iterations, "missing", r.drafts.Missing())
			r.stop = StopLoopDetected
			return
		}
	}
}

// executeTurn answers every call of one model turn in call order and
// reports whether a new draft was created.
func (r *run) executeTurn(ctx context.Context, calls []model.ToolCall) bool {
	kept, dropped := suppressDuplicates(calls, r.drafts)
	if len(kept) < len(calls) {
		r.log.Info("suppressed duplicate draft calls",
			"iteration", r.iterations,
			"dropped", len(calls)-len(kept),
			"missing", r.drafts.Missing())
	}

	results := r.tools.ExecuteBatch(ctx, kept)

	progressed := false
	for _, res := range results {
		r.executed = append(r.executed, res.Name)
		if res.VersionID != "" {
			r.drafts.Set(res.Stream, res.VersionID)
			progressed = true
		}
	}

	// Feedback for suppressed calls reflects the drafts created in this turn.
	next := 0
	for i, call := range calls {
		record := ToolCallRecord{
			ID:        call.ID,
			Name:      call.Name,
			Arguments: call.Arguments,
			Iteration: r.iterations,
		}
		if dropped[i] {
			record.Result = duplicateFeedback(call, r.drafts)
			record.IsError = true
			record.Suppressed = true
		} else {
			record.Result = results[next].Content
			record.IsError = results[next].IsError
			next++
		}
		r.history = append(r.history, record)
		r.messages = append(r.messages, model.NewToolMessage(call, record.Result))
	}
	return progressed
}

func (r *run) finalize(ctx context.Context, conv *storage.Conversation) (*Result, error) {
	if r.stop == "" {
		if r.drafts.Complete() {
			r.stop = StopCompleted
		} else {
			r.stop = StopMaxIterations
			r.log.Warn("max iterations reached", "iterations", r.iterations, "missing", r.drafts.Missing())
		}
	}

	res := &Result{
		AdID:       conv.AdID,
		Message:    lastAssistantText(r.messages),
		Drafts:     r.drafts,
		ToolCalls:  r.history,
		Provider:   r.provider.Name(),
		Model:      r.provider.GetModel(),
		Usage:      r.usage,
		Iterations: r.iterations,
		StopReason: r.stop,
	}
	if r.providerErr != nil {
		res.Error = r.providerErr.Error()
	}

	// Persist even when the caller's context is done so partial progress survives.
	conv.Messages = r.messages
	if err := r.e.deps.Store.Conversations.Save(context.WithoutCancel(ctx), conv); err != nil {
		return res, fmt.Errorf("failed to save conversation: %w", err)
	}
	res.ConversationID = conv.ID

	r.log.Info("agent run finished",
		"stop_reason", res.StopReason,
		"iterations", res.Iterations,
		"drafts", res.Drafts,
		"tokens", res.Usage.TotalTokens)
	return res, nil
}

func lastAssistantText(messages []model.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == model.RoleAssistant && messages[i].Content != "" {
			return messages[i].Content
		}
	}
	return ""
}
