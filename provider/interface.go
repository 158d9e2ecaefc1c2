// Package provider implements the LLM backends the agent can drive.
//
// Every backend implements model.Provider: a single non-interactive Invoke
// that takes the whole conversation plus the tool catalogue and returns the
// assistant message with the tool calls it requested. Backends differ in how
// they misbehave, so each adapter owns its own repair rules:
//
//   - openai (Responses API): chains turns through previous_response_id when
//     the caller has one; otherwise the whole conversation is flattened into
//     a single role-prefixed text input.
//   - moonshot (chat completions): tool arguments are sometimes JSON5-ish.
//     RepairJSON fixes trailing commas, bare keys, single quotes and raw
//     newlines; arguments that still fail to parse are passed through so the
//     tool executor can report them back to the model.
//   - qwen (streamed chat completions): parallel tool calls arrive with
//     unreliable indices. The stream is assembled with toolCallAssembler,
//     which starts a new call whenever a fresh id shows up.
//   - anthropic and ollama: native tool blocks, no repair beyond
//     ValidateToolCalls.
//
// # Type Conversions
//
// All conversions between model types and SDK types live in conversions.go.
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:   provider.ProviderTypeQwen,
//	    Model:  "qwen3-max",
//	    APIKey: os.Getenv("DASHSCOPE_API_KEY"),
//	})
//	if err != nil {
//	    // handle error
//	}
//	resp, err := p.Invoke(ctx, model.InvokeRequest{Messages: msgs, Tools: tools})
package provider

// Note: The Provider interface is defined in the model package
// (model/provider.go) to avoid import cycles. This package implements model.Provider.

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeMoonshot  ProviderType = "moonshot"
	ProviderTypeQwen      ProviderType = "qwen"
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeOllama    ProviderType = "ollama"
)

// Config holds provider-specific configuration.
type Config struct {
	// ID is the registry name; defaults to the type.
	ID      string
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // unused for Ollama
}
