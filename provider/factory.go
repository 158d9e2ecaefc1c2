package provider

import (
	"fmt"

	"adcraft/model"
)

// NewProvider creates a provider based on configuration.
//
// This is the centralized factory function for creating any provider type.
// It dispatches to the appropriate constructor based on Config.Type.
//
// Returns an error if the type is unknown or the constructor fails
// (missing API key, invalid URL).
//
// Example:
//
//	cfg := provider.Config{
//	    Type:    provider.ProviderTypeMoonshot,
//	    Model:   "kimi-k2-0905-preview",
//	    APIKey:  "sk-...",
//	}
//	p, err := provider.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeMoonshot:
		return NewMoonshotProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeQwen:
		return NewQwenProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Type)
	}
}

// MapProviderIDToType converts a config provider ID to a factory ProviderType.
//
// Mappings:
//   - "openai", "gpt" → ProviderTypeOpenAI
//   - "moonshot", "kimi" → ProviderTypeMoonshot
//   - "qwen", "dashscope" → ProviderTypeQwen
//   - "anthropic", "claude" → ProviderTypeAnthropic
//   - "ollama" → ProviderTypeOllama
//
// For unknown IDs, returns the ID cast as ProviderType (factory will error).
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "openai", "gpt":
		return ProviderTypeOpenAI
	case "moonshot", "kimi":
		return ProviderTypeMoonshot
	case "qwen", "dashscope":
		return ProviderTypeQwen
	case "anthropic", "claude":
		return ProviderTypeAnthropic
	case "ollama":
		return ProviderTypeOllama
	default:
		return ProviderType(id)
	}
}
