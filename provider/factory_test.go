package provider

import (
	"errors"
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		expectName  string
	}{
		{
			name:       "openai provider",
			config:     Config{Type: ProviderTypeOpenAI, APIKey: "test-key"},
			expectName: "openai",
		},
		{
			name:       "moonshot provider",
			config:     Config{Type: ProviderTypeMoonshot, APIKey: "test-key", Model: "kimi-k2"},
			expectName: "moonshot",
		},
		{
			name:       "qwen provider",
			config:     Config{Type: ProviderTypeQwen, APIKey: "test-key"},
			expectName: "qwen",
		},
		{
			name:       "anthropic provider",
			config:     Config{Type: ProviderTypeAnthropic, APIKey: "test-key"},
			expectName: "anthropic",
		},
		{
			name:       "ollama provider with defaults",
			config:     Config{Type: ProviderTypeOllama},
			expectName: "ollama",
		},
		{
			name:        "ollama model without tool support",
			config:      Config{Type: ProviderTypeOllama, Model: "gemma2"},
			expectError: true,
		},
		{
			name:        "missing api key",
			config:      Config{Type: ProviderTypeQwen},
			expectError: true,
		},
		{
			name:        "unknown provider type",
			config:      Config{Type: ProviderType("unknown")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name() != tt.expectName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.expectName)
			}
			if p.GetModel() == "" {
				t.Error("expected a default model")
			}
		})
	}
}

func TestNewProviderUnknownIsSentinel(t *testing.T) {
	_, err := NewProvider(Config{Type: "nope"})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestMapProviderIDToType(t *testing.T) {
	tests := []struct {
		id   string
		want ProviderType
	}{
		{"openai", ProviderTypeOpenAI},
		{"kimi", ProviderTypeMoonshot},
		{"moonshot", ProviderTypeMoonshot},
		{"dashscope", ProviderTypeQwen},
		{"claude", ProviderTypeAnthropic},
		{"ollama", ProviderTypeOllama},
		{"mystery", ProviderType("mystery")},
	}
	for _, tt := range tests {
		if got := MapProviderIDToType(tt.id); got != tt.want {
			t.Errorf("MapProviderIDToType(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
