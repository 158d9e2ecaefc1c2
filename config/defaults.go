package config

func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{ID: "openai", BaseURL: "https://api.openai.com/v1", Model: "gpt-5", APIKeyEnv: "OPENAI_API_KEY", Enabled: true},
		{ID: "moonshot", BaseURL: "https://api.moonshot.ai/v1", Model: "kimi-k2-0905-preview", APIKeyEnv: "MOONSHOT_API_KEY", Enabled: true},
		{ID: "qwen", BaseURL: "https://dashscope-intl.aliyuncs.com/compatible-mode/v1", Model: "qwen3-max", APIKeyEnv: "DASHSCOPE_API_KEY", Enabled: true},
		{ID: "anthropic", BaseURL: "https://api.anthropic.com", Model: "claude-sonnet-4-5-20250929", APIKeyEnv: "ANTHROPIC_API_KEY", Enabled: true},
		{ID: "ollama", BaseURL: "http://localhost:11434", Model: "qwen3:latest", Enabled: false},
	}
}

func DefaultConfig() *Config {
	return &Config{
		DataDirectory:   GetDefaultDataDir(),
		DefaultProvider: "openai",
		Storage:         StorageConfig{Backend: "sqlite"},
		Agent: AgentConfig{
			MaxIterations:           10,
			GenerationMaxIterations: 5,
		},
		Catalogue: CatalogueConfig{TimeoutSeconds: 15},
		Providers: DefaultProviders(),
	}
}

func GenerateConfigTemplate() string {
	return `# adcraft configuration
# Location: ~/.config/adcraft/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the version store and debug log live
data_directory = "~/.local/share/adcraft"

# Provider used when a run does not name one
default_provider = "openai"

[storage]
# "sqlite" or "bolt"
backend = "sqlite"

[agent]
# Iteration budget of a full run and of a run restricted to generation tools
max_iterations = 10
generation_max_iterations = 5
# Passed to providers that support it: minimal, low, medium, high
reasoning_effort = ""
# Optional file replacing the built-in creative director prompt
# system_prompt_file = "~/.config/adcraft/prompt.md"

[catalogue]
# Voice catalogue service; leave empty to use static_file
base_url = ""
static_file = ""
timeout_seconds = 15

# API keys are read from the environment variable named by api_key_env.
[[providers]]
id = "openai"
base_url = "https://api.openai.com/v1"
model = "gpt-5"
api_key_env = "OPENAI_API_KEY"
enabled = true

[[providers]]
id = "moonshot"
base_url = "https://api.moonshot.ai/v1"
model = "kimi-k2-0905-preview"
api_key_env = "MOONSHOT_API_KEY"
enabled = true

[[providers]]
id = "qwen"
base_url = "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"
model = "qwen3-max"
api_key_env = "DASHSCOPE_API_KEY"
enabled = true

[[providers]]
id = "anthropic"
base_url = "https://api.anthropic.com"
model = "claude-sonnet-4-5-20250929"
api_key_env = "ANTHROPIC_API_KEY"
enabled = true

[[providers]]
id = "ollama"
base_url = "http://localhost:11434"
model = "qwen3:latest"
enabled = false
`
}
