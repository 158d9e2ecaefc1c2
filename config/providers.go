package config

import "os"

// ProviderConfig describes one LLM backend. API keys are never stored in the
// file; APIKeyEnv names the environment variable that holds the key.
type ProviderConfig struct {
	ID        string `toml:"id" yaml:"id"`
	BaseURL   string `toml:"base_url" yaml:"base_url"`
	Model     string `toml:"model" yaml:"model"`
	APIKeyEnv string `toml:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	Enabled   bool   `toml:"enabled" yaml:"enabled"`
}

// APIKey resolves the key from the environment.
func (p ProviderConfig) APIKey() string {
	if p.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(p.APIKeyEnv)
}

// FindProvider returns the provider with the given id, or nil.
func (c *Config) FindProvider(id string) *ProviderConfig {
	for i := range c.Providers {
		if c.Providers[i].ID == id {
			return &c.Providers[i]
		}
	}
	return nil
}

// EnabledProviders returns the enabled providers in file order.
func (c *Config) EnabledProviders() []ProviderConfig {
	var out []ProviderConfig
	for _, p := range c.Providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}
