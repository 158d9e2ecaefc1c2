package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ADCRAFT_DATA_DIR", filepath.Join(dir, "data"))
	path := filepath.Join(dir, "settings.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, FileExists(path))
	assert.Equal(t, "openai", cfg.DefaultProvider)
	assert.Equal(t, 10, cfg.Agent.MaxIterations)
	assert.Equal(t, 5, cfg.Agent.GenerationMaxIterations)
	assert.DirExists(t, filepath.Join(dir, "data"))

	// The template must decode to the same settings as the defaults.
	reloaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultProviders(), reloaded.Providers)
	assert.Equal(t, "sqlite", reloaded.Storage.Backend)
}

func TestLoadTOMLWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	content := `
data_directory = "` + filepath.Join(dir, "data") + `"
default_provider = "qwen"

[storage]
backend = "bolt"

[agent]
max_iterations = 7

[[providers]]
id = "qwen"
model = "qwen-plus"
api_key_env = "TEST_QWEN_KEY"
enabled = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("ADCRAFT_STORAGE", "sqlite")
	t.Setenv("ADCRAFT_DEBUG", "1")
	t.Setenv("TEST_QWEN_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 7, cfg.Agent.MaxIterations)
	assert.Equal(t, 5, cfg.Agent.GenerationMaxIterations)
	assert.True(t, cfg.Debug)

	require.Len(t, cfg.Providers, 1)
	p := cfg.FindProvider("qwen")
	require.NotNil(t, p)
	assert.Equal(t, "sk-test", p.APIKey())
	assert.Nil(t, cfg.FindProvider("openai"))
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := `
data_directory: ` + filepath.Join(dir, "data") + `
default_provider: moonshot
providers:
  - id: moonshot
    model: kimi-k2
    enabled: true
  - id: ollama
    enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "moonshot", cfg.DefaultProvider)
	assert.Len(t, cfg.EnabledProviders(), 1)
	assert.Equal(t, "kimi-k2", cfg.EnabledProviders()[0].Model)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad backend", func(c *Config) { c.Storage.Backend = "redis" }, false},
		{"bad effort", func(c *Config) { c.Agent.ReasoningEffort = "extreme" }, false},
		{"unknown default provider", func(c *Config) { c.DefaultProvider = "nope" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("ADCRAFT_TEST_DIR", "x")
	assert.Equal(t, "/home/tester/data", ExpandPath("~/data"))
	assert.Equal(t, "/tmp/x", ExpandPath("/tmp/$ADCRAFT_TEST_DIR"))
	assert.Equal(t, "", ExpandPath(""))
}

func TestNewLoggerDebugMirrorsToFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDirectory = t.TempDir()
	cfg.Debug = true

	var buf bytes.Buffer
	logger, closeFn, err := NewLogger(cfg, &buf)
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	require.NoError(t, closeFn())

	assert.Contains(t, buf.String(), "hello")
	data, err := os.ReadFile(filepath.Join(cfg.DataDirectory, "debug.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
