package config

import (
	"fmt"
	"os"
	"strconv"
)

type StorageConfig struct {
	// Backend is "sqlite" (default) or "bolt".
	Backend string `toml:"backend" yaml:"backend"`
}

type AgentConfig struct {
	MaxIterations           int    `toml:"max_iterations" yaml:"max_iterations"`
	GenerationMaxIterations int    `toml:"generation_max_iterations" yaml:"generation_max_iterations"`
	ReasoningEffort         string `toml:"reasoning_effort" yaml:"reasoning_effort"`
	SystemPromptFile        string `toml:"system_prompt_file,omitempty" yaml:"system_prompt_file,omitempty"`
}

type CatalogueConfig struct {
	// BaseURL of the voice catalogue service. Takes precedence over StaticFile.
	BaseURL string `toml:"base_url" yaml:"base_url"`
	// StaticFile is a JSON array of voices used when no service is configured.
	StaticFile     string `toml:"static_file" yaml:"static_file"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

type Config struct {
	DataDirectory   string           `toml:"data_directory" yaml:"data_directory"`
	DefaultProvider string           `toml:"default_provider" yaml:"default_provider"`
	Storage         StorageConfig    `toml:"storage" yaml:"storage"`
	Agent           AgentConfig      `toml:"agent" yaml:"agent"`
	Catalogue       CatalogueConfig  `toml:"catalogue" yaml:"catalogue"`
	Providers       []ProviderConfig `toml:"providers" yaml:"providers"`

	// Debug is set from ADCRAFT_DEBUG, never from the file.
	Debug bool `toml:"-" yaml:"-"`
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("ADCRAFT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if p := os.Getenv("ADCRAFT_PROVIDER"); p != "" {
		c.DefaultProvider = p
	}
	if backend := os.Getenv("ADCRAFT_STORAGE"); backend != "" {
		c.Storage.Backend = backend
	}
	if n, err := strconv.Atoi(os.Getenv("ADCRAFT_MAX_ITERATIONS")); err == nil && n > 0 {
		c.Agent.MaxIterations = n
	}
	c.Debug = CheckDebug()
}

// fillDefaults restores zero values a partial config file left behind.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.DataDirectory == "" {
		c.DataDirectory = def.DataDirectory
	}
	if c.DefaultProvider == "" {
		c.DefaultProvider = def.DefaultProvider
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Agent.MaxIterations <= 0 {
		c.Agent.MaxIterations = def.Agent.MaxIterations
	}
	if c.Agent.GenerationMaxIterations <= 0 {
		c.Agent.GenerationMaxIterations = def.Agent.GenerationMaxIterations
	}
	if c.Catalogue.TimeoutSeconds <= 0 {
		c.Catalogue.TimeoutSeconds = def.Catalogue.TimeoutSeconds
	}
	if len(c.Providers) == 0 {
		c.Providers = def.Providers
	}
}

func CheckDebug() bool {
	debug := os.Getenv("ADCRAFT_DEBUG")
	return debug == "true" || debug == "1"
}

// Validate reports settings that would make every run fail.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "bolt":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Agent.ReasoningEffort {
	case "", "minimal", "low", "medium", "high":
	default:
		return fmt.Errorf("unknown reasoning effort %q", c.Agent.ReasoningEffort)
	}
	if c.FindProvider(c.DefaultProvider) == nil {
		return fmt.Errorf("default provider %q is not configured", c.DefaultProvider)
	}
	return nil
}

// Load reads the settings file at path (or the default location when path
// is empty), writing a commented default file on first run. Environment
// overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetSettingsFilePath()
	}
	path = ExpandPath(path)

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}
