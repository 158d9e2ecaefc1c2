package provider

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"adcraft/config"
	"adcraft/model"
)

// ErrUnknownProvider is returned for provider names that are not registered.
var ErrUnknownProvider = errors.New("unknown provider")

// Registry maps provider names to constructed providers. It is built once at
// startup and passed to the agent explicitly.
type Registry struct {
	providers   map[string]model.Provider
	defaultName string
}

// NewRegistry wraps an existing provider map.
func NewRegistry(providers map[string]model.Provider, defaultName string) *Registry {
	if providers == nil {
		providers = map[string]model.Provider{}
	}
	return &Registry{providers: providers, defaultName: defaultName}
}

// Get returns the named provider; an empty name selects the default.
func (r *Registry) Get(name string) (model.Provider, error) {
	if name == "" {
		name = r.defaultName
	}
	p, ok := r.providers[name]
	if !ok || p == nil {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownProvider, name, r.Names())
	}
	return p, nil
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the name used when a run does not pick a provider.
func (r *Registry) Default() string {
	return r.defaultName
}

// InitializeProviders creates every enabled provider from the configuration.
//
// Providers that fail to construct (typically a missing API key) are logged
// and skipped so the remaining backends stay usable.
func InitializeProviders(cfg *config.Config, logger *slog.Logger) *Registry {
	providers := make(map[string]model.Provider)

	for _, providerCfg := range cfg.EnabledProviders() {
		p, err := NewProvider(Config{
			ID:      providerCfg.ID,
			Type:    MapProviderIDToType(providerCfg.ID),
			BaseURL: providerCfg.BaseURL,
			Model:   providerCfg.Model,
			APIKey:  providerCfg.APIKey(),
		})
		if err != nil {
			logger.Warn("provider not initialized", "component", "provider", "provider", providerCfg.ID, "error", err)
			continue
		}

		providers[providerCfg.ID] = p
		logger.Debug("provider initialized", "component", "provider", "provider", providerCfg.ID, "model", p.GetModel())
	}

	return NewRegistry(providers, cfg.DefaultProvider)
}
