package provider

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"adcraft/config"
	"adcraft/model"
	"adcraft/provider/testutil"
)

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry(map[string]model.Provider{
		"qwen":   testutil.NewMockProvider("qwen"),
		"openai": testutil.NewMockProvider("openai"),
	}, "openai")

	p, err := reg.Get("")
	if err != nil || p.Name() != "openai" {
		t.Fatalf("default lookup: got %v, %v", p, err)
	}

	p, err = reg.Get("qwen")
	if err != nil || p.Name() != "qwen" {
		t.Fatalf("named lookup: got %v, %v", p, err)
	}

	_, err = reg.Get("moonshot")
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}

	if names := reg.Names(); len(names) != 2 || names[0] != "openai" {
		t.Errorf("Names() = %v", names)
	}
}

func TestInitializeProvidersSkipsMissingKeys(t *testing.T) {
	t.Setenv("TEST_MOONSHOT_KEY", "sk-test")

	cfg := config.DefaultConfig()
	cfg.DefaultProvider = "moonshot"
	cfg.Providers = []config.ProviderConfig{
		{ID: "moonshot", APIKeyEnv: "TEST_MOONSHOT_KEY", Enabled: true},
		{ID: "openai", APIKeyEnv: "TEST_UNSET_OPENAI_KEY", Enabled: true},
		{ID: "qwen", APIKeyEnv: "TEST_MOONSHOT_KEY", Enabled: false},
	}

	reg := InitializeProviders(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	names := reg.Names()
	if len(names) != 1 || names[0] != "moonshot" {
		t.Fatalf("Names() = %v, want [moonshot]", names)
	}
	if reg.Default() != "moonshot" {
		t.Errorf("Default() = %q", reg.Default())
	}
}
