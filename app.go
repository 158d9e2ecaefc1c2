package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"adcraft/agent"
	"adcraft/catalogue"
	"adcraft/config"
	"adcraft/provider"
	"adcraft/storage"
	"adcraft/tools"
)

// app holds everything a command needs. close releases it.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	store     *storage.Store
	catalogue catalogue.Catalogue
	closeLog  func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenStore(cfg.Storage.Backend, cfg.DataDir())
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	cat, err := newCatalogue(cfg.Catalogue)
	if err != nil {
		_ = store.Close()
		_ = closeLog()
		return nil, err
	}
	if cat == nil {
		logger.Warn("no voice catalogue configured, search_voices will fail", "component", "catalogue")
	}

	return &app{cfg: cfg, log: logger, store: store, catalogue: cat, closeLog: closeLog}, nil
}

func newCatalogue(cfg config.CatalogueConfig) (catalogue.Catalogue, error) {
	switch {
	case cfg.BaseURL != "":
		return catalogue.NewHTTPCatalogue(cfg.BaseURL, time.Duration(cfg.TimeoutSeconds)*time.Second)
	case cfg.StaticFile != "":
		return catalogue.LoadStatic(config.ExpandPath(cfg.StaticFile))
	}
	return nil, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("failed to close storage", "error", err)
	}
	_ = a.closeLog()
}

func (a *app) agent() *agent.Executor {
	registry := provider.InitializeProviders(a.cfg, a.log)
	return agent.New(registry, tools.Deps{
		Store:     a.store,
		Catalogue: a.catalogue,
		Logger:    a.log,
	}, agent.Settings{
		MaxIterations:           a.cfg.Agent.MaxIterations,
		GenerationMaxIterations: a.cfg.Agent.GenerationMaxIterations,
		ReasoningEffort:         a.cfg.Agent.ReasoningEffort,
	})
}

// systemPrompt returns the configured prompt file or the built-in prompt.
func (a *app) systemPrompt() (string, error) {
	path := a.cfg.Agent.SystemPromptFile
	if path == "" {
		return agent.DefaultSystemPrompt, nil
	}
	data, err := os.ReadFile(config.ExpandPath(path))
	if err != nil {
		return "", fmt.Errorf("failed to read system prompt: %w", err)
	}
	return string(data), nil
}

// signalContext is cancelled on interrupt; the run still saves its conversation.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
