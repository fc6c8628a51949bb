package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	"github.com/rhuss/healthchat/pkg/config"
	"github.com/rhuss/healthchat/pkg/debug"
	"github.com/rhuss/healthchat/pkg/engine"
	"github.com/rhuss/healthchat/pkg/provider/gemini"
	"github.com/rhuss/healthchat/pkg/session"
)

// loadConfig loads the configuration and installs the default logger.
// Log output goes to logOut.
func loadConfig(g *Globals, logOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	categories := cfg.Logging.Debug
	if g.Debug != "" {
		categories = g.Debug
	}
	debug.Init(categories, cfg.Logging.Level, logOut)

	debug.Log(debug.Config, "configuration loaded",
		"model", cfg.Engine.Model,
		"history_window", cfg.Engine.HistoryWindow,
		"api_key", debug.Redact(cfg.Engine.APIKey),
	)
	return cfg, nil
}

// newProvider creates the Gemini provider described by cfg.
func newProvider(cfg *config.Config) (*gemini.Provider, error) {
	prov, err := gemini.New(gemini.Config{
		BaseURL:    cfg.Engine.BaseURL,
		APIVersion: cfg.Engine.APIVersion,
		Model:      cfg.Engine.Model,
		Timeout:    cfg.Engine.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}
	return prov, nil
}

// engineFactory returns a factory of engines sharing prov.
func engineFactory(cfg *config.Config, prov *gemini.Provider) session.Factory {
	return func() (*engine.Engine, error) {
		return engine.New(prov, engine.Config{
			HistoryWindow:   cfg.Engine.HistoryWindow,
			SuggestedModels: cfg.Engine.SuggestedModels,
		})
	}
}

// presetFactory returns an engine factory that presets the configured
// credential into every engine it creates.
func presetFactory(cfg *config.Config, prov *gemini.Provider) session.Factory {
	factory := engineFactory(cfg, prov)
	return func() (*engine.Engine, error) {
		e, err := factory()
		if err != nil {
			return nil, err
		}
		if cfg.Engine.APIKey != "" {
			e.SetCredential(cfg.Engine.APIKey)
		}
		return e, nil
	}
}

// newEngine creates a single engine with the configured credential preset.
func newEngine(cfg *config.Config, prov *gemini.Provider) (*engine.Engine, error) {
	return presetFactory(cfg, prov)()
}

// sessionSecret returns the token signing key. Without a configured
// secret a random one is generated, so tokens do not survive a restart.
func sessionSecret(cfg *config.Config) ([]byte, error) {
	if cfg.Sessions.Secret != "" {
		return []byte(cfg.Sessions.Secret), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generating session secret: %w", err)
	}
	slog.Warn("no session secret configured, using a random one; tokens will not survive a restart")
	return secret, nil
}
