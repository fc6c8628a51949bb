package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rhuss/healthchat/pkg/auth"
	"github.com/rhuss/healthchat/pkg/auth/jwt"
	"github.com/rhuss/healthchat/pkg/config"
	"github.com/rhuss/healthchat/pkg/provider/gemini"
	"github.com/rhuss/healthchat/pkg/session"
	transporthttp "github.com/rhuss/healthchat/pkg/transport/http"
	transportmcp "github.com/rhuss/healthchat/pkg/transport/mcp"
)

type serveCmd struct {
	Port int `short:"p" help:"Listen port (overrides server.port)."`
}

func (c *serveCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g, os.Stderr)
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg)
}

func serve(ctx context.Context, cfg *config.Config) error {
	prov, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer prov.Close()

	factory := engineFactory(cfg, prov)
	store := session.NewStore(factory, session.Options{
		MaxSessions:       cfg.Sessions.MaxSessions,
		IdleTTL:           cfg.Sessions.IdleTTL,
		DefaultCredential: cfg.Engine.APIKey,
	})

	secret, err := sessionSecret(cfg)
	if err != nil {
		return err
	}
	tokens, err := jwt.New(jwt.Config{Secret: secret, TTL: cfg.Sessions.TokenTTL})
	if err != nil {
		return fmt.Errorf("creating token authenticator: %w", err)
	}
	limiter := auth.NewSubjectLimiter(cfg.Sessions.RateLimitRPM)

	adapterCfg := transporthttp.DefaultConfig()
	adapterCfg.MaxBodySize = cfg.Server.MaxBodySize
	adapterCfg.Validation.MaxMessageSize = cfg.Engine.MaxMessageSize
	adapterCfg.Info = transporthttp.DefaultInfo(cfg.Engine.Model)
	adapterCfg.OnSessionEnd = limiter.Forget
	adapter := transporthttp.NewAdapter(store, tokens, adapterCfg)

	bypass := append([]string(nil), auth.DefaultBypassEndpoints...)
	if cfg.MCP.Enabled {
		adapter.Handle(cfg.MCP.Path, newMCPHandler(cfg, prov))
		bypass = append(bypass, cfg.MCP.Path)
		slog.Info("MCP endpoint enabled", "path", cfg.MCP.Path)
	}

	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(":" + strconv.Itoa(cfg.Server.Port)),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithLogger(slog.Default()),
	}
	if cfg.Observability.Metrics.Enabled {
		opts = append(opts, transporthttp.WithMetrics(cfg.Observability.Metrics.Path))
		bypass = append(bypass, cfg.Observability.Metrics.Path)
	}
	chain := &auth.AuthChain{
		Authenticators:  []auth.Authenticator{tokens},
		DefaultDecision: auth.No,
	}
	opts = append(opts, transporthttp.WithAuth(chain, limiter, bypass))

	srv := transporthttp.NewServer(adapter, opts...)

	slog.Info("starting healthchat",
		"version", version,
		"port", cfg.Server.Port,
		"model", cfg.Engine.Model,
		"max_sessions", cfg.Sessions.MaxSessions,
		"idle_ttl", cfg.Sessions.IdleTTL,
		"default_credential", cfg.Engine.APIKey != "",
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		return store.Run(ctx, cfg.Sessions.SweepInterval)
	})
	return g.Wait()
}

// newMCPHandler serves the MCP tools over streamable HTTP. Each MCP
// session gets its own engine with the configured credential preset,
// matching what the session store does for HTTP sessions.
func newMCPHandler(cfg *config.Config, prov *gemini.Provider) http.Handler {
	return transportmcp.NewHTTPHandler(presetFactory(cfg, prov), version)
}
