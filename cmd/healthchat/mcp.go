package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	transportmcp "github.com/rhuss/healthchat/pkg/transport/mcp"
)

type mcpCmd struct {
	APIKey string `name:"api-key" env:"GEMINI_API_KEY" help:"Google Gemini API key."`
}

// Run serves the tools on stdin/stdout. Logs go to stderr so they do not
// corrupt the protocol stream.
func (c *mcpCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g, os.Stderr)
	if err != nil {
		return err
	}
	if c.APIKey != "" {
		cfg.Engine.APIKey = c.APIKey
	}

	prov, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer prov.Close()

	e, err := newEngine(cfg, prov)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return transportmcp.NewServer(e, version).Run(ctx, &mcp.StdioTransport{})
}

type versionCmd struct{}

func (versionCmd) Run() error {
	fmt.Println("healthchat", version)
	return nil
}
