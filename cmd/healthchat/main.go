// Command healthchat runs the health assistant.
//
// Subcommands:
//
//	serve    HTTP API and chat page
//	ask      interactive terminal chat
//	mcp      MCP server over stdio
//	version  print the version
//
// Configuration is read from a YAML file (--config, HEALTHCHAT_CONFIG,
// ./config.yaml or /etc/healthchat/config.yaml) with HEALTHCHAT_*
// environment overrides. GEMINI_API_KEY presets the provider credential.
package main

import (
	"github.com/alecthomas/kong"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Globals are flags shared by all subcommands.
type Globals struct {
	Config string `short:"c" type:"path" help:"Path to the YAML configuration file."`
	Debug  string `help:"Comma-separated debug categories (providers, engine, session, mcp, auth, transport, config, all)."`
}

type cli struct {
	Globals

	Serve   serveCmd   `cmd:"" help:"Serve the HTTP API and chat page."`
	Ask     askCmd     `cmd:"" help:"Chat with the assistant in the terminal."`
	MCP     mcpCmd     `cmd:"" name:"mcp" help:"Serve the assistant tools over MCP on stdio."`
	Version versionCmd `cmd:"" help:"Print the version."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("healthchat"),
		kong.Description("A conversational health information assistant backed by Google Gemini."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&c.Globals)
	ctx.FatalIfErrorf(err)
}
