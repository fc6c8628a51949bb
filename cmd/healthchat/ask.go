package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rhuss/healthchat/pkg/engine"
)

type askCmd struct {
	APIKey   string `name:"api-key" env:"GEMINI_API_KEY" help:"Google Gemini API key."`
	Question string `arg:"" optional:"" help:"Ask a single question and exit."`
}

func (c *askCmd) Run(g *Globals) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if c.Question != "" {
		fmt.Fprintln(os.Stdout, e.SendMessage(ctx, c.Question))
		return nil
	}
	return repl(ctx, e, os.Stdin, os.Stdout)
}

const replHelp = `Commands:
  /key <api-key>  set the Gemini API key
  /history        show the retained conversation
  /clear          forget the conversation
  /quit           exit`

// repl reads questions from in until EOF or /quit and prints each reply.
func repl(ctx context.Context, e *engine.Engine, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Health Assistant. General information only, not medical advice.")
	fmt.Fprintln(out, "Type /help for commands.")
	if !e.HasCredential() {
		fmt.Fprintln(out, "No API key set. Use /key <api-key> or set GEMINI_API_KEY.")
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			cmd, arg, _ := strings.Cut(line, " ")
			switch cmd {
			case "/quit", "/exit":
				return nil
			case "/help":
				fmt.Fprintln(out, replHelp)
			case "/clear":
				e.ClearHistory()
				fmt.Fprintln(out, "History cleared.")
			case "/history":
				printHistory(e, out)
			case "/key":
				if key := strings.TrimSpace(arg); key != "" {
					e.SetCredential(key)
					fmt.Fprintln(out, "API key set.")
				} else {
					fmt.Fprintln(out, "Usage: /key <api-key>")
				}
			default:
				fmt.Fprintf(out, "Unknown command %s. Type /help for commands.\n", cmd)
			}
			continue
		}

		fmt.Fprintln(out, e.SendMessage(ctx, line))
		if ctx.Err() != nil {
			return nil
		}
	}
}

func printHistory(e *engine.Engine, out io.Writer) {
	msgs := e.History()
	if len(msgs) == 0 {
		fmt.Fprintln(out, "(no history)")
		return
	}
	for _, m := range msgs {
		fmt.Fprintf(out, "[%s] %s: %s\n", m.Timestamp.Format("15:04:05"), m.Role, m.Content)
	}
}
