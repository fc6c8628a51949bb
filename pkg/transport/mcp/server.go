package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rhuss/healthchat/pkg/debug"
	"github.com/rhuss/healthchat/pkg/engine"
	"github.com/rhuss/healthchat/pkg/observability"
)

// Tool names.
const (
	ToolAsk           = "ask_health_assistant"
	ToolSetCredential = "set_credential"
	ToolGetHistory    = "get_history"
	ToolClearHistory  = "clear_history"
)

// AskInput is the argument of ask_health_assistant.
type AskInput struct {
	Text string `json:"text" jsonschema:"the health question to ask"`
}

// CredentialInput is the argument of set_credential.
type CredentialInput struct {
	APIKey string `json:"api_key" jsonschema:"the Google Gemini API key"`
}

// Server is an MCP server bound to a single engine.
type Server struct {
	mu     sync.Mutex
	engine *engine.Engine
	server *mcp.Server
}

// NewServer creates an MCP server exposing the assistant tools over e.
func NewServer(e *engine.Engine, version string) *Server {
	s := &Server{
		engine: e,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "healthchat", Version: version},
			nil,
		),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolAsk,
		Description: "Ask the health assistant a question. Answers are general information, not medical advice.",
	}, s.ask)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSetCredential,
		Description: "Set the Google Gemini API key used for this conversation",
	}, s.setCredential)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolGetHistory,
		Description: "Return the retained conversation history as JSON",
	}, s.getHistory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolClearHistory,
		Description: "Forget the conversation history",
	}, s.clearHistory)

	return s
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}

// Run serves the tools over t until ctx is done or the peer disconnects.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.server.Run(ctx, t)
}

// NewHTTPHandler serves the tools over streamable HTTP. Every MCP session
// gets its own engine from factory.
func NewHTTPHandler(factory func() (*engine.Engine, error), version string) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		e, err := factory()
		if err != nil {
			slog.Error("failed to create engine for MCP session", "error", err.Error())
			return nil
		}
		debug.Log(debug.MCP, "MCP session started", "remote_addr", r.RemoteAddr)
		return NewServer(e, version).MCPServer()
	}, nil)
}

func (s *Server) ask(ctx context.Context, _ *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, struct{}, error) {
	if strings.TrimSpace(in.Text) == "" {
		return toolError(ToolAsk, "text must not be empty"), struct{}{}, nil
	}

	s.mu.Lock()
	reply, err := s.engine.Send(ctx, in.Text)
	s.mu.Unlock()

	if err != nil {
		debug.Log(debug.MCP, "exchange failed", "kind", engine.KindOf(err), "error", err)
		return toolError(ToolAsk, engine.FailSoftText(err)), struct{}{}, nil
	}
	return toolText(ToolAsk, reply.Text), struct{}{}, nil
}

func (s *Server) setCredential(_ context.Context, _ *mcp.CallToolRequest, in CredentialInput) (*mcp.CallToolResult, struct{}, error) {
	if strings.TrimSpace(in.APIKey) == "" {
		return toolError(ToolSetCredential, "api_key must not be empty"), struct{}{}, nil
	}

	s.mu.Lock()
	s.engine.SetCredential(in.APIKey)
	s.mu.Unlock()

	return toolText(ToolSetCredential, "API key set."), struct{}{}, nil
}

func (s *Server) getHistory(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, struct{}, error) {
	s.mu.Lock()
	msgs := s.engine.History()
	s.mu.Unlock()

	data, err := json.Marshal(msgs)
	if err != nil {
		return toolError(ToolGetHistory, "failed to encode history: "+err.Error()), struct{}{}, nil
	}
	return toolText(ToolGetHistory, string(data)), struct{}{}, nil
}

func (s *Server) clearHistory(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, struct{}, error) {
	s.mu.Lock()
	s.engine.ClearHistory()
	s.mu.Unlock()

	return toolText(ToolClearHistory, "History cleared."), struct{}{}, nil
}

func toolText(tool, text string) *mcp.CallToolResult {
	observability.MCPToolCallsTotal.WithLabelValues(tool, "success").Inc()
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(tool, text string) *mcp.CallToolResult {
	observability.MCPToolCallsTotal.WithLabelValues(tool, "error").Inc()
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
