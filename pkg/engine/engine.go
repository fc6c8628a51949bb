package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/rhuss/healthchat/pkg/api"
	"github.com/rhuss/healthchat/pkg/debug"
	"github.com/rhuss/healthchat/pkg/observability"
	"github.com/rhuss/healthchat/pkg/provider"
)

// Engine orchestrates one conversation with the completion provider.
type Engine struct {
	provider   provider.Provider
	cfg        Config
	credential string
	history    *history
}

// Reply is the successful result of Send.
type Reply struct {
	// Text is the assistant reply, or FallbackText when Malformed.
	Text string

	// Malformed is set when the first candidate carried no text.
	Malformed bool

	// FinishReason is the provider's finish reason for the first candidate.
	FinishReason string

	// Usage holds the token counts reported by the provider, if any.
	Usage *provider.UsageMetadata
}

// New creates an Engine with an empty history and no credential.
// The provider must not be nil.
func New(p provider.Provider, cfg Config) (*Engine, error) {
	if p == nil {
		return nil, errors.New("engine: provider must not be nil")
	}
	return &Engine{
		provider: p,
		cfg:      cfg,
		history:  newHistory(cfg.window()),
	}, nil
}

// SetCredential stores the provider credential verbatim. It is checked
// for presence when a message is sent, not here.
func (e *Engine) SetCredential(token string) {
	e.credential = token
}

// HasCredential reports whether a non-blank credential is stored.
func (e *Engine) HasCredential() bool {
	return strings.TrimSpace(e.credential) != ""
}

// Model returns the model identifier requests are sent to.
func (e *Engine) Model() string {
	return e.provider.Model()
}

// Window returns the maximum number of messages kept in history.
func (e *Engine) Window() int {
	return e.history.window
}

// AppendToHistory adds msg at the tail of the history, evicting the
// oldest messages once the window is exceeded.
func (e *Engine) AppendToHistory(msg api.Message) {
	if n := e.history.append(msg); n > 0 {
		observability.HistoryEvictionsTotal.Add(float64(n))
		debug.Log(debug.Engine, "history evicted", "count", n, "window", e.history.window)
	}
}

// History returns a copy of the retained messages, oldest first.
func (e *Engine) History() []api.Message {
	return e.history.snapshot()
}

// ClearHistory discards all retained messages.
func (e *Engine) ClearHistory() {
	e.history.clear()
}

// Send performs one exchange. The user message is recorded before the
// provider is called, so a failed exchange leaves exactly one new
// message in history and a successful one leaves two.
//
// Errors are *Error values. A missing candidate text is not an error:
// the reply carries FallbackText and Malformed is set.
func (e *Engine) Send(ctx context.Context, text string) (*Reply, error) {
	if !e.HasCredential() {
		observability.ExchangesTotal.WithLabelValues(string(KindUnauthorized)).Inc()
		return nil, &Error{Kind: KindUnauthorized, Message: msgNoCredential}
	}

	// The envelope is built before the user turn is recorded so the new
	// text is sent once, as the final turn.
	req := buildRequest(e.history.messages, text, e.credential)
	e.AppendToHistory(api.NewMessage(api.RoleUser, text, e.cfg.now()))

	provName := e.provider.Name()
	model := e.provider.Model()
	debug.Log(debug.Engine, "sending message",
		"provider", provName, "model", model,
		"turns", len(req.Contents), "history", e.history.len())

	start := time.Now()
	resp, err := e.provider.GenerateContent(ctx, req)
	duration := time.Since(start)
	observability.ProviderLatency.WithLabelValues(provName, model).Observe(duration.Seconds())

	if err != nil {
		observability.ProviderRequestsTotal.WithLabelValues(provName, model, "error").Inc()
		observability.ExchangesTotal.WithLabelValues(string(KindProviderError)).Inc()
		slog.Warn("provider call failed",
			"provider", provName,
			"model", model,
			"duration", duration,
			"error", err.Error(),
		)
		return nil, e.providerFailure(err)
	}

	observability.ProviderRequestsTotal.WithLabelValues(provName, model, "success").Inc()
	if u := resp.UsageMetadata; u != nil {
		observability.ProviderTokensTotal.WithLabelValues(provName, model, "input").Add(float64(u.PromptTokenCount))
		observability.ProviderTokensTotal.WithLabelValues(provName, model, "output").Add(float64(u.CandidatesTokenCount))
	}

	result := provider.ParseCandidate(resp)
	reply := &Reply{
		FinishReason: result.FinishReason,
		Usage:        resp.UsageMetadata,
	}

	switch result.Status {
	case provider.CandidateNone:
		observability.ExchangesTotal.WithLabelValues(string(KindEmptyResponse)).Inc()
		return nil, emptyResponse(resp)
	case provider.CandidateMalformed:
		observability.ExchangesTotal.WithLabelValues(string(KindMalformedCandidate)).Inc()
		debug.Log(debug.Engine, "candidate without text", "finish_reason", result.FinishReason)
		reply.Text = FallbackText
		reply.Malformed = true
	default:
		observability.ExchangesTotal.WithLabelValues("success").Inc()
		reply.Text = result.Text
	}

	e.AppendToHistory(api.NewMessage(api.RoleAssistant, reply.Text, e.cfg.now()))
	debug.Log(debug.Engine, "exchange complete",
		"duration", duration, "finish_reason", reply.FinishReason, "history", e.history.len())
	return reply, nil
}

// SendMessage is Send with failures rendered as the reply text. It never
// fails and always returns a non-empty string.
func (e *Engine) SendMessage(ctx context.Context, text string) string {
	reply, err := e.Send(ctx, text)
	if err != nil {
		return FailSoftText(err)
	}
	return reply.Text
}
