package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rhuss/healthchat/pkg/api"
	"github.com/rhuss/healthchat/pkg/auth"
	"github.com/rhuss/healthchat/pkg/engine"
	"github.com/rhuss/healthchat/pkg/session"
	"github.com/rhuss/healthchat/pkg/transport"
)

// Sessions is the session registry the adapter serves.
type Sessions interface {
	Create() (*session.Session, error)
	Get(id string) (*session.Session, error)
	Delete(id string) error
}

// TokenIssuer mints bearer tokens for new sessions.
type TokenIssuer interface {
	Issue(sessionID string) (string, time.Time, error)
}

// Adapter serves the chat API over HTTP.
type Adapter struct {
	sessions Sessions
	issuer   TokenIssuer
	inflight *transport.InFlightRegistry
	renderer *Renderer
	mux      *http.ServeMux
	config   Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
	Validation  api.ValidationConfig
	Info        api.Info

	// OnSessionEnd is called after a session is deleted through the API.
	OnSessionEnd func(sessionID string)
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 1 << 20, // 1 MB
		Validation:  api.DefaultValidationConfig(),
		Info:        DefaultInfo(engine.DefaultSuggestedModels[0]),
	}
}

// NewAdapter creates an HTTP adapter over the given session registry.
func NewAdapter(sessions Sessions, issuer TokenIssuer, cfg Config) *Adapter {
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}

	a := &Adapter{
		sessions: sessions,
		issuer:   issuer,
		inflight: transport.NewInFlightRegistry(),
		renderer: NewRenderer(),
		mux:      http.NewServeMux(),
		config:   cfg,
	}

	a.mux.HandleFunc("GET /{$}", a.handleIndex)
	a.mux.HandleFunc("GET /healthz", a.handleHealthz)
	a.mux.HandleFunc("GET /v1/info", a.handleInfo)

	a.mux.HandleFunc("POST /v1/sessions", a.handleCreateSession)
	a.mux.HandleFunc("DELETE /v1/session", a.handleDeleteSession)

	a.mux.HandleFunc("PUT /v1/session/credential", a.handleSetCredential)
	a.mux.HandleFunc("GET /v1/session/credential", a.handleGetCredential)

	a.mux.HandleFunc("POST /v1/session/messages", a.handleSendMessage)
	a.mux.HandleFunc("GET /v1/session/messages", a.handleGetHistory)
	a.mux.HandleFunc("DELETE /v1/session/messages", a.handleClearHistory)

	return a
}

// Handle mounts an additional handler, such as the metrics endpoint.
func (a *Adapter) Handle(pattern string, h http.Handler) {
	a.mux.Handle(pattern, h)
}

// Handler returns the http.Handler for this adapter.
func (a *Adapter) Handler() http.Handler {
	return a.mux
}

func (a *Adapter) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (a *Adapter) handleInfo(w http.ResponseWriter, _ *http.Request) {
	transport.WriteJSON(w, http.StatusOK, a.config.Info)
}

// handleCreateSession handles POST /v1/sessions.
func (a *Adapter) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess, err := a.sessions.Create()
	if err != nil {
		slog.Error("failed to create session", "error", err.Error())
		transport.WriteAPIError(w, api.NewServerError("failed to create session"))
		return
	}

	token, expiresAt, err := a.issuer.Issue(sess.ID())
	if err != nil {
		slog.Error("failed to issue session token", "session", sess.ID(), "error", err.Error())
		a.sessions.Delete(sess.ID())
		transport.WriteAPIError(w, api.NewServerError("failed to issue session token"))
		return
	}

	var hasCredential bool
	sess.Do(func(e *engine.Engine) error {
		hasCredential = e.HasCredential()
		return nil
	})

	transport.WriteJSON(w, http.StatusCreated, api.CreateSessionResponse{
		SessionID:     sess.ID(),
		Token:         token,
		ExpiresAt:     expiresAt,
		HasCredential: hasCredential,
	})
}

// handleDeleteSession handles DELETE /v1/session. A pending provider call
// of the session is cancelled.
func (a *Adapter) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := a.sessionID(w, r)
	if !ok {
		return
	}

	a.inflight.Cancel(id)
	if err := a.sessions.Delete(id); err != nil {
		a.writeSessionError(w, err)
		return
	}
	if a.config.OnSessionEnd != nil {
		a.config.OnSessionEnd(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetCredential handles PUT /v1/session/credential.
func (a *Adapter) handleSetCredential(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	var req api.CredentialRequest
	if !a.decode(w, r, &req) {
		return
	}
	if apiErr := api.ValidateCredential(&req); apiErr != nil {
		transport.WriteAPIError(w, apiErr)
		return
	}

	err := sess.Do(func(e *engine.Engine) error {
		e.SetCredential(req.APIKey)
		return nil
	})
	if err != nil {
		a.writeSessionError(w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, api.CredentialStatus{HasCredential: true})
}

// handleGetCredential handles GET /v1/session/credential.
func (a *Adapter) handleGetCredential(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	var status api.CredentialStatus
	err := sess.Do(func(e *engine.Engine) error {
		status.HasCredential = e.HasCredential()
		return nil
	})
	if err != nil {
		a.writeSessionError(w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, status)
}

// handleSendMessage handles POST /v1/session/messages. Exchange failures
// are reported in the body with status 200, the reply carrying the text
// to show in place of an answer.
func (a *Adapter) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	var req api.SendMessageRequest
	if !a.decode(w, r, &req) {
		return
	}
	if apiErr := api.ValidateSendMessage(&req, a.config.Validation); apiErr != nil {
		transport.WriteAPIError(w, apiErr)
		return
	}

	var resp api.SendMessageResponse
	err := sess.Do(func(e *engine.Engine) error {
		ctx, release := a.inflight.Track(r.Context(), sess.ID())
		defer release()

		reply, err := e.Send(ctx, req.Text)
		if err != nil {
			resp.Reply = engine.FailSoftText(err)
			resp.ErrorKind = string(engine.KindOf(err))
			resp.Error = err.Error()
			return nil
		}

		resp.Reply = reply.Text
		resp.OK = true
		resp.FinishReason = reply.FinishReason
		if reply.Malformed {
			resp.ErrorKind = string(engine.KindMalformedCandidate)
		}
		return nil
	})
	if err != nil {
		a.writeSessionError(w, err)
		return
	}

	resp.HTML = a.renderer.Render(resp.Reply)
	transport.WriteJSON(w, http.StatusOK, resp)
}

// handleGetHistory handles GET /v1/session/messages.
func (a *Adapter) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	resp := api.HistoryResponse{Object: "list"}
	err := sess.Do(func(e *engine.Engine) error {
		resp.Data = e.History()
		resp.Window = e.Window()
		return nil
	})
	if err != nil {
		a.writeSessionError(w, err)
		return
	}
	if resp.Data == nil {
		resp.Data = []api.Message{}
	}
	transport.WriteJSON(w, http.StatusOK, resp)
}

// handleClearHistory handles DELETE /v1/session/messages.
func (a *Adapter) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(w, r)
	if !ok {
		return
	}

	err := sess.Do(func(e *engine.Engine) error {
		e.ClearHistory()
		return nil
	})
	if err != nil {
		a.writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionID returns the session bound to the request's identity.
func (a *Adapter) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := auth.IdentityFromContext(r.Context()).SessionID()
	if !api.ValidateSessionID(id) {
		transport.WriteAPIError(w, api.NewUnauthorizedError("a valid session token is required"))
		return "", false
	}
	return id, true
}

func (a *Adapter) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, ok := a.sessionID(w, r)
	if !ok {
		return nil, false
	}
	sess, err := a.sessions.Get(id)
	if err != nil {
		a.writeSessionError(w, err)
		return nil, false
	}
	return sess, true
}

// decode reads a JSON body into v, writing the error response on failure.
func (a *Adapter) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, "application/json") {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("content_type", "Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return false
		}
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return false
	}
	return true
}

func (a *Adapter) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNotFound) {
		transport.WriteAPIError(w, api.NewNotFoundError("session not found or expired"))
		return
	}
	slog.Error("session operation failed", "error", err.Error())
	transport.WriteAPIError(w, api.NewServerError("internal error"))
}
