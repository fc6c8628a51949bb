package api

import "time"

// ---------------------------------------------------------------------------
// Conversation
// ---------------------------------------------------------------------------

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation. Messages are created by the
// orchestrator and never modified afterwards.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a fresh ID.
func NewMessage(role Role, content string, at time.Time) Message {
	return Message{
		ID:        NewMessageID(),
		Content:   content,
		Role:      role,
		Timestamp: at,
	}
}

// ---------------------------------------------------------------------------
// HTTP request and response bodies
// ---------------------------------------------------------------------------

// CreateSessionResponse is returned by POST /v1/sessions. The token must be
// sent as a bearer credential on every session-scoped request.
type CreateSessionResponse struct {
	SessionID     string    `json:"session_id"`
	Token         string    `json:"token"`
	ExpiresAt     time.Time `json:"expires_at"`
	HasCredential bool      `json:"has_credential"`
}

// CredentialRequest is the body of PUT /v1/session/credential.
type CredentialRequest struct {
	APIKey string `json:"api_key"`
}

// CredentialStatus reports whether a provider credential is set.
type CredentialStatus struct {
	HasCredential bool `json:"has_credential"`
}

// SendMessageRequest is the body of POST /v1/session/messages.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessageResponse carries the reply to one chat message. Reply is
// always populated, including when the exchange failed; OK distinguishes
// the two cases and ErrorKind names the failure.
type SendMessageResponse struct {
	Reply        string `json:"reply"`
	HTML         string `json:"html,omitempty"`
	OK           bool   `json:"ok"`
	ErrorKind    string `json:"error_kind,omitempty"`
	Error        string `json:"error,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// HistoryResponse is the body of GET /v1/session/messages.
type HistoryResponse struct {
	Object string    `json:"object"`
	Data   []Message `json:"data"`
	Window int       `json:"window"`
}

// ---------------------------------------------------------------------------
// Static assistant information
// ---------------------------------------------------------------------------

// Resource is an external reference link.
type Resource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Info is the static content shown alongside the chat: the medical
// disclaimer, what the assistant can and cannot do, safety guidance,
// trusted resources, and example prompts.
type Info struct {
	Name           string     `json:"name"`
	Model          string     `json:"model"`
	Disclaimer     string     `json:"disclaimer"`
	About          []string   `json:"about"`
	SafetyTips     []string   `json:"safety_tips"`
	Resources      []Resource `json:"resources"`
	ExamplePrompts []string   `json:"example_prompts"`
	APIKeyURL      string     `json:"api_key_url"`
}
