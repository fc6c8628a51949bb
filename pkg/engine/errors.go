package engine

import (
	"errors"
	"strings"

	"github.com/rhuss/healthchat/pkg/provider"
)

// ErrorKind classifies orchestrator failures.
type ErrorKind string

const (
	// KindUnauthorized means no credential was set. No network call was made.
	KindUnauthorized ErrorKind = "unauthorized"

	// KindProviderError covers transport failures and non-2xx responses.
	KindProviderError ErrorKind = "provider_error"

	// KindEmptyResponse means a 2xx response carried no candidates.
	KindEmptyResponse ErrorKind = "empty_response"

	// KindMalformedCandidate means the first candidate had no text. It is
	// resolved with FallbackText and reported on the Reply, never returned
	// as an error.
	KindMalformedCandidate ErrorKind = "malformed_candidate"
)

// Error is the failure type returned by Engine.Send.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrUnauthorized  = &Error{Kind: KindUnauthorized}
	ErrProvider      = &Error{Kind: KindProviderError}
	ErrEmptyResponse = &Error{Kind: KindEmptyResponse}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the ErrorKind of err, or the empty string when err is not
// an orchestrator error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

const (
	msgNoCredential = "No API key provided. Please set your Google Gemini API key first."
	msgNoCandidates = "No response candidates returned from the API"
)

// providerFailure converts a GenerateContent error into an *Error.
// Responses from the API are prefixed with "API Error:"; a model that is
// not found or not supported gets a hint naming alternative models.
func (e *Engine) providerFailure(err error) *Error {
	var perr *provider.Error
	if !errors.As(err, &perr) {
		return &Error{Kind: KindProviderError, Message: err.Error(), Err: err}
	}
	if perr.StatusCode == 0 {
		return &Error{Kind: KindProviderError, Message: perr.Message, Err: err}
	}

	msg := "API Error: " + perr.Message
	if isModelUnavailable(perr.Message) {
		msg += ". Try using a different model like " + joinOr(e.cfg.suggestions(e.provider.Model()))
	}
	return &Error{Kind: KindProviderError, Message: msg, Err: err}
}

func isModelUnavailable(msg string) bool {
	return strings.Contains(msg, "not found") || strings.Contains(msg, "not supported")
}

// emptyResponse builds the error for a response without candidates,
// naming the block reason when the prompt was rejected.
func emptyResponse(resp *provider.Response) *Error {
	msg := msgNoCandidates
	if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		msg += " (prompt blocked: " + resp.PromptFeedback.BlockReason + ")"
	}
	return &Error{Kind: KindEmptyResponse, Message: msg}
}

// joinOr renders ["a", "b", "c"] as "a, b or c".
func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}
