package provider

import "context"

// Provider calls a completion backend for one model resource.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Provider interface {
	// Name returns the provider identifier (e.g., "gemini").
	Name() string

	// Model returns the model identifier requests are sent to.
	Model() string

	// GenerateContent performs one non-streaming completion call.
	// Transport failures and non-2xx responses are returned as *Error.
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	// Close releases provider resources (idle HTTP connections).
	Close() error
}
