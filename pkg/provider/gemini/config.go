package gemini

import (
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the public Generative Language API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	// DefaultAPIVersion is the API version path segment.
	DefaultAPIVersion = "v1beta"

	// DefaultModel is the model resource requests are sent to.
	DefaultModel = "gemini-1.5-flash"
)

// Config holds configuration for the Gemini provider adapter.
type Config struct {
	// BaseURL is the API host (e.g., "https://generativelanguage.googleapis.com").
	BaseURL string

	// APIVersion is the version path segment. Defaults to "v1beta".
	APIVersion string

	// Model is the model identifier. Defaults to "gemini-1.5-flash".
	Model string

	// Timeout for individual HTTP requests. Defaults to 60s.
	Timeout time.Duration

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	// When set, Timeout is ignored.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		APIVersion: DefaultAPIVersion,
		Model:      DefaultModel,
		Timeout:    60 * time.Second,
	}
}
