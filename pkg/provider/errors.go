package provider

import "fmt"

// Error is returned by GenerateContent for transport failures and non-2xx
// responses. StatusCode is zero when no HTTP response was received.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return "provider error: " + e.Message
}

// Unwrap returns the underlying transport error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}
