package api

import (
	"fmt"
	"strings"
)

// ValidationConfig holds configurable limits for request validation.
type ValidationConfig struct {
	MaxMessageSize int
}

// DefaultValidationConfig returns a ValidationConfig with sensible defaults.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxMessageSize: 32 * 1024, // 32KB
	}
}

// ValidateSendMessage checks a SendMessageRequest. It returns an *APIError
// describing the first validation failure, or nil if the request is valid.
func ValidateSendMessage(req *SendMessageRequest, cfg ValidationConfig) *APIError {
	if strings.TrimSpace(req.Text) == "" {
		return NewInvalidRequestError("text", "text must not be empty")
	}

	if cfg.MaxMessageSize > 0 && len(req.Text) > cfg.MaxMessageSize {
		return NewInvalidRequestError("text",
			fmt.Sprintf("text exceeds maximum size of %d bytes", cfg.MaxMessageSize))
	}

	return nil
}

// ValidateCredential checks a CredentialRequest. Only presence is checked;
// the provider validates the key itself on first use.
func ValidateCredential(req *CredentialRequest) *APIError {
	if strings.TrimSpace(req.APIKey) == "" {
		return NewInvalidRequestError("api_key", "api_key must not be empty")
	}
	return nil
}
