package gemini

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rhuss/healthchat/pkg/provider"
)

// mapHTTPError converts an HTTP response with a non-2xx status code into a
// provider.Error. The error payload's message is used when present;
// otherwise the message is synthesized from the status code.
func mapHTTPError(resp *http.Response) *provider.Error {
	message := extractErrorMessage(resp.Body)
	if message == "" {
		message = fmt.Sprintf("API returned status %d", resp.StatusCode)
	}
	return &provider.Error{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

// mapNetworkError converts a network-level error (connection refused,
// timeout, DNS resolution failure) into a provider.Error. The request URL
// embedded in *url.Error carries the API key, so it is redacted.
func mapNetworkError(err error, apiKey string) *provider.Error {
	msg := err.Error()
	if apiKey != "" {
		msg = strings.ReplaceAll(msg, url.QueryEscape(apiKey), "REDACTED")
		msg = strings.ReplaceAll(msg, apiKey, "REDACTED")
	}
	return &provider.Error{
		Message: "connection error: " + msg,
		Err:     err,
	}
}

// extractErrorMessage tries to parse the body as a provider.ErrorResponse
// and returns the error message if found.
func extractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp provider.ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}

	return ""
}
