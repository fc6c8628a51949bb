package gemini

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "payload message",
			status:      http.StatusNotFound,
			body:        `{"error":{"code":404,"message":"model not found","status":"NOT_FOUND"}}`,
			wantMessage: "model not found",
		},
		{
			name:        "empty body",
			status:      http.StatusBadGateway,
			body:        "",
			wantMessage: "API returned status 502",
		},
		{
			name:        "non-JSON body",
			status:      http.StatusInternalServerError,
			body:        "<html>oops</html>",
			wantMessage: "API returned status 500",
		},
		{
			name:        "JSON without message",
			status:      http.StatusForbidden,
			body:        `{"error":{"code":403}}`,
			wantMessage: "API returned status 403",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				StatusCode: tt.status,
				Body:       io.NopCloser(strings.NewReader(tt.body)),
			}
			got := mapHTTPError(resp)
			if got.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", got.StatusCode, tt.status)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestMapNetworkError_RedactsKey(t *testing.T) {
	cause := &url.Error{
		Op:  "Post",
		URL: "http://127.0.0.1:1/v1beta/models/m:generateContent?key=AIza%2Fsecret",
		Err: errors.New("connection refused"),
	}

	got := mapNetworkError(cause, "AIza/secret")

	if strings.Contains(got.Message, "secret") {
		t.Errorf("message leaks the API key: %q", got.Message)
	}
	if !strings.Contains(got.Message, "connection refused") {
		t.Errorf("message %q missing cause", got.Message)
	}
	if got.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", got.StatusCode)
	}
	if !errors.Is(got, cause.Err) {
		t.Error("expected errors.Is to reach the underlying cause")
	}
}

func TestExtractErrorMessage_NilBody(t *testing.T) {
	if got := extractErrorMessage(nil); got != "" {
		t.Errorf("extractErrorMessage(nil) = %q, want empty", got)
	}
}
