package api

import (
	"strings"
	"testing"
)

func TestValidateSendMessage(t *testing.T) {
	cfg := ValidationConfig{MaxMessageSize: 16}

	tests := []struct {
		name      string
		text      string
		wantParam string
	}{
		{"valid", "hello", ""},
		{"empty", "", "text"},
		{"whitespace only", "  \n\t ", "text"},
		{"too large", strings.Repeat("a", 17), "text"},
		{"at limit", strings.Repeat("a", 16), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSendMessage(&SendMessageRequest{Text: tt.text}, cfg)
			if tt.wantParam == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if err.Param != tt.wantParam {
				t.Errorf("Param = %q, want %q", err.Param, tt.wantParam)
			}
		})
	}
}

func TestValidateSendMessage_NoLimit(t *testing.T) {
	if err := ValidateSendMessage(&SendMessageRequest{Text: strings.Repeat("a", 1<<20)}, ValidationConfig{}); err != nil {
		t.Errorf("unexpected error with no size limit: %v", err)
	}
}

func TestValidateCredential(t *testing.T) {
	if err := ValidateCredential(&CredentialRequest{APIKey: "AIza-test"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := ValidateCredential(&CredentialRequest{APIKey: "   "})
	if err == nil {
		t.Fatal("expected error for blank key")
	}
	if err.Param != "api_key" {
		t.Errorf("Param = %q, want %q", err.Param, "api_key")
	}
}
