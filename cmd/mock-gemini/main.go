// Command mock-gemini runs a deterministic generateContent server for
// local development and integration testing. Replies are chosen from the
// last user turn:
//
//	contains "block"  prompt blocked, no candidates
//	contains "empty"  one candidate without content
//	otherwise         a canned reply keyed on the topic
//
// Requests without a key get 400 and unknown models get 404.
//
// Configuration:
//
//	MOCK_PORT   - Listen port (default: 9090)
//	MOCK_MODELS - Comma-separated known models (default: gemini-1.5-flash,gemini-1.0-pro)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rhuss/healthchat/pkg/provider"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}
	models := os.Getenv("MOCK_MODELS")
	if models == "" {
		models = "gemini-1.5-flash,gemini-1.0-pro"
	}

	srv := &http.Server{Addr: ":" + port, Handler: newMux(strings.Split(models, ","))}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock gemini starting", "port", port, "models", models)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock gemini failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock gemini shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func newMux(models []string) *http.ServeMux {
	known := make(map[string]bool, len(models))
	for _, m := range models {
		known[strings.TrimSpace(m)] = true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /{version}/models/{call}", func(w http.ResponseWriter, r *http.Request) {
		handleGenerate(w, r, known)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}

func handleGenerate(w http.ResponseWriter, r *http.Request, known map[string]bool) {
	model, method, ok := strings.Cut(r.PathValue("call"), ":")
	if !ok || method != "generateContent" {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown method")
		return
	}
	if r.URL.Query().Get("key") == "" {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT",
			"API key not valid. Please pass a valid API key.")
		return
	}
	if !known[model] {
		writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf(
			"models/%s is not found for API version %s, or is not supported for generateContent",
			model, r.PathValue("version")))
		return
	}

	var req provider.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid JSON payload: "+err.Error())
		return
	}
	if len(req.Contents) == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "contents is not specified")
		return
	}

	resp := respond(lastText(&req))
	resp.ModelVersion = model

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func lastText(req *provider.Request) string {
	last := req.Contents[len(req.Contents)-1]
	var parts []string
	for _, p := range last.Parts {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, " ")
}

// topics maps a keyword in the question to a canned reply.
var topics = []struct {
	keyword string
	reply   string
}{
	{"headache", "Common remedies for a mild headache include **rest**, hydration and a quiet, dark room.\n\n- Drink water\n- Limit screen time\n\nSee a doctor if the headache is sudden, severe or persistent."},
	{"sleep", "Adults generally need 7 to 9 hours of sleep. Keep a regular schedule and avoid screens before bed."},
	{"water", "A common guideline is about 8 cups of water a day, but needs vary with activity, climate and health."},
	{"flu", "Flu symptoms often include fever, cough, sore throat, body aches and fatigue. Consult a healthcare provider if symptoms are severe."},
}

func respond(text string) *provider.Response {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "block"):
		return &provider.Response{
			PromptFeedback: &provider.PromptFeedback{BlockReason: "SAFETY"},
		}
	case strings.Contains(lower, "empty"):
		return &provider.Response{
			Candidates: []provider.Candidate{{FinishReason: "SAFETY"}},
		}
	}

	reply := "I can share general health information about that. Please consult a healthcare professional for advice specific to you."
	for _, t := range topics {
		if strings.Contains(lower, t.keyword) {
			reply = t.reply
			break
		}
	}

	promptTokens := len(strings.Fields(text))
	replyTokens := len(strings.Fields(reply))
	return &provider.Response{
		Candidates: []provider.Candidate{{
			Content:      &provider.Content{Parts: []provider.Part{{Text: reply}}, Role: provider.RoleModel},
			FinishReason: "STOP",
		}},
		UsageMetadata: &provider.UsageMetadata{
			PromptTokenCount:     promptTokens,
			CandidatesTokenCount: replyTokens,
			TotalTokenCount:      promptTokens + replyTokens,
		},
	}
}

func writeError(w http.ResponseWriter, code int, status, msg string) {
	var body provider.ErrorResponse
	body.Error.Code = code
	body.Error.Message = msg
	body.Error.Status = status

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
