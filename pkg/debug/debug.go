// Package debug provides category-based debug logging for healthchat.
//
// Two orthogonal controls:
//   - Categories (WHAT to debug): HEALTHCHAT_DEBUG env or logging.debug config
//   - Levels (HOW MUCH detail): HEALTHCHAT_LOG_LEVEL env or logging.level config
//
// Usage:
//
//	debug.Log(debug.Providers, "request", "url", endpoint)
//	if debug.Enabled(debug.Engine) { /* expensive formatting */ }
//
// At TRACE level full provider request bodies are written to stderr.
// Callers must pass credentials through Redact first.
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Debug categories.
const (
	Providers = "providers"
	Engine    = "engine"
	Session   = "session"
	MCP       = "mcp"
	Auth      = "auth"
	Transport = "transport"
	Config    = "config"
	All       = "all"
)

// LevelTrace is below slog.LevelDebug for maximum verbosity.
const LevelTrace = slog.LevelDebug - 4

var (
	// categories is read-only after Init.
	categories map[string]bool

	rawOut io.Writer = os.Stderr
)

func init() {
	categories = parseCategories(os.Getenv("HEALTHCHAT_DEBUG"))
}

// Init configures categories and the default slog logger, which writes text
// records to w (stderr when nil). Environment values override the
// arguments. It returns the installed logger.
func Init(configCategories, configLevel string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	rawOut = w

	cats := os.Getenv("HEALTHCHAT_DEBUG")
	if cats == "" {
		cats = configCategories
	}
	categories = parseCategories(cats)

	level := os.Getenv("HEALTHCHAT_LOG_LEVEL")
	if level == "" {
		level = configLevel
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}))
	slog.SetDefault(logger)
	return logger
}

// Enabled reports whether debug output is active for the given category.
func Enabled(category string) bool {
	return categories[All] || categories[category]
}

// Log emits a debug record for the given category. No-op when the category
// is disabled.
func Log(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits a trace-level record for the given category.
func Trace(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(context.Background(), LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// TraceIsEnabled reports whether TRACE level is active for the given category.
func TraceIsEnabled(category string) bool {
	if !Enabled(category) {
		return false
	}
	return slog.Default().Enabled(context.Background(), LevelTrace)
}

// Raw writes plain text without slog formatting. Only emitted when the
// category is enabled and the level is TRACE.
func Raw(category string, text string) {
	if !TraceIsEnabled(category) {
		return
	}
	fmt.Fprintln(rawOut, text)
}

// ParseLevel converts a level string to a slog.Level. Unknown values map to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Categories returns the enabled categories, for status reporting.
func Categories() []string {
	var result []string
	for k := range categories {
		result = append(result, k)
	}
	return result
}

// Redact masks a secret for logging, keeping at most the last four characters.
func Redact(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return "****" + secret[len(secret)-4:]
}

// Truncate returns s truncated to maxLen bytes, with "..." appended if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	for _, cat := range strings.Split(s, ",") {
		cat = strings.TrimSpace(strings.ToLower(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
