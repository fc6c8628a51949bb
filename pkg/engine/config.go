package engine

import (
	"slices"
	"time"
)

// DefaultHistoryWindow is the number of messages retained when
// Config.HistoryWindow is not set.
const DefaultHistoryWindow = 10

// DefaultSuggestedModels are offered when the provider reports that the
// configured model is not found or not supported.
var DefaultSuggestedModels = []string{"gemini-1.5-flash", "gemini-1.0-pro"}

// Config holds configuration for the orchestrator.
type Config struct {
	// HistoryWindow is the maximum number of messages kept in history.
	// Zero or negative means DefaultHistoryWindow.
	HistoryWindow int

	// SuggestedModels lists alternative model identifiers named in the
	// error text when the configured model is unavailable. Nil means
	// DefaultSuggestedModels.
	SuggestedModels []string

	// Now returns the current time for message timestamps. Nil means
	// time.Now.
	Now func() time.Time
}

// window returns the effective history window.
func (c Config) window() int {
	if c.HistoryWindow <= 0 {
		return DefaultHistoryWindow
	}
	return c.HistoryWindow
}

func (c Config) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// suggestions returns the alternative models to name for the given
// current model, excluding it unless nothing else would remain.
func (c Config) suggestions(current string) []string {
	models := c.SuggestedModels
	if models == nil {
		models = DefaultSuggestedModels
	}
	out := slices.DeleteFunc(slices.Clone(models), func(m string) bool { return m == current })
	if len(out) == 0 {
		return slices.Clone(models)
	}
	return out
}
