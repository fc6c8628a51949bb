package engine

import (
	"slices"

	"github.com/rhuss/healthchat/pkg/api"
)

// history is a bounded FIFO of messages. The oldest entries are dropped
// first once the window is exceeded, regardless of role.
type history struct {
	window   int
	messages []api.Message
}

func newHistory(window int) *history {
	return &history{window: window}
}

// append adds msg at the tail and evicts from the head until the length
// is within the window. It returns the number of evicted messages.
func (h *history) append(msg api.Message) int {
	h.messages = append(h.messages, msg)
	over := len(h.messages) - h.window
	if over <= 0 {
		return 0
	}
	// Copy into a fresh slice so evicted messages are not pinned by the
	// backing array.
	h.messages = slices.Clone(h.messages[over:])
	return over
}

// snapshot returns a copy that callers may modify freely.
func (h *history) snapshot() []api.Message {
	out := make([]api.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *history) len() int {
	return len(h.messages)
}

func (h *history) clear() {
	h.messages = nil
}
