package transport

import (
	"context"
	"sync"
)

// InFlightRegistry tracks the pending provider call of each session so it
// can be cancelled when the session is deleted. Sessions serialize their
// exchanges, so at most one call per key is registered at a time.
//
// All methods are safe for concurrent access.
type InFlightRegistry struct {
	mu      sync.Mutex
	entries map[string]*inflightEntry
}

type inflightEntry struct {
	cancel context.CancelFunc
}

// NewInFlightRegistry creates a new empty registry.
func NewInFlightRegistry() *InFlightRegistry {
	return &InFlightRegistry{
		entries: make(map[string]*inflightEntry),
	}
}

// Track derives a cancellable context for key and registers it. The
// returned release function unregisters the entry and releases the
// context; callers must defer it.
func (r *InFlightRegistry) Track(ctx context.Context, key string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	e := &inflightEntry{cancel: cancel}

	r.mu.Lock()
	r.entries[key] = e
	r.mu.Unlock()

	return ctx, func() {
		r.mu.Lock()
		if r.entries[key] == e {
			delete(r.entries, key)
		}
		r.mu.Unlock()
		cancel()
	}
}

// Cancel cancels the pending call for key. It reports whether a call was
// pending.
func (r *InFlightRegistry) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return false
	}
	e.cancel()
	delete(r.entries, key)
	return true
}

// Len returns the number of pending calls.
func (r *InFlightRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
