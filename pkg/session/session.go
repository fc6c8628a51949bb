// Package session keeps per-conversation orchestrators in memory.
//
// Each session owns one engine.Engine. Sessions are evicted least
// recently used first when the store is full, and expire after an idle
// period. Nothing survives a restart.
package session

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rhuss/healthchat/pkg/api"
	"github.com/rhuss/healthchat/pkg/debug"
	"github.com/rhuss/healthchat/pkg/engine"
	"github.com/rhuss/healthchat/pkg/observability"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Factory creates the engine for a new session.
type Factory func() (*engine.Engine, error)

// Options configures a Store.
type Options struct {
	// MaxSessions caps the number of live sessions. 0 means unlimited.
	MaxSessions int

	// IdleTTL expires sessions not used for this long. 0 disables expiry.
	IdleTTL time.Duration

	// DefaultCredential is preset into every new session when non-empty.
	DefaultCredential string

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// Session is one conversation. Its engine is only reachable through Do,
// which serializes access.
type Session struct {
	id string

	mu     sync.Mutex
	engine *engine.Engine
	closed atomic.Bool
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Do runs fn with exclusive access to the session's engine. It returns
// ErrNotFound without calling fn once the session has been removed from
// its store, including when removal happened while Do was waiting.
func (s *Session) Do(fn func(*engine.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrNotFound
	}
	return fn(s.engine)
}

// entry holds a session and its LRU bookkeeping.
type entry struct {
	sess     *Session
	lastUsed time.Time
	lruElem  *list.Element
}

// Store is an in-memory session registry with LRU eviction and idle expiry.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	lruList *list.List // front = most recently used
	factory Factory
	opts    Options
}

// NewStore creates an empty store.
func NewStore(factory Factory, opts Options) *Store {
	return &Store{
		entries: make(map[string]*entry),
		lruList: list.New(),
		factory: factory,
		opts:    opts,
	}
}

func (s *Store) now() time.Time {
	if s.opts.Now == nil {
		return time.Now()
	}
	return s.opts.Now()
}

// Create starts a new session, evicting the least recently used one when
// the store is full.
func (s *Store) Create() (*Session, error) {
	eng, err := s.factory()
	if err != nil {
		return nil, err
	}
	if s.opts.DefaultCredential != "" {
		eng.SetCredential(s.opts.DefaultCredential)
	}

	now := s.now()
	sess := &Session{
		id:     api.NewSessionID(),
		engine: eng,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.MaxSessions > 0 && len(s.entries) >= s.opts.MaxSessions {
		s.evictOldest()
	}

	elem := s.lruList.PushFront(sess.id)
	s.entries[sess.id] = &entry{sess: sess, lastUsed: now, lruElem: elem}
	observability.SessionsActive.Set(float64(len(s.entries)))
	debug.Log(debug.Session, "session created", "session", sess.id, "active", len(s.entries))

	return sess, nil
}

// Get returns a live session and marks it as recently used. Expired
// sessions are removed and reported as ErrNotFound.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}

	now := s.now()
	if s.expired(e, now) {
		s.remove(e)
		observability.SessionsEvictedTotal.WithLabelValues("idle").Inc()
		return nil, ErrNotFound
	}

	e.lastUsed = now
	s.lruList.MoveToFront(e.lruElem)
	return e.sess, nil
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}
	s.remove(e)
	debug.Log(debug.Session, "session deleted", "session", id)
	return nil
}

// Len returns the number of sessions held, including expired sessions
// not yet swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes all idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	if s.opts.IdleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	// Walk from the back: least recently used sessions expire first.
	for elem := s.lruList.Back(); elem != nil; {
		prev := elem.Prev()
		e := s.entries[elem.Value.(string)]
		if !s.expired(e, now) {
			break
		}
		s.remove(e)
		removed++
		elem = prev
	}

	if removed > 0 {
		observability.SessionsEvictedTotal.WithLabelValues("idle").Add(float64(removed))
		debug.Log(debug.Session, "idle sessions swept", "removed", removed, "active", len(s.entries))
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	if s.opts.IdleTTL <= 0 || interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.opts.IdleTTL > 0 && now.Sub(e.lastUsed) > s.opts.IdleTTL
}

// remove drops an entry. Caller must hold s.mu.
func (s *Store) remove(e *entry) {
	e.sess.closed.Store(true)
	s.lruList.Remove(e.lruElem)
	delete(s.entries, e.sess.id)
	observability.SessionsActive.Set(float64(len(s.entries)))
}

// evictOldest removes the least recently used session.
// Caller must hold s.mu.
func (s *Store) evictOldest() {
	back := s.lruList.Back()
	if back == nil {
		return
	}
	id := back.Value.(string)
	s.remove(s.entries[id])
	observability.SessionsEvictedTotal.WithLabelValues("lru").Inc()
	debug.Log(debug.Session, "session evicted", "session", id, "reason", "lru")
}
