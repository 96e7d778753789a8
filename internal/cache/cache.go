// Package cache holds the process-local query caches of the messaging layer.
//
// Entries are keyed by a composite key (scope + id). An entry can be valid or
// invalidated: invalidated entries are still readable as stale data so a
// failed refresh leaves the last known value available. A store may also
// bound how long a fetched value counts as valid. Invalidation is broadcast
// to subscribers, which is how one component tells another that its view is
// out of date.
package cache

import (
	"sync"
	"time"
)

type Key struct {
	Scope string
	ID    string
}

func (k Key) String() string { return k.Scope + ":" + k.ID }

const (
	ScopeConversations = "conversations"
	ScopeMessages      = "messages"
)

// ConversationsKey addresses the conversation list of a user.
func ConversationsKey(userID string) Key { return Key{Scope: ScopeConversations, ID: userID} }

// MessagesKey addresses one viewer's copy of a conversation thread. Threads
// are cached per viewer so a cached read never skips the participant check.
func MessagesKey(viewerID, conversationID string) Key {
	return Key{Scope: ScopeMessages, ID: viewerID + "/" + conversationID}
}

type entry[V any] struct {
	value    V
	valid    bool
	storedAt time.Time
}

type Listener func(key Key)

type Store[V any] struct {
	mu        sync.RWMutex
	entries   map[Key]*entry[V]
	listeners map[int]Listener
	nextID    int
	maxAge    time.Duration
	now       func() time.Time
}

func New[V any]() *Store[V] {
	return NewWithMaxAge[V](0)
}

// NewWithMaxAge returns a store whose entries stop being valid maxAge after
// they were Set. Local edits through Update do not extend that. Zero means
// entries stay valid until invalidated.
func NewWithMaxAge[V any](maxAge time.Duration) *Store[V] {
	return &Store[V]{
		entries:   make(map[Key]*entry[V]),
		listeners: make(map[int]Listener),
		maxAge:    maxAge,
		now:       time.Now,
	}
}

// Get returns the value only if the entry exists, has not been invalidated
// and has not outlived the store's max age.
func (s *Store[V]) Get(key Key) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || !s.fresh(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) fresh(e *entry[V]) bool {
	if !e.valid {
		return false
	}
	return s.maxAge <= 0 || s.now().Sub(e.storedAt) < s.maxAge
}

// GetStale returns the last stored value, valid or not.
func (s *Store[V]) GetStale(key Key) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Set(key Key, value V) {
	s.mu.Lock()
	s.entries[key] = &entry[V]{value: value, valid: true, storedAt: s.now()}
	s.mu.Unlock()
}

// Update applies fn to an existing entry, valid or stale, keeping its
// validity. It reports whether an entry was present.
func (s *Store[V]) Update(key Key, fn func(V) V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return false
	}
	e.value = fn(e.value)
	return true
}

// UpdateValid is Update restricted to entries that are still valid.
func (s *Store[V]) UpdateValid(key Key, fn func(V) V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !s.fresh(e) {
		return false
	}
	e.value = fn(e.value)
	return true
}

// Invalidate marks the entry stale and notifies listeners. Listeners are
// notified even when nothing was cached under key.
func (s *Store[V]) Invalidate(key Key) {
	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		e.valid = false
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(key)
	}
}

// Subscribe registers l for invalidation events. The returned function
// removes it.
func (s *Store[V]) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
