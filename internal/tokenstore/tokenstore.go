// Package tokenstore holds the in-memory bearer token and the single
// callback run when the server rejects it.
package tokenstore

import "sync"

// Store is safe for concurrent use. The zero value is ready to use.
type Store struct {
	mu      sync.Mutex
	token   string
	handler func()
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Set replaces the current token.
func (s *Store) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Get returns the current token and whether one is set.
func (s *Store) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Clear removes the current token.
func (s *Store) Clear() {
	s.Set("")
}

// SetOnUnauthorized registers fn as the unauthorized handler, replacing any
// previous one. nil deregisters.
func (s *Store) SetOnUnauthorized(fn func()) {
	s.mu.Lock()
	s.handler = fn
	s.mu.Unlock()
}

// TriggerUnauthorized starts the registered handler on its own goroutine and
// returns without waiting for it. With no handler it does nothing.
func (s *Store) TriggerUnauthorized() {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	if h != nil {
		go h()
	}
}
