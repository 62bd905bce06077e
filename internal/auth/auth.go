// Package auth holds the in-memory authentication state for the current
// session: the user's OAuth token and profile. State changes fan out to
// subscribers so the UI and services observe login and logout without
// polling.
package auth

import (
	"sync"

	"golang.org/x/oauth2"
)

// Profile is the subset of the user's account needed by the application.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

// Store guards the session token and profile behind a mutex. The zero
// value is unusable, use [NewStore].
type Store struct {
	mu          sync.RWMutex
	token       *oauth2.Token
	profile     *Profile
	subscribers []func()
}

func NewStore() *Store {
	return &Store{}
}

// SetToken replaces the session token and notifies subscribers.
func (s *Store) SetToken(token *oauth2.Token) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.notify()
}

// Token returns the current session token, or nil when not logged in.
func (s *Store) Token() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a valid (non-expired) token is held.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil && s.token.Valid()
}

// SetProfile records the logged-in user's profile and notifies subscribers.
func (s *Store) SetProfile(profile *Profile) {
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	s.notify()
}

// Profile returns the logged-in user's profile, or nil when unknown.
func (s *Store) Profile() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Reset clears all session state (logout) and notifies subscribers.
func (s *Store) Reset() {
	s.mu.Lock()
	s.token = nil
	s.profile = nil
	s.mu.Unlock()
	s.notify()
}

// Subscribe registers a callback invoked after every state change. The
// callback runs on the mutating goroutine and must not call back into the
// store's setters.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}
