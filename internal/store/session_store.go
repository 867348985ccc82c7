// internal/store/session_store.go
package store

import (
	"sync"

	sessdom "sweetshop/internal/domain/session"
)

// SessionState is an immutable snapshot of the auth/session slice.
//
// Loading starts true ("booting") and goes false exactly once per boot:
// either when the sync coordinator finishes the first auth resolution or when
// the boot ceiling fires. The UI must never hang on a slow identity provider.
type SessionState struct {
	User    *sessdom.Identity
	IsAdmin bool
	Loading bool
	Err     error
}

// Authenticated reports whether a user is present.
func (s SessionState) Authenticated() bool {
	return s.User != nil
}

// clone detaches the identity pointer so snapshot holders cannot reach the
// store's copy.
func (s SessionState) clone() SessionState {
	if s.User != nil {
		cp := *s.User
		s.User = &cp
	}
	return s
}

// SessionStore owns the session state. All operations are synchronous state
// transitions; nothing here may block.
type SessionStore struct {
	mu    sync.Mutex
	state SessionState
	subs  []func(SessionState)
}

func NewSessionStore() *SessionStore {
	return &SessionStore{state: SessionState{Loading: true}}
}

// Subscribe registers a callback invoked with a snapshot after every
// transition. Callbacks run outside the store lock and may call back into
// the store.
func (s *SessionStore) Subscribe(fn func(SessionState)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// State returns the current snapshot.
func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// SetUser replaces the current identity (nil means anonymous) and, as a side
// effect, clears the loading flag: a user transition is an auth resolution.
func (s *SessionStore) SetUser(u *sessdom.Identity) {
	s.transition(func(st *SessionState) {
		if u != nil {
			cp := *u
			st.User = &cp
		} else {
			st.User = nil
		}
		st.Loading = false
	})
}

// SetAdmin sets the admin flag.
func (s *SessionStore) SetAdmin(isAdmin bool) {
	s.transition(func(st *SessionState) { st.IsAdmin = isAdmin })
}

// SetLoading sets the boot/loading flag.
func (s *SessionStore) SetLoading(loading bool) {
	s.transition(func(st *SessionState) { st.Loading = loading })
}

// SetError records a session-level error (surfaced by the UI, not fatal).
func (s *SessionStore) SetError(err error) {
	s.transition(func(st *SessionState) { st.Err = err })
}

// Clear resets identity, admin flag and error. Used on logout. The loading
// flag is left alone: logout is not a boot.
func (s *SessionStore) Clear() {
	s.transition(func(st *SessionState) {
		st.User = nil
		st.IsAdmin = false
		st.Err = nil
	})
}

func (s *SessionStore) transition(mutate func(*SessionState)) {
	s.mu.Lock()
	mutate(&s.state)
	snap := s.state.clone()
	subs := make([]func(SessionState), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
