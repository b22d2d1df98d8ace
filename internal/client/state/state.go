// Package state holds the shared application state of the terminal client:
// authentication status, the signed-in identity and the active view.
//
// Components never mutate the state directly. They call Update with a
// mutation func; subscribers then receive a snapshot of the new state.
package state

import "sync"

type AuthStatus string

const (
	AuthLoading         AuthStatus = "loading"
	AuthAuthenticated   AuthStatus = "authenticated"
	AuthUnauthenticated AuthStatus = "unauthenticated"
)

type View string

const (
	ViewDashboard    View = "dashboard"
	ViewArchitecture View = "architecture"
)

// Identity is derived from the session; it is never persisted.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
	Address     string
}

// Snapshot is an immutable copy of the state.
type Snapshot struct {
	Auth     AuthStatus
	Identity *Identity
	View     View
}

type AppState struct {
	mu   sync.Mutex
	snap Snapshot

	subs    map[int]func(Snapshot)
	nextSub int
}

// New returns a state in AuthLoading on the dashboard view.
func New() *AppState {
	return &AppState{
		snap: Snapshot{Auth: AuthLoading, View: ViewDashboard},
		subs: map[int]func(Snapshot){},
	}
}

func (s *AppState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.clone()
}

// Update applies fn to a working copy and publishes the result. fn runs under
// the state lock and must not call back into the AppState.
func (s *AppState) Update(fn func(*Snapshot)) {
	s.mu.Lock()
	next := s.snap.clone()
	fn(&next)
	s.snap = next
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, f := range s.subs {
		subs = append(subs, f)
	}
	s.mu.Unlock()

	for _, f := range subs {
		f(next.clone())
	}
}

// Subscribe registers fn for every subsequent update.
func (s *AppState) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// SetView switches the active view.
func (s *AppState) SetView(v View) {
	s.Update(func(sn *Snapshot) { sn.View = v })
}

func (sn Snapshot) clone() Snapshot {
	if sn.Identity != nil {
		id := *sn.Identity
		sn.Identity = &id
	}
	return sn
}
