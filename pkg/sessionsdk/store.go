package sessionsdk

import (
	"sync"
)

// State is the authentication phase of an AuthStore.
type State string

const (
	// StateAnonymous means no credentials are held.
	StateAnonymous State = "anonymous"
	// StateLoading means a credential operation is in flight.
	StateLoading State = "loading"
	// StateAuthenticated means a token pair and identity are held.
	StateAuthenticated State = "authenticated"
)

// Snapshot is a point-in-time copy of the store's observable state.
type Snapshot struct {
	State        State
	Identity     *Identity
	AccessToken  string
	RefreshToken string
	LastError    error
}

// AuthStore holds the client's session state: the current phase, the active
// identity and token pair, and the last error. Mutations are atomic and the
// token pair is persisted through the configured Storage so a session
// survives process restarts.
//
// Logout is deliberately infallible from the caller's perspective: whatever
// the durable storage does, the in-memory state always ends anonymous.
type AuthStore struct {
	mu       sync.RWMutex
	state    State
	identity *Identity
	access   string
	refresh  string
	lastErr  error
	storage  Storage
}

// NewAuthStore creates a store backed by storage, restoring any previously
// persisted session. A corrupt or unreadable snapshot degrades to anonymous
// rather than failing.
func NewAuthStore(storage Storage) *AuthStore {
	s := &AuthStore{state: StateAnonymous, storage: storage}
	if storage == nil {
		return s
	}

	persisted, err := storage.Load()
	if err != nil || persisted == nil || persisted.RefreshToken == "" {
		return s
	}

	identity := persisted.Identity
	s.state = StateAuthenticated
	s.identity = &identity
	s.access = persisted.AccessToken
	s.refresh = persisted.RefreshToken
	return s
}

// Snapshot returns a copy of the current state.
func (s *AuthStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var identity *Identity
	if s.identity != nil {
		cp := *s.identity
		identity = &cp
	}
	return Snapshot{
		State:        s.state,
		Identity:     identity,
		AccessToken:  s.access,
		RefreshToken: s.refresh,
		LastError:    s.lastErr,
	}
}

// State returns the current phase.
func (s *AuthStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// AccessToken returns the held access token, or "" when anonymous.
func (s *AuthStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RefreshToken returns the held refresh token, or "" when anonymous.
func (s *AuthStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// setLoading marks a credential operation as in flight.
func (s *AuthStore) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateLoading
	s.lastErr = nil
}

// Establish installs a fresh identity and token pair, moving the store to
// authenticated and persisting the session.
func (s *AuthStore) Establish(identity Identity, pair TokenPair) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateAuthenticated
	s.identity = &identity
	s.access = pair.AccessToken
	s.refresh = pair.RefreshToken
	s.lastErr = nil
	s.persistLocked()
}

// RotateTokens swaps in a renewed token pair, keeping the identity.
func (s *AuthStore) RotateTokens(pair TokenPair) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = pair.AccessToken
	s.refresh = pair.RefreshToken
	s.state = StateAuthenticated
	s.persistLocked()
}

// Logout drops all credentials and clears durable storage. The in-memory
// state ends anonymous regardless of storage errors; the storage error, if
// any, is retained as LastError.
func (s *AuthStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateAnonymous
	s.identity = nil
	s.access = ""
	s.refresh = ""
	s.lastErr = nil
	if s.storage != nil {
		if err := s.storage.Clear(); err != nil {
			s.lastErr = err
		}
	}
}

// fail records an error from a credential operation and returns to
// anonymous.
func (s *AuthStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.identity = nil
	s.access = ""
	s.refresh = ""
	s.lastErr = err
}

// persistLocked writes the current session to storage. Callers hold s.mu.
// Persistence failure never blocks the in-memory session.
func (s *AuthStore) persistLocked() {
	if s.storage == nil {
		return
	}
	var identity Identity
	if s.identity != nil {
		identity = *s.identity
	}
	err := s.storage.Save(&PersistedSession{
		Identity:     identity,
		AccessToken:  s.access,
		RefreshToken: s.refresh,
	})
	if err != nil {
		s.lastErr = err
	}
}
