package sessionsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// SessionManager is the high-level entry point of the SDK. It owns the
// AuthStore and RefreshCoordinator and decorates outgoing requests with the
// session's access token, renewing it transparently when the server rejects
// it.
type SessionManager struct {
	client      *SDKClient
	store       *AuthStore
	coordinator *RefreshCoordinator
}

// NewSessionManager wires a manager around client with the given durable
// storage. A previously persisted session is restored as authenticated; the
// first 401 will validate it against the server.
func NewSessionManager(client *SDKClient, storage Storage) *SessionManager {
	store := NewAuthStore(storage)
	return &SessionManager{
		client:      client,
		store:       store,
		coordinator: NewRefreshCoordinator(client, store),
	}
}

// Store exposes the session state for observation.
func (m *SessionManager) Store() *AuthStore {
	return m.store
}

// Login authenticates with a username and password and establishes the
// session.
func (m *SessionManager) Login(ctx context.Context, username, password string) error {
	m.store.setLoading()
	payload, err := m.client.Login(ctx, username, password)
	if err != nil {
		m.store.fail(err)
		return err
	}
	m.store.Establish(payload.Identity, payload.TokenPair)
	return nil
}

// Register creates an account and establishes the session.
func (m *SessionManager) Register(ctx context.Context, req RegisterRequest) error {
	m.store.setLoading()
	payload, err := m.client.Register(ctx, req)
	if err != nil {
		m.store.fail(err)
		return err
	}
	m.store.Establish(payload.Identity, payload.TokenPair)
	return nil
}

// FederatedLogin authenticates with an external OIDC ID token and
// establishes the session.
func (m *SessionManager) FederatedLogin(ctx context.Context, idToken string) error {
	m.store.setLoading()
	payload, err := m.client.FederatedLogin(ctx, idToken)
	if err != nil {
		m.store.fail(err)
		return err
	}
	m.store.Establish(payload.Identity, payload.TokenPair)
	return nil
}

// Logout ends the session in three phases: the store moves to loading, the
// server-side revocation runs best effort, and the store settles anonymous
// with durable storage cleared. An unreachable or failing server never
// prevents the local session from terminating.
func (m *SessionManager) Logout(ctx context.Context) error {
	access := m.store.AccessToken()
	m.store.setLoading()

	var revokeErr error
	if access != "" {
		revokeErr = m.client.Logout(ctx, access)
	}

	m.store.Logout()

	if revokeErr != nil {
		return fmt.Errorf("server-side revocation failed (session cleared locally): %w", revokeErr)
	}
	return nil
}

// Do sends req with the session's access token attached. When an
// authenticated request comes back 401 the manager renews the token pair
// through the coordinator and replays the request exactly once; a second 401
// or a failed renewal forces the session to anonymous. Anonymous requests
// pass through untouched, 401s included. The worst case for any single call
// is two trips to the endpoint plus one renewal.
//
// Replay needs a rewindable body: requests built by http.NewRequest from a
// bytes or strings reader get one automatically (req.GetBody). A 401 on a
// non-rewindable body is returned as-is after the renewal.
func (m *SessionManager) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	access := m.store.AccessToken()
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := m.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusUnauthorized || access == "" {
		return resp, nil
	}

	// The server rejected credentials we believed were valid: renew once.
	// The original response is only consumed once a replay is possible, so
	// a non-rewindable 401 goes back to the caller with its body intact.
	retry, rewindErr := rewind(ctx, req)
	if rewindErr == nil {
		drain(resp)
	}

	if _, err := m.coordinator.Rotate(ctx); err != nil {
		if rewindErr != nil {
			drain(resp)
		}
		m.store.Logout()
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	if rewindErr != nil {
		return resp, nil
	}
	retry.Header.Set("Authorization", "Bearer "+m.store.AccessToken())

	resp2, err := m.client.HTTPClient.Do(retry)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp2.StatusCode == http.StatusUnauthorized {
		// Fresh tokens were rejected too. No further retries; the session
		// cannot be trusted.
		m.store.Logout()
	}
	return resp2, nil
}

// rewind clones req for replay, reconstructing the body via GetBody.
func rewind(ctx context.Context, req *http.Request) (*http.Request, error) {
	clone := req.Clone(ctx)
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("request body is not rewindable")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("failed to rewind request body: %w", err)
	}
	clone.Body = body
	return clone, nil
}

// drain discards and closes a response body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
