package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillhaven/quill/pkg/sessionsdk"
)

// End-to-end flows: the real client SDK against the real router.

func newTestServer(t *testing.T) (*httptest.Server, *sessionsdk.SessionManager) {
	t.Helper()

	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	manager := sessionsdk.NewSessionManager(
		sessionsdk.NewSDKClient(srv.URL),
		sessionsdk.NewMemoryStorage(),
	)
	return srv, manager
}

func TestEndToEndSessionLifecycle(t *testing.T) {
	srv, manager := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, manager.Register(ctx, sessionsdk.RegisterRequest{
		Username:    "alice",
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "Password1!",
	}))
	require.Equal(t, sessionsdk.StateAuthenticated, manager.Store().State())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/me", nil)
	require.NoError(t, err)
	resp, err := manager.Do(ctx, req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, manager.Logout(ctx))
	require.Equal(t, sessionsdk.StateAnonymous, manager.Store().State())

	// After logout, the 401 passes through untouched.
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/me", nil)
	require.NoError(t, err)
	resp, err = manager.Do(ctx, req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEndToEndStaleAccessTokenIsRenewed(t *testing.T) {
	srv, manager := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, manager.Register(ctx, sessionsdk.RegisterRequest{
		Username:    "alice",
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "Password1!",
	}))

	// Simulate a stale persisted session: the refresh token is still good
	// but the access token is garbage.
	manager.Store().RotateTokens(sessionsdk.TokenPair{
		AccessToken:  "stale-access-token",
		RefreshToken: manager.Store().RefreshToken(),
		TokenType:    "Bearer",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/me", nil)
	require.NoError(t, err)
	resp, err := manager.Do(ctx, req)
	require.NoError(t, err)
	resp.Body.Close()

	// The manager renewed behind the scenes and replayed the call.
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, sessionsdk.StateAuthenticated, manager.Store().State())
	require.NotEqual(t, "stale-access-token", manager.Store().AccessToken())
}

func TestEndToEndDeadSessionForcesLogout(t *testing.T) {
	srv, manager := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, manager.Register(ctx, sessionsdk.RegisterRequest{
		Username:    "alice",
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "Password1!",
	}))

	// Both tokens are garbage: renewal cannot succeed.
	manager.Store().RotateTokens(sessionsdk.TokenPair{
		AccessToken:  "stale-access-token",
		RefreshToken: "stale-refresh-token",
		TokenType:    "Bearer",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/me", nil)
	require.NoError(t, err)
	_, err = manager.Do(ctx, req)
	require.ErrorIs(t, err, sessionsdk.ErrSessionExpired)
	require.Equal(t, sessionsdk.StateAnonymous, manager.Store().State())
}
