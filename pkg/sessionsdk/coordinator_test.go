package sessionsdk

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRotateSingleFlight(t *testing.T) {
	svc := &fakeService{refreshDelay: 50 * time.Millisecond}
	srv := httptest.NewServer(svc.handler())
	t.Cleanup(srv.Close)

	client := NewSDKClient(srv.URL)
	store := NewAuthStore(NewMemoryStorage())
	coordinator := NewRefreshCoordinator(client, store)

	// Seed matching client and server state.
	svc.mu.Lock()
	payload := svc.issue()
	svc.mu.Unlock()
	store.Establish(payload.Identity, payload.TokenPair)

	const callers = 8
	var wg sync.WaitGroup
	pairs := make([]TokenPair, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pairs[i], errs[i] = coordinator.Rotate(context.Background())
		}(i)
	}
	wg.Wait()

	// Every caller resolved from the same single network rotation.
	require.Equal(t, int32(1), svc.refreshCalls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, pairs[0], pairs[i])
	}

	// The store observed the rotated pair before any waiter resolved.
	require.Equal(t, pairs[0].RefreshToken, store.RefreshToken())
	require.Equal(t, pairs[0].AccessToken, store.AccessToken())
}

func TestRotateSlotClearsAfterSettling(t *testing.T) {
	svc := &fakeService{}
	srv := httptest.NewServer(svc.handler())
	t.Cleanup(srv.Close)

	store := NewAuthStore(NewMemoryStorage())
	coordinator := NewRefreshCoordinator(NewSDKClient(srv.URL), store)

	svc.mu.Lock()
	payload := svc.issue()
	svc.mu.Unlock()
	store.Establish(payload.Identity, payload.TokenPair)

	first, err := coordinator.Rotate(context.Background())
	require.NoError(t, err)

	second, err := coordinator.Rotate(context.Background())
	require.NoError(t, err)

	require.Equal(t, int32(2), svc.refreshCalls.Load())
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestRotateSurfacesFailureToAllWaiters(t *testing.T) {
	svc := &fakeService{refreshFail: true, refreshDelay: 20 * time.Millisecond}
	srv := httptest.NewServer(svc.handler())
	t.Cleanup(srv.Close)

	store := NewAuthStore(NewMemoryStorage())
	coordinator := NewRefreshCoordinator(NewSDKClient(srv.URL), store)

	svc.mu.Lock()
	payload := svc.issue()
	svc.mu.Unlock()
	store.Establish(payload.Identity, payload.TokenPair)

	const callers = 4
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = coordinator.Rotate(context.Background())
		}(i)
	}
	wg.Wait()

	require.Equal(t, int32(1), svc.refreshCalls.Load())
	for i := 0; i < callers; i++ {
		require.Error(t, errs[i])
		require.True(t, IsAuthenticationError(errs[i]))
	}
}

func TestRotateWithoutSessionFails(t *testing.T) {
	store := NewAuthStore(nil)
	coordinator := NewRefreshCoordinator(NewSDKClient("http://127.0.0.1:0"), store)

	_, err := coordinator.Rotate(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
}
