package sessionsdk

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// RefreshCoordinator funnels concurrent token renewals into a single network
// rotation. While a rotation is in flight every additional caller waits on
// the same result; once it settles the slot clears and the next renewal will
// go to the network again.
type RefreshCoordinator struct {
	client *SDKClient
	store  *AuthStore
	group  singleflight.Group
}

// NewRefreshCoordinator creates a coordinator renewing against client and
// publishing results into store.
func NewRefreshCoordinator(client *SDKClient, store *AuthStore) *RefreshCoordinator {
	return &RefreshCoordinator{client: client, store: store}
}

// Rotate renews the session's token pair. Concurrent callers share one
// round-trip. On success the new pair is published to the AuthStore before
// any waiter resolves, so every caller observes the rotated state. Failures
// are surfaced to all waiters without any internal retry; escalation policy
// belongs to the caller.
//
// The shared round-trip runs on the first caller's context: cancelling a
// waiter's context abandons that waiter, not the rotation itself.
func (c *RefreshCoordinator) Rotate(ctx context.Context) (TokenPair, error) {
	v, err, _ := c.group.Do("rotate", func() (any, error) {
		refresh := c.store.RefreshToken()
		if refresh == "" {
			return nil, ErrNotAuthenticated
		}

		payload, err := c.client.Refresh(ctx, refresh)
		if err != nil {
			return nil, fmt.Errorf("token rotation failed: %w", err)
		}

		// Publish before waiters resolve.
		c.store.RotateTokens(payload.TokenPair)
		return payload.TokenPair, nil
	})
	if err != nil {
		return TokenPair{}, err
	}
	return v.(TokenPair), nil
}
