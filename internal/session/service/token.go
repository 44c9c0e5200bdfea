package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/quillhaven/quill/internal/session/domain"
	"github.com/quillhaven/quill/internal/session/store"
	"github.com/quillhaven/quill/pkg/jwtx"
	"github.com/quillhaven/quill/pkg/slogx"
)

// TokenService mints, verifies, rotates, and revokes the dual-token
// credential. Access and refresh tokens are signed with distinct secrets and
// distinct TTLs; the refresh token is additionally pinned to the identity's
// session record so rotation and logout revoke it.
type TokenService struct {
	Access     *jwtx.Signer
	Refresh    *jwtx.Signer
	Identities store.Identities
	Sessions   store.SessionRecords
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issue mints a fresh pair for the identity and persists the refresh token
// into its session record, overwriting any prior value. The overwrite is
// what invalidates every previously issued refresh token.
func (s *TokenService) Issue(ctx context.Context, identityID string) (domain.TokenPair, domain.Identity, error) {
	now := time.Now()

	ident, err := s.Identities.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, domain.Identity{}, ErrNotFound
		}
		return domain.TokenPair{}, domain.Identity{}, err
	}

	access, err := s.Access.SignAccess(jwtx.NewAccessClaims(
		ident.ID, ident.Username, ident.Email, ident.DisplayName, ident.Role.String(),
		s.AccessTTL, s.Issuer, now,
	))
	if err != nil {
		return domain.TokenPair{}, domain.Identity{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshExpiry := now.Add(s.RefreshTTL)
	refresh, err := s.Refresh.SignRefresh(jwtx.NewRefreshClaims(ident.ID, s.RefreshTTL, s.Issuer, now))
	if err != nil {
		return domain.TokenPair{}, domain.Identity{}, fmt.Errorf("sign refresh token: %w", err)
	}

	err = s.Sessions.Put(ctx, domain.SessionRecord{
		IdentityID: ident.ID,
		Token:      refresh,
		ExpiresAt:  refreshExpiry.UTC(),
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, domain.Identity{}, ErrNotFound
		}
		return domain.TokenPair{}, domain.Identity{}, err
	}

	pair := domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}
	return pair, ident, nil
}

// VerifyAccess checks signature and expiry only. Access tokens are stateless:
// no storage lookup, and no revocation before their own expiry.
func (s *TokenService) VerifyAccess(token string) (jwtx.AccessClaims, error) {
	claims, err := s.Access.VerifyAccess(token)
	if err != nil {
		return jwtx.AccessClaims{}, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return claims, nil
}

// VerifyRefresh checks signature and expiry, then compares the presented
// token byte-for-byte against the session record. A mismatch, including an
// empty slot after rotation or logout, is an authentication failure rather
// than a decode failure.
func (s *TokenService) VerifyRefresh(ctx context.Context, token string) (jwtx.RefreshClaims, error) {
	claims, err := s.Refresh.VerifyRefresh(token)
	if err != nil {
		return jwtx.RefreshClaims{}, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	rec, err := s.Sessions.Get(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.RefreshClaims{}, fmt.Errorf("%w: no active session", ErrAuthentication)
		}
		return jwtx.RefreshClaims{}, err
	}

	if subtle.ConstantTimeCompare([]byte(rec.Token), []byte(token)) != 1 {
		slogx.FromContext(ctx).Warn("stale refresh token presented", "identity_id", claims.Subject)
		return jwtx.RefreshClaims{}, fmt.Errorf("%w: refresh token superseded", ErrAuthentication)
	}

	return claims, nil
}

// Rotate is the only path that produces a renewed session: verify the old
// refresh token, then issue a fresh pair for the same identity.
func (s *TokenService) Rotate(ctx context.Context, oldRefresh string) (domain.TokenPair, domain.Identity, error) {
	claims, err := s.VerifyRefresh(ctx, oldRefresh)
	if err != nil {
		return domain.TokenPair{}, domain.Identity{}, err
	}
	return s.Issue(ctx, claims.Subject)
}

// Revoke clears the identity's session record, killing its refresh token.
func (s *TokenService) Revoke(ctx context.Context, identityID string) error {
	return s.Sessions.Clear(ctx, identityID)
}
