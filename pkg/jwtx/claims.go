package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access tokens are short-lived because they cannot be
// revoked before expiry; refresh tokens live long enough to span a browser
// session but are invalidated server-side on every rotation.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// AccessClaims is the stateless access-token claim set. Everything a request
// handler needs about the caller travels in the token itself; nothing is
// looked up server-side when verifying.
type AccessClaims struct {
	jwt.RegisteredClaims

	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role,omitempty"`
}

// RefreshClaims carries only the identity id. The token is only half the
// credential: the presented string must also match the session record stored
// for that identity.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// NewAccessClaims builds minimally-correct access claims.
func NewAccessClaims(
	identityID, username, email, displayName, role string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) AccessClaims {
	return AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Username:    username,
		Email:       email,
		DisplayName: displayName,
		Role:        role,
	}
}

// NewRefreshClaims builds refresh claims for an identity.
func NewRefreshClaims(identityID string, ttl time.Duration, issuer string, now time.Time) RefreshClaims {
	return RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. Besides
// giving each token a stable identity in logs, it guarantees two tokens
// minted within the same second still differ byte-for-byte, which rotation
// depends on.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
