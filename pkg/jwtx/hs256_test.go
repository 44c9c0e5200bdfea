package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "quill-test"

func testSigner(t *testing.T, secret string) *Signer {
	t.Helper()
	s, err := NewSigner([]byte(secret), testIssuer)
	require.NoError(t, err)
	return s
}

func TestNewSignerRejectsEmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewSigner(nil, testIssuer)
	require.ErrorIs(t, err, ErrNoSecret)
}

func TestSignAndVerifyAccess(t *testing.T) {
	t.Parallel()

	s := testSigner(t, "access-secret")
	now := time.Now()

	claims := NewAccessClaims("01ABC", "alice", "alice@example.com", "Alice", "author", time.Minute, testIssuer, now)
	token, err := s.SignAccess(claims)
	require.NoError(t, err)

	got, err := s.VerifyAccess(token)
	require.NoError(t, err)
	require.Equal(t, "01ABC", got.Subject)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "Alice", got.DisplayName)
	require.Equal(t, "author", got.Role)
}

func TestVerifyAccessRejectsExpired(t *testing.T) {
	t.Parallel()

	s := testSigner(t, "access-secret")
	stale := time.Now().Add(-time.Hour)

	claims := NewAccessClaims("01ABC", "alice", "", "", "reader", time.Minute, testIssuer, stale)
	token, err := s.SignAccess(claims)
	require.NoError(t, err)

	_, err = s.VerifyAccess(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issue := testSigner(t, "secret-a")
	verify := testSigner(t, "secret-b")

	token, err := issue.SignRefresh(NewRefreshClaims("01ABC", time.Minute, testIssuer, time.Now()))
	require.NoError(t, err)

	_, err = verify.VerifyRefresh(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	t.Parallel()

	s := testSigner(t, "secret")
	token, err := s.SignRefresh(NewRefreshClaims("01ABC", time.Minute, testIssuer, time.Now()))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = s.VerifyRefresh(tampered)
	require.Error(t, err)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	other, err := NewSigner([]byte("secret"), "someone-else")
	require.NoError(t, err)
	token, err := other.SignAccess(NewAccessClaims("01ABC", "a", "", "", "reader", time.Minute, "someone-else", time.Now()))
	require.NoError(t, err)

	s := testSigner(t, "secret")
	_, err = s.VerifyAccess(token)
	require.ErrorIs(t, err, ErrIssuer)
}
