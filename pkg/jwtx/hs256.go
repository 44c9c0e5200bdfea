package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret    = errors.New("jwtx: empty signing secret")
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
)

// Signer signs and verifies one family of HS256 tokens with a single shared
// secret. Access and refresh tokens each get their own Signer so that one
// family can never be replayed as the other.
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner returns a Signer for the given secret. An empty secret is a
// configuration fault, not something to limp along with.
func NewSigner(secret []byte, issuer string) (*Signer, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	return &Signer{secret: secret, issuer: issuer}, nil
}

// SignAccess serializes and signs access claims.
func (s *Signer) SignAccess(c AccessClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// SignRefresh serializes and signs refresh claims.
func (s *Signer) SignRefresh(c RefreshClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// VerifyAccess checks signature, expiry, and issuer of an access token and
// returns its claims. No storage lookup happens here.
func (s *Signer) VerifyAccess(token string) (AccessClaims, error) {
	var c AccessClaims
	if err := s.verify(token, &c); err != nil {
		return AccessClaims{}, err
	}
	return c, nil
}

// VerifyRefresh checks signature, expiry, and issuer of a refresh token.
// Callers still have to compare the presented token against the stored
// session record before trusting it.
func (s *Signer) VerifyRefresh(token string) (RefreshClaims, error) {
	var c RefreshClaims
	if err := s.verify(token, &c); err != nil {
		return RefreshClaims{}, err
	}
	return c, nil
}

func (s *Signer) verify(token string, into jwt.Claims) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)

	_, err := parser.ParseWithClaims(token, into, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return mapParseError(err)
	}
	return nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	default:
		return fmt.Errorf("jwtx: parse or verify: %w", err)
	}
}
