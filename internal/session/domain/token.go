package domain

import "time"

// TokenPair is what issuance and rotation hand back: the short-lived access
// token and the long-lived refresh token, both signed JWTs.
type TokenPair struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	TokenType    string        `json:"tokenType,omitempty"` // always "Bearer"
	ExpiresIn    time.Duration `json:"-"`
}

// SessionRecord is the server-held single-valid-refresh-token slot for one
// identity. Storing the exact token value (not a hash) is carried over from
// the original behavior; rotation overwrites it, logout clears it.
type SessionRecord struct {
	IdentityID string
	Token      string
	ExpiresAt  time.Time
}
